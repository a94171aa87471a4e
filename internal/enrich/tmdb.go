package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
const defaultCacheTTL = 24 * time.Hour

// errNotFound signals a 404 from the provider. It never escapes the client;
// lookups translate it into a zero-value result.
var errNotFound = errors.New("tmdb: not found")

// TMDBClient implements Enricher against The Movie Database API.
type TMDBClient struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	cache        *cache
	logger       *slog.Logger
}

var _ Enricher = (*TMDBClient)(nil)

// Option configures a TMDBClient.
type Option func(*TMDBClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *TMDBClient) {
		c.baseURL = url
	}
}

// WithImageBaseURL sets a custom image base URL.
func WithImageBaseURL(url string) Option {
	return func(c *TMDBClient) {
		c.imageBaseURL = url
	}
}

// WithCacheTTL sets the response cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *TMDBClient) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TMDBClient) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *TMDBClient) {
		c.logger = logger
	}
}

// NewTMDBClient creates a new TMDB client.
func NewTMDBClient(apiKey string, opts ...Option) *TMDBClient {
	c := &TMDBClient{
		apiKey:       apiKey,
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:  newCache(defaultCacheTTL),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchBestFilm searches films by title and returns the closest match.
func (c *TMDBClient) SearchBestFilm(ctx context.Context, title string) (Film, error) {
	var page searchPage
	found, err := c.getJSON(ctx, "/3/search/movie?query="+url.QueryEscape(title), &page)
	if err != nil {
		return Film{}, err
	}
	if !found || len(page.Results) == 0 {
		return Film{}, nil
	}

	titles := make([]string, len(page.Results))
	for i, r := range page.Results {
		titles[i] = r.DisplayTitle()
	}
	idx := bestIndex(title, titles)
	if idx < 0 {
		return Film{}, nil
	}
	return c.FetchFilmByID(ctx, page.Results[idx].ID)
}

// SearchBestSeries searches series by title and returns the closest match.
func (c *TMDBClient) SearchBestSeries(ctx context.Context, title string) (Series, error) {
	var page searchPage
	found, err := c.getJSON(ctx, "/3/search/tv?query="+url.QueryEscape(title), &page)
	if err != nil {
		return Series{}, err
	}
	if !found || len(page.Results) == 0 {
		return Series{}, nil
	}

	titles := make([]string, len(page.Results))
	for i, r := range page.Results {
		titles[i] = r.DisplayTitle()
	}
	idx := bestIndex(title, titles)
	if idx < 0 {
		return Series{}, nil
	}
	return c.FetchSeriesByID(ctx, page.Results[idx].ID)
}

// FetchFilmByID fetches film details by TMDB id.
func (c *TMDBClient) FetchFilmByID(ctx context.Context, tmdbID int64) (Film, error) {
	var d movieDetails
	found, err := c.getJSON(ctx, fmt.Sprintf("/3/movie/%d?append_to_response=credits", tmdbID), &d)
	if err != nil {
		return Film{}, err
	}
	if !found {
		return Film{}, nil
	}

	return Film{
		TMDBID:     d.ID,
		Title:      d.Title,
		Year:       yearOf(d.ReleaseDate),
		Genres:     genreNames(d.Genres),
		Director:   d.Credits.director(),
		Cast:       d.Credits.topCast(),
		RuntimeMin: d.Runtime,
		Budget:     d.Budget,
		Revenue:    d.Revenue,
		PosterURL:  c.imageURL(d.ID, d.PosterPath),
		LogoURL:    c.imageURL(d.ID, d.BackdropPath),
	}, nil
}

// FetchSeriesByID fetches series details by TMDB id.
func (c *TMDBClient) FetchSeriesByID(ctx context.Context, tmdbID int64) (Series, error) {
	var d tvDetails
	found, err := c.getJSON(ctx, fmt.Sprintf("/3/tv/%d?append_to_response=credits", tmdbID), &d)
	if err != nil {
		return Series{}, err
	}
	if !found {
		return Series{}, nil
	}

	length := 0
	if len(d.EpisodeRunTime) > 0 {
		length = d.EpisodeRunTime[0]
	}

	director := ""
	if len(d.CreatedBy) > 0 {
		director = d.CreatedBy[0].Name
	}

	return Series{
		TMDBID:           d.ID,
		Title:            d.Name,
		Year:             yearOf(d.FirstAirDate),
		Genres:           genreNames(d.Genres),
		Director:         director,
		Cast:             d.Credits.topCast(),
		EpisodeLengthMin: length,
		PosterURL:        c.imageURL(d.ID, d.PosterPath),
		LogoURL:          c.imageURL(d.ID, d.BackdropPath),
	}, nil
}

// FetchSeasonBreakdown fetches the per-season episode lists of a series.
// Seasons the provider reports without episodes are returned with an empty
// episode list rather than dropped.
func (c *TMDBClient) FetchSeasonBreakdown(ctx context.Context, tmdbID int64) ([]Season, error) {
	var d tvDetails
	found, err := c.getJSON(ctx, fmt.Sprintf("/3/tv/%d", tmdbID), &d)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var seasons []Season
	for _, s := range d.Seasons {
		season := Season{Number: s.SeasonNumber}
		if s.SeasonNumber != nil {
			var sd seasonDetails
			found, err := c.getJSON(ctx, fmt.Sprintf("/3/tv/%d/season/%d", tmdbID, *s.SeasonNumber), &sd)
			if err != nil {
				return seasons, err
			}
			if found {
				for _, e := range sd.Episodes {
					season.Episodes = append(season.Episodes, Episode{
						Number:      e.EpisodeNumber,
						Title:       e.Name,
						AirDate:     dateOf(e.AirDate),
						DurationMin: e.Runtime,
					})
				}
			}
		}
		seasons = append(seasons, season)
	}
	return seasons, nil
}

// getJSON fetches a provider path, with response caching and retry on
// transient failures. Returns found=false for a 404 without error.
func (c *TMDBClient) getJSON(ctx context.Context, pathAndQuery string, out any) (bool, error) {
	if data, ok := c.cache.get(pathAndQuery); ok {
		return true, json.Unmarshal(data, out)
	}

	sep := "?"
	if containsQuery(pathAndQuery) {
		sep = "&"
	}
	reqURL := c.baseURL + pathAndQuery + sep + "api_key=" + url.QueryEscape(c.apiKey)

	var body []byte
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(errNotFound)
			case resp.StatusCode >= 500:
				return fmt.Errorf("tmdb: server error: %s", resp.Status)
			case resp.StatusCode != http.StatusOK:
				return retry.Unrecoverable(fmt.Errorf("tmdb: unexpected status: %s", resp.Status))
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("tmdb request: %w", err)
	}

	c.cache.set(pathAndQuery, body)
	return true, json.Unmarshal(body, out)
}

// imageURL builds an image URL carrying the provider id in its path, so the
// id can be recovered later from a stored poster URL alone.
func (c *TMDBClient) imageURL(tmdbID int64, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	ext := path.Ext(imagePath)
	if ext == "" {
		ext = ".jpg"
	}
	return c.imageBaseURL + "/tmdb/" + strconv.FormatInt(tmdbID, 10) + ext
}

func containsQuery(pathAndQuery string) bool {
	for _, r := range pathAndQuery {
		if r == '?' {
			return true
		}
	}
	return false
}

// Wire types.

type genre struct {
	Name string `json:"name"`
}

func genreNames(gs []genre) []string {
	names := make([]string, 0, len(gs))
	for _, g := range gs {
		if g.Name != "" {
			names = append(names, g.Name)
		}
	}
	return names
}

type credits struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

func (c credits) director() string {
	for _, m := range c.Crew {
		if m.Job == "Director" {
			return m.Name
		}
	}
	return ""
}

// topCast returns up to the ten leading cast names.
func (c credits) topCast() []string {
	names := make([]string, 0, 10)
	for _, m := range c.Cast {
		if len(names) == 10 {
			break
		}
		names = append(names, m.Name)
	}
	return names
}

type movieDetails struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	ReleaseDate  string  `json:"release_date"`
	Genres       []genre `json:"genres"`
	Runtime      int     `json:"runtime"`
	Budget       int64   `json:"budget"`
	Revenue      int64   `json:"revenue"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Credits      credits `json:"credits"`
}

type tvDetails struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	FirstAirDate   string  `json:"first_air_date"`
	Genres         []genre `json:"genres"`
	EpisodeRunTime []int   `json:"episode_run_time"`
	PosterPath     string  `json:"poster_path"`
	BackdropPath   string  `json:"backdrop_path"`
	CreatedBy      []struct {
		Name string `json:"name"`
	} `json:"created_by"`
	Credits credits `json:"credits"`
	Seasons []struct {
		SeasonNumber *int `json:"season_number"`
	} `json:"seasons"`
}

type seasonDetails struct {
	Episodes []struct {
		EpisodeNumber *int   `json:"episode_number"`
		Name          string `json:"name"`
		AirDate       string `json:"air_date"`
		Runtime       int    `json:"runtime"`
	} `json:"episodes"`
}

type searchPage struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID    int64  `json:"id"`
	Title string `json:"title"` // movies
	Name  string `json:"name"`  // tv
}

func (r searchResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// yearOf extracts the year from a "2017-12-01" style date, nil if absent.
func yearOf(date string) *int {
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year == 0 {
		return nil
	}
	return &year
}

// dateOf parses a provider date, nil if absent or malformed.
func dateOf(date string) *time.Time {
	if date == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil
	}
	return &t
}
