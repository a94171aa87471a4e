package events

// Entity type names.
const (
	EntityFilm    = "film"
	EntitySeries  = "series"
	EntitySeason  = "season"
	EntityEpisode = "episode"
)

// Event type names.
const (
	TypeFilmAdded      = "film.added"
	TypeSeriesAdded    = "series.added"
	TypeSeasonWatched  = "season.watched"
	TypeEpisodeWatched = "episode.watched"
	TypeOverlayRemoved = "overlay.removed"
)

// FilmAdded is emitted when a user adds a film to their library.
type FilmAdded struct {
	BaseEvent
	Title string `json:"title"`
	Year  *int   `json:"year,omitempty"`
}

// SeriesAdded is emitted when a user adds a series, after eager season and
// episode materialization.
type SeriesAdded struct {
	BaseEvent
	Title    string `json:"title"`
	Year     *int   `json:"year,omitempty"`
	Seasons  int    `json:"seasons"`
	Episodes int    `json:"episodes"`
}

// SeasonWatched is emitted after a season watched-state change has fanned
// out to its episodes.
type SeasonWatched struct {
	BaseEvent
	Watched  bool `json:"watched"`
	Episodes int  `json:"episodes"` // episodes reached by the fan-out
}

// EpisodeWatched is emitted when a single episode's watched flag changes.
type EpisodeWatched struct {
	BaseEvent
	Watched bool `json:"watched"`
}

// OverlayRemoved is emitted when a user removes an entry from their library.
type OverlayRemoved struct {
	BaseEvent
	Title string `json:"title,omitempty"`
}
