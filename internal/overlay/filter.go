package overlay

// FilmFilter specifies criteria for listing a user's film overlays.
type FilmFilter struct {
	UserID    string
	Title     string // substring match against the catalog title, case-insensitive
	Status    *string
	MinRating *int
	Limit     int // 0 = no limit
	Offset    int
}

// SeriesFilter specifies criteria for listing a user's series overlays.
type SeriesFilter struct {
	UserID    string
	Title     string
	Status    *string
	MinRating *int
	Limit     int
	Offset    int
}
