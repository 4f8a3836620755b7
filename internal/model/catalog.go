package model

// Movie is a catalog entry.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug,omitempty"`
	Trailer     string  `json:"trailer,omitempty"`
	Poster      string  `json:"poster,omitempty"`
	Description string  `json:"description,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Rating      float64 `json:"rating"`
	Hot         bool    `json:"hot"`
	NowShowing  bool    `json:"now_showing"`
	ComingSoon  bool    `json:"coming_soon"`
}

// Banner is a promotional image attached to a movie.
type Banner struct {
	ID      string `json:"id"`
	MovieID string `json:"movie_id"`
	Image   string `json:"image"`
}

// CinemaSystem is a cinema chain (CGV, BHD Star, ...).
type CinemaSystem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// CinemaComplex is one venue of a chain.
type CinemaComplex struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Rooms   []string `json:"rooms,omitempty"`
}

// Showtime is one scheduled screening as listed under a movie.
type Showtime struct {
	ID          string `json:"id"`
	SystemID    string `json:"system_id"`
	SystemName  string `json:"system_name"`
	ComplexID   string `json:"complex_id"`
	ComplexName string `json:"complex_name"`
	RoomName    string `json:"room_name"`
	StartsAt    string `json:"starts_at"`
	Price       int    `json:"price"`
	Duration    int    `json:"duration"`
}
