package domain

// ArtistRef is the abbreviated artist record returned by free-text search.
type ArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WorkRef is the abbreviated musical work record returned by free-text search.
type WorkRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SearchResult mirrors the upstream free-text search payload.
type SearchResult struct {
	Artists      []ArtistRef `json:"artists"`
	MusicalWorks []WorkRef   `json:"musical_works"`
}
