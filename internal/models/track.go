package models

// Track is a single entry of a fetched track list. ID is unique within a list.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMS  int    `json:"duration_ms"`
	ExternalURL string `json:"external_url"`
	PreviewURL  string `json:"preview_url,omitempty"` // empty when the provider has no preview
	Album       Album  `json:"album"`
}

// Album is the album a track belongs to.
type Album struct {
	Name    string   `json:"name"`
	Images  []Image  `json:"images"`
	Artists []Artist `json:"artists"`
}

// Artist is a credited album artist.
type Artist struct {
	Name string `json:"name"`
}

// Image is a cover image resource.
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// HasPreview reports whether the track has an audio preview.
func (t Track) HasPreview() bool { return t.PreviewURL != "" }

// CoverURL returns the first image URL, or "" when the album has no images.
func (a Album) CoverURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	return a.Images[0].URL
}

// ArtistName returns the first artist's name, or "" when the album has no artists.
func (a Album) ArtistName() string {
	if len(a.Artists) == 0 {
		return ""
	}
	return a.Artists[0].Name
}
