package place

import (
	"strconv"
	"time"
)

// PlaceholderImage backs places that arrive without any usable image.
const PlaceholderImage = "https://images.unsplash.com/photo-1564507592333-c60657eea523?w=800"

var knownCategories = map[string]bool{
	"historical":    true,
	"religious":     true,
	"natural":       true,
	"architectural": true,
	"culinary":      true,
	"festival":      true,
	"art":           true,
	"music":         true,
	"cultural":      true,
	"other":         true,
}

// NormalizeCategory maps anything outside the known set to "other".
func NormalizeCategory(category string) string {
	if knownCategories[category] {
		return category
	}
	return "other"
}

type Place struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Verified    bool      `json:"verified"`
	ImageURL    string    `json:"image_url"`
	GuideName   string    `json:"guide_name,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p Place) SearchFields() []string {
	return []string{p.Name, p.Description, p.Location}
}

func (p Place) SortTitle() string { return p.Name }

func (p Place) SortRating() float64 { return p.Rating }

// SortOrder prefers the creation timestamp; rows imported without one fall
// back to their numeric id so newest/oldest still means something.
func (p Place) SortOrder() int64 {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt.Unix()
	}
	if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil {
		return n
	}
	return 0
}

func (p Place) CategoryTag() string { return p.Category }

type Review struct {
	ID           string    `json:"id"`
	PlaceID      string    `json:"place_id"`
	AuthorName   string    `json:"author_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Media struct {
	ID        string    `json:"id"`
	PlaceID   string    `json:"place_id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Marker is the map projection of a place.
type Marker struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}
