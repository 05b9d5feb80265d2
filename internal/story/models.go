package story

import "time"

// Story is a community travel account tied to a place.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PlaceID     string    `json:"place_id,omitempty"`
	PlaceName   string    `json:"place_name"`
	AuthorName  string    `json:"author_name"`
	AuthorImage string    `json:"author_image,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Date        time.Time `json:"date"`
}

func (s Story) SearchFields() []string {
	return []string{s.Title, s.Content, s.PlaceName, s.AuthorName}
}

func (s Story) SortTitle() string { return s.Title }

func (s Story) SortRating() float64 { return 0 }

func (s Story) SortOrder() int64 { return s.Date.Unix() }

// Stories carry no category; browse views never filter them by one.
func (s Story) CategoryTag() string { return "" }
