package booking

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a ledger entry. Entries are never deleted; cancellation flips
// the status and keeps the row for history.
type Booking struct {
	ID        string  `json:"id"`
	PlaceID   string  `json:"place_id"`
	PlaceName string  `json:"place_name"`
	GuideName string  `json:"guide_name"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
}

type CreateRequest struct {
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	GuideName string `json:"guide_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}
