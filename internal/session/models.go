package session

// Profile is the mutable user record. The wishlist lives here and only here;
// every other view of it is derived from the persisted profile.
type Profile struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone,omitempty"`
	AvatarURL     string   `json:"avatar_url,omitempty"`
	Wishlist      []string `json:"wishlist"`
	VisitedPlaces []string `json:"visited_places"`
}

type Session struct {
	LoggedIn bool     `json:"logged_in"`
	Profile  *Profile `json:"profile,omitempty"`
}

// ProfileUpdate is a shallow patch keyed on field presence: nil fields are
// left unchanged, set fields overwrite, including overwriting to empty.
type ProfileUpdate struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}
