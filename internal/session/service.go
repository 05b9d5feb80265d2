package session

import (
	"context"
	"errors"
	"strings"

	"github.com/darshan87986/cultural-explorer/internal/auth"
	"github.com/darshan87986/cultural-explorer/internal/store"
)

var ErrMissingCredentials = errors.New("email and credential required")

// Service is the single authority for who is logged in and for the mutable
// parts of their profile. All state lives in the key-value store; mutations
// that require a logged-in user are silent no-ops when there is none.
type Service struct {
	kv     *store.KV
	authn  auth.Authenticator
	tokens *auth.Issuer
}

func NewService(kv *store.KV, authn auth.Authenticator, tokens *auth.Issuer) *Service {
	return &Service{kv: kv, authn: authn, tokens: tokens}
}

func profileKey(userID string) string {
	return "user:" + userID + ":profile"
}

func loggedInKey(userID string) string {
	return "user:" + userID + ":logged_in"
}

// Login authenticates the credential pair, restores a previously persisted
// profile or initializes a default one from the email, marks the user logged
// in and returns a signed token for subsequent requests.
func (s *Service) Login(ctx context.Context, email, credential string) (Session, string, error) {
	if strings.TrimSpace(email) == "" || credential == "" {
		return Session{}, "", ErrMissingCredentials
	}

	identity, err := s.authn.Authenticate(ctx, email, credential)
	if err != nil {
		return Session{}, "", err
	}

	profile, ok, err := s.loadProfile(ctx, identity.ID)
	if err != nil {
		return Session{}, "", err
	}
	if !ok {
		profile = defaultProfile(identity, email)
	}

	if err := s.kv.SetJSON(ctx, profileKey(identity.ID), profile); err != nil {
		return Session{}, "", err
	}
	if err := s.kv.Set(ctx, loggedInKey(identity.ID), "true"); err != nil {
		return Session{}, "", err
	}

	token, err := s.tokens.Sign(identity.ID)
	if err != nil {
		return Session{}, "", err
	}
	return Session{LoggedIn: true, Profile: &profile}, token, nil
}

// Logout clears the persisted profile and the logged-in flag. Safe to call
// when already logged out.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.kv.Delete(ctx, profileKey(userID)); err != nil {
		return err
	}
	return s.kv.Set(ctx, loggedInKey(userID), "false")
}

// Current returns the session as persisted. A logged-out user has no profile.
func (s *Service) Current(ctx context.Context, userID string) (Session, error) {
	loggedIn, err := s.isLoggedIn(ctx, userID)
	if err != nil || !loggedIn {
		return Session{}, err
	}
	profile, ok, err := s.loadProfile(ctx, userID)
	if err != nil || !ok {
		return Session{}, err
	}
	return Session{LoggedIn: true, Profile: &profile}, nil
}

func (s *Service) AddToWishlist(ctx context.Context, userID, placeID string) error {
	return s.mutateProfile(ctx, userID, func(p *Profile) {
		p.Wishlist = appendUnique(p.Wishlist, placeID)
	})
}

func (s *Service) RemoveFromWishlist(ctx context.Context, userID, placeID string) error {
	return s.mutateProfile(ctx, userID, func(p *Profile) {
		p.Wishlist = removeID(p.Wishlist, placeID)
	})
}

// IsInWishlist consults the persisted profile directly, so the answer is
// valid across sessions and does not depend on any in-memory state.
func (s *Service) IsInWishlist(ctx context.Context, userID, placeID string) (bool, error) {
	profile, ok, err := s.loadProfile(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return contains(profile.Wishlist, placeID), nil
}

// Wishlist is the derived standalone view of the profile's wishlist.
func (s *Service) Wishlist(ctx context.Context, userID string) ([]string, error) {
	profile, ok, err := s.loadProfile(ctx, userID)
	if err != nil || !ok {
		return []string{}, err
	}
	return profile.Wishlist, nil
}

func (s *Service) AddToVisited(ctx context.Context, userID, placeID string) error {
	return s.mutateProfile(ctx, userID, func(p *Profile) {
		p.VisitedPlaces = appendUnique(p.VisitedPlaces, placeID)
	})
}

func (s *Service) RemoveFromVisited(ctx context.Context, userID, placeID string) error {
	return s.mutateProfile(ctx, userID, func(p *Profile) {
		p.VisitedPlaces = removeID(p.VisitedPlaces, placeID)
	})
}

// UpdateProfile merges the present fields of patch into the profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch ProfileUpdate) error {
	return s.mutateProfile(ctx, userID, func(p *Profile) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Email != nil {
			p.Email = *patch.Email
		}
		if patch.Phone != nil {
			p.Phone = *patch.Phone
		}
		if patch.AvatarURL != nil {
			p.AvatarURL = *patch.AvatarURL
		}
	})
}

// mutateProfile is the read-modify-write cycle behind every profile mutation:
// read the whole persisted profile, apply the change, write the whole profile
// back. Logged-out users and missing profiles are tolerated no-ops.
func (s *Service) mutateProfile(ctx context.Context, userID string, apply func(*Profile)) error {
	loggedIn, err := s.isLoggedIn(ctx, userID)
	if err != nil || !loggedIn {
		return err
	}
	profile, ok, err := s.loadProfile(ctx, userID)
	if err != nil || !ok {
		return err
	}
	apply(&profile)
	return s.kv.SetJSON(ctx, profileKey(userID), profile)
}

func (s *Service) isLoggedIn(ctx context.Context, userID string) (bool, error) {
	val, ok, err := s.kv.Get(ctx, loggedInKey(userID))
	if err != nil {
		return false, err
	}
	return ok && val == "true", nil
}

func (s *Service) loadProfile(ctx context.Context, userID string) (Profile, bool, error) {
	var profile Profile
	ok, err := s.kv.GetJSON(ctx, profileKey(userID), &profile)
	if err != nil || !ok {
		return Profile{}, false, err
	}
	if profile.Wishlist == nil {
		profile.Wishlist = []string{}
	}
	if profile.VisitedPlaces == nil {
		profile.VisitedPlaces = []string{}
	}
	return profile, true, nil
}

func defaultProfile(identity auth.Identity, email string) Profile {
	name := identity.Name
	if name == "" {
		name = email
		if at := strings.IndexByte(email, '@'); at > 0 {
			name = email[:at]
		}
	}
	return Profile{
		ID:            identity.ID,
		Name:          name,
		Email:         email,
		AvatarURL:     identity.AvatarURL,
		Wishlist:      []string{},
		VisitedPlaces: []string{},
	}
}

func contains(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func appendUnique(ids []string, id string) []string {
	if contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
