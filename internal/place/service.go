package place

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darshan87986/cultural-explorer/internal/db"
	"github.com/darshan87986/cultural-explorer/internal/shared/geo"
)

var (
	ErrPlaceNotFound  = errors.New("place not found")
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const placeColumns = `id, name, description, location, category, rating, verified, image_url, COALESCE(guide_name,''), lat, lng, created_at`

func scanPlace(row pgx.Row) (Place, error) {
	var p Place
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Location, &p.Category, &p.Rating,
		&p.Verified, &p.ImageURL, &p.GuideName, &p.Lat, &p.Lng, &p.CreatedAt)
	return p, err
}

func (s *Service) List(ctx context.Context) ([]Place, error) {
	rows, err := s.db.Query(ctx, `SELECT `+placeColumns+` FROM places ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := []Place{}
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (s *Service) Get(ctx context.Context, id string) (Place, error) {
	p, err := scanPlace(s.db.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Place{}, ErrPlaceNotFound
	}
	if err != nil {
		return Place{}, err
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, input Place) (Place, error) {
	if input.ID == "" {
		input.ID = uuid.NewString()
	}
	input.Category = NormalizeCategory(input.Category)
	if input.ImageURL == "" {
		input.ImageURL = PlaceholderImage
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO places (id, name, description, location, category, rating, verified, image_url, guide_name, lat, lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at
	`, input.ID, input.Name, input.Description, input.Location, input.Category, input.Rating,
		input.Verified, input.ImageURL, input.GuideName, input.Lat, input.Lng)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Place{}, err
	}
	return input, nil
}

// Upsert inserts the place or refreshes an existing row. Used by the remote
// import so repeated syncs converge instead of duplicating.
func (s *Service) Upsert(ctx context.Context, input Place) error {
	input.Category = NormalizeCategory(input.Category)
	if input.ImageURL == "" {
		input.ImageURL = PlaceholderImage
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO places (id, name, description, location, category, rating, verified, image_url, guide_name, lat, lng)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, description=EXCLUDED.description, location=EXCLUDED.location,
			category=EXCLUDED.category, rating=EXCLUDED.rating, verified=EXCLUDED.verified,
			image_url=EXCLUDED.image_url, guide_name=EXCLUDED.guide_name,
			lat=EXCLUDED.lat, lng=EXCLUDED.lng
	`, input.ID, input.Name, input.Description, input.Location, input.Category, input.Rating,
		input.Verified, input.ImageURL, input.GuideName, input.Lat, input.Lng)
	return err
}

func (s *Service) Markers(ctx context.Context) ([]Marker, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, category, rating, lat, lng
		FROM places WHERE lat <> 0 OR lng <> 0
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	markers := []Marker{}
	for rows.Next() {
		var m Marker
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Rating, &m.Lat, &m.Lng); err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

// Similar returns up to three other places in the same category, best
// rated first.
func (s *Service) Similar(ctx context.Context, id string) ([]Place, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT `+placeColumns+` FROM places
		WHERE category=$1 AND id<>$2
		ORDER BY rating DESC LIMIT 3
	`, p.Category, p.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	similar := []Place{}
	for rows.Next() {
		sp, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		similar = append(similar, sp)
	}
	return similar, rows.Err()
}

// Nearby ranks places by great-circle distance from the given point.
// Distance is computed in Go so the schema stays plain lat/lng columns.
func (s *Service) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]Place, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		place Place
		km    float64
	}
	within := []ranked{}
	for _, p := range all {
		if p.Lat == 0 && p.Lng == 0 {
			continue
		}
		km := geo.HaversineKm(lat, lng, p.Lat, p.Lng)
		if km <= radiusKm {
			within = append(within, ranked{p, km})
		}
	}
	sort.Slice(within, func(i, j int) bool { return within[i].km < within[j].km })

	if limit > 0 && len(within) > limit {
		within = within[:limit]
	}
	nearby := make([]Place, 0, len(within))
	for _, r := range within {
		nearby = append(nearby, r.place)
	}
	return nearby, nil
}

func (s *Service) AddReview(ctx context.Context, placeID, authorName string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	if _, err := s.Get(ctx, placeID); err != nil {
		return Review{}, err
	}

	review := Review{
		ID:         uuid.NewString(),
		PlaceID:    placeID,
		AuthorName: authorName,
		Rating:     rating,
		Comment:    comment,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO reviews (id, place_id, author_name, rating, comment)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, review.ID, review.PlaceID, review.AuthorName, review.Rating, review.Comment)
	if err := row.Scan(&review.CreatedAt); err != nil {
		return Review{}, err
	}

	// keep the denormalized average fresh
	_, err := s.db.Exec(ctx, `
		UPDATE places SET rating = (SELECT AVG(rating) FROM reviews WHERE place_id=$1)
		WHERE id=$1
	`, placeID)
	if err != nil {
		return Review{}, err
	}
	return review, nil
}

func (s *Service) Reviews(ctx context.Context, placeID string) ([]Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, place_id, author_name, rating, comment, helpful_count, created_at
		FROM reviews WHERE place_id=$1 ORDER BY created_at DESC
	`, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []Review{}
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.PlaceID, &r.AuthorName, &r.Rating, &r.Comment, &r.HelpfulCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Service) MarkHelpful(ctx context.Context, reviewID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `
		UPDATE reviews SET helpful_count = helpful_count + 1
		WHERE id=$1 RETURNING helpful_count
	`, reviewID).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrReviewNotFound
	}
	return count, err
}

func (s *Service) AddMedia(ctx context.Context, placeID, url, caption string) (Media, error) {
	if _, err := s.Get(ctx, placeID); err != nil {
		return Media{}, err
	}

	media := Media{
		ID:      uuid.NewString(),
		PlaceID: placeID,
		URL:     url,
		Caption: caption,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO place_media (id, place_id, url, caption)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, media.ID, media.PlaceID, media.URL, media.Caption)
	if err := row.Scan(&media.CreatedAt); err != nil {
		return Media{}, err
	}
	return media, nil
}

// Media lists a place's gallery. A place with no uploads still renders,
// so the primary image stands in as a synthetic entry.
func (s *Service) Media(ctx context.Context, placeID string) ([]Media, error) {
	p, err := s.Get(ctx, placeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, place_id, url, caption, created_at
		FROM place_media WHERE place_id=$1 ORDER BY created_at
	`, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := []Media{}
	for rows.Next() {
		var m Media
		if err := rows.Scan(&m.ID, &m.PlaceID, &m.URL, &m.Caption, &m.CreatedAt); err != nil {
			return nil, err
		}
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(media) == 0 {
		media = append(media, Media{
			ID:      "primary-" + p.ID,
			PlaceID: p.ID,
			URL:     p.ImageURL,
			Caption: p.Name,
		})
	}
	return media, nil
}
