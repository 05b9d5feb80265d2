package story

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/darshan87986/cultural-explorer/internal/db"
)

var (
	ErrStoryNotFound = errors.New("story not found")
	ErrMissingFields = errors.New("title, content and author are required")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

const storyColumns = `id, title, content, COALESCE(place_id,''), place_name, author_name, COALESCE(author_image,''), COALESCE(image_url,''), date`

func (s *Service) List(ctx context.Context) ([]Story, error) {
	rows, err := s.db.Query(ctx, `SELECT `+storyColumns+` FROM stories ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []Story{}
	for rows.Next() {
		var st Story
		if err := rows.Scan(&st.ID, &st.Title, &st.Content, &st.PlaceID, &st.PlaceName,
			&st.AuthorName, &st.AuthorImage, &st.ImageURL, &st.Date); err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

func (s *Service) Get(ctx context.Context, id string) (Story, error) {
	var st Story
	err := s.db.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id=$1`, id).
		Scan(&st.ID, &st.Title, &st.Content, &st.PlaceID, &st.PlaceName,
			&st.AuthorName, &st.AuthorImage, &st.ImageURL, &st.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return Story{}, ErrStoryNotFound
	}
	if err != nil {
		return Story{}, err
	}
	return st, nil
}

func (s *Service) Create(ctx context.Context, input Story) (Story, error) {
	if input.Title == "" || input.Content == "" || input.AuthorName == "" {
		return Story{}, ErrMissingFields
	}
	input.ID = uuid.NewString()

	row := s.db.QueryRow(ctx, `
		INSERT INTO stories (id, title, content, place_id, place_name, author_name, author_image, image_url)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8)
		RETURNING date
	`, input.ID, input.Title, input.Content, input.PlaceID, input.PlaceName,
		input.AuthorName, input.AuthorImage, input.ImageURL)
	if err := row.Scan(&input.Date); err != nil {
		return Story{}, err
	}
	return input, nil
}
