package story

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func storyRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "content", "place_id", "place_name",
		"author_name", "author_image", "image_url", "date",
	})
}

func TestListStories(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM stories ORDER BY date DESC`).
		WillReturnRows(storyRows().
			AddRow("1", "Monsoon in Mysore", "rain on the palace", "p1", "Mysore Palace",
				"Asha", "", "", time.Now()))

	svc := NewService(mock)
	stories, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stories) != 1 || stories[0].Title != "Monsoon in Mysore" {
		t.Fatalf("unexpected stories: %+v", stories)
	}
}

func TestGetStoryNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT .+ FROM stories WHERE id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	svc := NewService(mock)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrStoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateStory(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO stories`).
		WithArgs(pgxmock.AnyArg(), "A Night at the Fort", "lanterns everywhere", "p1",
			"Old Fort", "Ravi", "", "").
		WillReturnRows(pgxmock.NewRows([]string{"date"}).AddRow(time.Now()))

	svc := NewService(mock)
	created, err := svc.Create(context.Background(), Story{
		Title: "A Night at the Fort", Content: "lanterns everywhere",
		PlaceID: "p1", PlaceName: "Old Fort", AuthorName: "Ravi",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Date.IsZero() {
		t.Fatalf("expected generated id and date: %+v", created)
	}
}

func TestCreateStoryRequiresFields(t *testing.T) {
	svc := NewService(newMock(t))
	if _, err := svc.Create(context.Background(), Story{Title: "x"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields, got %v", err)
	}
}
