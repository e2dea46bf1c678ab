package progress_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwenbooks/gwenbooks/internal/library/progress"
	"github.com/gwenbooks/gwenbooks/internal/platform/apperr"
)

// memoryRepository is an in-memory progress.Repository keyed on
// (userID, bookID), mirroring the table's unique constraint.
type memoryRepository struct {
	bookmarks map[string]*progress.Progress
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bookmarks: map[string]*progress.Progress{}}
}

func key(userID, bookID string) string { return userID + "|" + bookID }

func (r *memoryRepository) Upsert(_ context.Context, p *progress.Progress) error {
	k := key(p.UserID, p.BookID)
	if existing, ok := r.bookmarks[k]; ok {
		p.ID = existing.ID
	}
	p.UpdatedAt = time.Now()
	stored := *p
	r.bookmarks[k] = &stored
	return nil
}

func (r *memoryRepository) Find(_ context.Context, userID, bookID string) (*progress.Progress, error) {
	if p, ok := r.bookmarks[key(userID, bookID)]; ok {
		found := *p
		return &found, nil
	}
	return nil, apperr.NotFound("Resource")
}

func (r *memoryRepository) ListRecent(_ context.Context, userID string, limit, offset int) ([]*progress.Progress, int, error) {
	var owned []*progress.Progress
	for _, p := range r.bookmarks {
		if p.UserID == userID {
			owned = append(owned, p)
		}
	}
	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *memoryRepository) Delete(_ context.Context, userID, bookID string) error {
	k := key(userID, bookID)
	if _, ok := r.bookmarks[k]; !ok {
		return apperr.NotFound("Resource")
	}
	delete(r.bookmarks, k)
	return nil
}

func newService(repo progress.Repository) *progress.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return progress.NewService(repo, logger)
}

/*
TestService_SaveProgress checks the upsert flow: first save creates the
bookmark, later saves move it without creating a second row.
*/
func TestService_SaveProgress(t *testing.T) {
	repo := newMemoryRepository()
	service := newService(repo)

	first, err := service.SaveProgress(context.Background(), "user-1", progress.SaveInput{
		BookID:    "gutenberg:84",
		Page:      3,
		PageCount: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Page)

	second, err := service.SaveProgress(context.Background(), "user-1", progress.SaveInput{
		BookID:    "gutenberg:84",
		Page:      57,
		PageCount: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	found, err := service.GetProgress(context.Background(), "user-1", "gutenberg:84")
	require.NoError(t, err)
	assert.Equal(t, 57, found.Page)
	assert.Equal(t, 120, found.PageCount)
}

/*
TestService_SaveProgress_Validation covers rejected payloads: missing or
malformed identifiers and out-of-range page numbers.
*/
func TestService_SaveProgress_Validation(t *testing.T) {
	service := newService(newMemoryRepository())

	tests := []struct {
		name  string
		input progress.SaveInput
	}{
		{"missing_book_id", progress.SaveInput{Page: 1, PageCount: 10}},
		{"malformed_book_id", progress.SaveInput{BookID: "84", Page: 1, PageCount: 10}},
		{"unknown_source", progress.SaveInput{BookID: "librivox:84", Page: 1, PageCount: 10}},
		{"zero_page", progress.SaveInput{BookID: "gutenberg:84", Page: 0, PageCount: 10}},
		{"zero_page_count", progress.SaveInput{BookID: "gutenberg:84", Page: 1, PageCount: 0}},
		{"page_beyond_count", progress.SaveInput{BookID: "gutenberg:84", Page: 11, PageCount: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SaveProgress(context.Background(), "user-1", tt.input)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestService_ClearProgress checks bookmark removal.
*/
func TestService_ClearProgress(t *testing.T) {
	service := newService(newMemoryRepository())

	_, err := service.SaveProgress(context.Background(), "user-1", progress.SaveInput{
		BookID:    "gutenberg:84",
		Page:      5,
		PageCount: 50,
	})
	require.NoError(t, err)

	require.NoError(t, service.ClearProgress(context.Background(), "user-1", "gutenberg:84"))

	_, err = service.GetProgress(context.Background(), "user-1", "gutenberg:84")
	assert.Error(t, err)
}

/*
TestProgress_Percent checks completion math and its clamping.
*/
func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageCount int
		want      int
	}{
		{"start", 1, 100, 1},
		{"halfway", 50, 100, 50},
		{"done", 100, 100, 100},
		{"rounds_down", 1, 3, 33},
		{"zero_count", 5, 0, 0},
		{"over_count_clamped", 200, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &progress.Progress{Page: tt.page, PageCount: tt.pageCount}
			assert.Equal(t, tt.want, p.Percent())
		})
	}
}
