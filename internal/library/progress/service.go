package progress

import (
	"context"
	"log/slog"

	"github.com/gwenbooks/gwenbooks/internal/catalog"
	"github.com/gwenbooks/gwenbooks/internal/platform/validate"
	"github.com/gwenbooks/gwenbooks/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SaveInput is the bookmark payload submitted by the reader view.
type SaveInput struct {
	BookID    string
	Page      int
	PageCount int
}

// SaveProgress records where the user stopped. The write is an upsert:
// one bookmark per (user, book), last write wins.
func (service *Service) SaveProgress(context context.Context, userID string, input SaveInput) (*Progress, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBookID, input.BookID)
	validator.Custom(FieldPage, input.Page < 1, "must be at least 1")
	validator.Custom(FieldPageCount, input.PageCount < 1, "must be at least 1")
	validator.Custom(FieldPage, input.PageCount >= 1 && input.Page > input.PageCount, "cannot exceed page_count")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Validate the identifier shape without a provider round trip; the
	// reader only submits IDs it got from the catalogue.
	if _, _, err := catalog.DecodeID(input.BookID); err != nil {
		return nil, validate.RequiredError(FieldBookID, "is not a valid book identifier")
	}

	progress := &Progress{
		ID:        uuid.New(),
		UserID:    userID,
		BookID:    input.BookID,
		Page:      input.Page,
		PageCount: input.PageCount,
	}

	if err := service.repo.Upsert(context, progress); err != nil {
		return nil, err
	}

	service.logger.Debug("progress_saved",
		slog.String("user_id", userID),
		slog.String("book_id", input.BookID),
		slog.Int("page", input.Page),
	)
	return progress, nil
}

// GetProgress returns the bookmark for one book, or NotFound when the
// user never opened it in the reader.
func (service *Service) GetProgress(context context.Context, userID, bookID string) (*Progress, error) {
	return service.repo.Find(context, userID, bookID)
}

// ListRecent returns the user's reading history, most recent first.
func (service *Service) ListRecent(context context.Context, userID string, limit, offset int) ([]*Progress, int, error) {
	return service.repo.ListRecent(context, userID, limit, offset)
}

// ClearProgress removes the bookmark for one book.
func (service *Service) ClearProgress(context context.Context, userID, bookID string) error {
	if err := service.repo.Delete(context, userID, bookID); err != nil {
		return err
	}

	service.logger.Debug("progress_cleared",
		slog.String("user_id", userID),
		slog.String("book_id", bookID),
	)
	return nil
}
