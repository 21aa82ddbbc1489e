package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/slipstream/mediascan/internal/database/sqlc"
	"github.com/slipstream/mediascan/internal/status"
)

const interruptedMessage = "interrupted before completion"

// Store persists staged files.
type Store struct {
	db      *sql.DB
	queries *sqlc.Queries
	now     func() time.Time
}

// NewStore creates a staged file store.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:      db,
		queries: sqlc.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Get retrieves a staged file by ID.
func (s *Store) Get(ctx context.Context, id int64) (*StagedFile, error) {
	row, err := s.queries.GetStagedFile(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStagedFileNotFound
		}
		return nil, fmt.Errorf("failed to get staged file: %w", err)
	}
	return rowToStagedFile(row), nil
}

// GetByPath retrieves a staged file by its discovered path.
func (s *Store) GetByPath(ctx context.Context, path string) (*StagedFile, error) {
	row, err := s.queries.GetStagedFileByPath(ctx, path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStagedFileNotFound
		}
		return nil, fmt.Errorf("failed to get staged file: %w", err)
	}
	return rowToStagedFile(row), nil
}

// Create stages a newly discovered file with status NEW.
func (s *Store) Create(ctx context.Context, input CreateInput) (*StagedFile, error) {
	now := s.now()
	row, err := s.queries.CreateStagedFile(ctx, sqlc.CreateStagedFileParams{
		MediaType:  input.MediaType.String(),
		Status:     status.New.String(),
		Path:       input.Path,
		Size:       input.Size,
		ModifiedAt: nullTime(input.ModifiedAt),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	return rowToStagedFile(row), nil
}

// ClaimNextEligible atomically selects the lowest-id file of mediaType whose
// status is one of statuses and marks it PROCESS. ok is false when nothing
// is eligible.
func (s *Store) ClaimNextEligible(ctx context.Context, mediaType status.MediaType, statuses ...status.Status) (int64, bool, error) {
	if len(statuses) == 0 {
		return 0, false, nil
	}

	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = st.String()
	}

	id, err := s.queries.ClaimNextStagedFile(ctx, sqlc.ClaimNextStagedFileParams{
		Now:       s.now(),
		MediaType: mediaType.String(),
		Statuses:  names,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to claim staged file: %w", err)
	}
	return id, true, nil
}

// SetStatus moves a staged file to a new status, enforcing the lifecycle.
func (s *Store) SetStatus(ctx context.Context, id int64, to status.Status) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if file.Status == to {
		return nil
	}
	if !status.CanTransition(file.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, file.Status, to)
	}

	if err := s.queries.UpdateStagedFileStatus(ctx, sqlc.UpdateStagedFileStatusParams{
		Status:    to.String(),
		UpdatedAt: s.now(),
		ID:        id,
	}); err != nil {
		return fmt.Errorf("failed to update staged file status: %w", err)
	}
	return nil
}

// MarkError records a failed attempt and moves the file to ERROR.
func (s *Store) MarkError(ctx context.Context, id int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if err := s.queries.MarkStagedFileError(ctx, sqlc.MarkStagedFileErrorParams{
		LastError: sql.NullString{String: msg, Valid: msg != ""},
		UpdatedAt: s.now(),
		ID:        id,
	}); err != nil {
		return fmt.Errorf("failed to mark staged file error: %w", err)
	}
	return nil
}

// MarkChanged flags a file whose size or modification time changed on disk.
// Attempts are reset since the content is new.
func (s *Store) MarkChanged(ctx context.Context, id, size int64, modifiedAt *time.Time) error {
	if err := s.queries.MarkStagedFileChanged(ctx, sqlc.MarkStagedFileChangedParams{
		Size:       size,
		ModifiedAt: nullTime(modifiedAt),
		UpdatedAt:  s.now(),
		ID:         id,
	}); err != nil {
		return fmt.Errorf("failed to mark staged file changed: %w", err)
	}
	return nil
}

// ResetErrored returns ERROR files to UPDATED when they have failed fewer than
// maxAttempts times and last failed at least backoff ago.
func (s *Store) ResetErrored(ctx context.Context, maxAttempts int, backoff time.Duration) (int64, error) {
	now := s.now()
	n, err := s.queries.ResetErroredStagedFiles(ctx, sqlc.ResetErroredStagedFilesParams{
		Now:         now,
		MaxAttempts: int64(maxAttempts),
		Before:      now.Add(-backoff),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to reset errored staged files: %w", err)
	}
	return n, nil
}

// FailInterrupted moves files left in PROCESS by an unclean shutdown to ERROR
// without counting an attempt, so the retry task picks them up again.
func (s *Store) FailInterrupted(ctx context.Context) (int64, error) {
	n, err := s.queries.FailInterruptedStagedFiles(ctx, sqlc.FailInterruptedStagedFilesParams{
		LastError: sql.NullString{String: interruptedMessage, Valid: true},
		UpdatedAt: s.now(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fail interrupted staged files: %w", err)
	}
	return n, nil
}

// ListByStatus returns files with the given status in id order.
func (s *Store) ListByStatus(ctx context.Context, st status.Status) ([]*StagedFile, error) {
	rows, err := s.queries.ListStagedFilesByStatus(ctx, st.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}

	files := make([]*StagedFile, len(rows))
	for i, row := range rows {
		files[i] = rowToStagedFile(row)
	}
	return files, nil
}

// ListTracked returns every staged file that is not DELETED.
func (s *Store) ListTracked(ctx context.Context) ([]TrackedFile, error) {
	rows, err := s.queries.ListTrackedStagedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked staged files: %w", err)
	}

	files := make([]TrackedFile, len(rows))
	for i, row := range rows {
		files[i] = TrackedFile{ID: row.ID, Path: row.Path, Status: status.Parse(row.Status)}
	}
	return files, nil
}

// CountByStatus returns the number of staged files per status.
func (s *Store) CountByStatus(ctx context.Context) (map[status.Status]int64, error) {
	rows, err := s.queries.CountStagedFilesByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count staged files: %w", err)
	}

	counts := make(map[status.Status]int64, len(rows))
	for _, row := range rows {
		counts[status.Parse(row.Status)] += row.Count
	}
	return counts, nil
}

func rowToStagedFile(row sqlc.StagedFile) *StagedFile {
	f := &StagedFile{
		ID:        row.ID,
		Status:    status.Parse(row.Status),
		Path:      row.Path,
		Size:      row.Size,
		Attempts:  int(row.Attempts),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if mt, ok := status.ParseMediaType(row.MediaType); ok {
		f.MediaType = mt
	}
	if row.ModifiedAt.Valid {
		t := row.ModifiedAt.Time
		f.ModifiedAt = &t
	}
	if row.LastError.Valid {
		f.LastError = row.LastError.String
	}
	return f
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
