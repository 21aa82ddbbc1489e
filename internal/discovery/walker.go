// Package discovery walks library roots and stages the media files it finds.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/mediascan/internal/staging"
	"github.com/slipstream/mediascan/internal/status"
)

// Store is the staging persistence the walker needs.
type Store interface {
	GetByPath(ctx context.Context, path string) (*staging.StagedFile, error)
	Create(ctx context.Context, input staging.CreateInput) (*staging.StagedFile, error)
	MarkChanged(ctx context.Context, id, size int64, modifiedAt *time.Time) error
	ListTracked(ctx context.Context) ([]staging.TrackedFile, error)
	SetStatus(ctx context.Context, id int64, to status.Status) error
}

// Result summarises one walk.
type Result struct {
	Files   int `json:"files"`
	Created int `json:"created"`
	Changed int `json:"changed"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Walker stages media files found under a set of root directories.
type Walker struct {
	store  Store
	roots  []string
	logger zerolog.Logger
}

// NewWalker creates a walker over roots.
func NewWalker(store Store, roots []string, logger zerolog.Logger) *Walker {
	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		if root = strings.TrimSpace(root); root != "" {
			cleaned = append(cleaned, filepath.Clean(root))
		}
	}
	return &Walker{
		store:  store,
		roots:  cleaned,
		logger: logger.With().Str("component", "discovery").Logger(),
	}
}

// Roots returns the directories the walker scans.
func (w *Walker) Roots() []string {
	return w.roots
}

// Scan walks every root once. Unseen files are staged NEW, files whose size
// or modification time changed are flagged UPDATED, and tracked files that
// vanished from a readable root are marked DELETED. Files being imported are
// left alone.
func (w *Walker) Scan(ctx context.Context) (Result, error) {
	var result Result
	seen := make(map[string]bool)
	var walked []string

	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			w.logger.Warn().Err(err).Str("root", root).Msg("Root is not a readable directory, skipping")
			result.Errors++
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return w.visit(ctx, path, d, walkErr, seen, &result)
		})
		if err != nil {
			return result, fmt.Errorf("failed to walk %s: %w", root, err)
		}
		walked = append(walked, root)
	}

	if err := w.markVanished(ctx, seen, walked, &result); err != nil {
		return result, err
	}

	w.logger.Info().
		Int("files", result.Files).
		Int("created", result.Created).
		Int("changed", result.Changed).
		Int("deleted", result.Deleted).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Msg("Discovery scan completed")

	return result, nil
}

func (w *Walker) visit(ctx context.Context, path string, d fs.DirEntry, walkErr error, seen map[string]bool, result *Result) error {
	if walkErr != nil {
		w.logger.Warn().Err(walkErr).Str("path", path).Msg("Failed to read path")
		result.Errors++
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}

	if d.IsDir() {
		if isHidden(d.Name()) {
			return fs.SkipDir
		}
		return nil
	}

	mediaType, ok := status.MediaTypeForPath(path)
	if !ok || isHidden(d.Name()) {
		return nil
	}
	if IsSampleFile(d.Name()) {
		result.Skipped++
		return nil
	}

	info, err := d.Info()
	if err != nil {
		result.Errors++
		return nil //nolint:nilerr // Record error but continue walking
	}

	result.Files++
	seen[path] = true

	if err := w.stage(ctx, path, mediaType, info, result); err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("Failed to stage file")
		result.Errors++
	}
	return nil
}

func (w *Walker) stage(ctx context.Context, path string, mediaType status.MediaType, info fs.FileInfo, result *Result) error {
	modTime := info.ModTime().UTC()

	existing, err := w.store.GetByPath(ctx, path)
	if errors.Is(err, staging.ErrStagedFileNotFound) {
		if _, err := w.store.Create(ctx, staging.CreateInput{
			Path:       path,
			MediaType:  mediaType,
			Size:       info.Size(),
			ModifiedAt: &modTime,
		}); err != nil {
			return err
		}
		result.Created++
		w.logger.Debug().Str("path", path).Str("mediaType", mediaType.String()).Msg("Staged new file")
		return nil
	}
	if err != nil {
		return err
	}

	if existing.Status == status.Process {
		return nil
	}

	unchanged := existing.Size == info.Size() &&
		existing.ModifiedAt != nil && existing.ModifiedAt.Equal(modTime)
	if unchanged && existing.Status != status.Deleted {
		return nil
	}

	if err := w.store.MarkChanged(ctx, existing.ID, info.Size(), &modTime); err != nil {
		return err
	}
	result.Changed++
	w.logger.Debug().Int64("stagedFileId", existing.ID).Str("path", path).Msg("Flagged changed file")
	return nil
}

func (w *Walker) markVanished(ctx context.Context, seen map[string]bool, walked []string, result *Result) error {
	if len(walked) == 0 {
		return nil
	}

	tracked, err := w.store.ListTracked(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tracked files: %w", err)
	}

	for _, file := range tracked {
		if seen[file.Path] || file.Status == status.Process || !underAny(file.Path, walked) {
			continue
		}
		if err := w.store.SetStatus(ctx, file.ID, status.Deleted); err != nil {
			w.logger.Error().Err(err).Int64("stagedFileId", file.ID).Msg("Failed to mark vanished file deleted")
			result.Errors++
			continue
		}
		result.Deleted++
		w.logger.Info().Int64("stagedFileId", file.ID).Str("path", file.Path).Msg("Staged file vanished")
	}
	return nil
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
