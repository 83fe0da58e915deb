package service

import (
	"context"
	"errors"

	"github.com/dori/doist/internal/db"
	"github.com/dori/doist/internal/logger"
	"github.com/dori/doist/internal/todoist"
)

// CleanupResult summarizes a CleanupOrphans run
type CleanupResult struct {
	Removed   []string    `json:"removed"`
	Remaining []db.Orphan `json:"remaining"`
}

// ListOrphans returns originals left behind by relocations
func (s *Service) ListOrphans(ctx context.Context) ([]db.Orphan, error) {
	if s.orphans == nil {
		return []db.Orphan{}, nil
	}
	return s.orphans.Orphans(ctx)
}

// CleanupOrphans retries deleting every recorded orphan. Entries that are
// deleted now, or are already gone remotely, are forgotten.
func (s *Service) CleanupOrphans(ctx context.Context) (*CleanupResult, error) {
	result := &CleanupResult{Removed: []string{}, Remaining: []db.Orphan{}}
	if s.orphans == nil {
		return result, nil
	}

	orphans, err := s.orphans.Orphans(ctx)
	if err != nil {
		return nil, err
	}

	var errs []error
	for _, o := range orphans {
		err := s.remote.DeleteTask(ctx, o.OriginalID)
		if err != nil && !todoist.IsNotFound(err) {
			logger.Warn(ctx, "orphan still not deleted", "task_id", o.OriginalID, "err", err)
			result.Remaining = append(result.Remaining, o)
			continue
		}
		if err := s.orphans.ForgetOrphan(ctx, o.OriginalID); err != nil {
			errs = append(errs, err)
			result.Remaining = append(result.Remaining, o)
			continue
		}
		result.Removed = append(result.Removed, o.OriginalID)
	}

	return result, errors.Join(errs...)
}
