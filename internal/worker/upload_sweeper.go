package worker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ImageIndex lists every image reference held by units.
type ImageIndex interface {
	UnitImagePaths(ctx context.Context) ([]string, error)
}

// UploadSweeper removes uploaded files that no unit references once they are older than grace.
type UploadSweeper struct {
	index    ImageIndex
	dir      string
	grace    time.Duration
	interval time.Duration
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewUploadSweeper(index ImageIndex, dir string, grace, interval time.Duration, logger *zerolog.Logger) *UploadSweeper {
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &UploadSweeper{
		index:    index,
		dir:      dir,
		grace:    grace,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start sweeps every interval until ctx is done. A zero interval disables it.
func (s *UploadSweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info().Msg("upload sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("upload sweep failed")
				continue
			}
			if removed > 0 {
				s.logger.Info().Int("removed", removed).Msg("orphaned uploads removed")
			}
		}
	}
}

// Sweep deletes unreferenced unit-* files past the grace period and returns how many went.
func (s *UploadSweeper) Sweep(ctx context.Context) (int, error) {
	refs, err := s.index.UnitImagePaths(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]bool, len(refs))
	for _, ref := range refs {
		referenced[path.Base(ref)] = true
	}

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "unit-") || referenced[name] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("remove orphaned upload")
			continue
		}
		removed++
	}
	return removed, nil
}
