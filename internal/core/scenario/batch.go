package scenario

import (
	"context"
	"fmt"

	"github.com/zeusync/mechsim/internal/core/observability/log"
	"github.com/zeusync/mechsim/pkg/concurrent"
)

// LoadAll loads every path with at most limit files open at once. Results
// keep the order of paths. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, limit int) ([]*Config, error) {
	return concurrent.Map(ctx, paths, limit, func(_ context.Context, path string) (*Config, error) {
		return LoadFile(path)
	})
}

// CheckAll builds every scenario without running it, so a batch can be
// rejected before any simulation starts.
func CheckAll(ctx context.Context, configs []*Config, limit int, logger log.Log) error {
	if logger == nil {
		logger = log.NewNop()
	}
	return concurrent.ForEach(ctx, configs, limit, func(_ context.Context, c *Config) error {
		r, err := c.Build(log.NewNop(), nil)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", c.Name, err)
		}
		logger.Info("scenario ok",
			log.String("scenario", c.Name),
			log.Int("bodies", r.World().Len()),
			log.Int("robots", len(r.Robots())))
		return nil
	})
}
