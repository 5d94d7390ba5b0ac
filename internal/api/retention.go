package api

import (
	"context"
	"time"

	"github.com/JaimeStill/verdict/internal/config"
)

// RetentionJob is the scheduler name of the analysis purge.
const RetentionJob = "retention"

func scheduleRetention(cfg *config.RetentionConfig, runtime *Runtime, domain *Domain) error {
	if !cfg.Enabled() {
		runtime.Logger.Info("retention disabled")
		return nil
	}

	maxAge := cfg.MaxAgeDuration()

	return runtime.Scheduler.Add(RetentionJob, cfg.Schedule, func(ctx context.Context) error {
		_, err := domain.Analyses.Purge(ctx, time.Now().Add(-maxAge))
		return err
	})
}
