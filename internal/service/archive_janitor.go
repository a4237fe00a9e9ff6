package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cordoba/internal/config"
	"cordoba/internal/port"
)

// ArchiveJanitor removes archived uploads that no import run references.
// Archives of previews that expired or were evicted before confirmation end
// up here, as do archives of commits that failed before opening their run.
type ArchiveJanitor struct {
	storage  port.ObjectStorage
	runs     port.ImportRunRepository
	bucket   string
	minAge   time.Duration
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewArchiveJanitor creates a new ArchiveJanitor. Objects younger than
// cfg.OrphanArchiveAge are never touched, so it must exceed the preview TTL.
func NewArchiveJanitor(storage port.ObjectStorage, runs port.ImportRunRepository, bucket string,
	cfg config.ImportConfig, log logrus.FieldLogger) *ArchiveJanitor {
	return &ArchiveJanitor{
		storage:  storage,
		runs:     runs,
		bucket:   bucket,
		minAge:   cfg.OrphanArchiveAge,
		interval: cfg.ArchiveSweepInterval,
		log:      log.WithField("component", "archive_janitor"),
		now:      time.Now,
	}
}

// Start runs Sweep on every tick until ctx is canceled.
func (j *ArchiveJanitor) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.log.WithFields(logrus.Fields{
		"interval": j.interval.String(),
		"min_age":  j.minAge.String(),
	}).Info("started")
	for {
		select {
		case <-ctx.Done():
			j.log.Info("shutdown complete")
			return
		case <-ticker.C:
			n, err := j.Sweep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				j.log.WithError(err).Warn("sweeping orphaned archives")
				continue
			}
			if n > 0 {
				j.log.WithField("deleted", n).Info("orphaned archives deleted")
			}
		}
	}
}

// Sweep deletes old unreferenced archives and reports how many were removed.
// A failed delete is logged and retried on the next sweep.
func (j *ArchiveJanitor) Sweep(ctx context.Context) (int, error) {
	objects, err := j.storage.List(ctx, j.bucket, ArchivePrefix)
	if err != nil {
		return 0, fmt.Errorf("archiveJanitor.Sweep: %w", err)
	}

	cutoff := j.now().Add(-j.minAge)
	var candidates []string
	for _, obj := range objects {
		if obj.LastModified.Before(cutoff) {
			candidates = append(candidates, obj.Key)
		}
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	referenced, err := j.runs.ReferencedFilePaths(ctx, candidates)
	if err != nil {
		return 0, fmt.Errorf("archiveJanitor.Sweep: %w", err)
	}

	deleted := 0
	for _, key := range candidates {
		if _, ok := referenced[key]; ok {
			continue
		}
		if err := j.storage.Delete(ctx, j.bucket, key); err != nil {
			j.log.WithError(err).WithField("key", key).Warn("deleting orphaned archive")
			continue
		}
		deleted++
	}
	return deleted, nil
}
