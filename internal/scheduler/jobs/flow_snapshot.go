package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/pkg/logger"
)

// FlowSnapshotJob pulls the day's foreign buy/sell summary after the close
// and persists the net values. History accumulates one row per symbol per
// trading day.
type FlowSnapshotJob struct {
	source contracts.FlowSource
	repo   contracts.FlowRepository
	logger *logger.Logger
}

func NewFlowSnapshotJob(source contracts.FlowSource, repo contracts.FlowRepository, log *logger.Logger) *FlowSnapshotJob {
	return &FlowSnapshotJob{
		source: source,
		repo:   repo,
		logger: log,
	}
}

func (j *FlowSnapshotJob) Name() string { return "flow_snapshot" }

// Schedule runs at 18:00 on weekdays, after the IDX close.
func (j *FlowSnapshotJob) Schedule() string { return "0 18 * * 1-5" }

func (j *FlowSnapshotJob) Run(ctx context.Context) error {
	date := time.Now()

	snaps, err := j.source.FetchDaily(ctx, date)
	if err != nil {
		return fmt.Errorf("fetch foreign flow: %w", err)
	}
	if len(snaps) == 0 {
		j.logger.WithField("date", date.Format("2006-01-02")).Info("No foreign flow rows, likely a holiday")
		return nil
	}

	if err := j.repo.SaveSnapshots(ctx, snaps); err != nil {
		return fmt.Errorf("save foreign flow: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"symbols": len(snaps),
	}).Info("Foreign flow snapshot saved")
	return nil
}
