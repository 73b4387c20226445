package jobs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/idxlab/terminal/internal/contracts"
	"github.com/idxlab/terminal/internal/flow"
	"github.com/idxlab/terminal/internal/report"
	"github.com/idxlab/terminal/internal/scanner"
	"github.com/idxlab/terminal/pkg/logger"
)

// Runner is the scan entry point the job drives.
type Runner interface {
	Scan(ctx context.Context, symbols []string) (*scanner.Report, error)
}

// Sink receives the finished report, e.g. the API layer caching the latest
// scan for clients.
type Sink interface {
	SetLatest(rep *scanner.Report)
}

// DailyScanJob runs the full pre-open scan: load the universe, score it,
// write the workbook, and push the morning briefing.
type DailyScanJob struct {
	runner   Runner
	symbols  func() ([]string, error)
	excel    *report.ExcelWriter
	notifier contracts.Notifier
	sink     Sink
	outDir   string
	topN     int
	logger   *logger.Logger

	// Leaderboard of the previous run, for rotation detection. The first
	// run seeds it without alerting.
	prevLeaders []flow.SectorMomentum
}

func NewDailyScanJob(
	runner Runner,
	symbols func() ([]string, error),
	excel *report.ExcelWriter,
	notifier contracts.Notifier,
	sink Sink,
	outDir string,
	topN int,
	log *logger.Logger,
) *DailyScanJob {
	return &DailyScanJob{
		runner:   runner,
		symbols:  symbols,
		excel:    excel,
		notifier: notifier,
		sink:     sink,
		outDir:   outDir,
		topN:     topN,
		logger:   log,
	}
}

func (j *DailyScanJob) Name() string { return "daily_scan" }

// Schedule runs at 08:00 on weekdays, before the 09:00 IDX open.
func (j *DailyScanJob) Schedule() string { return "0 8 * * 1-5" }

func (j *DailyScanJob) Run(ctx context.Context) error {
	symbols, err := j.symbols()
	if err != nil {
		return fmt.Errorf("load universe: %w", err)
	}

	rep, err := j.runner.Scan(ctx, symbols)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if j.sink != nil {
		j.sink.SetLatest(rep)
	}

	if j.excel != nil {
		path := filepath.Join(j.outDir, fmt.Sprintf("terminal_%s.xlsx", time.Now().Format("20060102")))
		if err := j.excel.Write(path, rep); err != nil {
			j.logger.WithError(err).Warn("Workbook write failed")
		} else {
			j.logger.WithField("path", path).Info("Workbook written")
		}
	}

	if entered := flow.LeaderShift(j.prevLeaders, rep.SectorLeaders, 3); len(entered) > 0 && j.prevLeaders != nil {
		j.logger.WithField("sectors", entered).Info("Sector rotation detected")
		if j.notifier != nil {
			if err := j.notifier.Send(ctx, report.SectorShiftAlert(entered, rep.SectorLeaders)); err != nil {
				j.logger.WithError(err).Warn("Sector shift alert delivery failed")
			}
		}
	}
	j.prevLeaders = rep.SectorLeaders

	if j.notifier != nil {
		if err := j.notifier.Send(ctx, report.MorningReport(rep, j.topN)); err != nil {
			j.logger.WithError(err).Warn("Morning report delivery failed")
		}
		for _, r := range rep.Results {
			if scanner.ValueFlowAligned(r) {
				if err := j.notifier.Send(ctx, report.AlignmentAlert(r, rep.IndexRegime)); err != nil {
					j.logger.WithError(err).Warn("Alignment alert delivery failed")
				}
			}
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"scanned": rep.Scanned,
		"scored":  rep.Scored,
		"regime":  rep.IndexRegime,
	}).Info("Daily scan complete")
	return nil
}
