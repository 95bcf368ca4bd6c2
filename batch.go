package molcom

// batch.go drives the analysis of every descriptor a BatchCfg selects.  Each descriptor is
// scheduled as an event on an evtm.EventManager, one virtual second apart in natural file
// name order, so that the trace records a deterministic processing order.  A failing
// descriptor is reported and the batch moves on to the next one.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/facette/natsort"
	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
	"github.com/iti/rngstream"

	"github.com/iti/molcom/internal/logging"
)

// Batch analyzes a set of descriptors
type Batch struct {
	Cfg *BatchCfg

	source    LogSource
	table     *DiffusionTable
	rng       *rngstream.RngStream
	log       logging.Logger
	collector *BatchCollector
	trace     *TraceManager

	// per-run state, reset by Run
	ctx         context.Context
	paths       []string
	experiments []*Experiment
	failures    []*DescriptorError
}

// BatchReport is the outcome of a batch run
type BatchReport struct {
	// Experiments holds the successfully processed descriptors, in processing order
	Experiments []*Experiment

	// Failures lists each descriptor that could not be processed and why
	Failures []*DescriptorError

	// Exported is true when the records were written to the configured output
	Exported bool
}

// Records returns the configuration records of the successful experiments
func (br *BatchReport) Records() []*ConfigurationRecord {
	records := make([]*ConfigurationRecord, 0, len(br.Experiments))
	for _, exp := range br.Experiments {
		records = append(records, exp.Record)
	}
	return records
}

// CreateBatch is a constructor.  A nil logger drops log output and a nil collector disables metrics
func CreateBatch(cfg *BatchCfg, logger logging.Logger, collector *BatchCollector) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Noop()
	}

	table := DefaultDiffusionTable()
	if len(cfg.DiffusionTable) > 0 {
		var err error
		table, err = ReadDiffusionTable(cfg.DiffusionTable, outputFormat(cfg.DiffusionTable) != jsonFormat, []byte{})
		if err != nil {
			return nil, fmt.Errorf("batch %s: diffusion table: %w", cfg.Name, err)
		}
	}

	bt := new(Batch)
	bt.Cfg = cfg
	bt.source = CreateDirLogSource(cfg.ResultDir, cfg.ResultPrefix)
	bt.table = table
	bt.log = logger.With(logging.String("batch", cfg.Name))
	bt.collector = collector
	bt.trace = CreateTraceManager(cfg.Name, len(cfg.TraceFile) > 0)
	if cfg.BootstrapReplicas > 0 {
		bt.rng = rngstream.New(cfg.Name + "-bootstrap")
	}
	return bt, nil
}

// SetLogSource replaces the directory based result log lookup
func (bt *Batch) SetLogSource(src LogSource) {
	bt.source = src
}

// Trace returns the batch's trace manager
func (bt *Batch) Trace() *TraceManager {
	return bt.trace
}

// Discover returns the descriptor files the batch selects, in natural order ("a2" before "a10")
func (bt *Batch) Discover() ([]string, error) {
	paths, err := filepath.Glob(bt.Cfg.DescriptorGlob)
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", bt.Cfg.Name, err)
	}
	natsort.Sort(paths)
	return paths, nil
}

// Run processes every descriptor, exports the records of those that succeeded and writes the trace.
// The error return is reserved for failures of the batch as a whole; a failing descriptor is
// reported in BatchReport.Failures
func (bt *Batch) Run(ctx context.Context) (*BatchReport, error) {
	paths, err := bt.Discover()
	if err != nil {
		return nil, err
	}
	bt.ctx = ctx
	bt.paths = paths
	bt.experiments = make([]*Experiment, len(paths))
	bt.failures = make([]*DescriptorError, 0)

	bt.log.Info(ctx, "batch starting", logging.Int("descriptors", len(paths)))
	evtMgr := evtm.New()
	for idx, descPath := range paths {
		bt.trace.AddName(idx, descPath)
		bt.trace.AddTrace(vrtime.SecondsToTime(0.0), idx, TraceScheduled, "")
		evtMgr.Schedule(bt, idx, processDescriptorEvt, vrtime.SecondsToTime(float64(idx)))
	}
	evtMgr.Run(float64(len(paths) + 1))

	report := &BatchReport{Failures: bt.failures, Experiments: make([]*Experiment, 0, len(paths))}
	for _, exp := range bt.experiments {
		if exp != nil {
			report.Experiments = append(report.Experiments, exp)
		}
	}

	if report.Exported, err = bt.export(ctx, report); err != nil {
		return report, err
	}
	if _, err := bt.trace.WriteToFile(bt.Cfg.TraceFile, true); err != nil {
		return report, fmt.Errorf("batch %s: trace: %w", bt.Cfg.Name, err)
	}

	bt.log.Info(ctx, "batch finished",
		logging.Int("succeeded", len(report.Experiments)),
		logging.Int("failed", len(report.Failures)))
	return report, nil
}

// processDescriptorEvt is the event handler that processes the descriptor at index data
func processDescriptorEvt(evtMgr *evtm.EventManager, context any, data any) any {
	bt := context.(*Batch)
	idx := data.(int)
	descPath := bt.paths[idx]
	now := vrtime.SecondsToTime(evtMgr.CurrentSeconds())

	exp, err := ProcessDescriptor(descPath, ProcessOpts{
		Source:    bt.source,
		Table:     bt.table,
		Replicas:  bt.Cfg.BootstrapReplicas,
		Bootstrap: bt.rng,
	})
	if err != nil {
		var de *DescriptorError
		if !errors.As(err, &de) {
			de = &DescriptorError{Path: descPath, Stage: StageParse, Err: err}
		}
		bt.failures = append(bt.failures, de)
		bt.collector.ObserveFailure(de.Stage)
		bt.trace.AddTrace(now, idx, TraceFailed, de.Error())
		bt.log.Warn(bt.ctx, "descriptor failed",
			logging.String("descriptor", descPath),
			logging.String("stage", de.Stage),
			logging.Err(de.Err))
		return nil
	}

	bt.experiments[idx] = exp
	bt.collector.ObserveExperiment(exp)
	bt.trace.AddTrace(now, idx, TraceProcessed, fmt.Sprintf("rtt=%g", exp.Prediction.RTT))
	bt.log.Debug(bt.ctx, "descriptor processed",
		logging.String("descriptor", descPath),
		logging.Int("trials", exp.Log.NumTrials()),
		logging.Float("mean", exp.Stats.Mean),
		logging.Float("rtt", exp.Prediction.RTT))
	return nil
}

// export writes the records to the configured output.  An existing output is kept unless
// overwriting is permitted
func (bt *Batch) export(ctx context.Context, report *BatchReport) (bool, error) {
	output := bt.Cfg.Output
	if len(output) == 0 {
		return false, nil
	}
	if !bt.Cfg.Overwrite {
		_, err := os.Stat(output)
		if err == nil {
			bt.log.Info(ctx, "output exists, keeping it", logging.String("output", output))
			return false, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
	}

	rs := CreateRecordSet(bt.Cfg.Name)
	for _, cr := range report.Records() {
		rs.AddRecord(cr)
	}
	if err := rs.writeFile(output, bt.Cfg.Header); err != nil {
		return false, fmt.Errorf("batch %s: export: %w", bt.Cfg.Name, err)
	}
	for idx := range bt.experiments {
		if bt.experiments[idx] != nil {
			bt.trace.AddTrace(vrtime.SecondsToTime(float64(len(bt.paths))), idx, TraceExported, output)
		}
	}
	bt.log.Info(ctx, "records exported", logging.String("output", output), logging.Int("records", len(rs.Records)))
	return true, nil
}
