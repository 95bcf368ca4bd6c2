package molcom

// record.go assembles the exported row of a configuration, and the Experiment that
// carries every intermediate result of processing one descriptor

import (
	"fmt"
	"strconv"

	"github.com/iti/rngstream"
)

// RecordColumns names the columns of an exported configuration record, in order
var RecordColumns = []string{"medium", "distance", "stepLength", "duplication", "movementType", "step"}

// ConfigurationRecord is the exported summary of one configuration
type ConfigurationRecord struct {
	Medium       int     `json:"medium" yaml:"medium"`
	Distance     float64 `json:"distance" yaml:"distance"`
	StepLength   float64 `json:"steplength" yaml:"steplength"`
	Duplication  int     `json:"duplication" yaml:"duplication"`
	MovementType int     `json:"movementtype" yaml:"movementtype"`
	Steps        []int   `json:"steps" yaml:"steps"`
}

// BuildRecord gathers the record fields from the parsed descriptor, its result log and the model prediction.
// The molecule count and movement type come from the first declared molecule batch
func BuildRecord(cm *ConfigMap, rl *ResultLog, pred *Prediction) (*ConfigurationRecord, error) {
	medium, err := cm.Int(MediumDimensionXKey)
	if err != nil {
		return nil, err
	}
	stepLength, err := cm.Float(StepLengthXKey)
	if err != nil {
		return nil, err
	}
	first, err := cm.FirstMoleculeBatch()
	if err != nil {
		return nil, err
	}
	carrier, ok := first.(*CarrierBatch)
	if !ok {
		return nil, fmt.Errorf("%w: first molecule batch is %s and has no movement type", ErrMissingEntity, first.Role())
	}

	cr := new(ConfigurationRecord)
	cr.Medium = medium
	cr.Distance = pred.R
	cr.StepLength = stepLength
	cr.Duplication = carrier.Count()
	cr.MovementType = int(carrier.Movement)
	cr.Steps = rl.Steps
	return cr, nil
}

// Columns returns the exported column names
func (cr *ConfigurationRecord) Columns() []string {
	return RecordColumns
}

// Rows flattens the record into one row per trial, repeating the configuration fields
func (cr *ConfigurationRecord) Rows() [][]string {
	prefix := []string{
		strconv.Itoa(cr.Medium),
		strconv.FormatFloat(cr.Distance, 'f', -1, 64),
		strconv.FormatFloat(cr.StepLength, 'f', -1, 64),
		strconv.Itoa(cr.Duplication),
		strconv.Itoa(cr.MovementType),
	}
	rows := make([][]string, 0, len(cr.Steps))
	for _, step := range cr.Steps {
		row := make([]string, 0, len(prefix)+1)
		row = append(row, prefix...)
		row = append(row, strconv.Itoa(step))
		rows = append(rows, row)
	}
	return rows
}

// Experiment holds everything derived from one descriptor
type Experiment struct {
	Path       string               `json:"path" yaml:"path"`
	Config     *ConfigMap           `json:"-" yaml:"-"`
	Log        *ResultLog           `json:"log" yaml:"log"`
	Stats      *StepStats           `json:"stats" yaml:"stats"`
	Prediction *Prediction          `json:"prediction" yaml:"prediction"`
	Record     *ConfigurationRecord `json:"record" yaml:"record"`

	// TransitMean is the measured mean transit time, present when the log has timing columns
	TransitMean *float64 `json:"transitmean,omitempty" yaml:"transitmean,omitempty"`

	// MeanInterval is the bootstrap interval of the mean step count, when requested
	MeanInterval *Interval `json:"meaninterval,omitempty" yaml:"meaninterval,omitempty"`

	Rails RailSummary `json:"rails" yaml:"rails"`
}

// ProcessOpts carries the collaborators ProcessDescriptor needs
type ProcessOpts struct {
	Source    LogSource
	Table     *DiffusionTable
	Replicas  int
	Bootstrap *rngstream.RngStream
}

// processing stages, reported in a DescriptorError
const (
	StageParse   = "parse"
	StageLog     = "result log"
	StageStats   = "statistics"
	StageModel   = "analytical model"
	StageRecord  = "record"
	StageTransit = "transit time"
)

// ProcessDescriptor runs one descriptor through parsing, result log reading, statistics and the
// analytical model.  Any failure is returned as a *DescriptorError and no Experiment is produced
func ProcessDescriptor(descPath string, opts ProcessOpts) (*Experiment, error) {
	fail := func(stage string, err error) (*Experiment, error) {
		return nil, &DescriptorError{Path: descPath, Stage: stage, Err: err}
	}

	if opts.Source == nil {
		opts.Source = CreateDirLogSource("", "")
	}
	if opts.Table == nil {
		opts.Table = DefaultDiffusionTable()
	}

	cm, err := ReadDescriptor(descPath)
	if err != nil {
		return fail(StageParse, err)
	}
	return processConfig(descPath, cm, opts)
}

func processConfig(descPath string, cm *ConfigMap, opts ProcessOpts) (*Experiment, error) {
	fail := func(stage string, err error) (*Experiment, error) {
		return nil, &DescriptorError{Path: descPath, Stage: stage, Err: err}
	}

	exp := &Experiment{Path: descPath, Config: cm}
	exp.Rails = CreateRailNetwork(cm.Microtubules()).Summary()
	outputFile, err := cm.OutputFile()
	if err != nil {
		return fail(StageLog, err)
	}
	if exp.Log, err = ReadResultLog(outputFile, opts.Source); err != nil {
		return fail(StageLog, err)
	}
	if exp.Stats, err = ComputeStepStats(exp.Log.Steps); err != nil {
		return fail(StageStats, err)
	}
	if exp.Log.Timing != nil {
		mean, err := exp.Log.MeanTransitTime()
		if err != nil {
			return fail(StageTransit, err)
		}
		exp.TransitMean = &mean
	}
	if opts.Replicas > 0 && opts.Bootstrap != nil {
		interval, err := BootstrapMean(exp.Log.Steps, opts.Replicas, opts.Bootstrap)
		if err != nil {
			return fail(StageStats, err)
		}
		exp.MeanInterval = &interval
	}
	if exp.Prediction, err = CreateAnalyticalModel(cm, opts.Table); err != nil {
		return fail(StageModel, err)
	}
	if exp.Record, err = BuildRecord(cm, exp.Log, exp.Prediction); err != nil {
		return fail(StageRecord, err)
	}
	return exp, nil
}
