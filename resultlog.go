package molcom

// resultlog.go reads the per-trial result log the simulator writes for a configuration.
// Each line is one trial: the delivery step count, optionally followed by four phase
// timing columns and/or five collision count columns.  Which sections are present is
// inferred from the number of fields on the first line.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// default location of result logs, relative to the working directory
const (
	DefaultResultDir    = "./result"
	DefaultResultPrefix = "batch_"
)

// number of columns in the optional sections of a result log
const (
	timingColumns    = 4
	collisionColumns = 5
)

// LogSource resolves the output name a descriptor declares to the result log's contents
type LogSource interface {
	Open(outputFile string) (io.ReadCloser, error)
}

// DirLogSource finds result logs in a directory, at Dir/Prefix<outputFile>
type DirLogSource struct {
	Dir    string
	Prefix string
}

// CreateDirLogSource is a constructor.  Empty arguments select DefaultResultDir and DefaultResultPrefix
func CreateDirLogSource(dir, prefix string) *DirLogSource {
	if len(dir) == 0 {
		dir = DefaultResultDir
	}
	if len(prefix) == 0 {
		prefix = DefaultResultPrefix
	}
	return &DirLogSource{Dir: dir, Prefix: prefix}
}

// Path returns the location of the result log for outputFile
func (dls *DirLogSource) Path(outputFile string) string {
	return filepath.Join(dls.Dir, dls.Prefix+outputFile)
}

// Open implements LogSource
func (dls *DirLogSource) Open(outputFile string) (io.ReadCloser, error) {
	logPath := dls.Path(outputFile)
	f, err := os.Open(logPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, logPath)
	}
	return f, err
}

// LogLayout tells which optional sections a result log carries
type LogLayout struct {
	Timing     bool `json:"timing" yaml:"timing"`
	Collisions bool `json:"collisions" yaml:"collisions"`
}

// InferLayout returns the layout selected by the number of comma separated fields on a log's first line
func InferLayout(numFields int) LogLayout {
	switch numFields {
	case 1 + timingColumns:
		return LogLayout{Timing: true}
	case 1 + collisionColumns:
		return LogLayout{Collisions: true}
	case 1 + timingColumns + collisionColumns:
		return LogLayout{Timing: true, Collisions: true}
	}
	return LogLayout{}
}

// PhaseTimingSums aggregates the timing columns over all trials
type PhaseTimingSums struct {
	InfoTime  int `json:"infotime" yaml:"infotime"`
	InfoCount int `json:"infocount" yaml:"infocount"`
	AckTime   int `json:"acktime" yaml:"acktime"`
	AckCount  int `json:"ackcount" yaml:"ackcount"`
}

// MeanTransitTime returns the mean informational transit time plus the mean
// acknowledgement transit time
func (pts *PhaseTimingSums) MeanTransitTime() (float64, error) {
	if pts.InfoCount == 0 {
		return 0, fmt.Errorf("%w: total informational molecule count", ErrDivision)
	}
	if pts.AckCount == 0 {
		return 0, fmt.Errorf("%w: total acknowledgement molecule count", ErrDivision)
	}
	return float64(pts.InfoTime)/float64(pts.InfoCount) + float64(pts.AckTime)/float64(pts.AckCount), nil
}

// CollisionSums holds one sum per collision column
type CollisionSums [collisionColumns]int

// ResultLog is the content of one configuration's result log
type ResultLog struct {
	Layout LogLayout `json:"layout" yaml:"layout"`

	// Steps holds the delivery step count of every trial, ascending
	Steps []int `json:"steps" yaml:"steps"`

	// Timing is nil unless Layout.Timing
	Timing *PhaseTimingSums `json:"timing,omitempty" yaml:"timing,omitempty"`

	// Collisions is nil unless Layout.Collisions
	Collisions *CollisionSums `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// NumTrials returns the number of trials in the log
func (rl *ResultLog) NumTrials() int {
	return len(rl.Steps)
}

// MeanTransitTime combines the phase timing sums, see PhaseTimingSums.MeanTransitTime
func (rl *ResultLog) MeanTransitTime() (float64, error) {
	if rl.Timing == nil {
		return 0, fmt.Errorf("%w: result log has no timing columns", ErrMissingEntity)
	}
	return rl.Timing.MeanTransitTime()
}

// ReadResultLog locates the result log for outputFile through src and parses it
func ReadResultLog(outputFile string, src LogSource) (*ResultLog, error) {
	if len(outputFile) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntity, OutputFileKey)
	}
	rc, err := src.Open(outputFile)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ParseResultLog(rc)
}

// ParseResultLog parses result log text
func ParseResultLog(r io.Reader) (*ResultLog, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: result log holds no trials", ErrEmptyInput)
	}

	rl := new(ResultLog)
	rl.Layout = InferLayout(len(rows[0]))
	columns := transpose(rows)

	rl.Steps = columns[0]
	slices.Sort(rl.Steps)
	nxt := 1

	if rl.Layout.Timing {
		sums := columnSums(columns[nxt : nxt+timingColumns])
		rl.Timing = &PhaseTimingSums{InfoTime: sums[0], InfoCount: sums[1], AckTime: sums[2], AckCount: sums[3]}
		nxt += timingColumns
	}
	if rl.Layout.Collisions {
		sums := columnSums(columns[nxt : nxt+collisionColumns])
		rl.Collisions = new(CollisionSums)
		copy(rl.Collisions[:], sums)
	}
	return rl, nil
}

// readRows parses every non-blank line as comma separated integers.  Every row
// must have as many fields as the first
func readRows(r io.Reader) ([][]int, error) {
	rows := make([][]int, 0)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(line, ",")
		if len(rows) > 0 && len(fields) != len(rows[0]) {
			return nil, formatErr("result log line %d has %d fields, expected %d", lineNum, len(fields), len(rows[0]))
		}
		row := make([]int, len(fields))
		for idx, field := range fields {
			v, err := parseInt(field)
			if err != nil {
				return nil, fmt.Errorf("result log line %d: %w", lineNum, err)
			}
			row[idx] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// transpose turns a slice of equal length rows into a slice of columns
func transpose(rows [][]int) [][]int {
	columns := make([][]int, len(rows[0]))
	for col := range columns {
		columns[col] = make([]int, len(rows))
		for idx, row := range rows {
			columns[col][idx] = row[col]
		}
	}
	return columns
}

// columnSums reduces each column to its sum
func columnSums(columns [][]int) []int {
	sums := make([]int, len(columns))
	for idx, col := range columns {
		for _, v := range col {
			sums[idx] += v
		}
	}
	return sums
}

func toFloats(vals []int) []float64 {
	rtn := make([]float64, len(vals))
	for idx, v := range vals {
		rtn[idx] = float64(v)
	}
	return rtn
}
