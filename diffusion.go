package molcom

// diffusion.go holds the table that maps a simulator step length to the diffusion
// coefficient of the molecule it discretizes.  The standard table is embedded in the
// package; a replacement can be read from a yaml or json file and handed to the model.

import (
	_ "embed"
	"fmt"
)

//go:embed diffusion.yaml
var defaultDiffusionYAML []byte

// DefaultDiffusionCoefficient is used when a step length is not in the table
const DefaultDiffusionCoefficient = 0.5

// DiffusionEntry describes the molecule a step length stands for
type DiffusionEntry struct {
	StepLength  float64 `json:"steplength" yaml:"steplength"`
	Diameter    float64 `json:"diameter" yaml:"diameter"`
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
}

// DiffusionTable is a read-only lookup of diffusion coefficients by exact step length
type DiffusionTable struct {
	TableName string           `json:"tablename" yaml:"tablename"`
	Default   float64          `json:"default" yaml:"default"`
	Entries   []DiffusionEntry `json:"entries" yaml:"entries"`

	byStep map[float64]DiffusionEntry
}

// CreateDiffusionTable is a constructor.  The entries are indexed by step length;
// a repeated step length is an error
func CreateDiffusionTable(name string, dflt float64, entries []DiffusionEntry) (*DiffusionTable, error) {
	dt := &DiffusionTable{TableName: name, Default: dflt, Entries: entries}
	if err := dt.index(); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DiffusionTable) index() error {
	dt.byStep = make(map[float64]DiffusionEntry)
	for _, entry := range dt.Entries {
		_, present := dt.byStep[entry.StepLength]
		if present {
			return fmt.Errorf("diffusion table %s lists step length %g twice", dt.TableName, entry.StepLength)
		}
		dt.byStep[entry.StepLength] = entry
	}
	return nil
}

// DefaultDiffusionTable returns the embedded 15 entry table
func DefaultDiffusionTable() *DiffusionTable {
	dt, err := ReadDiffusionTable("", true, defaultDiffusionYAML)
	if err != nil {
		panic(fmt.Errorf("embedded diffusion table: %w", err))
	}
	return dt
}

// Lookup returns the table entry for stepLength, and whether there is one
func (dt *DiffusionTable) Lookup(stepLength float64) (DiffusionEntry, bool) {
	entry, present := dt.byStep[stepLength]
	return entry, present
}

// Coefficient returns the diffusion coefficient for stepLength, or the table's
// default when the step length does not match an entry exactly
func (dt *DiffusionTable) Coefficient(stepLength float64) float64 {
	entry, present := dt.byStep[stepLength]
	if !present {
		return dt.Default
	}
	return entry.Coefficient
}

// WriteToFile stores the DiffusionTable struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (dt *DiffusionTable) WriteToFile(filename string) error {
	return writeSerialized(filename, *dt)
}

// ReadDiffusionTable deserializes a byte slice holding a representation of a DiffusionTable struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  A table without a default falls back to DefaultDiffusionCoefficient
func ReadDiffusionTable(filename string, useYAML bool, dict []byte) (*DiffusionTable, error) {
	example := DiffusionTable{}
	if err := readSerialized(filename, useYAML, dict, &example); err != nil {
		return nil, err
	}
	if !(example.Default > 0.0) {
		example.Default = DefaultDiffusionCoefficient
	}
	if err := example.index(); err != nil {
		return nil, err
	}
	return &example, nil
}
