package molcom

// param.go holds the parameters of a batch run and the yaml/json serialization helpers
// shared by every structure this package writes to or reads from a file

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// BatchCfg holds the parameters of one batch of descriptor analyses
type BatchCfg struct {
	// Name is an identifier for the batch, used in traces and the exported record set
	Name string `json:"name" yaml:"name"`

	// DescriptorGlob selects the descriptor files, e.g. "./dat/*.dat"
	DescriptorGlob string `json:"descriptorglob" yaml:"descriptorglob"`

	// ResultDir and ResultPrefix locate the result log of a descriptor at
	// ResultDir/ResultPrefix<outputFile>
	ResultDir    string `json:"resultdir" yaml:"resultdir"`
	ResultPrefix string `json:"resultprefix" yaml:"resultprefix"`

	// Output is the file the configuration records are exported to.  A .csv extension
	// selects row-per-step csv, .yaml/.yml/.json a serialized record set
	Output string `json:"output" yaml:"output"`

	// Overwrite permits replacing an existing Output; when false an existing Output is kept
	Overwrite bool `json:"overwrite" yaml:"overwrite"`

	// Header asks the csv exporter to write the column names as the first row
	Header bool `json:"header" yaml:"header"`

	// TraceFile, when not empty, receives the processing trace of the batch
	TraceFile string `json:"tracefile" yaml:"tracefile"`

	// BootstrapReplicas > 0 enables a bootstrap interval for the mean step count
	BootstrapReplicas int `json:"bootstrapreplicas" yaml:"bootstrapreplicas"`

	// DiffusionTable, when not empty, names a yaml/json file replacing the embedded table
	DiffusionTable string `json:"diffusiontable" yaml:"diffusiontable"`
}

// CreateBatchCfg is a constructor.  The defaults reproduce the layout the simulator
// leaves behind: descriptors in ./dat, result logs in ./result prefixed by batch_
func CreateBatchCfg(name string) *BatchCfg {
	bc := new(BatchCfg)
	bc.Name = name
	bc.DescriptorGlob = "./dat/*.dat"
	bc.ResultDir = DefaultResultDir
	bc.ResultPrefix = DefaultResultPrefix
	bc.Output = "output.csv"
	return bc
}

// Validate checks that the parameters make sense together
func (bc *BatchCfg) Validate() error {
	if len(bc.DescriptorGlob) == 0 {
		return fmt.Errorf("batch %s: descriptor glob is empty", bc.Name)
	}
	if bc.BootstrapReplicas < 0 {
		return fmt.Errorf("batch %s: bootstrap replicas must not be negative", bc.Name)
	}
	if len(bc.Output) > 0 && outputFormat(bc.Output) == unknownFormat {
		return fmt.Errorf("batch %s: output %s has an unrecognized extension", bc.Name, bc.Output)
	}
	return nil
}

// WriteToFile stores the BatchCfg struct to the file whose name is given.
// Serialization to json or to yaml is selected based on the extension of this name.
func (bc *BatchCfg) WriteToFile(filename string) error {
	return writeSerialized(filename, *bc)
}

// ReadBatchCfg deserializes a byte slice holding a representation of a BatchCfg struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.  Fields the file leaves empty keep the CreateBatchCfg defaults
func ReadBatchCfg(filename string, useYAML bool, dict []byte) (*BatchCfg, error) {
	example := CreateBatchCfg("")
	if err := readSerialized(filename, useYAML, dict, example); err != nil {
		return nil, err
	}
	return example, nil
}

type serialFormat int

const (
	unknownFormat serialFormat = iota
	yamlFormat
	jsonFormat
	csvFormat
)

// outputFormat selects a serialization from the extension of filename
func outputFormat(filename string) serialFormat {
	switch path.Ext(filename) {
	case ".yaml", ".YAML", ".yml":
		return yamlFormat
	case ".json", ".JSON":
		return jsonFormat
	case ".csv", ".CSV":
		return csvFormat
	}
	return unknownFormat
}

// writeSerialized stores obj to the file whose name is given, as yaml or json
// depending on its extension
func writeSerialized(filename string, obj any) error {
	var bytes []byte
	var merr error

	switch outputFormat(filename) {
	case yamlFormat:
		bytes, merr = yaml.Marshal(obj)
	case jsonFormat:
		bytes, merr = json.MarshalIndent(obj, "", "\t")
	default:
		return fmt.Errorf("cannot select a serialization for %s", filename)
	}
	if merr != nil {
		return merr
	}

	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	_, werr := f.Write(bytes)
	if werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

// readSerialized decodes dict into out, reading dict from the file whose name
// is given when it is empty
func readSerialized(filename string, useYAML bool, dict []byte, out any) error {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return err
		}
	}

	if useYAML {
		err = yaml.Unmarshal(dict, out)
	} else {
		err = json.Unmarshal(dict, out)
	}
	return err
}
