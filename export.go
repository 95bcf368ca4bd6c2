package molcom

// export.go writes configuration records out for plotting: as csv with one row per
// trial, or as a yaml/json record set

import (
	"encoding/csv"
	"io"
	"os"
)

// RecordWriter writes configuration records as csv, one row per trial step
type RecordWriter struct {
	w           *csv.Writer
	header      bool
	wroteHeader bool
}

// CreateRecordWriter is a constructor.  When header is set the column names are written
// ahead of the first record
func CreateRecordWriter(w io.Writer, header bool) *RecordWriter {
	cw := csv.NewWriter(w)
	return &RecordWriter{w: cw, header: header}
}

// Write appends the rows of cr
func (rw *RecordWriter) Write(cr *ConfigurationRecord) error {
	if rw.header && !rw.wroteHeader {
		if err := rw.w.Write(cr.Columns()); err != nil {
			return err
		}
		rw.wroteHeader = true
	}
	if err := rw.w.WriteAll(cr.Rows()); err != nil {
		return err
	}
	return rw.w.Error()
}

// Flush pushes buffered rows to the underlying writer
func (rw *RecordWriter) Flush() error {
	rw.w.Flush()
	return rw.w.Error()
}

// RecordSet holds the records of one batch, in processing order
type RecordSet struct {
	Name    string                `json:"name" yaml:"name"`
	Columns []string              `json:"columns" yaml:"columns"`
	Records []ConfigurationRecord `json:"records" yaml:"records"`
}

// CreateRecordSet is a constructor
func CreateRecordSet(name string) *RecordSet {
	rs := new(RecordSet)
	rs.Name = name
	rs.Columns = RecordColumns
	rs.Records = make([]ConfigurationRecord, 0)
	return rs
}

// AddRecord appends cr to the set
func (rs *RecordSet) AddRecord(cr *ConfigurationRecord) {
	rs.Records = append(rs.Records, *cr)
}

// WriteToFile stores the RecordSet to the file whose name is given.
// A .csv extension selects row-per-step csv without a header, otherwise
// serialization to json or to yaml is selected based on the extension
func (rs *RecordSet) WriteToFile(filename string) error {
	return rs.writeFile(filename, false)
}

func (rs *RecordSet) writeFile(filename string, header bool) error {
	if outputFormat(filename) != csvFormat {
		return writeSerialized(filename, *rs)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	rw := CreateRecordWriter(f, header)
	for idx := range rs.Records {
		if err := rw.Write(&rs.Records[idx]); err != nil {
			f.Close()
			return err
		}
	}
	if err := rw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRecordSet deserializes a byte slice holding a representation of a RecordSet struct.
// If the input argument of dict (those bytes) is empty, the file whose name is given is read
// to acquire them.
func ReadRecordSet(filename string, useYAML bool, dict []byte) (*RecordSet, error) {
	example := RecordSet{}
	if err := readSerialized(filename, useYAML, dict, &example); err != nil {
		return nil, err
	}
	return &example, nil
}
