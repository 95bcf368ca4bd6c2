package molcom

// trace.go records what happened to each descriptor of a batch, stamped with the
// virtual time at which the batch's event manager processed it

import (
	"sort"
	"strconv"

	"github.com/iti/evt/vrtime"
)

// trace operations
const (
	TraceScheduled = "scheduled"
	TraceProcessed = "processed"
	TraceFailed    = "failed"
	TraceExported  = "exported"
)

// TraceInst is one trace record
type TraceInst struct {
	TraceTime  string `json:"tracetime" yaml:"tracetime"`
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Op         string `json:"op" yaml:"op"`
	Detail     string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// TraceManager gathers trace records of a batch, indexed by the descriptor's position in the batch
type TraceManager struct {
	// batch uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// name of the batch
	BatchName string `json:"batchname" yaml:"batchname"`

	// descriptor path associated with each index
	NameByID map[int]string `json:"namebyid" yaml:"namebyid"`

	// all trace records for this batch
	Traces map[int][]TraceInst `json:"traces" yaml:"traces"`
}

// CreateTraceManager is a constructor.  It saves the name of the batch and a flag
// indicating whether the trace manager is active.  An inactive manager drops every record,
// so callers can trace unconditionally
func CreateTraceManager(batchName string, active bool) *TraceManager {
	tm := new(TraceManager)
	tm.InUse = active
	tm.BatchName = batchName
	tm.NameByID = make(map[int]string)
	tm.Traces = make(map[int][]TraceInst)
	return tm
}

// Active tells the caller whether the Trace Manager is actively being used
func (tm *TraceManager) Active() bool {
	return tm.InUse
}

// AddName associates a descriptor path with its batch index
func (tm *TraceManager) AddName(id int, descPath string) {
	if tm.InUse {
		tm.NameByID[id] = descPath
	}
}

// AddTrace creates a record from its calling arguments and stores it under id
func (tm *TraceManager) AddTrace(vrt vrtime.Time, id int, op, detail string) {
	if !tm.InUse {
		return
	}
	trc := TraceInst{
		TraceTime:  strconv.FormatFloat(vrt.Seconds(), 'f', -1, 64),
		Descriptor: tm.NameByID[id],
		Op:         op,
		Detail:     detail,
	}
	tm.Traces[id] = append(tm.Traces[id], trc)
}

// Ordered returns every trace record sorted by virtual time
func (tm *TraceManager) Ordered() []TraceInst {
	all := make([]TraceInst, 0)
	ids := make([]int, 0, len(tm.Traces))
	for id := range tm.Traces {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		all = append(all, tm.Traces[id]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		v1, _ := strconv.ParseFloat(all[i].TraceTime, 64)
		v2, _ := strconv.ParseFloat(all[j].TraceTime, 64)
		return v1 < v2
	})
	return all
}

// WriteToFile stores the trace to the file whose name is given, as json or yaml depending
// on its extension.  When globalOrder is set the records are merged into one list ordered by time.
// Nothing is written, and false returned, when the manager is inactive
func (tm *TraceManager) WriteToFile(filename string, globalOrder bool) (bool, error) {
	if !tm.InUse {
		return false, nil
	}
	if !globalOrder {
		return true, writeSerialized(filename, *tm)
	}

	ntm := CreateTraceManager(tm.BatchName, tm.InUse)
	for key, value := range tm.NameByID {
		ntm.NameByID[key] = value
	}
	ntm.Traces[0] = tm.Ordered()
	return true, writeSerialized(filename, *ntm)
}
