package molcom

// descriptor.go parses the line oriented experiment descriptor into a ConfigMap.
// Each line is "key value"; lines starting with '*' are comments.  The key selects how
// the value is interpreted: as an entity, a float, a flag, a string or (by default) an integer.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// KeyKind classifies a descriptor key by how its value is parsed and stored
type KeyKind int

const (
	IntKey KeyKind = iota
	EndpointKey
	RelayKey
	MoleculeKey
	MicrotubuleKey
	FloatKey
	StringKey
	FlagKey
)

// descriptor keys the analysis reads directly
const (
	TransmitterKey      = "transmitter"
	ReceiverKey         = "receiver"
	IntermediateNodeKey = "intermediateNode"
	MoleculeParamsKey   = "moleculeParams"
	MicrotubuleParamKey = "microtubuleParams"
	StepLengthXKey      = "stepLengthX"
	MediumDimensionXKey = "mediumDimensionX"
	OutputFileKey       = "outputFile"
)

var endpointKeys = []string{TransmitterKey, ReceiverKey}
var floatKeys = []string{"probDRail", StepLengthXKey, "stepLengthY", "stepLengthZ"}
var flagKeys = []string{"useCollisions", "useAcknowledgements", "decomposing"}

// ClassifyKey returns the KeyKind for a descriptor key.  Keys match exactly, except that
// intermediate nodes may be numbered ("intermediateNode2")
func ClassifyKey(key string) KeyKind {
	switch {
	case slices.Contains(endpointKeys, key):
		return EndpointKey
	case isRelayKey(key):
		return RelayKey
	case key == MoleculeParamsKey:
		return MoleculeKey
	case key == MicrotubuleParamKey:
		return MicrotubuleKey
	case slices.Contains(floatKeys, key):
		return FloatKey
	case key == OutputFileKey:
		return StringKey
	case slices.Contains(flagKeys, key):
		return FlagKey
	}
	return IntKey
}

func isRelayKey(key string) bool {
	suffix, found := strings.CutPrefix(key, IntermediateNodeKey)
	if !found {
		return false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// A descValue holds the value given to one key; which field is used is
// known from kind
type descValue struct {
	kind        KeyKind
	intValue    int
	floatValue  float64
	stringValue string
	boolValue   bool
	endpoint    *Endpoint
	relay       *RelayNode
}

// ConfigMap holds everything one descriptor declares.  Keys are remembered in the
// order first seen; moleculeParams and microtubuleParams accumulate in declaration order.
// A ConfigMap is not modified after ParseDescriptor returns it
type ConfigMap struct {
	keys         []string
	values       map[string]descValue
	molecules    []MoleculeBatch
	microtubules []*MicrotubuleSegment
}

func createConfigMap() *ConfigMap {
	cm := new(ConfigMap)
	cm.keys = make([]string, 0)
	cm.values = make(map[string]descValue)
	cm.molecules = make([]MoleculeBatch, 0)
	cm.microtubules = make([]*MicrotubuleSegment, 0)
	return cm
}

// ReadDescriptor opens and parses the descriptor file whose name is given
func ReadDescriptor(filename string) (*ConfigMap, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseDescriptor(f)
}

// ParseDescriptor reads descriptor text from r and returns the ConfigMap it declares
func ParseDescriptor(r io.Reader) (*ConfigMap, error) {
	cm := createConfigMap()
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '*' {
			continue
		}
		line = strings.TrimRight(line, " \t\r")
		if len(line) == 0 {
			continue
		}

		key, val, found := strings.Cut(line, " ")
		if !found {
			return nil, formatErr("line %d: %q has no value", lineNum, line)
		}
		if err := cm.addEntry(key, val); err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", lineNum, key, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cm, nil
}

// addEntry interprets val according to the kind of key and saves it
func (cm *ConfigMap) addEntry(key, val string) error {
	kind := ClassifyKey(key)
	dv := descValue{kind: kind}

	switch kind {
	case EndpointKey:
		ep, err := ParseEndpoint(val)
		if err != nil {
			return err
		}
		dv.endpoint = ep
	case RelayKey:
		rn, err := ParseRelayNode(val)
		if err != nil {
			return err
		}
		dv.relay = rn
	case MoleculeKey:
		mb, err := ParseMoleculeBatch(val)
		if err != nil {
			return err
		}
		cm.molecules = append(cm.molecules, mb)
	case MicrotubuleKey:
		mts, err := ParseMicrotubule(val)
		if err != nil {
			return err
		}
		cm.microtubules = append(cm.microtubules, mts)
	case FloatKey:
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return formatErr("%q is not a number", val)
		}
		dv.floatValue = v
	case StringKey:
		dv.stringValue = val
	case FlagKey:
		dv.boolValue = val == "1"
	default:
		v, err := parseInt(val)
		if err != nil {
			return err
		}
		dv.intValue = v
	}

	if !slices.Contains(cm.keys, key) {
		cm.keys = append(cm.keys, key)
	}
	// the lists are held apart from the scalar values
	if kind != MoleculeKey && kind != MicrotubuleKey {
		cm.values[key] = dv
	}
	return nil
}

// Keys returns the descriptor keys in the order they first appeared
func (cm *ConfigMap) Keys() []string {
	return slices.Clone(cm.keys)
}

// Has reports whether the descriptor gave a value for key
func (cm *ConfigMap) Has(key string) bool {
	if key == MoleculeParamsKey {
		return len(cm.molecules) > 0
	}
	if key == MicrotubuleParamKey {
		return len(cm.microtubules) > 0
	}
	_, present := cm.values[key]
	return present
}

func (cm *ConfigMap) lookup(key string, kind KeyKind) (descValue, error) {
	dv, present := cm.values[key]
	if !present {
		return dv, fmt.Errorf("%w: %s", ErrMissingEntity, key)
	}
	if dv.kind != kind {
		return dv, formatErr("key %s does not hold a value of the requested type", key)
	}
	return dv, nil
}

// Int returns the integer value of key
func (cm *ConfigMap) Int(key string) (int, error) {
	dv, err := cm.lookup(key, IntKey)
	return dv.intValue, err
}

// Float returns the floating point value of key
func (cm *ConfigMap) Float(key string) (float64, error) {
	dv, err := cm.lookup(key, FloatKey)
	return dv.floatValue, err
}

// StringValue returns the string value of key
func (cm *ConfigMap) StringValue(key string) (string, error) {
	dv, err := cm.lookup(key, StringKey)
	return dv.stringValue, err
}

// Flag returns the value of a boolean key; an absent flag is false
func (cm *ConfigMap) Flag(key string) bool {
	dv, present := cm.values[key]
	return present && dv.kind == FlagKey && dv.boolValue
}

// Endpoint returns the nanomachine stored under key
func (cm *ConfigMap) Endpoint(key string) (*Endpoint, error) {
	dv, err := cm.lookup(key, EndpointKey)
	return dv.endpoint, err
}

// Relay returns the intermediate node stored under key
func (cm *ConfigMap) Relay(key string) (*RelayNode, error) {
	dv, err := cm.lookup(key, RelayKey)
	return dv.relay, err
}

// Transmitter returns the transmitting nanomachine
func (cm *ConfigMap) Transmitter() (*Endpoint, error) {
	return cm.Endpoint(TransmitterKey)
}

// Receiver returns the receiving nanomachine
func (cm *ConfigMap) Receiver() (*Endpoint, error) {
	return cm.Endpoint(ReceiverKey)
}

// OutputFile returns the output name the simulator wrote the result log under
func (cm *ConfigMap) OutputFile() (string, error) {
	return cm.StringValue(OutputFileKey)
}

// MoleculeBatches returns the declared molecule batches, in declaration order
func (cm *ConfigMap) MoleculeBatches() []MoleculeBatch {
	return slices.Clone(cm.molecules)
}

// Microtubules returns the declared microtubule segments, in declaration order
func (cm *ConfigMap) Microtubules() []*MicrotubuleSegment {
	return slices.Clone(cm.microtubules)
}

// FirstMoleculeBatch returns the first declared molecule batch
func (cm *ConfigMap) FirstMoleculeBatch() (MoleculeBatch, error) {
	if len(cm.molecules) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEntity, MoleculeParamsKey)
	}
	return cm.molecules[0], nil
}

// WriteDescriptor writes the ConfigMap back out as descriptor text, one line per value,
// keys in the order they were first seen
func (cm *ConfigMap) WriteDescriptor(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, key := range cm.keys {
		switch ClassifyKey(key) {
		case MoleculeKey:
			for _, mb := range cm.molecules {
				fmt.Fprintf(bw, "%s %v\n", key, mb)
			}
			continue
		case MicrotubuleKey:
			for _, mts := range cm.microtubules {
				fmt.Fprintf(bw, "%s %s\n", key, mts)
			}
			continue
		}

		dv := cm.values[key]
		var val string
		switch dv.kind {
		case EndpointKey:
			val = dv.endpoint.String()
		case RelayKey:
			val = dv.relay.String()
		case FloatKey:
			val = strconv.FormatFloat(dv.floatValue, 'f', -1, 64)
		case StringKey:
			val = dv.stringValue
		case FlagKey:
			val = "0"
			if dv.boolValue {
				val = "1"
			}
		default:
			val = strconv.Itoa(dv.intValue)
		}
		fmt.Fprintf(bw, "%s %s\n", key, val)
	}
	return bw.Flush()
}
