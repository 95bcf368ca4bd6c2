package molcom

import (
	"fmt"
	"io"
	"strings"
)

// sampleDescriptor declares one configuration of every entity kind
const sampleDescriptor = `* sample configuration
transmitter (0,0,0) 5 (5,0,0)
receiver (10,0,0) 5 (5,0,0)

intermediateNode (5,5,5) 2 (5,6,5) (5,4,5)
moleculeParams 100 INFO PASSIVE 1
moleculeParams 100 ACK PASSIVE 1 2.5
moleculeParams 20 NOISE
microtubuleParams (0,0,0) (10,0,0)
mediumDimensionX 200
stepLengthX 1.00
probDRail 0.5
outputFile out.txt
useCollisions 1
useAcknowledgements 0
numTrials 3
`

// memLogSource serves result logs from memory, keyed by output name
type memLogSource map[string]string

func (mls memLogSource) Open(outputFile string) (io.ReadCloser, error) {
	text, present := mls[outputFile]
	if !present {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, outputFile)
	}
	return io.NopCloser(strings.NewReader(text)), nil
}

var _ LogSource = memLogSource{}
