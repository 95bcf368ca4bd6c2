package molcom

// entities.go holds the typed entities a descriptor declares: the nanomachines
// (transmitter, receiver), intermediate relay nodes, molecule batches and microtubule segments,
// along with the parsers that build them from the value part of a descriptor line

import (
	"fmt"
	"strconv"
	"strings"
)

// MoleculeRole identifies what a molecule batch carries
type MoleculeRole int

const (
	Informational MoleculeRole = iota
	Acknowledgement
	Noise
)

var roleByToken = map[string]MoleculeRole{"INFO": Informational, "ACK": Acknowledgement, "NOISE": Noise}
var roleToStr = map[MoleculeRole]string{Informational: "INFO", Acknowledgement: "ACK", Noise: "NOISE"}

func (mr MoleculeRole) String() string {
	str, present := roleToStr[mr]
	if !present {
		return "MoleculeRole(" + strconv.Itoa(int(mr)) + ")"
	}
	return str
}

// MovementRegime selects pure diffusion or diffusion augmented by microtubule transport
type MovementRegime int

const (
	Passive MovementRegime = iota
	Active
)

var regimeByToken = map[string]MovementRegime{"PASSIVE": Passive, "ACTIVE": Active}
var regimeToStr = map[MovementRegime]string{Passive: "PASSIVE", Active: "ACTIVE"}

func (mvr MovementRegime) String() string {
	str, present := regimeToStr[mvr]
	if !present {
		return "MovementRegime(" + strconv.Itoa(int(mvr)) + ")"
	}
	return str
}

// Endpoint describes a transmitter or receiver nanomachine
type Endpoint struct {
	Center  Position
	Size    int
	Release Position
}

// RelayNode describes an intermediate node, which releases informational and
// acknowledgement molecules from different points
type RelayNode struct {
	Center      Position
	Size        int
	InfoRelease Position
	AckRelease  Position
}

// MicrotubuleSegment is a transport conduit between two grid points
type MicrotubuleSegment struct {
	Start Position
	End   Position
}

// Length returns the straight-line length of the segment
func (mts *MicrotubuleSegment) Length() float64 {
	return mts.Start.DistanceTo(mts.End)
}

// MoleculeBatch is a population of molecules released together.  The concrete
// variants are *CarrierBatch (informational and acknowledgement molecules) and *NoiseBatch
type MoleculeBatch interface {
	Count() int
	Role() MoleculeRole
	Size() (float64, bool)
}

// CarrierBatch is a batch of informational or acknowledgement molecules
type CarrierBatch struct {
	count           int
	role            MoleculeRole
	Movement        MovementRegime
	AdaptiveChanges int
	size            float64
	hasSize         bool
}

func (cb *CarrierBatch) Count() int         { return cb.count }
func (cb *CarrierBatch) Role() MoleculeRole { return cb.role }

// Size returns the molecule size and a flag telling whether the descriptor gave one
func (cb *CarrierBatch) Size() (float64, bool) { return cb.size, cb.hasSize }

// NoiseBatch is a batch of noise molecules; they move passively and carry no adaptive changes
type NoiseBatch struct {
	count   int
	size    float64
	hasSize bool
}

func (nb *NoiseBatch) Count() int            { return nb.count }
func (nb *NoiseBatch) Role() MoleculeRole    { return Noise }
func (nb *NoiseBatch) Size() (float64, bool) { return nb.size, nb.hasSize }

// entityTokens splits an entity value on ',', '(', ')' and ' ', discarding empty tokens
func entityTokens(val string) []string {
	return strings.FieldsFunc(val, func(r rune) bool {
		return r == ',' || r == '(' || r == ')' || r == ' '
	})
}

func parseInt(token string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(token))
	if err != nil {
		return 0, formatErr("%q is not an integer", token)
	}
	return v, nil
}

// ParseEndpoint builds an Endpoint from "(cx,cy,cz) size (rx,ry,rz)"
func ParseEndpoint(val string) (*Endpoint, error) {
	tokens := entityTokens(val)
	if len(tokens) < 7 {
		return nil, formatErr("endpoint needs 7 fields, got %d in %q", len(tokens), val)
	}
	center, err := CreatePosition(tokens[0:3])
	if err != nil {
		return nil, err
	}
	size, err := parseInt(tokens[3])
	if err != nil {
		return nil, err
	}
	release, err := CreatePosition(tokens[4:7])
	if err != nil {
		return nil, err
	}
	return &Endpoint{Center: center, Size: size, Release: release}, nil
}

// ParseRelayNode builds a RelayNode from "(cx,cy,cz) size (ix,iy,iz) (ax,ay,az)"
func ParseRelayNode(val string) (*RelayNode, error) {
	tokens := entityTokens(val)
	if len(tokens) < 10 {
		return nil, formatErr("intermediate node needs 10 fields, got %d in %q", len(tokens), val)
	}
	rn := new(RelayNode)
	var err error
	if rn.Center, err = CreatePosition(tokens[0:3]); err != nil {
		return nil, err
	}
	if rn.Size, err = parseInt(tokens[3]); err != nil {
		return nil, err
	}
	if rn.InfoRelease, err = CreatePosition(tokens[4:7]); err != nil {
		return nil, err
	}
	if rn.AckRelease, err = CreatePosition(tokens[7:10]); err != nil {
		return nil, err
	}
	return rn, nil
}

// ParseMicrotubule builds a MicrotubuleSegment from "(sx,sy,sz) (ex,ey,ez)"
func ParseMicrotubule(val string) (*MicrotubuleSegment, error) {
	tokens := entityTokens(val)
	if len(tokens) < 6 {
		return nil, formatErr("microtubule needs 6 fields, got %d in %q", len(tokens), val)
	}
	start, err := CreatePosition(tokens[0:3])
	if err != nil {
		return nil, err
	}
	end, err := CreatePosition(tokens[3:6])
	if err != nil {
		return nil, err
	}
	return &MicrotubuleSegment{Start: start, End: end}, nil
}

// ParseMoleculeBatch builds a MoleculeBatch from a space separated value.
// Carriers read "count role regime adaptive [size]", noise reads "count NOISE [size]".
// Tokens past the last field are ignored
func ParseMoleculeBatch(val string) (MoleculeBatch, error) {
	tokens := strings.Fields(val)
	if len(tokens) < 2 {
		return nil, formatErr("molecule params need at least 2 fields, got %d in %q", len(tokens), val)
	}
	count, err := parseInt(tokens[0])
	if err != nil {
		return nil, err
	}
	role, present := roleByToken[tokens[1]]
	if !present {
		return nil, formatErr("unknown molecule type %q", tokens[1])
	}

	if role == Noise {
		nb := &NoiseBatch{count: count}
		if len(tokens) > 2 {
			if nb.size, err = parseSize(tokens[2]); err != nil {
				return nil, err
			}
			nb.hasSize = true
		}
		return nb, nil
	}

	if len(tokens) < 4 {
		return nil, formatErr("%s molecule params need movement type and adaptive change number in %q", role, val)
	}
	movement, present := regimeByToken[tokens[2]]
	if !present {
		return nil, formatErr("unknown movement type %q", tokens[2])
	}
	adaptive, err := parseInt(tokens[3])
	if err != nil {
		return nil, err
	}
	cb := &CarrierBatch{count: count, role: role, Movement: movement, AdaptiveChanges: adaptive}
	if len(tokens) > 4 {
		if cb.size, err = parseSize(tokens[4]); err != nil {
			return nil, err
		}
		cb.hasSize = true
	}
	return cb, nil
}

func parseSize(token string) (float64, error) {
	size, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, formatErr("molecule size %q is not a number", token)
	}
	return size, nil
}

// descriptor text forms, used when a ConfigMap is written back out

func (pos Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", pos.X, pos.Y, pos.Z)
}

func (ep *Endpoint) String() string {
	return fmt.Sprintf("%s %d %s", ep.Center, ep.Size, ep.Release)
}

func (rn *RelayNode) String() string {
	return fmt.Sprintf("%s %d %s %s", rn.Center, rn.Size, rn.InfoRelease, rn.AckRelease)
}

func (mts *MicrotubuleSegment) String() string {
	return fmt.Sprintf("%s %s", mts.Start, mts.End)
}

func (cb *CarrierBatch) String() string {
	str := fmt.Sprintf("%d %s %s %d", cb.count, cb.role, cb.Movement, cb.AdaptiveChanges)
	if cb.hasSize {
		str += " " + strconv.FormatFloat(cb.size, 'f', -1, 64)
	}
	return str
}

func (nb *NoiseBatch) String() string {
	str := fmt.Sprintf("%d %s", nb.count, Noise)
	if nb.hasSize {
		str += " " + strconv.FormatFloat(nb.size, 'f', -1, 64)
	}
	return str
}
