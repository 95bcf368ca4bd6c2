package molcom

// model.go evaluates the closed form prediction of round trip time.  Informational molecules
// travel from transmitter to receiver and acknowledgement molecules travel back; the time of
// each leg is approximated by the mean first passage time of a molecule diffusing in a sphere
// of radius L towards an absorbing sphere of radius l at distance r.  Under active transport
// the diffusive velocity is mixed with the unit velocity along microtubules, in proportion to
// the share of the medium the microtubules occupy.

import (
	"fmt"
	"math"
)

// activeVelocity is the velocity of a molecule walking along a microtubule, in grid units per step
const activeVelocity = 1.0

// Prediction holds the analytical model's inputs derived from the geometry and its results
type Prediction struct {
	// R is the distance between the transmitter and receiver centers
	R float64 `json:"r" yaml:"r"`

	// D is the diffusion coefficient selected by the step length
	D float64 `json:"d" yaml:"d"`

	// BigL is half of the medium's X dimension
	BigL int `json:"bigl" yaml:"bigl"`

	// SmallL is the receiver radius, (2*size - 1) / 2
	SmallL float64 `json:"smalll" yaml:"smalll"`

	InfoTime float64 `json:"infotime" yaml:"infotime"`
	AckTime  float64 `json:"acktime" yaml:"acktime"`

	// RTT is InfoTime + AckTime
	RTT float64 `json:"rtt" yaml:"rtt"`
}

// CreateAnalyticalModel computes the prediction for the configuration cm, taking the diffusion coefficient from table
func CreateAnalyticalModel(cm *ConfigMap, table *DiffusionTable) (*Prediction, error) {
	tx, err := cm.Transmitter()
	if err != nil {
		return nil, err
	}
	rx, err := cm.Receiver()
	if err != nil {
		return nil, err
	}
	stepLength, err := cm.Float(StepLengthXKey)
	if err != nil {
		return nil, err
	}
	medium, err := cm.Int(MediumDimensionXKey)
	if err != nil {
		return nil, err
	}

	pred := new(Prediction)
	pred.R = tx.Center.DistanceTo(rx.Center)
	pred.D = table.Coefficient(stepLength)
	pred.BigL = medium / 2
	pred.SmallL = float64(rx.Size*2-1) / 2.0

	info, err := roleCarrier(cm.MoleculeBatches(), Informational)
	if err != nil {
		return nil, err
	}
	ack, err := roleCarrier(cm.MoleculeBatches(), Acknowledgement)
	if err != nil {
		return nil, err
	}

	if pred.InfoTime, err = pred.legTime(info.Movement); err != nil {
		return nil, fmt.Errorf("informational leg: %w", err)
	}
	if pred.AckTime, err = pred.legTime(ack.Movement); err != nil {
		return nil, fmt.Errorf("acknowledgement leg: %w", err)
	}
	pred.RTT = pred.InfoTime + pred.AckTime
	return pred, nil
}

// roleCarrier returns the single carrier batch with the given role
func roleCarrier(batches []MoleculeBatch, role MoleculeRole) (*CarrierBatch, error) {
	var found *CarrierBatch
	matches := 0
	for _, mb := range batches {
		cb, ok := mb.(*CarrierBatch)
		if !ok || cb.Role() != role {
			continue
		}
		found = cb
		matches++
	}
	if matches != 1 {
		return nil, fmt.Errorf("%w: %d %s molecule batches, expected 1", ErrAmbiguousRole, matches, role)
	}
	return found, nil
}

// legTime returns the first passage time of one leg under the movement regime given
func (pred *Prediction) legTime(movement MovementRegime) (float64, error) {
	passive, err := PassiveFirstPassage(pred.R, pred.SmallL, float64(pred.BigL), pred.D)
	if err != nil {
		return 0, err
	}
	if movement == Passive {
		return passive, nil
	}
	return ActiveFirstPassage(pred.R, float64(pred.BigL), passive)
}

// PassiveFirstPassage returns (r-l)(2L^3 - l r^2 - l^2 r) / (2 D l r), the mean time
// for a diffusing molecule released at distance r to reach an absorbing sphere of radius l
// inside a reflecting sphere of radius L
func PassiveFirstPassage(r, l, bigL, d float64) (float64, error) {
	denom := 2 * d * l * r
	if denom == 0 {
		return 0, fmt.Errorf("%w: 2*D*l*r with D=%g l=%g r=%g", ErrDivision, d, l, r)
	}
	return (r - l) * (2*bigL*bigL*bigL - l*r*r - l*l*r) / denom, nil
}

// ActiveFirstPassage corrects a passive first passage time for transport along microtubules.
// p = 4r / ((4/3) pi L^3) is the share of the medium on the microtubules, the effective
// velocity is p*va + (1-p) * r/passive, and the time is r divided by it
func ActiveFirstPassage(r, bigL, passive float64) (float64, error) {
	if passive == 0 {
		return 0, fmt.Errorf("%w: passive first passage time", ErrDivision)
	}
	volume := 4.0 / 3.0 * math.Pi * bigL * bigL * bigL
	if volume == 0 {
		return 0, fmt.Errorf("%w: medium volume", ErrDivision)
	}
	p := (2 * 2 * r) / volume
	ve := p*activeVelocity + (1.0-p)*(r/passive)
	if ve == 0 {
		return 0, fmt.Errorf("%w: effective velocity", ErrDivision)
	}
	return r / ve, nil
}
