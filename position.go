package molcom

import "math"

// Position is a point on the simulator's integer grid
type Position struct {
	X, Y, Z int
}

// CreatePosition is a constructor, taking its coordinates from the first three
// entries of a token list.  An error is returned if fewer than three tokens are offered
// or one of them is not an integer
func CreatePosition(tokens []string) (Position, error) {
	if len(tokens) < 3 {
		return Position{}, formatErr("position needs 3 coordinates, got %d", len(tokens))
	}
	var coords [3]int
	for idx := 0; idx < 3; idx++ {
		v, err := parseInt(tokens[idx])
		if err != nil {
			return Position{}, err
		}
		coords[idx] = v
	}
	return Position{X: coords[0], Y: coords[1], Z: coords[2]}, nil
}

// DistanceTo returns the Euclidean distance between two grid points
func (pos Position) DistanceTo(other Position) float64 {
	dx := float64(pos.X - other.X)
	dy := float64(pos.Y - other.Y)
	dz := float64(pos.Z - other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Distance returns the Euclidean distance between a and b
func Distance(a, b Position) float64 {
	return a.DistanceTo(b)
}
