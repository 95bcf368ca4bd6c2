package molcom

// rails.go converts the microtubule segments of a configuration into a weighted undirected
// graph so that the gonum graph algorithms can answer questions about the rail network.
// Every distinct segment end point becomes a node, every segment an edge weighted by its length.
// Connected components are the separate rail networks, and a shortest path gives the distance
// a molecule travels when it stays on the rails between two end points.

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// RailNetwork is the graph formed by a configuration's microtubule segments
type RailNetwork struct {
	Segments []*MicrotubuleSegment

	g       *simple.WeightedUndirectedGraph
	nodeOf  map[Position]graph.Node
	posOf   map[int64]Position
	cacheSP map[int64]path.Shortest
}

// RailSummary is what inspect reports about a rail network
type RailSummary struct {
	Segments    int     `json:"segments" yaml:"segments"`
	Networks    int     `json:"networks" yaml:"networks"`
	TotalLength float64 `json:"totallength" yaml:"totallength"`
}

// CreateRailNetwork is a constructor.  A segment whose ends coincide adds its end point but no edge
func CreateRailNetwork(segments []*MicrotubuleSegment) *RailNetwork {
	rn := new(RailNetwork)
	rn.Segments = segments
	rn.g = simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	rn.nodeOf = make(map[Position]graph.Node)
	rn.posOf = make(map[int64]Position)
	rn.cacheSP = make(map[int64]path.Shortest)

	for _, mts := range segments {
		from := rn.node(mts.Start)
		to := rn.node(mts.End)
		if from.ID() == to.ID() {
			continue
		}
		// parallel segments keep the shorter length
		if rn.g.HasEdgeBetween(from.ID(), to.ID()) {
			if w, _ := rn.g.Weight(from.ID(), to.ID()); w <= mts.Length() {
				continue
			}
		}
		rn.g.SetWeightedEdge(rn.g.NewWeightedEdge(from, to, mts.Length()))
	}
	return rn
}

func (rn *RailNetwork) node(pos Position) graph.Node {
	n, present := rn.nodeOf[pos]
	if present {
		return n
	}
	n = rn.g.NewNode()
	rn.g.AddNode(n)
	rn.nodeOf[pos] = n
	rn.posOf[n.ID()] = pos
	return n
}

// Networks returns the end points of each separate rail network
func (rn *RailNetwork) Networks() [][]Position {
	components := topo.ConnectedComponents(rn.g)
	networks := make([][]Position, 0, len(components))
	for _, nodes := range components {
		positions := make([]Position, 0, len(nodes))
		for _, n := range nodes {
			positions = append(positions, rn.posOf[n.ID()])
		}
		networks = append(networks, positions)
	}
	return networks
}

// TotalLength sums the lengths of every segment
func (rn *RailNetwork) TotalLength() float64 {
	total := 0.0
	for _, mts := range rn.Segments {
		total += mts.Length()
	}
	return total
}

// RailDistance returns the shortest distance along the rails between two segment end points,
// and false when either position is not an end point or no rail connects them
func (rn *RailNetwork) RailDistance(a, b Position) (float64, bool) {
	na, present := rn.nodeOf[a]
	if !present {
		return 0, false
	}
	nb, present := rn.nodeOf[b]
	if !present {
		return 0, false
	}

	sp, cached := rn.cacheSP[na.ID()]
	if !cached {
		sp = path.DijkstraFrom(na, rn.g)
		rn.cacheSP[na.ID()] = sp
	}
	dist := sp.WeightTo(nb.ID())
	if math.IsInf(dist, 1) {
		return 0, false
	}
	return dist, true
}

// Summary condenses the network for display
func (rn *RailNetwork) Summary() RailSummary {
	return RailSummary{
		Segments:    len(rn.Segments),
		Networks:    len(rn.Networks()),
		TotalLength: rn.TotalLength(),
	}
}
