package mesh

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// BoundingBox returns per-dimension minimum and maximum node coordinates.
// Both are nil for a mesh without nodes.
func BoundingBox(v View) (lo, hi []float64) {
	nn, dim := v.NumNodes(), v.GetDimension()
	if nn == 0 {
		return nil, nil
	}
	lo, hi = make([]float64, dim), make([]float64, dim)
	comp := make([]float64, nn)
	for d := 0; d < dim; d++ {
		for i := 0; i < nn; i++ {
			comp[i] = v.Node(i)[d]
		}
		lo[d], hi[d] = floats.Min(comp), floats.Max(comp)
	}
	return
}

// Summary is a printable description of a mesh.
type Summary struct {
	Title         string         `json:"title,omitempty"`
	Dimension     int            `json:"dimension"`
	Nodes         int            `json:"nodes"`
	Elements      int            `json:"elements"`
	Active        int            `json:"active"`
	MaxLevel      int            `json:"maxLevel"`
	ElementTypes  map[string]int `json:"elementTypes,omitempty"`
	BoundarySides map[string]int `json:"boundarySides,omitempty"`
	Orphans       int            `json:"orphanNodes"`
	NeighborPairs int            `json:"neighborPairs"`
	BoundsMin     []float64      `json:"boundsMin,omitempty"`
	BoundsMax     []float64      `json:"boundsMax,omitempty"`
}

// Summarize collects mesh statistics
func Summarize(v View) Summary {
	s := Summary{
		Title:     v.GetTitle(),
		Dimension: v.GetDimension(),
		Nodes:     v.NumNodes(),
		Elements:  v.NumElements(),
	}
	for i := 0; i < v.NumElements(); i++ {
		e := v.Element(i)
		if s.ElementTypes == nil {
			s.ElementTypes = make(map[string]int)
		}
		s.ElementTypes[e.Type.String()]++
		if e.Active() {
			s.Active++
		}
		if e.Level > s.MaxLevel {
			s.MaxLevel = e.Level
		}
	}
	for _, bs := range v.Boundary() {
		if s.BoundarySides == nil {
			s.BoundarySides = make(map[string]int)
		}
		s.BoundarySides[bs.Marker.String()]++
	}
	s.Orphans = len(OrphanNodes(v))
	s.NeighborPairs = NeighborPairs(v)
	s.BoundsMin, s.BoundsMax = BoundingBox(v)
	return s
}

// Markers returns the distinct boundary markers of v in ascending order.
func Markers(v View) []BCType {
	seen := make(map[BCType]bool)
	var out []BCType
	for _, bs := range v.Boundary() {
		if !seen[bs.Marker] {
			seen[bs.Marker] = true
			out = append(out, bs.Marker)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
