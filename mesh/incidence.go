package mesh

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Incidence returns the sparse active-element by node incidence matrix,
// rows in ActiveElements order, and the element id of each row.
func Incidence(v View) (EToV *sparse.CSR, rows []int) {
	rows = ActiveElements(v)
	if len(rows) == 0 || v.NumNodes() == 0 {
		return nil, rows
	}
	SpEToV := sparse.NewDOK(len(rows), v.NumNodes())
	for r, id := range rows {
		for _, n := range v.Element(id).Nodes {
			SpEToV.Set(r, n, 1)
		}
	}
	return SpEToV.ToCSR(), rows
}

// NodeUsage returns, per node, the number of active elements referencing it.
func NodeUsage(v View) []int {
	usage := make([]int, v.NumNodes())
	EToV, rows := Incidence(v)
	if EToV == nil {
		return usage
	}
	ones := mat.NewVecDense(len(rows), nil)
	for i := range rows {
		ones.SetVec(i, 1)
	}
	var counts mat.VecDense
	counts.MulVec(EToV.T(), ones)
	for i := range usage {
		usage[i] = int(counts.AtVec(i))
	}
	return usage
}

// OrphanNodes lists nodes not referenced by any active element. After a
// legacy flatten these are the nodes only the discarded ancestors used.
func OrphanNodes(v View) (ids []int) {
	for i, n := range NodeUsage(v) {
		if n == 0 {
			ids = append(ids, i)
		}
	}
	return
}

// NeighborPairs counts unordered pairs of active elements sharing at least
// one node, from the element-to-element product EToV * EToV^T.
func NeighborPairs(v View) (pairs int) {
	EToV, rows := Incidence(v)
	if EToV == nil {
		return 0
	}
	SpEToE := sparse.NewCSR(len(rows), len(rows), nil, nil, nil)
	SpEToE.Mul(EToV, EToV.T())
	SpEToE.DoNonZero(func(i, j int, val float64) {
		if i < j && val > 0 {
			pairs++
		}
	})
	return
}
