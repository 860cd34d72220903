package xdrio

import (
	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
)

// dealLayout is the oldest generation. It has no title, subdomains or
// refinement data, and stores the total connectivity length up front:
//
//	dim nElems nNodes nBoundary sumElemNodes
//	type conn...            (nElems records)
//	x [y [z]]               (nNodes records)
//	elem side marker        (nBoundary records)
type dealLayout struct{}

func (dealLayout) check(mesh.View) error { return nil }

func (dealLayout) write(enc xdr.Encoder, v mesh.View) (Result, error) {
	m, rep := mesh.Flatten(v)
	var sum int
	for _, e := range m.Elements {
		sum += len(e.Nodes)
	}
	enc.WriteInts([]int{m.Dimension, len(m.Elements), len(m.Vertices), len(m.BoundarySides), sum})
	enc.Comment("dim elements nodes boundary connectivity")
	for _, e := range m.Elements {
		enc.WriteInt(int(e.Type))
		enc.WriteInts(e.Nodes)
		enc.EndRecord()
	}
	writeNodes(enc, m)
	writeBoundary(enc, m.BoundarySides, 0)
	return Result{Flattened: rep.Flattened, DroppedSides: rep.DroppedSides}, enc.Err()
}

func (dealLayout) read(dec xdr.Decoder, b mesh.Builder, sink EntitySink) error {
	hdr, err := dec.ReadInts(5)
	if err != nil {
		return err
	}
	sz := sizes{dim: hdr[0], elems: hdr[1], nodes: hdr[2], boundary: hdr[3]}
	if err = sz.check(); err != nil {
		return err
	}
	sum := hdr[4]
	if sum < 0 {
		return parseErrorf("negative connectivity length %d", sum)
	}
	b.SetDimension(sz.dim)
	// Elements precede nodes in this layout; ids are assigned in file order
	// either way, so elements can be added before their nodes exist.
	var seen int
	for i := 0; i < sz.elems; i++ {
		t, err := readElementType(dec, i)
		if err != nil {
			return err
		}
		if seen += t.GetNumNodes(); seen > sum {
			return parseErrorf("connectivity exceeds declared length %d at element %d", sum, i)
		}
		nodes, err := readConnectivity(dec, t, sz.nodes, i, 0)
		if err != nil {
			return err
		}
		sink.Element(b.AddElement(mesh.NewElement(t, nodes)))
	}
	if seen != sum {
		return parseErrorf("connectivity length %d, header declares %d", seen, sum)
	}
	if err = readNodes(dec, b, sz, sink); err != nil {
		return err
	}
	return readBoundary(dec, b, sz.boundary, 0)
}
