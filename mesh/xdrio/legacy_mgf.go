package xdrio

import (
	"fmt"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
)

// mgfLayout is the externally originated generation. It holds a single
// element type, stores coordinates component-major and counts from 1:
//
//	dim nNodes nElems nBoundary elemType
//	title
//	x0 x1 ...  then y0 y1 ...  then z0 z1 ...
//	conn...                 (nElems records, 1-based node ids)
//	elem side marker        (nBoundary records, 1-based elem and side)
type mgfLayout struct{}

// check rejects meshes whose active elements mix types.
func (mgfLayout) check(v mesh.View) error {
	_, err := mgfElementType(v)
	return err
}

func mgfElementType(v mesh.View) (mesh.ElementType, error) {
	t := mesh.Unknown
	for _, id := range mesh.ActiveElements(v) {
		et := v.Element(id).Type
		switch {
		case t == mesh.Unknown:
			t = et
		case et != t:
			return mesh.Unknown, fmt.Errorf("%w: element %d is %v, earlier elements are %v",
				ErrMixedElementTypes, id, et, t)
		}
	}
	return t, nil
}

func (mgfLayout) write(enc xdr.Encoder, v mesh.View) (Result, error) {
	m, rep := mesh.Flatten(v)
	t, err := mgfElementType(m)
	if err != nil {
		return Result{}, err
	}
	enc.WriteInts([]int{m.Dimension, len(m.Vertices), len(m.Elements), len(m.BoundarySides), int(t)})
	enc.Comment("dim nodes elements boundary type")
	enc.WriteString(m.Title)
	enc.EndRecord()
	for d := 0; d < m.Dimension; d++ {
		for _, x := range m.Vertices {
			enc.WriteFloat(x[d])
		}
		enc.EndRecord()
	}
	for _, e := range m.Elements {
		for _, n := range e.Nodes {
			enc.WriteInt(n + 1)
		}
		enc.EndRecord()
	}
	writeBoundary(enc, m.BoundarySides, 1)
	return Result{Flattened: rep.Flattened, DroppedSides: rep.DroppedSides}, enc.Err()
}

func (mgfLayout) read(dec xdr.Decoder, b mesh.Builder, sink EntitySink) error {
	hdr, err := dec.ReadInts(5)
	if err != nil {
		return err
	}
	sz := sizes{dim: hdr[0], nodes: hdr[1], elems: hdr[2], boundary: hdr[3]}
	if err = sz.check(); err != nil {
		return err
	}
	t := mesh.ElementType(hdr[4])
	if sz.elems > 0 && !t.Valid() {
		return fmt.Errorf("%w: tag %d in header", ErrUnknownElementType, hdr[4])
	}
	title, err := dec.ReadString()
	if err != nil {
		return err
	}
	b.SetDimension(sz.dim)
	b.SetTitle(title)

	comps := make([][]float64, sz.dim)
	for d := range comps {
		if comps[d], err = dec.ReadFloats(sz.nodes); err != nil {
			return err
		}
	}
	addNodes := func() {
		for i := 0; i < sz.nodes; i++ {
			x := make([]float64, sz.dim)
			for d := range x {
				x[d] = comps[d][i]
			}
			sink.Node(b.AddNode(x))
		}
	}
	if sz.dim > 0 {
		addNodes()
	}
	for i := 0; i < sz.elems; i++ {
		nodes, err := readConnectivity(dec, t, sz.nodes, i, 1)
		if err != nil {
			return err
		}
		sink.Element(b.AddElement(mesh.NewElement(t, nodes)))
	}
	if sz.dim == 0 {
		addNodes()
	}
	return readBoundary(dec, b, sz.boundary, 1)
}
