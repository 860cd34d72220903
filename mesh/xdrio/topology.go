package xdrio

import (
	"fmt"
	"math"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
)

// sizes is the count record that follows the common header.
type sizes struct {
	dim, nodes, elems, boundary int
}

func (s sizes) check() error {
	if s.dim < 0 || s.dim > 3 {
		return parseErrorf("dimension %d out of range [0,3]", s.dim)
	}
	if s.nodes < 0 || s.elems < 0 || s.boundary < 0 {
		return parseErrorf("negative count in header (nodes %d, elements %d, boundary %d)",
			s.nodes, s.elems, s.boundary)
	}
	// 0-D nodes take no bytes on disk; the point elements bound their count.
	if s.dim == 0 && s.nodes > s.elems {
		return parseErrorf("0-D header declares %d nodes for %d elements", s.nodes, s.elems)
	}
	return nil
}

// libmLayout is the current generation: topology followed by the refinement
// forest.
type libmLayout struct{}

func (libmLayout) check(mesh.View) error { return nil }

func (libmLayout) write(enc xdr.Encoder, v mesh.View) (Result, error) {
	enc.WriteInts([]int{v.GetDimension(), v.NumNodes(), v.NumElements(), len(v.Boundary())})
	enc.Comment("dim nodes elements boundary")
	enc.WriteString(v.GetTitle())
	enc.EndRecord()
	writeNodes(enc, v)
	for i := 0; i < v.NumElements(); i++ {
		e := v.Element(i)
		enc.WriteInt(int(e.Type))
		enc.WriteInt(e.Subdomain)
		enc.WriteInts(e.Nodes)
		enc.EndRecord()
	}
	writeBoundary(enc, v.Boundary(), 0)
	writeTree(enc, v)
	return Result{}, enc.Err()
}

func (libmLayout) read(dec xdr.Decoder, b mesh.Builder, sink EntitySink) error {
	hdr, err := dec.ReadInts(4)
	if err != nil {
		return err
	}
	sz := sizes{dim: hdr[0], nodes: hdr[1], elems: hdr[2], boundary: hdr[3]}
	if err = sz.check(); err != nil {
		return err
	}
	title, err := dec.ReadString()
	if err != nil {
		return err
	}
	b.SetDimension(sz.dim)
	b.SetTitle(title)
	if sz.dim > 0 {
		if err = readNodes(dec, b, sz, sink); err != nil {
			return err
		}
	}
	for i := 0; i < sz.elems; i++ {
		t, err := readElementType(dec, i)
		if err != nil {
			return err
		}
		sub, err := dec.ReadInt()
		if err != nil {
			return err
		}
		nodes, err := readConnectivity(dec, t, sz.nodes, i, 0)
		if err != nil {
			return err
		}
		e := mesh.NewElement(t, nodes)
		e.Subdomain = sub
		sink.Element(b.AddElement(e))
	}
	if sz.dim == 0 {
		if err = readNodes(dec, b, sz, sink); err != nil {
			return err
		}
	}
	if err = readBoundary(dec, b, sz.boundary, 0); err != nil {
		return err
	}
	return readTree(dec, b)
}

func writeNodes(enc xdr.Encoder, v mesh.View) {
	for i := 0; i < v.NumNodes(); i++ {
		enc.WriteFloats(v.Node(i))
		enc.EndRecord()
	}
}

// readNodes reads sz.nodes coordinate tuples in node-id order. With dim 0
// nothing is consumed, so callers read the elements first.
func readNodes(dec xdr.Decoder, b mesh.Builder, sz sizes, sink EntitySink) error {
	for i := 0; i < sz.nodes; i++ {
		coords, err := dec.ReadFloats(sz.dim)
		if err != nil {
			return err
		}
		sink.Node(b.AddNode(coords))
	}
	return nil
}

// readElementType reads one type tag; a tag without a known layout is fatal
// since the record length depends on it.
func readElementType(dec xdr.Decoder, elem int) (mesh.ElementType, error) {
	tag, err := dec.ReadInt()
	if err != nil {
		return mesh.Unknown, err
	}
	t := mesh.ElementType(tag)
	if !t.Valid() {
		return mesh.Unknown, fmt.Errorf("%w: tag %d on element %d", ErrUnknownElementType, tag, elem)
	}
	return t, nil
}

// readConnectivity reads the node list of one element. base is subtracted
// from every stored id.
func readConnectivity(dec xdr.Decoder, t mesh.ElementType, nNodes, elem, base int) ([]int, error) {
	nodes, err := dec.ReadInts(t.GetNumNodes())
	if err != nil {
		return nil, err
	}
	for j := range nodes {
		nodes[j] -= base
		if nodes[j] < 0 || nodes[j] >= nNodes {
			return nil, parseErrorf("element %d references node %d out of range [%d,%d)",
				elem, nodes[j]+base, base, nNodes+base)
		}
	}
	return nodes, nil
}

// writeBoundary writes "elem side marker" records, adding base to the element
// and side indices.
func writeBoundary(enc xdr.Encoder, sides []mesh.BoundarySide, base int) {
	for _, bs := range sides {
		enc.WriteInts([]int{bs.Element + base, bs.Side + base, int(bs.Marker)})
		enc.EndRecord()
	}
}

// readBoundary reads n boundary records and checks them against the elements
// already added to b.
func readBoundary(dec xdr.Decoder, b mesh.Builder, n, base int) error {
	ne := b.NumElements()
	for i := 0; i < n; i++ {
		rec, err := dec.ReadInts(3)
		if err != nil {
			return err
		}
		el, side, marker := rec[0]-base, rec[1]-base, rec[2]
		if el < 0 || el >= ne {
			return parseErrorf("boundary record %d references element %d out of range [%d,%d)",
				i, rec[0], base, ne+base)
		}
		t := b.Element(el).Type
		if side < 0 || side >= t.GetNumSides() {
			return parseErrorf("boundary record %d: side %d invalid for %v element %d",
				i, rec[1], t, rec[0])
		}
		if marker < 0 || marker > math.MaxUint16 {
			return parseErrorf("boundary record %d: marker %d out of range", i, marker)
		}
		b.AddBoundarySide(mesh.BoundarySide{Element: el, Side: side, Marker: mesh.BCType(marker)})
	}
	return nil
}
