package xdrio

import (
	"fmt"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdr"
)

// writeTree writes one "level parent nChildren children..." record per
// element. The forest was validated by the pipeline before any byte went out.
func writeTree(enc xdr.Encoder, v mesh.View) {
	for i := 0; i < v.NumElements(); i++ {
		e := v.Element(i)
		enc.WriteInts([]int{e.Level, e.Parent, len(e.Children)})
		enc.WriteInts(e.Children)
		enc.EndRecord()
	}
}

// readTree restores the forest of the elements already added to b and
// checks it. The active set follows from the children lists.
func readTree(dec xdr.Decoder, b mesh.Builder) error {
	ne := b.NumElements()
	for i := 0; i < ne; i++ {
		rec, err := dec.ReadInts(3)
		if err != nil {
			return err
		}
		level, parent, nc := rec[0], rec[1], rec[2]
		if nc < 0 {
			return parseErrorf("element %d has %d children", i, nc)
		}
		if nc > ne {
			return fmt.Errorf("%w: element %d lists %d children of %d elements",
				ErrTreeConsistency, i, nc, ne)
		}
		var children []int
		if nc > 0 {
			if children, err = dec.ReadInts(nc); err != nil {
				return err
			}
		}
		b.SetRefinement(i, level, parent, children)
	}
	if err := mesh.ValidateForest(b); err != nil {
		return fmt.Errorf("%w: %w", ErrTreeConsistency, err)
	}
	return nil
}
