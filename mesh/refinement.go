package mesh

import "fmt"

// ForestError describes the first refinement forest violation found.
type ForestError struct {
	Element int
	Reason  string
}

func (e *ForestError) Error() string {
	return fmt.Sprintf("element %d: %s", e.Element, e.Reason)
}

// ValidateForest checks the refinement forest of v:
//   - parent ids are NoParent or in range, and never the element itself
//   - roots have level 0, other elements have their parent's level + 1
//   - every child id is in range and names the listing element as parent
//   - every non-root element appears in exactly one children list
//
// The active set is then exactly the elements with empty children lists.
// The returned error is a *ForestError.
func ValidateForest(v View) error {
	ne := v.NumElements()
	listed := make([]int, ne) // times each element appears as a child
	for i := 0; i < ne; i++ {
		e := v.Element(i)
		switch {
		case e.Parent == NoParent:
			if e.Level != 0 {
				return &ForestError{i, fmt.Sprintf("root has level %d, want 0", e.Level)}
			}
		case e.Parent < 0 || e.Parent >= ne:
			return &ForestError{i, fmt.Sprintf("parent %d out of range [0,%d)", e.Parent, ne)}
		case e.Parent == i:
			return &ForestError{i, "element is its own parent"}
		default:
			if pl := v.Element(e.Parent).Level; e.Level != pl+1 {
				return &ForestError{i, fmt.Sprintf("level %d, parent %d has level %d", e.Level, e.Parent, pl)}
			}
		}
		for _, c := range e.Children {
			if c < 0 || c >= ne {
				return &ForestError{i, fmt.Sprintf("child %d out of range [0,%d)", c, ne)}
			}
			if c == i {
				return &ForestError{i, "element is its own child"}
			}
			if p := v.Element(c).Parent; p != i {
				return &ForestError{i, fmt.Sprintf("child %d names parent %d", c, p)}
			}
			listed[c]++
		}
	}
	for i := 0; i < ne; i++ {
		root := v.Element(i).Parent == NoParent
		switch {
		case root && listed[i] != 0:
			return &ForestError{i, "root listed as a child"}
		case !root && listed[i] != 1:
			return &ForestError{i, fmt.Sprintf("listed as a child %d times, want 1", listed[i])}
		}
	}
	return nil
}

// IsRefined reports whether any element of v has children.
func IsRefined(v View) bool {
	for i := 0; i < v.NumElements(); i++ {
		if !v.Element(i).Active() {
			return true
		}
	}
	return false
}

// FlattenReport summarizes what Flatten discarded.
type FlattenReport struct {
	Flattened    bool // The input carried a non-trivial hierarchy
	DroppedSides int  // Boundary sides attached to inactive elements
}

// Flatten returns a mesh holding only the active elements of v as level-0
// roots, renumbered densely in id order. All nodes are kept so node-centered
// data stays valid. Boundary sides on active elements are remapped, sides on
// inactive elements are dropped. When v is not refined the result is a plain
// copy and the report's Flattened flag is false.
func Flatten(v View) (*Mesh, FlattenReport) {
	var rep FlattenReport
	out := NewMesh(v.GetDimension())
	out.Title = v.GetTitle()
	for i := 0; i < v.NumNodes(); i++ {
		out.AddNode(v.Node(i))
	}
	newID := make([]int, v.NumElements())
	for i := 0; i < v.NumElements(); i++ {
		e := v.Element(i)
		if !e.Active() {
			newID[i] = -1
			rep.Flattened = true
			continue
		}
		ne := NewElement(e.Type, e.Nodes)
		ne.Subdomain = e.Subdomain
		newID[i] = out.AddElement(ne)
	}
	for _, bs := range v.Boundary() {
		if id := newID[bs.Element]; id >= 0 {
			bs.Element = id
			out.AddBoundarySide(bs)
		} else {
			rep.DroppedSides++
		}
	}
	return out, rep
}
