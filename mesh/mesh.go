package mesh

import (
	"fmt"
)

// NoParent is the parent id of a root element in the refinement forest
const NoParent = -1

// Element is one cell of the mesh together with its place in the
// refinement forest.
type Element struct {
	Type      ElementType
	Nodes     []int // Connectivity in the type's local node ordering
	Subdomain int   // Physical group/tag for the element

	// Refinement forest
	Level    int   // 0 for roots
	Parent   int   // NoParent for roots
	Children []int // Empty for active (leaf) elements
}

// NewElement returns an active root element.
func NewElement(t ElementType, nodes []int) Element {
	return Element{
		Type:   t,
		Nodes:  nodes,
		Parent: NoParent,
	}
}

// Active reports whether the element is a leaf of the refinement forest.
func (e Element) Active() bool { return len(e.Children) == 0 }

// BoundarySide associates one local side of an element with a marker.
type BoundarySide struct {
	Element int    // Element id
	Side    int    // Local side index, see GetElementSides
	Marker  BCType // Boundary marker id
}

// Face represents a side shared by at most two active elements
type Face struct {
	Vertices []int // Sorted vertex indices
	Element  int   // First element found with this face
	LocalID  int   // Local side ID within that element
}

// View is the read-only access a writer needs. Callers must not mutate the
// slices returned from Node and Element.
type View interface {
	GetDimension() int
	GetTitle() string
	NumNodes() int
	Node(id int) []float64
	NumElements() int
	Element(id int) Element
	Boundary() []BoundarySide
}

// Builder is the mutable access a reader needs to materialize a mesh.
type Builder interface {
	View
	Reset()
	SetDimension(dim int)
	SetTitle(title string)
	AddNode(coords []float64) int
	AddElement(e Element) int
	AddBoundarySide(bs BoundarySide)
	SetRefinement(id, level, parent int, children []int)
}

// Mesh represents a complete unstructured mesh with all connectivity
type Mesh struct {
	Dimension int
	Title     string

	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][Dimension]

	// Element data, including inactive ancestors
	Elements      []Element
	BoundarySides []BoundarySide

	// Connectivity over active elements (built by BuildConnectivity)
	EToE    [][]int        // Element to element connectivity [nelems][nsides]
	EToF    [][]int        // Element to face connectivity [nelems][nsides]
	Faces   []Face         // All unique faces in mesh
	FaceMap map[string]int // Map from sorted vertex string to face ID
}

// NewMesh creates an empty mesh of the given spatial dimension
func NewMesh(dim int) *Mesh {
	return &Mesh{
		Dimension: dim,
		FaceMap:   make(map[string]int),
	}
}

func (m *Mesh) GetDimension() int        { return m.Dimension }
func (m *Mesh) GetTitle() string         { return m.Title }
func (m *Mesh) NumNodes() int            { return len(m.Vertices) }
func (m *Mesh) Node(id int) []float64    { return m.Vertices[id] }
func (m *Mesh) NumElements() int         { return len(m.Elements) }
func (m *Mesh) Element(id int) Element   { return m.Elements[id] }
func (m *Mesh) Boundary() []BoundarySide { return m.BoundarySides }

// Reset drops all nodes, elements and derived connectivity.
func (m *Mesh) Reset() {
	*m = Mesh{FaceMap: make(map[string]int)}
}

func (m *Mesh) SetDimension(dim int)  { m.Dimension = dim }
func (m *Mesh) SetTitle(title string) { m.Title = title }

// AddNode appends a vertex and returns its id.
func (m *Mesh) AddNode(coords []float64) int {
	m.Vertices = append(m.Vertices, coords)
	return len(m.Vertices) - 1
}

// AddElement appends an element and returns its id.
func (m *Mesh) AddElement(e Element) int {
	m.Elements = append(m.Elements, e)
	return len(m.Elements) - 1
}

func (m *Mesh) AddBoundarySide(bs BoundarySide) {
	m.BoundarySides = append(m.BoundarySides, bs)
}

// SetRefinement replaces the forest fields of element id.
func (m *Mesh) SetRefinement(id, level, parent int, children []int) {
	e := &m.Elements[id]
	e.Level, e.Parent, e.Children = level, parent, children
}

// Refine records that parent was subdivided into the given new elements.
// The children are appended, their level and parent links set, and the ids
// returned. It performs no geometric work.
func (m *Mesh) Refine(parent int, children ...Element) (ids []int) {
	lvl := m.Elements[parent].Level + 1
	for _, c := range children {
		c.Level, c.Parent, c.Children = lvl, parent, nil
		ids = append(ids, m.AddElement(c))
	}
	m.Elements[parent].Children = append(m.Elements[parent].Children, ids...)
	return
}

// ActiveElements returns the ids of the leaf elements in id order.
func ActiveElements(v View) (ids []int) {
	for i := 0; i < v.NumElements(); i++ {
		if v.Element(i).Active() {
			ids = append(ids, i)
		}
	}
	return
}

// NumActive counts the leaf elements of v.
func NumActive(v View) (n int) {
	for i := 0; i < v.NumElements(); i++ {
		if v.Element(i).Active() {
			n++
		}
	}
	return
}

// Validate checks the structure of v: node coordinate length, connectivity
// ranges, element types, boundary side ranges and the refinement forest.
func Validate(v View) error {
	dim := v.GetDimension()
	if dim < 0 || dim > 3 {
		return fmt.Errorf("dimension %d out of range [0,3]", dim)
	}
	nn := v.NumNodes()
	for i := 0; i < nn; i++ {
		if len(v.Node(i)) != dim {
			return fmt.Errorf("node %d has %d coordinates, want %d", i, len(v.Node(i)), dim)
		}
	}
	for i := 0; i < v.NumElements(); i++ {
		e := v.Element(i)
		if !e.Type.Valid() {
			return fmt.Errorf("element %d has invalid type %v", i, e.Type)
		}
		if len(e.Nodes) != e.Type.GetNumNodes() {
			return fmt.Errorf("element %d (%v) has %d nodes, want %d",
				i, e.Type, len(e.Nodes), e.Type.GetNumNodes())
		}
		for _, n := range e.Nodes {
			if n < 0 || n >= nn {
				return fmt.Errorf("element %d references node %d out of range [0,%d)", i, n, nn)
			}
		}
	}
	if err := ValidateBoundary(v); err != nil {
		return err
	}
	return ValidateForest(v)
}

// ValidateBoundary checks that every boundary side references an existing
// element and a side index valid for its type.
func ValidateBoundary(v View) error {
	ne := v.NumElements()
	for i, bs := range v.Boundary() {
		if bs.Element < 0 || bs.Element >= ne {
			return fmt.Errorf("boundary side %d references element %d out of range [0,%d)",
				i, bs.Element, ne)
		}
		t := v.Element(bs.Element).Type
		if bs.Side < 0 || bs.Side >= t.GetNumSides() {
			return fmt.Errorf("boundary side %d: side %d invalid for %v element %d",
				i, bs.Side, t, bs.Element)
		}
	}
	return nil
}
