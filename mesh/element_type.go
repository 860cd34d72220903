package mesh

import (
	"fmt"
	"strings"
)

// ElementType represents different finite element types. The integer value
// is also the element type tag stored in every file format.
type ElementType int

const (
	Unknown ElementType = iota
	// 0D elements
	Point
	// 1D elements
	Line
	Line3 // 3-node line (quadratic)
	// 2D elements
	Triangle
	Quad
	Triangle6  // 6-node triangle (quadratic)
	Triangle9  // 9-node triangle
	Triangle10 // 10-node triangle
	Quad8      // 8-node quad (quadratic)
	Quad9      // 9-node quad
	// 3D elements
	Tet
	Hex
	Prism
	Pyramid
	Tet10     // 10-node tetrahedron (quadratic)
	Hex20     // 20-node hexahedron (quadratic)
	Hex27     // 27-node hexahedron
	Prism15   // 15-node prism (quadratic)
	Prism18   // 18-node prism
	Pyramid13 // 13-node pyramid
	Pyramid14 // 14-node pyramid

	maxElementType = Pyramid14
)

var elementTypeNames = []string{
	"Unknown",
	"Point",
	"Line", "Line3",
	"Triangle", "Quad", "Triangle6", "Triangle9", "Triangle10", "Quad8", "Quad9",
	"Tet", "Hex", "Prism", "Pyramid",
	"Tet10", "Hex20", "Hex27", "Prism15", "Prism18", "Pyramid13", "Pyramid14",
}

// String representation of element types
func (e ElementType) String() string {
	if e >= 0 && int(e) < len(elementTypeNames) {
		return elementTypeNames[e]
	}
	return fmt.Sprintf("Invalid(%d)", int(e))
}

// Valid reports whether e is a concrete element type a reader can decode.
func (e ElementType) Valid() bool {
	return e > Unknown && e <= maxElementType
}

// ParseElementType is the inverse of String, case-insensitive.
func ParseElementType(name string) (ElementType, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range elementTypeNames {
		if i > 0 && strings.ToLower(n) == lower {
			return ElementType(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown element type name %q", name)
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Point:
		return 0
	case Line, Line3:
		return 1
	case Triangle, Quad, Triangle6, Triangle9, Triangle10, Quad8, Quad9:
		return 2
	case Tet, Hex, Prism, Pyramid, Tet10, Hex20, Hex27, Prism15, Prism18, Pyramid13, Pyramid14:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Point:
		return 1
	case Line:
		return 2
	case Line3, Triangle:
		return 3
	case Quad:
		return 4
	case Triangle6, Prism:
		return 6
	case Triangle9, Quad9:
		return 9
	case Triangle10, Tet10:
		return 10
	case Quad8, Hex:
		return 8
	case Tet:
		return 4
	case Pyramid:
		return 5
	case Hex20:
		return 20
	case Hex27:
		return 27
	case Prism15:
		return 15
	case Prism18:
		return 18
	case Pyramid13:
		return 13
	case Pyramid14:
		return 14
	default:
		return 0
	}
}

// GetNumSides returns the number of (dim-1) sides: end points of a line,
// edges of a 2D element, faces of a 3D element.
func (e ElementType) GetNumSides() int {
	switch e {
	case Line, Line3:
		return 2
	case Triangle, Triangle6, Triangle9, Triangle10:
		return 3
	case Quad, Quad8, Quad9, Tet, Tet10:
		return 4
	case Prism, Prism15, Prism18, Pyramid, Pyramid13, Pyramid14:
		return 5
	case Hex, Hex20, Hex27:
		return 6
	default:
		return 0
	}
}

// GetCornerNodes returns the indices of corner nodes for higher-order elements
func (e ElementType) GetCornerNodes() []int {
	var n int
	switch e {
	case Line3:
		n = 2
	case Triangle6, Triangle9, Triangle10:
		n = 3
	case Quad8, Quad9, Tet10:
		n = 4
	case Pyramid13, Pyramid14:
		n = 5
	case Prism15, Prism18:
		n = 6
	case Hex20, Hex27:
		n = 8
	default:
		// For linear elements, all nodes are corner nodes
		n = e.GetNumNodes()
	}
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = i
	}
	return nodes
}

// GetElementSides returns the sides of an element as vertex lists, using
// only the corner nodes of higher-order variants. The position in the result
// is the local side index used by boundary side records.
func GetElementSides(elemType ElementType, vertices []int) [][]int {
	v := vertices
	if nc := len(elemType.GetCornerNodes()); len(v) > nc {
		v = v[:nc]
	}
	switch elemType {
	case Line, Line3:
		return [][]int{{v[0]}, {v[1]}}

	case Triangle, Triangle6, Triangle9, Triangle10:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[0]},
		}

	case Quad, Quad8, Quad9:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[3]},
			{v[3], v[0]},
		}

	case Tet, Tet10:
		return [][]int{
			{v[0], v[2], v[1]}, // Face 0
			{v[0], v[1], v[3]}, // Face 1
			{v[0], v[3], v[2]}, // Face 2
			{v[1], v[2], v[3]}, // Face 3
		}

	case Hex, Hex20, Hex27:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // Face 0 (bottom)
			{v[4], v[5], v[6], v[7]}, // Face 1 (top)
			{v[0], v[1], v[5], v[4]}, // Face 2
			{v[1], v[2], v[6], v[5]}, // Face 3
			{v[2], v[3], v[7], v[6]}, // Face 4
			{v[3], v[0], v[4], v[7]}, // Face 5
		}

	case Prism, Prism15, Prism18:
		return [][]int{
			{v[0], v[2], v[1]},       // Face 0 (bottom tri)
			{v[3], v[4], v[5]},       // Face 1 (top tri)
			{v[0], v[1], v[4], v[3]}, // Face 2 (quad)
			{v[1], v[2], v[5], v[4]}, // Face 3 (quad)
			{v[2], v[0], v[3], v[5]}, // Face 4 (quad)
		}

	case Pyramid, Pyramid13, Pyramid14:
		return [][]int{
			{v[0], v[3], v[2], v[1]}, // Face 0 (base quad)
			{v[0], v[1], v[4]},       // Face 1 (tri)
			{v[1], v[2], v[4]},       // Face 2 (tri)
			{v[2], v[3], v[4]},       // Face 3 (tri)
			{v[3], v[0], v[4]},       // Face 4 (tri)
		}

	default:
		return [][]int{}
	}
}
