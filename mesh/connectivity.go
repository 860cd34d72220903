package mesh

import (
	"fmt"
	"sort"
)

// FaceKey is the lookup key of a side given by any ordering of its corner
// vertices.
func FaceKey(vertices []int) string {
	sorted := make([]int, len(vertices))
	copy(sorted, vertices)
	sort.Ints(sorted)
	return fmt.Sprintf("%v", sorted)
}

// BuildConnectivity builds element-to-element and face connectivity over the
// active elements. Inactive elements get nil rows.
func (m *Mesh) BuildConnectivity() {
	ne := len(m.Elements)
	m.EToE = make([][]int, ne)
	m.EToF = make([][]int, ne)
	m.Faces = m.Faces[:0]
	m.FaceMap = make(map[string]int)

	for elemID := 0; elemID < ne; elemID++ {
		elem := &m.Elements[elemID]
		if !elem.Active() {
			continue
		}
		faceVertices := GetElementSides(elem.Type, elem.Nodes)

		m.EToE[elemID] = make([]int, len(faceVertices))
		m.EToF[elemID] = make([]int, len(faceVertices))

		// Initialize to -1 (boundary)
		for i := range m.EToE[elemID] {
			m.EToE[elemID][i] = -1
			m.EToF[elemID][i] = -1
		}

		for localFaceID, faceVerts := range faceVertices {
			key := FaceKey(faceVerts)

			if faceID, exists := m.FaceMap[key]; exists {
				// Face already exists - this is an interior face
				face := &m.Faces[faceID]
				neighborElem := face.Element
				neighborLocalID := face.LocalID

				m.EToE[elemID][localFaceID] = neighborElem
				m.EToE[neighborElem][neighborLocalID] = elemID

				m.EToF[elemID][localFaceID] = faceID
				m.EToF[neighborElem][neighborLocalID] = faceID
			} else {
				sorted := make([]int, len(faceVerts))
				copy(sorted, faceVerts)
				sort.Ints(sorted)
				faceID := len(m.Faces)
				m.Faces = append(m.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
				m.FaceMap[key] = faceID
				m.EToF[elemID][localFaceID] = faceID
			}
		}
	}
}

// FindSide locates the active element side with the given corner vertices.
// BuildConnectivity must have been called.
func (m *Mesh) FindSide(vertices []int) (elem, side int, ok bool) {
	faceID, ok := m.FaceMap[FaceKey(vertices)]
	if !ok {
		return -1, -1, false
	}
	f := m.Faces[faceID]
	return f.Element, f.LocalID, true
}

// ExteriorSides returns every active element side without a neighbor, in
// element then side order. BuildConnectivity must have been called.
func (m *Mesh) ExteriorSides() (sides []BoundarySide) {
	for elemID, row := range m.EToE {
		for side, nbr := range row {
			if nbr < 0 {
				sides = append(sides, BoundarySide{Element: elemID, Side: side})
			}
		}
	}
	return
}

// MarkExterior attaches marker to every exterior side of an active element
// that carries no boundary side yet, and returns how many were added.
func (m *Mesh) MarkExterior(marker BCType) (added int) {
	m.BuildConnectivity()
	type side struct{ elem, side int }
	marked := make(map[side]bool, len(m.BoundarySides))
	for _, bs := range m.BoundarySides {
		marked[side{bs.Element, bs.Side}] = true
	}
	for _, bs := range m.ExteriorSides() {
		if marked[side{bs.Element, bs.Side}] {
			continue
		}
		bs.Marker = marker
		m.AddBoundarySide(bs)
		added++
	}
	return
}
