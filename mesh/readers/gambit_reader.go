package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/meshxdr/mesh"
)

// gambitElementTypes maps Gambit NTYPE codes to element types
var gambitElementTypes = map[int]mesh.ElementType{
	1: mesh.Line,     // Edge
	2: mesh.Quad,     // Quadrilateral
	3: mesh.Triangle, // Triangle
	4: mesh.Hex,      // Brick
	5: mesh.Prism,    // Wedge
	6: mesh.Tet,      // Tetrahedron
	7: mesh.Pyramid,  // Pyramid
}

// gambitNodeOrder gives, for each element node position, the position of
// that node in the Gambit record. Bricks and pyramids number their base
// corners lexicographically rather than around the base.
var gambitNodeOrder = map[mesh.ElementType][]int{
	mesh.Hex:     {0, 1, 3, 2, 4, 5, 7, 6},
	mesh.Pyramid: {0, 1, 3, 2, 4},
}

// gambitFaces lists the Gambit faces of each element type by node position
// in the Gambit record. Face n of the file is entry n-1.
var gambitFaces = map[mesh.ElementType][][]int{
	mesh.Line:     {{0}, {1}},
	mesh.Triangle: {{0, 1}, {1, 2}, {2, 0}},
	mesh.Quad:     {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	mesh.Tet:      {{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}},
	mesh.Hex:      {{0, 1, 5, 4}, {1, 3, 7, 5}, {3, 2, 6, 7}, {2, 0, 4, 6}, {0, 2, 3, 1}, {4, 5, 7, 6}},
	mesh.Prism:    {{0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}, {0, 2, 1}, {3, 4, 5}},
	mesh.Pyramid:  {{0, 2, 3, 1}, {0, 1, 4}, {1, 3, 4}, {3, 2, 4}, {2, 0, 4}},
}

// ReadGambitNeutral reads a Gambit neutral file (.neu). Element groups
// become subdomains, element/face boundary sets become boundary sides.
func ReadGambitNeutral(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	// Control variables from header
	var numnp, nelem, ndfcd int
	var hasControl bool

	// Read control info section
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "NUMNP") && strings.Contains(line, "NELEM") {
			// Next line contains the actual values
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF after control header")
			}
			values := strings.Fields(scanner.Text())
			if len(values) < 5 {
				return nil, fmt.Errorf("invalid control line %q", scanner.Text())
			}
			counts := make([]int, 5)
			for i := range counts {
				if counts[i], err = strconv.Atoi(values[i]); err != nil {
					return nil, fmt.Errorf("invalid control value %q", values[i])
				}
			}
			numnp, nelem, ndfcd = counts[0], counts[1], counts[4]
			hasControl = true
			break
		}
	}
	if !hasControl {
		return nil, fmt.Errorf("missing CONTROL INFO section")
	}
	if numnp < 0 || nelem < 0 {
		return nil, fmt.Errorf("negative count in control line: NUMNP=%d NELEM=%d", numnp, nelem)
	}
	if ndfcd < 1 || ndfcd > 3 {
		return nil, fmt.Errorf("unsupported dimension: NDFCD=%d", ndfcd)
	}

	msh := mesh.NewMesh(ndfcd)
	userMarkersAdded := 0
	// connectivity in Gambit node order, for resolving boundary faces
	var records [][]int

	// Continue reading sections
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "ENDOFSECTION":
			continue

		case strings.Contains(line, "NODAL COORDINATES"):
			msh.Vertices = make([][]float64, numnp)
			for i := 0; i < numnp; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 1+ndfcd {
					return nil, fmt.Errorf("invalid node line %q", scanner.Text())
				}
				nodeID, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("invalid node id: %v", err)
				}
				// Gambit uses 1-based node IDs
				idx := nodeID - 1
				if idx < 0 || idx >= numnp {
					return nil, fmt.Errorf("node id %d out of range [1,%d]", nodeID, numnp)
				}
				coords := make([]float64, ndfcd)
				for j := range coords {
					if coords[j], err = strconv.ParseFloat(fields[1+j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				msh.Vertices[idx] = coords
			}

		case strings.Contains(line, "ELEMENTS/CELLS"):
			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid element line %q", scanner.Text())
				}
				gambitType, _ := strconv.Atoi(fields[1])
				numNodes, _ := strconv.Atoi(fields[2])
				etype, ok := gambitElementTypes[gambitType]
				if !ok {
					return nil, fmt.Errorf("element %s: unknown Gambit type %d", fields[0], gambitType)
				}
				if numNodes != etype.GetNumNodes() {
					return nil, fmt.Errorf("element %s: %v with %d nodes", fields[0], etype, numNodes)
				}
				// Long connectivity lists continue on the next line
				for len(fields) < 3+numNodes && scanner.Scan() {
					fields = append(fields, strings.Fields(scanner.Text())...)
				}
				if len(fields) < 3+numNodes {
					return nil, fmt.Errorf("element %s: truncated connectivity", fields[0])
				}
				raw := make([]int, numNodes)
				for j := range raw {
					nodeID, err := strconv.Atoi(fields[3+j])
					if err != nil || nodeID < 1 || nodeID > numnp {
						return nil, fmt.Errorf("element %s: invalid node %q", fields[0], fields[3+j])
					}
					// Convert from 1-based to 0-based
					raw[j] = nodeID - 1
				}
				nodes := raw
				if order, ok := gambitNodeOrder[etype]; ok {
					nodes = make([]int, numNodes)
					for j, k := range order {
						nodes[j] = raw[k]
					}
				}
				records = append(records, raw)
				msh.AddElement(mesh.NewElement(etype, nodes))
			}

		case strings.Contains(line, "ELEMENT GROUP"):
			if err := readGambitGroup(scanner, msh); err != nil {
				return nil, err
			}

		case strings.Contains(line, "BOUNDARY CONDITIONS"):
			// Format: NAME ITYPE NENTRY NVALUES IBCODE...
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected EOF reading boundary set")
			}
			parts := strings.Fields(scanner.Text())
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid boundary set line %q", scanner.Text())
			}
			bcName := parts[0]
			itype, _ := strconv.Atoi(parts[1])  // 0=node, 1=element/cell
			nentry, _ := strconv.Atoi(parts[2]) // Number of entries
			marker, ok := mesh.ParseBCName(bcName)
			if !ok {
				marker = mesh.BCUserDefined + mesh.BCType(userMarkersAdded)
				userMarkersAdded++
			}
			for i := 0; i < nentry; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading boundary set %s", bcName)
				}
				if itype != 1 {
					// Node boundary conditions carry no side
					continue
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < 3 {
					return nil, fmt.Errorf("invalid boundary entry %q", scanner.Text())
				}
				elemID, _ := strconv.Atoi(fields[0])
				faceID, _ := strconv.Atoi(fields[2])
				// Element and face IDs are 1-based
				if elemID < 1 || elemID > len(records) {
					return nil, fmt.Errorf("boundary set %s: element %d out of range [1,%d]",
						bcName, elemID, len(records))
				}
				side, err := gambitSide(msh.Elements[elemID-1], records[elemID-1], faceID)
				if err != nil {
					return nil, fmt.Errorf("boundary set %s, element %d: %w", bcName, elemID, err)
				}
				msh.AddBoundarySide(mesh.BoundarySide{
					Element: elemID - 1,
					Side:    side,
					Marker:  marker,
				})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}
	if msh.NumElements() != nelem {
		return nil, fmt.Errorf("read %d elements, header declares %d", msh.NumElements(), nelem)
	}
	for i, x := range msh.Vertices {
		if x == nil {
			return nil, fmt.Errorf("node %d missing from NODAL COORDINATES", i+1)
		}
	}
	if err := mesh.ValidateBoundary(msh); err != nil {
		return nil, err
	}
	return msh, nil
}

// gambitSide finds the side of e holding the corners of Gambit face
// number face of record raw.
func gambitSide(e mesh.Element, raw []int, face int) (int, error) {
	faces := gambitFaces[e.Type]
	if face < 1 || face > len(faces) {
		return 0, fmt.Errorf("face %d invalid for %v", face, e.Type)
	}
	corners := make([]int, len(faces[face-1]))
	for i, k := range faces[face-1] {
		corners[i] = raw[k]
	}
	key := mesh.FaceKey(corners)
	for side, verts := range mesh.GetElementSides(e.Type, e.Nodes) {
		if mesh.FaceKey(verts) == key {
			return side, nil
		}
	}
	return 0, fmt.Errorf("face %d %v matches no %v side", face, corners, e.Type)
}

// readGambitGroup reads one ELEMENT GROUP section:
//
//	GROUP: id ELEMENTS: n MATERIAL: m NFLAGS: f
//	name
//	flags
//	element ids ...
func readGambitGroup(scanner *bufio.Scanner, msh *mesh.Mesh) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF reading element group")
	}
	var groupID, numElems, nflags int
	parts := strings.Fields(scanner.Text())
	for i := 0; i < len(parts)-1; i++ {
		switch parts[i] {
		case "GROUP:":
			groupID, _ = strconv.Atoi(parts[i+1])
		case "ELEMENTS:":
			numElems, _ = strconv.Atoi(parts[i+1])
		case "NFLAGS:":
			nflags, _ = strconv.Atoi(parts[i+1])
		}
	}
	// Entity name
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF reading group %d name", groupID)
	}
	// Flags
	if nflags > 0 && !scanner.Scan() {
		return fmt.Errorf("unexpected EOF reading group %d flags", groupID)
	}
	elementsRead := 0
	for elementsRead < numElems {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading group %d elements", groupID)
		}
		for _, field := range strings.Fields(scanner.Text()) {
			elemID, err := strconv.Atoi(field)
			if err != nil || elemID < 1 || elemID > msh.NumElements() {
				return fmt.Errorf("group %d: invalid element %q", groupID, field)
			}
			// Elements are 1-indexed in file, 0-indexed in mesh
			msh.Elements[elemID-1].Subdomain = groupID
			elementsRead++
		}
	}
	return nil
}
