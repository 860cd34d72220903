package readers

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/meshxdr/mesh"
)

// markedFace is a boundary facet read before the element sides it belongs
// to are known.
type markedFace struct {
	marker mesh.BCType
	name   string
	nodes  []int
}

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (*mesh.Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	var (
		msh              *mesh.Mesh
		ndime            int
		hasNDIME         bool
		hasNPOIN         bool
		faces            []markedFace
		userMarkersAdded int
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments (text after %)
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			fmt.Sscanf(line, "NDIME=%d", &ndime)
			if ndime != 2 && ndime != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", ndime)
			}
			msh = mesh.NewMesh(ndime)

		case strings.HasPrefix(line, "NPOIN="):
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			hasNPOIN = true
			var npoin int
			fmt.Sscanf(line, "NPOIN=%d", &npoin)

			for i := 0; i < npoin; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading nodes")
				}
				fields := strings.Fields(scanner.Text())
				if len(fields) < ndime {
					return nil, fmt.Errorf("invalid node line: expected at least %d coordinates", ndime)
				}
				coords := make([]float64, ndime)
				for j := 0; j < ndime; j++ {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("invalid coordinate: %v", err)
					}
				}
				// Node ID is implicit (0-based); a trailing explicit ID is ignored
				msh.AddNode(coords)
			}

		case strings.HasPrefix(line, "NELEM="):
			if !hasNDIME {
				return nil, fmt.Errorf("NELEM= before NDIME=")
			}
			var nelem int
			fmt.Sscanf(line, "NELEM=%d", &nelem)

			for i := 0; i < nelem; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading elements")
				}
				etype, nodes, err := parseSU2Cell(scanner.Text(), su2ElementTypeMap)
				if err != nil {
					return nil, fmt.Errorf("element %d: %v", i, err)
				}
				for _, n := range nodes {
					if n < 0 || n >= msh.NumNodes() {
						return nil, fmt.Errorf("node index %d out of range [0,%d)", n, msh.NumNodes())
					}
				}
				msh.AddElement(mesh.NewElement(etype, nodes))
			}

		case strings.HasPrefix(line, "NMARK="):
			var nmark int
			fmt.Sscanf(line, "NMARK=%d", &nmark)

			for i := 0; i < nmark; i++ {
				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading marker %d", i)
				}
				markerLine := strings.TrimSpace(scanner.Text())
				if !strings.HasPrefix(markerLine, "MARKER_TAG=") {
					return nil, fmt.Errorf("expected MARKER_TAG=, got: %s", markerLine)
				}
				tagName := strings.TrimSpace(strings.TrimPrefix(markerLine, "MARKER_TAG="))
				marker, ok := mesh.ParseBCName(tagName)
				if !ok {
					marker = mesh.BCUserDefined + mesh.BCType(userMarkersAdded)
					userMarkersAdded++
				}

				if !scanner.Scan() {
					return nil, fmt.Errorf("unexpected EOF reading marker elements for %s", tagName)
				}
				elemLine := strings.TrimSpace(scanner.Text())
				var nMarkerElems int
				if _, err := fmt.Sscanf(elemLine, "MARKER_ELEMS=%d", &nMarkerElems); err != nil {
					return nil, fmt.Errorf("invalid MARKER_ELEMS line: %s", elemLine)
				}

				for j := 0; j < nMarkerElems; j++ {
					if !scanner.Scan() {
						return nil, fmt.Errorf("unexpected EOF reading boundary elements")
					}
					_, nodes, err := parseSU2Cell(scanner.Text(), su2BoundaryTypeMap)
					if err != nil {
						return nil, fmt.Errorf("marker %s: %v", tagName, err)
					}
					faces = append(faces, markedFace{marker: marker, name: tagName, nodes: nodes})
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %v", err)
	}

	// Validate that we read the required sections
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}

	if err := attachBoundary(msh, faces); err != nil {
		return nil, err
	}
	return msh, nil
}

// parseSU2Cell parses "vtkType n0 n1 ... [id]".
func parseSU2Cell(line string, types map[int]mesh.ElementType) (mesh.ElementType, []int, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return mesh.Unknown, nil, fmt.Errorf("invalid cell line %q", line)
	}
	vtkType, err := strconv.Atoi(fields[0])
	if err != nil {
		return mesh.Unknown, nil, fmt.Errorf("invalid cell type: %v", err)
	}
	etype, ok := types[vtkType]
	if !ok {
		return mesh.Unknown, nil, fmt.Errorf("unknown cell type: %d", vtkType)
	}
	numNodes := etype.GetNumNodes()
	if len(fields) < numNodes+1 {
		return mesh.Unknown, nil, fmt.Errorf("cell type %v expects %d nodes, got %d fields",
			etype, numNodes, len(fields)-1)
	}
	nodes := make([]int, numNodes)
	for j := range nodes {
		if nodes[j], err = strconv.Atoi(fields[1+j]); err != nil {
			return mesh.Unknown, nil, fmt.Errorf("invalid node index: %v", err)
		}
	}
	return etype, nodes, nil
}

// attachBoundary resolves marked facets to element sides.
func attachBoundary(msh *mesh.Mesh, faces []markedFace) error {
	if len(faces) == 0 {
		return nil
	}
	msh.BuildConnectivity()
	for _, f := range faces {
		elem, side, ok := msh.FindSide(f.nodes)
		if !ok {
			return fmt.Errorf("marker %s: facet %v is not a side of any element", f.name, f.nodes)
		}
		msh.AddBoundarySide(mesh.BoundarySide{Element: elem, Side: side, Marker: f.marker})
	}
	return nil
}

// su2ElementTypeMap maps SU2/VTK element type identifiers to our ElementType
var su2ElementTypeMap = map[int]mesh.ElementType{
	3:  mesh.Line,     // VTK_LINE
	5:  mesh.Triangle, // VTK_TRIANGLE
	9:  mesh.Quad,     // VTK_QUAD
	10: mesh.Tet,      // VTK_TETRA
	12: mesh.Hex,      // VTK_HEXAHEDRON
	13: mesh.Prism,    // VTK_WEDGE
	14: mesh.Pyramid,  // VTK_PYRAMID
}

// su2BoundaryTypeMap holds the facet types allowed in marker sections
var su2BoundaryTypeMap = map[int]mesh.ElementType{
	3: mesh.Line,     // 2D boundary
	5: mesh.Triangle, // 3D boundary
	9: mesh.Quad,     // 3D boundary
}
