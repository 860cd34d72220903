package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/xdrio"
)

// ReadMeshFile reads a mesh file based on extension. Files without a known
// extension are sniffed for a DEAL, MGF or LIBM header.
func ReadMeshFile(filename string, opts ...xdrio.Option) (*mesh.Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".neu":
		return ReadGambitNeutral(filename)
	case ".su2":
		return ReadSU2(filename)
	case ".xda":
		return readNative(filename, xdrio.LIBM, false, opts)
	case ".xdr":
		return readNative(filename, xdrio.LIBM, true, opts)
	}

	tag, binary, err := xdrio.SniffFile(filename)
	if err != nil {
		return nil, fmt.Errorf("unsupported mesh format %q: %w", ext, err)
	}
	f, ok := xdrio.FormatForTag(tag)
	if !ok {
		return nil, fmt.Errorf("%s: %s file is not a mesh", filename, tag)
	}
	return readNative(filename, f, binary, opts)
}

func readNative(filename string, f xdrio.Format, binary bool, opts []xdrio.Option) (*mesh.Mesh, error) {
	m := mesh.NewMesh(0)
	if err := xdrio.New(binary, opts...).Read(filename, f, m); err != nil {
		return nil, err
	}
	return m, nil
}
