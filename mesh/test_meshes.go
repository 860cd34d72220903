package mesh

// TestMeshes provides a collection of standard meshes that can be used
// across the codec and reader tests. Every call to GetStandardTestMeshes
// builds fresh copies, so tests may mutate them.
type TestMeshes struct {
	// Flat meshes
	Line3     *Mesh // 1D: nodes 0, 0.5, 1 and lines [0,1], [1,2]
	TwoTri    *Mesh // 2D: unit square split into two triangles, marked edges
	Mixed2D   *Mesh // 2D: one quad and one triangle sharing an edge
	TwoTet    *Mesh // 3D: two tets sharing a face
	HexPrism  *Mesh // 3D: a hex with a prism on top, quadratic corner ordering
	Quadratic *Mesh // 2D: single Triangle6

	// Refined meshes
	RefinedLine *Mesh // 1 root line with 2 active children
	QuadTree    *Mesh // 3 levels of quad refinement
}

// GetStandardTestMeshes returns a set of standard test meshes
func GetStandardTestMeshes() *TestMeshes {
	return &TestMeshes{
		Line3:       createLine3(),
		TwoTri:      createTwoTri(),
		Mixed2D:     createMixed2D(),
		TwoTet:      createTwoTet(),
		HexPrism:    createHexPrism(),
		Quadratic:   createQuadratic(),
		RefinedLine: createRefinedLine(),
		QuadTree:    createQuadTree(),
	}
}

func meshFromNodes(dim int, nodes [][]float64) *Mesh {
	m := NewMesh(dim)
	for _, x := range nodes {
		m.AddNode(x)
	}
	return m
}

func createLine3() *Mesh {
	m := meshFromNodes(1, [][]float64{{0.0}, {0.5}, {1.0}})
	m.AddElement(NewElement(Line, []int{0, 1}))
	m.AddElement(NewElement(Line, []int{1, 2}))
	return m
}

func createTwoTri() *Mesh {
	m := meshFromNodes(2, [][]float64{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	})
	m.Title = "unit square"
	m.AddElement(NewElement(Triangle, []int{0, 1, 2}))
	t := NewElement(Triangle, []int{0, 2, 3})
	t.Subdomain = 7
	m.AddElement(t)
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 0, Marker: BCWall})
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 1, Marker: BCOutflow})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 1, Marker: BCWall})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 2, Marker: BCInflow})
	return m
}

func createMixed2D() *Mesh {
	m := meshFromNodes(2, [][]float64{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {2, 0.5},
	})
	m.AddElement(NewElement(Quad, []int{0, 1, 2, 3}))
	m.AddElement(NewElement(Triangle, []int{1, 4, 2}))
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 3, Marker: BCInflow})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 0, Marker: BCUserDefined + 3})
	return m
}

func createTwoTet() *Mesh {
	m := meshFromNodes(3, [][]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	})
	m.AddElement(NewElement(Tet, []int{0, 1, 2, 3}))
	m.AddElement(NewElement(Tet, []int{1, 2, 3, 4}))
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 0, Marker: BCSymmetry})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 3, Marker: BCFarfield})
	return m
}

func createHexPrism() *Mesh {
	m := meshFromNodes(3, [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
		{0.5, 0, 1.5}, {0.5, 1, 1.5},
	})
	m.Title = "hex with prism roof"
	m.AddElement(NewElement(Hex, []int{0, 1, 2, 3, 4, 5, 6, 7}))
	m.AddElement(NewElement(Prism, []int{4, 5, 8, 7, 6, 9}))
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 0, Marker: BCWall})
	return m
}

func createQuadratic() *Mesh {
	m := meshFromNodes(2, [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {0.5, 0}, {0.5, 0.5}, {0, 0.5},
	})
	m.AddElement(NewElement(Triangle6, []int{0, 1, 2, 3, 4, 5}))
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 2, Marker: BCDirichlet})
	return m
}

func createRefinedLine() *Mesh {
	m := meshFromNodes(1, [][]float64{{0.0}, {0.5}, {1.0}})
	m.AddElement(NewElement(Line, []int{0, 2}))
	m.Refine(0,
		NewElement(Line, []int{0, 1}),
		NewElement(Line, []int{1, 2}),
	)
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 0, Marker: BCWall})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 0, Marker: BCInflow})
	m.AddBoundarySide(BoundarySide{Element: 2, Side: 1, Marker: BCOutflow})
	return m
}

// createQuadTree refines the unit square once into four quads, then
// refines the lower-left child again. Elements 0 and 1 are inactive.
func createQuadTree() *Mesh {
	m := meshFromNodes(2, [][]float64{
		{0, 0}, {0.5, 0}, {1, 0},
		{0, 0.5}, {0.5, 0.5}, {1, 0.5},
		{0, 1}, {0.5, 1}, {1, 1},
		{0.25, 0}, {0.5, 0.25}, {0.25, 0.5}, {0, 0.25}, {0.25, 0.25},
	})
	m.Title = "quadtree"
	m.AddElement(NewElement(Quad, []int{0, 2, 8, 6}))
	m.Refine(0,
		NewElement(Quad, []int{0, 1, 4, 3}),
		NewElement(Quad, []int{1, 2, 5, 4}),
		NewElement(Quad, []int{4, 5, 8, 7}),
		NewElement(Quad, []int{3, 4, 7, 6}),
	)
	m.Refine(1,
		NewElement(Quad, []int{0, 9, 13, 12}),
		NewElement(Quad, []int{9, 1, 10, 13}),
		NewElement(Quad, []int{13, 10, 4, 11}),
		NewElement(Quad, []int{12, 13, 11, 3}),
	)
	m.AddBoundarySide(BoundarySide{Element: 0, Side: 0, Marker: BCWall})
	m.AddBoundarySide(BoundarySide{Element: 1, Side: 0, Marker: BCWall})
	m.AddBoundarySide(BoundarySide{Element: 2, Side: 1, Marker: BCOutflow})
	m.AddBoundarySide(BoundarySide{Element: 5, Side: 3, Marker: BCInflow})
	return m
}
