// Package birch is the scene core of a retained-mode 2D design canvas.
//
// Birch holds a tree of drawable nodes and answers, frame after frame, where
// everything sits in world space, what intersects a point or rect in paint
// order, and which rendered output can be replayed instead of repainted.
// Turning layers into pixels is left to a [Painter]; package raster provides
// a software one and package viewer puts it in a window.
//
// # Quick start
//
//	nodes := birch.NewNodeRepository()
//	scene := birch.NewScene("doc", nodes)
//
//	frame, _ := scene.Insert(0, birch.NewContainer("frame", 400, 300))
//	rect := birch.NewRectangle("card", 120, 80)
//	rect.SetPosition(40, 40)
//	rect.Fills = []birch.Paint{birch.Solid(birch.RGB(66, 135, 245))}
//	scene.Insert(frame, rect)
//
//	r := birch.NewRenderer(birch.RendererOptions{})
//	r.LoadScene(scene)
//
//	cam := birch.NewCamera(birch.Rect{Width: 800, Height: 600})
//	plan := r.Plan(cam)
//	r.Draw(painter, plan)
//
// # Scene graph
//
// Nodes live in a [NodeRepository] arena and are addressed by [NodeID].
// Every node type embeds [NodeCommon] for its transform, paints, stroke and
// effects. Parent links are edited through the repository, which rejects
// cycles, self-parenting and children that already have a parent or are
// scene roots. [Scene.Move] detaches a node first:
//
//	if err := nodes.AddChild(frame, rect); errors.Is(err, birch.ErrHasParent) {
//		err = scene.Move(frame, rect)
//	}
//
// A [Scene] names the root nodes and a background color.
//
// # Derived state
//
// Everything else is derived from the scene and rebuilt whole when it
// changes:
//
//   - [GeometryCache] holds world transforms and local, world, render and
//     subtree bounds per node.
//   - [LayerList] flattens the tree into layers in ascending z order and
//     indexes their envelopes in a [SpatialIndex] (an R-tree).
//   - [HitTester] answers HitFirst, Hits, Intersects and Contains with
//     exact point-in-path tests.
//
// [Renderer.Rebuild] compares generation counters first, so calling it
// every frame costs nothing while the scene is unchanged.
//
// # Caches
//
// [PictureCache] memoizes recorded [Picture] values per node, at the
// granularity chosen by [PictureCacheStrategy]. [TileCache] keeps raster
// tiles per quantized zoom level so panning only paints newly exposed
// areas. [ImageMipmaps] picks the right downscaled copy of an image for a
// zoom. All caches are LRU-bounded and none holds authoritative data.
//
// # Resources
//
// Images and fonts are fetched in the background by a [Loader] and merged
// on the frame loop by [Renderer.DrainResources]. A new font bumps the
// [FontRepository] generation, which makes the next Rebuild resize text.
//
// # Vector geometry
//
// [VectorNetwork] describes arbitrary shapes as vertices, segments and
// fillable regions. Package geom turns paths into stroke outlines (with
// alignment, dashes and variable width), rounds corners and tests
// containment.
package birch
