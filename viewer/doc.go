// Package viewer opens a birch scene in an [ebiten] window.
//
// Frames are painted in software by package raster and uploaded as one
// image; nothing is redrawn while the scene and camera stand still.
// Dragging pans, the wheel zooms around the cursor and a click hit-tests
// the topmost node and publishes a [PickEvent] to the [EventSink].
//
// Settings come from BIRCH_* environment variables:
//
//	cfg, err := viewer.Load()
//	v := viewer.New(ctx, *cfg, scene, slog.Default())
//	if cfg.Script != "" {
//		runner, err := viewer.LoadScript(cfg.Script)
//		...
//		v.SetScript(runner)
//	}
//	err = v.Run()
//
// A script drives the same input paths as the mouse, which makes it usable
// for visual checks: each screenshot step writes a PNG into
// Config.ScreenshotDir.
//
// [ebiten]: https://ebitengine.org
package viewer
