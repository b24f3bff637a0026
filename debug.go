package birch

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timings and counts. Only populated when the
// renderer is in debug mode.
type debugStats struct {
	geometryTime  time.Duration
	layerTime     time.Duration
	planTime      time.Duration
	paintTime     time.Duration
	layers        int
	regions       int
	tiles         int
	missingTiles  int
	pictureHits   int
	pictureMisses int
}

// debugLog logs stats at Debug level.
func (r *Renderer) debugLog(stats debugStats) {
	if !r.debug {
		return
	}
	total := stats.planTime + stats.paintTime
	r.log.Debug("frame",
		slog.Duration("geometry", stats.geometryTime),
		slog.Duration("layers", stats.layerTime),
		slog.Duration("plan", stats.planTime),
		slog.Duration("paint", stats.paintTime),
		slog.Duration("total", total),
	)
	r.log.Debug("frame counts",
		"layers", stats.layers,
		"regions", stats.regions,
		"tiles", stats.tiles,
		"missing_tiles", stats.missingTiles,
		"picture_hits", stats.pictureHits,
		"picture_misses", stats.pictureMisses,
	)
}

// debugMaxTreeDepth is the depth beyond which a rebuild warns.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(log *slog.Logger, geo *GeometryCache) {
	if d := geo.MaxDepth(); d > debugMaxTreeDepth {
		log.Warn("tree depth exceeds threshold", "depth", d, "threshold", debugMaxTreeDepth)
	}
}

// debugMaxChildCount is the child count beyond which a debug rebuild warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(log *slog.Logger, scene *Scene) {
	scene.Walk(func(id NodeID, n Node, _ int) bool {
		if c := len(scene.Nodes.Children(id)); c > debugMaxChildCount {
			log.Warn("node has too many children",
				"node", id, "name", n.Common().Name, "children", c, "threshold", debugMaxChildCount)
		}
		return true
	})
}
