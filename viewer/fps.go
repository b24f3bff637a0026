package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/birch"
)

const fpsRefresh = 0.5 // seconds

// fpsOverlay shows FPS, TPS and the last frame's cache counters in the
// top-left corner, redrawn every fpsRefresh seconds.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	text    string
}

func (o *fpsOverlay) update(dt float64, st birch.DrawStats) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < fpsRefresh {
		return
	}
	o.elapsed = 0
	o.text = overlayText(ebiten.ActualFPS(), ebiten.ActualTPS(), st)
	if o.img == nil {
		// 180x64 fits four lines of debug font.
		o.img = ebiten.NewImage(180, 64)
	}
	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	if o.img != nil {
		screen.DrawImage(o.img, nil)
	}
}

func overlayText(fps, tps float64, st birch.DrawStats) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\ntiles %d/%d\npictures %d/%d",
		fps, tps, st.TilesUsed, st.TilesTotal, st.PicturesUsed, st.PictureCount)
}
