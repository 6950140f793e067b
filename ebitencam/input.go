package ebitencam

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the source of key and cursor state Controls read from. EbitenInput reads ebiten's.
type Input interface {
	IsKeyPressed(key ebiten.Key) bool
	IsKeyJustPressed(key ebiten.Key) bool
	CursorPosition() (x, y int)
}

type ebitenInput struct{}

func (ebitenInput) IsKeyPressed(key ebiten.Key) bool     { return ebiten.IsKeyPressed(key) }
func (ebitenInput) IsKeyJustPressed(key ebiten.Key) bool { return inpututil.IsKeyJustPressed(key) }
func (ebitenInput) CursorPosition() (int, int)           { return ebiten.CursorPosition() }

// EbitenInput reads input straight from ebiten.
var EbitenInput Input = ebitenInput{}

// FrameDuration returns how long one ebiten tick lasts at the current TPS, for passing to Camera.Update.
func FrameDuration() time.Duration {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return time.Second / time.Duration(tps)
}
