package ebitencam

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/solarlune/tetracam"
	"github.com/solarlune/tetracam/colors"
	"golang.org/x/image/font/basicfont"
)

// ToScreen projects a world position onto a screen of the given size. The boolean is false when the point
// lies behind the camera.
func ToScreen(camera *tetracam.Camera, position mgl32.Vec3, width, height int) (x, y float32, ok bool) {
	ndc, ok := camera.WorldToClip(position)
	if !ok {
		return 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * float32(width)
	y = (1 - ndc.Y()) / 2 * float32(height)
	return x, y, true
}

// DrawLine3D draws a line between two world positions. Lines with an end behind the camera are skipped.
func DrawLine3D(screen *ebiten.Image, camera *tetracam.Camera, from, to mgl32.Vec3, thickness float32, clr color.Color) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	x0, y0, ok0 := ToScreen(camera, from, w, h)
	x1, y1, ok1 := ToScreen(camera, to, w, h)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, x0, y0, x1, y1, thickness, clr, true)
}

// DrawGrid draws a square grid on the XY plane centered on the origin, with count cells per side.
func DrawGrid(screen *ebiten.Image, camera *tetracam.Camera, cellSize float32, count int, clr color.Color) {
	half := cellSize * float32(count) / 2
	for i := 0; i <= count; i++ {
		d := -half + cellSize*float32(i)
		DrawLine3D(screen, camera, mgl32.Vec3{d, -half, 0}, mgl32.Vec3{d, half, 0}, 1, clr)
		DrawLine3D(screen, camera, mgl32.Vec3{-half, d, 0}, mgl32.Vec3{half, d, 0}, 1, clr)
	}
}

// DrawTransform draws the local axes of a Transform in the colors of colors.Axis.
func DrawTransform(screen *ebiten.Image, camera *tetracam.Camera, transform *tetracam.Transform, length float32) {
	origin := transform.WorldPosition()
	orientation := transform.WorldOrientation()
	for i := 0; i < 3; i++ {
		axis := orientation.Col(i).Vec3().Mul(length)
		DrawLine3D(screen, camera, origin, origin.Add(axis), 2, colors.Axis(i))
	}
}

// DebugText returns a multi-line description of the camera's state.
func DebugText(camera *tetracam.Camera) string {

	var sb strings.Builder

	name := "none"
	if cfg := camera.Configuration(); cfg != nil {
		name = cfg.Name()
	}

	p := camera.PositionVector()
	f := camera.Forward()
	v := camera.VelocityVector()

	fmt.Fprintf(&sb, "View: %s", name)
	if node := camera.FollowedNode(); node != nil {
		fmt.Fprintf(&sb, " (%s)", node.Name())
	}
	if camera.InTransition() {
		fmt.Fprintf(&sb, " [transition %.0f%%]", camera.TransitionProgress()*100)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Position: %.2f, %.2f, %.2f\n", p.X(), p.Y(), p.Z())
	fmt.Fprintf(&sb, "Forward: %.2f, %.2f, %.2f\n", f.X(), f.Y(), f.Z())
	fmt.Fprintf(&sb, "Velocity: %.2f, %.2f, %.2f\n", v.X(), v.Y(), v.Z())
	fmt.Fprintf(&sb, "FOV: %.1f Span: %.3f\n", camera.FOV(), camera.Span())
	fmt.Fprintf(&sb, "Near: %.3f Far: %.1f", camera.Near(), camera.Far())

	return sb.String()

}

// DrawDebugInfo draws DebugText onto the screen with its top-left corner at x, y.
func DrawDebugInfo(screen *ebiten.Image, camera *tetracam.Camera, x, y int, clr color.Color) {
	face := basicfont.Face7x13
	text.Draw(screen, DebugText(camera), face, x, y+face.Ascent, clr)
}
