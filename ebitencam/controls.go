package ebitencam

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/solarlune/tetracam"
)

// KeyBindings maps camera commands to keys.
type KeyBindings struct {
	Forward, Backward ebiten.Key
	Left, Right       ebiten.Key
	Up, Down          ebiten.Key

	TurnLeft, TurnRight ebiten.Key
	TurnUp, TurnDown    ebiten.Key
	RollLeft, RollRight ebiten.Key

	NextView, PreviousView ebiten.Key
	NextNode, PreviousNode ebiten.Key
	FreeCamera             ebiten.Key
	Reset                  ebiten.Key

	ZoomIn, ZoomOut ebiten.Key
}

// DefaultKeyBindings returns WASD movement with Space and Control for up and down, arrow keys to turn,
// Q and E to roll, Tab to cycle views, N and B to cycle nodes, F for a free camera and R to reset the view.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Forward:  ebiten.KeyW,
		Backward: ebiten.KeyS,
		Left:     ebiten.KeyA,
		Right:    ebiten.KeyD,
		Up:       ebiten.KeySpace,
		Down:     ebiten.KeyControl,

		TurnLeft:  ebiten.KeyArrowLeft,
		TurnRight: ebiten.KeyArrowRight,
		TurnUp:    ebiten.KeyArrowUp,
		TurnDown:  ebiten.KeyArrowDown,
		RollLeft:  ebiten.KeyQ,
		RollRight: ebiten.KeyE,

		NextView:     ebiten.KeyTab,
		PreviousView: ebiten.KeyBackquote,
		NextNode:     ebiten.KeyN,
		PreviousNode: ebiten.KeyB,
		FreeCamera:   ebiten.KeyF,
		Reset:        ebiten.KeyR,

		ZoomIn:  ebiten.KeyEqual,
		ZoomOut: ebiten.KeyMinus,
	}
}

// Controls turns keyboard and mouse input into camera commands. Movement and turning keys set the camera's
// target velocities, so the camera accelerates and decelerates on its own; the rest trigger navigation.
type Controls struct {
	Bindings KeyBindings
	Input    Input

	// MouseLook turns the camera with cursor movement. MouseSensitivity is the fraction of the camera's
	// maximum turn rate one pixel of movement per tick asks for.
	MouseLook        bool
	MouseSensitivity float32

	prevX, prevY int
	hasPrev      bool
}

// NewControls creates Controls reading from input with the default key bindings. A nil input reads from ebiten.
func NewControls(input Input) *Controls {
	if input == nil {
		input = EbitenInput
	}
	return &Controls{
		Bindings:         DefaultKeyBindings(),
		Input:            input,
		MouseSensitivity: 0.05,
	}
}

// Update reads the input and steers the camera. Call it every tick, before Camera.Update.
func (c *Controls) Update(camera *tetracam.Camera) {

	b := c.Bindings

	c.axis(b.Right, b.Left, func(f float32) { camera.SetTargetVelocity(tetracam.AxisX, f) })
	c.axis(b.Up, b.Down, func(f float32) { camera.SetTargetVelocity(tetracam.AxisY, f) })
	c.axis(b.Backward, b.Forward, func(f float32) { camera.SetTargetVelocity(tetracam.AxisZ, f) })

	pitch := c.keyAxis(b.TurnUp, b.TurnDown)
	yaw := c.keyAxis(b.TurnLeft, b.TurnRight)
	roll := c.keyAxis(b.RollLeft, b.RollRight)

	x, y := c.Input.CursorPosition()
	if c.MouseLook && c.hasPrev {
		if yaw == 0 {
			yaw = -float32(x-c.prevX) * c.MouseSensitivity
		}
		if pitch == 0 {
			pitch = -float32(y-c.prevY) * c.MouseSensitivity
		}
	}
	c.prevX, c.prevY, c.hasPrev = x, y, true

	camera.SetTargetAngularVelocity(tetracam.AxisX, pitch)
	camera.SetTargetAngularVelocity(tetracam.AxisY, yaw)
	camera.SetTargetAngularVelocity(tetracam.AxisZ, roll)

	if c.Input.IsKeyPressed(b.ZoomIn) {
		camera.Configuration().DecreaseFOV()
	}
	if c.Input.IsKeyPressed(b.ZoomOut) {
		camera.Configuration().IncreaseFOV()
	}

	switch {
	case c.Input.IsKeyJustPressed(b.NextView):
		camera.ChangeToNextView()
	case c.Input.IsKeyJustPressed(b.PreviousView):
		camera.ChangeToPreviousView()
	case c.Input.IsKeyJustPressed(b.NextNode):
		camera.FollowNextNode()
	case c.Input.IsKeyJustPressed(b.PreviousNode):
		camera.FollowPreviousNode()
	case c.Input.IsKeyJustPressed(b.FreeCamera):
		camera.ChangeToFreeCamera()
	case c.Input.IsKeyJustPressed(b.Reset):
		camera.Configuration().ResetToDefaults()
		camera.Stop()
	}

}

func (c *Controls) keyAxis(positive, negative ebiten.Key) float32 {
	var f float32
	if c.Input.IsKeyPressed(positive) {
		f++
	}
	if c.Input.IsKeyPressed(negative) {
		f--
	}
	return f
}

func (c *Controls) axis(positive, negative ebiten.Key, set func(fraction float32)) {
	set(c.keyAxis(positive, negative))
}
