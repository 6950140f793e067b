package tetracam

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ExtensionFactor is how much farther the far plane of an extended camera lies than its base camera's.
	ExtensionFactor = 5

	DefaultViewDistance        = 1000
	DefaultMaxSpeed            = 250
	DefaultAcceleration        = 200
	DefaultDeceleration        = 500
	DefaultMaxAngularVelocity  = 180
	DefaultAngularAcceleration = 720
	DefaultAngularDeceleration = 1440
	DefaultTransitionDuration  = time.Second
)

// Camera drives a CameraConfiguration every frame and produces the view and projection matrices a
// renderer needs. It integrates control input with acceleration limits and blends between
// configurations when switching from one to another.
//
// A Camera is either steady, running only its current configuration, or transitioning, blending from a
// previous configuration into the current one.
type Camera struct {
	// DefaultTransitionDuration and DefaultTransitionStyle are used by navigation commands.
	DefaultTransitionDuration time.Duration
	DefaultTransitionStyle    TransitionStyle

	navigator    ViewNavigator
	followedNode *SceneNode

	configuration *CameraConfiguration
	previous      *CameraConfiguration
	progress      *transitionProgress

	aspect       float32
	viewDistance float32
	near         float32 // Overrides the near plane derived from the span when above zero.

	maxSpeed, acceleration, deceleration                         float32
	maxAngularVelocity, angularAcceleration, angularDeceleration float32
	targetVelocity, controlledVelocity                           mgl32.Vec3
	targetAngularVelocity, controlledAngularVelocity             mgl32.Vec3
	velocity                                                     mgl32.Vec3

	position    mgl32.Mat4
	orientation mgl32.Mat4
	fov, span   float32

	viewMatrix         cached[mgl32.Mat4]
	inversePosition    cached[mgl32.Mat4]
	inverseOrientation cached[mgl32.Mat4]
	projection         cached[mgl32.Mat4]
	viewProjection     cached[mgl32.Mat4]
	extended           cached[*Camera]
	combinedExtended   cached[*Camera]
}

// CameraOption customizes a Camera on creation.
type CameraOption func(c *Camera)

// WithAspect sets the width / height ratio of the viewport.
func WithAspect(aspect float32) CameraOption {
	return func(c *Camera) {
		c.aspect = aspect
	}
}

// WithViewDistance sets the distance of the far plane, in meters.
func WithViewDistance(distance float32) CameraOption {
	return func(c *Camera) {
		c.viewDistance = distance
	}
}

// WithSpeed sets the maximum speed in meters per second along each axis, and how quickly the camera
// speeds up and slows down in meters per second squared.
func WithSpeed(maxSpeed, acceleration, deceleration float32) CameraOption {
	return func(c *Camera) {
		c.maxSpeed = maxSpeed
		c.acceleration = acceleration
		c.deceleration = deceleration
	}
}

// WithTurnRate sets the maximum angular velocity in degrees per second about each axis, and how quickly
// turning speeds up and slows down.
func WithTurnRate(maxAngularVelocity, acceleration, deceleration float32) CameraOption {
	return func(c *Camera) {
		c.maxAngularVelocity = maxAngularVelocity
		c.angularAcceleration = acceleration
		c.angularDeceleration = deceleration
	}
}

// WithTransitionDefaults sets the duration and style of transitions triggered by navigation commands.
func WithTransitionDefaults(duration time.Duration, style TransitionStyle) CameraOption {
	return func(c *Camera) {
		c.DefaultTransitionDuration = duration
		c.DefaultTransitionStyle = style
	}
}

// WithNavigator lets the camera cycle through the views and nodes of the given navigator, usually a Scene.
func WithNavigator(navigator ViewNavigator) CameraOption {
	return func(c *Camera) {
		c.navigator = navigator
	}
}

func withNearPlane(near float32) CameraOption {
	return func(c *Camera) {
		c.near = near
	}
}

// NewCamera creates a new Camera that starts out steady on the given configuration.
func NewCamera(configuration *CameraConfiguration, options ...CameraOption) *Camera {

	if configuration == nil {
		panic("Error: a camera needs a configuration")
	}

	c := &Camera{
		DefaultTransitionDuration: DefaultTransitionDuration,
		DefaultTransitionStyle:    TransitionStyleSmooth,
		configuration:             configuration,
		aspect:                    1,
		viewDistance:              DefaultViewDistance,
		maxSpeed:                  DefaultMaxSpeed,
		acceleration:              DefaultAcceleration,
		deceleration:              DefaultDeceleration,
		maxAngularVelocity:        DefaultMaxAngularVelocity,
		angularAcceleration:       DefaultAngularAcceleration,
		angularDeceleration:       DefaultAngularDeceleration,
	}

	for _, option := range options {
		option(c)
	}

	c.applyState()

	return c

}

// Configuration returns the configuration the camera is running, or blending into.
func (c *Camera) Configuration() *CameraConfiguration {
	return c.configuration
}

// PreviousConfiguration returns the configuration the camera is blending out of, or nil when steady.
func (c *Camera) PreviousConfiguration() *CameraConfiguration {
	return c.previous
}

// InTransition returns whether the camera is blending between two configurations.
func (c *Camera) InTransition() bool {
	return c.previous != nil
}

// TransitionProgress returns the eased progress of the current blend, or 1 when steady.
func (c *Camera) TransitionProgress() float32 {
	if c.previous == nil {
		return 1
	}
	return c.progress.value()
}

// FollowedNode returns the scene node the camera is focused on, or nil.
func (c *Camera) FollowedNode() *SceneNode {
	return c.followedNode
}

// Navigator returns the camera's ViewNavigator, or nil.
func (c *Camera) Navigator() ViewNavigator {
	return c.navigator
}

// SetNavigator sets the ViewNavigator used by the navigation commands.
func (c *Camera) SetNavigator(navigator ViewNavigator) {
	c.navigator = navigator
}

// StartTransitionToConfiguration switches the camera to configuration, blending from the current state
// over the given duration. A duration of zero switches instantly. Interrupting a blend starts the new one
// from wherever the interrupted one was.
func (c *Camera) StartTransitionToConfiguration(configuration *CameraConfiguration, duration time.Duration, style TransitionStyle) {

	if configuration == nil {
		panic("Error: cannot transition a camera to a nil configuration")
	}

	if duration <= 0 {
		c.previous = nil
		c.progress = nil
		c.configuration = configuration
		c.applyState()
		return
	}

	if c.previous != nil || configuration == c.configuration {
		c.previous = c.snapshot()
	} else {
		c.previous = c.configuration
	}

	c.configuration = configuration
	c.progress = newTransitionProgress(duration, style)
	c.applyState()

}

// snapshot captures the camera's current world state as a transition configuration.
func (c *Camera) snapshot() *CameraConfiguration {
	return newTransitionConfiguration(c.position, c.orientation, c.fov, c.span)
}

// Update advances the camera by dt: it integrates control input, updates the configurations and
// refreshes the camera's world state. Call it once per frame, before reading any matrix.
func (c *Camera) Update(dt time.Duration) {

	c.MarkFrameBoundary()

	previousPosition := c.PositionVector()

	if c.previous != nil {
		if c.progress.advance(dt) {
			c.previous = nil
			c.progress = nil
		} else {
			for _, cc := range []*CameraConfiguration{c.configuration, c.previous} {
				if !cc.Update(mgl32.Vec3{}, mgl32.Vec3{}, dt) {
					cc.Update(mgl32.Vec3{}, mgl32.Vec3{}, dt)
				}
			}
			c.applyState()
			c.updateVelocity(previousPosition, dt)
			return
		}
	}

	c.integrateControls(dt)

	if !c.configuration.Update(c.controlledVelocity, c.controlledAngularVelocity, dt) {
		c.configuration.Update(c.controlledVelocity, c.controlledAngularVelocity, dt)
	}

	c.applyState()
	c.updateVelocity(previousPosition, dt)

}

// applyState copies the world state of the configuration, or the blend of both configurations, into the camera.
func (c *Camera) applyState() {

	if c.previous == nil {
		c.setPosition(c.configuration.WorldPositionMatrix())
		c.setOrientation(c.configuration.WorldOrientationMatrix())
		c.setFOVAndSpan(c.configuration.FOV(), c.configuration.Span())
		return
	}

	p := c.progress.value()

	c.setPosition(translationMatrix(lerpVec3(c.previous.WorldPosition(), c.configuration.WorldPosition(), p)))

	from := rotationOf(c.previous.WorldOrientationMatrix())
	to := rotationOf(c.configuration.WorldOrientationMatrix())
	delta := DecomposeRotation(from.Transpose().Mul4(to))
	c.setOrientation(from.Mul4(delta.Partial(p)))

	c.setFOVAndSpan(lerp(c.previous.FOV(), c.configuration.FOV(), p), lerp(c.previous.Span(), c.configuration.Span(), p))

}

func (c *Camera) setPosition(position mgl32.Mat4) {
	if position == c.position {
		return
	}
	c.position = position
	c.inversePosition.invalidate()
	c.viewMatrix.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

func (c *Camera) setOrientation(orientation mgl32.Mat4) {
	if orientation == c.orientation {
		return
	}
	c.orientation = orientation
	c.inverseOrientation.invalidate()
	c.viewMatrix.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

func (c *Camera) setFOVAndSpan(fov, span float32) {
	if fov == c.fov && span == c.span {
		return
	}
	c.fov = fov
	c.span = span
	c.projection.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

func (c *Camera) invalidateExtended() {
	c.extended.invalidate()
	c.combinedExtended.invalidate()
}

// MarkFrameBoundary drops every cached matrix of the camera. Update calls it at the start of each frame.
func (c *Camera) MarkFrameBoundary() {
	c.viewMatrix.invalidate()
	c.inversePosition.invalidate()
	c.inverseOrientation.invalidate()
	c.projection.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

// updateVelocity derives the camera's velocity from how far it moved, expressed in its own axes.
func (c *Camera) updateVelocity(previousPosition mgl32.Vec3, dt time.Duration) {
	if dt <= 0 {
		c.velocity = mgl32.Vec3{}
		return
	}
	worldVelocity := c.PositionVector().Sub(previousPosition).Mul(1 / float32(dt.Seconds()))
	c.velocity = transformDirection(c.orientation.Transpose(), worldVelocity)
}

// integrateControls moves the controlled velocities towards their targets.
func (c *Camera) integrateControls(dt time.Duration) {
	seconds := float32(dt.Seconds())
	for i := 0; i < 3; i++ {
		c.controlledVelocity[i] = approach(c.controlledVelocity[i], c.targetVelocity[i], c.acceleration, c.deceleration, c.maxSpeed, seconds)
		c.controlledAngularVelocity[i] = approach(c.controlledAngularVelocity[i], c.targetAngularVelocity[i], c.angularAcceleration, c.angularDeceleration, c.maxAngularVelocity, seconds)
	}
}

// approach moves current towards target over the given time, speeding up at acceleration when moving
// away from zero and slowing down at deceleration when moving towards it. The result stays within ±limit.
func approach(current, target, acceleration, deceleration, limit, seconds float32) float32 {

	target = clamp(target, -limit, limit)

	if current < target {
		rate := acceleration
		if current < 0 {
			rate = deceleration
		}
		current += rate * seconds
		if current > target {
			current = target
		}
	} else if current > target {
		rate := acceleration
		if current > 0 {
			rate = deceleration
		}
		current -= rate * seconds
		if current < target {
			current = target
		}
	}

	return clamp(current, -limit, limit)

}

// PositionMatrix returns the camera's world position as a translation matrix.
func (c *Camera) PositionMatrix() mgl32.Mat4 {
	return c.position
}

// PositionVector returns the camera's world position.
func (c *Camera) PositionVector() mgl32.Vec3 {
	return translationOf(c.position)
}

// OrientationMatrix returns the camera's world orientation.
func (c *Camera) OrientationMatrix() mgl32.Mat4 {
	return c.orientation
}

// Forward returns the direction the camera looks in, in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return localAxis(c.orientation, 2).Mul(-1)
}

// Up returns the camera's up direction in world space.
func (c *Camera) Up() mgl32.Vec3 {
	return localAxis(c.orientation, 1)
}

// Right returns the camera's right direction in world space.
func (c *Camera) Right() mgl32.Vec3 {
	return localAxis(c.orientation, 0)
}

// VelocityVector returns how fast the camera moved during the last update, in meters per second, along
// its own axes (X right, Y up, Z backward).
func (c *Camera) VelocityVector() mgl32.Vec3 {
	return c.velocity
}

// ControlledVelocity returns the velocity currently fed to the configuration by the controls.
func (c *Camera) ControlledVelocity() mgl32.Vec3 {
	return c.controlledVelocity
}

// ControlledAngularVelocity returns the angular velocity currently fed to the configuration by the controls.
func (c *Camera) ControlledAngularVelocity() mgl32.Vec3 {
	return c.controlledAngularVelocity
}

// FOV returns the camera's current vertical field of view, in degrees.
func (c *Camera) FOV() float32 {
	return c.fov
}

// Span returns the camera's current span, the height of the view at the near plane in meters.
func (c *Camera) Span() float32 {
	return c.span
}

// Aspect returns the width / height ratio of the viewport.
func (c *Camera) Aspect() float32 {
	return c.aspect
}

// SetAspect sets the width / height ratio of the viewport.
func (c *Camera) SetAspect(aspect float32) {
	if aspect == c.aspect {
		return
	}
	c.aspect = aspect
	c.projection.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

// ViewDistance returns the distance to the far plane.
func (c *Camera) ViewDistance() float32 {
	return c.viewDistance
}

// SetViewDistance sets the distance to the far plane.
func (c *Camera) SetViewDistance(distance float32) {
	if distance == c.viewDistance {
		return
	}
	c.viewDistance = distance
	c.projection.invalidate()
	c.viewProjection.invalidate()
	c.invalidateExtended()
}

// Near returns the distance to the near plane. Unless overridden, it is where the view is exactly as tall
// as the span.
func (c *Camera) Near() float32 {
	if c.near > 0 {
		return c.near
	}
	return (c.span / 2) / math32.Tan(mgl32.DegToRad(c.fov)/2)
}

// Far returns the distance to the far plane.
func (c *Camera) Far() float32 {
	return c.viewDistance
}

// InversePositionMatrix returns the translation that moves the camera to the origin.
func (c *Camera) InversePositionMatrix() mgl32.Mat4 {
	return c.inversePosition.get(func() mgl32.Mat4 {
		return translationMatrix(c.PositionVector().Mul(-1))
	})
}

// InverseOrientationMatrix returns the rotation that undoes the camera's orientation.
func (c *Camera) InverseOrientationMatrix() mgl32.Mat4 {
	return c.inverseOrientation.get(func() mgl32.Mat4 {
		return c.orientation.Transpose()
	})
}

// ViewMatrix returns the matrix transforming world space into camera space.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.viewMatrix.get(func() mgl32.Mat4 {
		return c.InverseOrientationMatrix().Mul4(c.InversePositionMatrix())
	})
}

// ProjectionMatrix returns the perspective projection matrix of the camera.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection.get(func() mgl32.Mat4 {
		near := c.Near()
		top := near * math32.Tan(mgl32.DegToRad(c.fov)/2)
		right := top * c.aspect
		return mgl32.Frustum(-right, right, -top, top, near, c.Far())
	})
}

// ViewProjectionMatrix returns ProjectionMatrix * ViewMatrix.
func (c *Camera) ViewProjectionMatrix() mgl32.Mat4 {
	return c.viewProjection.get(func() mgl32.Mat4 {
		return c.ProjectionMatrix().Mul4(c.ViewMatrix())
	})
}

// WorldToClip transforms a world position into normalized device coordinates. The boolean is false
// when the point lies behind the camera.
func (c *Camera) WorldToClip(position mgl32.Vec3) (mgl32.Vec3, bool) {
	clip := c.ViewProjectionMatrix().Mul4x1(position.Vec4(1))
	if clip.W() <= 0 {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}

// ExtendedCamera returns a camera with the same framing whose depth range starts at this camera's far
// plane and reaches ExtensionFactor times as far, for rendering distant objects in a second pass.
func (c *Camera) ExtendedCamera() *Camera {
	return c.extended.get(func() *Camera {
		return c.derived(c.Far())
	})
}

// CombinedExtendedCamera returns a camera with the same framing covering both this camera's depth range
// and its extended camera's.
func (c *Camera) CombinedExtendedCamera() *Camera {
	return c.combinedExtended.get(func() *Camera {
		return c.derived(c.Near())
	})
}

func (c *Camera) derived(near float32) *Camera {
	return NewCamera(
		newTransitionConfiguration(c.position, c.orientation, c.fov, c.span),
		WithAspect(c.aspect),
		WithViewDistance(c.Far()*ExtensionFactor),
		withNearPlane(near),
	)
}

// SetTargetVelocity sets the velocity the camera accelerates towards along an axis, as a fraction of the
// maximum speed between -1 and 1.
func (c *Camera) SetTargetVelocity(axis Axis, fraction float32) {
	c.targetVelocity[axis] = clamp(fraction, -1, 1) * c.maxSpeed
}

// SetTargetAngularVelocity sets the angular velocity the camera accelerates towards about an axis, as a
// fraction of the maximum turn rate between -1 and 1.
func (c *Camera) SetTargetAngularVelocity(axis Axis, fraction float32) {
	c.targetAngularVelocity[axis] = clamp(fraction, -1, 1) * c.maxAngularVelocity
}

// MoveLeft accelerates the camera to full speed towards its left.
func (c *Camera) MoveLeft() {
	c.SetTargetVelocity(AxisX, -1)
}

// MoveRight accelerates the camera to full speed towards its right.
func (c *Camera) MoveRight() {
	c.SetTargetVelocity(AxisX, 1)
}

// MoveUp accelerates the camera to full speed along its up axis.
func (c *Camera) MoveUp() {
	c.SetTargetVelocity(AxisY, 1)
}

// MoveDown accelerates the camera to full speed against its up axis.
func (c *Camera) MoveDown() {
	c.SetTargetVelocity(AxisY, -1)
}

// MoveForward accelerates the camera to full speed in the direction it looks.
func (c *Camera) MoveForward() {
	c.SetTargetVelocity(AxisZ, -1)
}

// MoveBackward accelerates the camera to full speed away from the direction it looks.
func (c *Camera) MoveBackward() {
	c.SetTargetVelocity(AxisZ, 1)
}

// StopMoving stops accelerating along the given axis; the camera decelerates to a halt.
func (c *Camera) StopMoving(axis Axis) {
	c.targetVelocity[axis] = 0
}

// TurnLeft yaws the camera to the left at its full turn rate.
func (c *Camera) TurnLeft() {
	c.SetTargetAngularVelocity(AxisY, 1)
}

// TurnRight yaws the camera to the right at its full turn rate.
func (c *Camera) TurnRight() {
	c.SetTargetAngularVelocity(AxisY, -1)
}

// TurnUp pitches the camera up at its full turn rate.
func (c *Camera) TurnUp() {
	c.SetTargetAngularVelocity(AxisX, 1)
}

// TurnDown pitches the camera down at its full turn rate.
func (c *Camera) TurnDown() {
	c.SetTargetAngularVelocity(AxisX, -1)
}

// RollLeft rolls the camera counter-clockwise at its full turn rate.
func (c *Camera) RollLeft() {
	c.SetTargetAngularVelocity(AxisZ, 1)
}

// RollRight rolls the camera clockwise at its full turn rate.
func (c *Camera) RollRight() {
	c.SetTargetAngularVelocity(AxisZ, -1)
}

// StopTurning stops accelerating about the given axis; turning slows down to a halt.
func (c *Camera) StopTurning(axis Axis) {
	c.targetAngularVelocity[axis] = 0
}

// Stop drops all control input immediately, without decelerating.
func (c *Camera) Stop() {
	c.targetVelocity = mgl32.Vec3{}
	c.controlledVelocity = mgl32.Vec3{}
	c.targetAngularVelocity = mgl32.Vec3{}
	c.controlledAngularVelocity = mgl32.Vec3{}
}

// MoveToPosition switches to a free camera at the given world position, keeping the current orientation,
// field of view and span.
func (c *Camera) MoveToPosition(position mgl32.Vec3, duration time.Duration, style TransitionStyle) {
	c.followedNode = nil
	c.StartTransitionToConfiguration(c.freeConfiguration(position), duration, style)
}

// ChangeToFreeCamera switches to a free camera where the camera currently is.
func (c *Camera) ChangeToFreeCamera() {
	c.followedNode = nil
	c.StartTransitionToConfiguration(c.freeConfiguration(c.PositionVector()), 0, c.DefaultTransitionStyle)
}

func (c *Camera) freeConfiguration(position mgl32.Vec3) *CameraConfiguration {
	return NewFreeCameraConfiguration("free", position, c.orientation,
		WithFOV(c.fov, DefaultFOVRange.Min, DefaultFOVRange.Max),
		WithSpan(c.span, DefaultSpanRange.Min, DefaultSpanRange.Max),
	)
}

// SetFOV sets the field of view of the current configuration, blending to it over duration.
func (c *Camera) SetFOV(fov float32, duration time.Duration, style TransitionStyle) {
	c.configuration.SetFOV(fov)
	c.StartTransitionToConfiguration(c.configuration, duration, style)
}

// SetSpan sets the span of the current configuration, blending to it over duration.
func (c *Camera) SetSpan(span float32, duration time.Duration, style TransitionStyle) {
	c.configuration.SetSpan(span)
	c.StartTransitionToConfiguration(c.configuration, duration, style)
}

// ChangeToNextView switches to the next configuration of the followed node, or of the navigator when no
// node is followed.
func (c *Camera) ChangeToNextView() {
	c.changeView(1)
}

// ChangeToPreviousView switches to the previous configuration of the followed node, or of the navigator
// when no node is followed.
func (c *Camera) ChangeToPreviousView() {
	c.changeView(-1)
}

func (c *Camera) changeView(step int) {

	var next *CameraConfiguration

	switch {
	case c.followedNode != nil && step > 0:
		next = c.followedNode.NextCameraConfiguration(c.configuration)
	case c.followedNode != nil:
		next = c.followedNode.PreviousCameraConfiguration(c.configuration)
	case c.navigator != nil && step > 0:
		next = c.navigator.NextCameraConfiguration(c.configuration)
	case c.navigator != nil:
		next = c.navigator.PreviousCameraConfiguration(c.configuration)
	}

	c.focusOn(next)

}

// FollowNextNode focuses the camera on the next node of the navigator.
func (c *Camera) FollowNextNode() {
	if c.navigator != nil {
		c.FollowNode(c.navigator.NextNode(c.followedNode))
	}
}

// FollowPreviousNode focuses the camera on the previous node of the navigator.
func (c *Camera) FollowPreviousNode() {
	if c.navigator != nil {
		c.FollowNode(c.navigator.PreviousNode(c.followedNode))
	}
}

// FollowNode focuses the camera on the given node, switching to its first configuration. Following a nil
// node, or a node without configurations, switches to a free camera.
func (c *Camera) FollowNode(node *SceneNode) {
	if node == nil {
		c.ChangeToFreeCamera()
		return
	}
	c.followedNode = node
	if next := node.NextCameraConfiguration(nil); next != nil {
		c.focusOn(next)
	} else {
		c.StartTransitionToConfiguration(c.freeConfiguration(c.PositionVector()), 0, c.DefaultTransitionStyle)
	}
}

func (c *Camera) focusOn(configuration *CameraConfiguration) {
	if configuration == nil || configuration == c.configuration {
		return
	}
	if configuration.ResetsOnFocusChange() {
		configuration.ResetToDefaults()
	}
	c.StartTransitionToConfiguration(configuration, c.DefaultTransitionDuration, c.DefaultTransitionStyle)
}
