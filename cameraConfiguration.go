package tetracam

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV  = 60  // Default vertical field of view, in degrees.
	DefaultSpan = 0.2 // Default span (height of the view at the near plane), in meters.

	fovDecreaseFactor = 0.95
	fovIncreaseFactor = 1.05
)

var (
	DefaultFOVRange  = Range{Min: 5, Max: 160}
	DefaultSpanRange = Range{Min: 0.001, Max: 100}
)

// CameraConfiguration is one complete way a camera can behave: a PositionConfiguration, an
// OrientationConfiguration, and a field of view and span, each limited to a range.
type CameraConfiguration struct {
	name string

	position    *PositionConfiguration
	orientation *OrientationConfiguration

	fov, defaultFOV   float32
	fovRange          Range
	span, defaultSpan float32
	spanRange         Range

	resetsOnFocusChange bool
}

// CameraConfigurationOption customizes a CameraConfiguration on creation.
type CameraConfigurationOption func(cc *CameraConfiguration)

// WithFOV sets the default field of view, in degrees, and the range it may be changed within.
func WithFOV(fov, min, max float32) CameraConfigurationOption {
	return func(cc *CameraConfiguration) {
		cc.fovRange = NewRange(min, max)
		cc.defaultFOV = fov
	}
}

// WithSpan sets the default span and the range it may be changed within.
func WithSpan(span, min, max float32) CameraConfigurationOption {
	return func(cc *CameraConfiguration) {
		cc.spanRange = NewRange(min, max)
		cc.defaultSpan = span
	}
}

// WithResetsOnFocusChange makes the configuration reset to its defaults whenever a camera switches to it.
func WithResetsOnFocusChange() CameraConfigurationOption {
	return func(cc *CameraConfiguration) {
		cc.resetsOnFocusChange = true
	}
}

// NewCameraConfiguration pairs a position and an orientation configuration into a CameraConfiguration.
// The configuration owns both; share them between configurations only through Copy.
func NewCameraConfiguration(name string, position *PositionConfiguration, orientation *OrientationConfiguration, options ...CameraConfigurationOption) *CameraConfiguration {

	if position == nil || orientation == nil {
		panic("Error: camera configuration " + name + " needs both a position and an orientation configuration")
	}

	cc := &CameraConfiguration{
		name:        name,
		position:    position,
		orientation: orientation,
		defaultFOV:  DefaultFOV,
		fovRange:    DefaultFOVRange,
		defaultSpan: DefaultSpan,
		spanRange:   DefaultSpanRange,
	}

	for _, option := range options {
		option(cc)
	}

	cc.defaultFOV = cc.fovRange.Clamp(cc.defaultFOV)
	cc.defaultSpan = cc.spanRange.Clamp(cc.defaultSpan)
	cc.fov = cc.defaultFOV
	cc.span = cc.defaultSpan

	return cc

}

// NewFreeCameraConfiguration creates a free-flying, freely turning configuration placed at the given world
// position and orientation.
func NewFreeCameraConfiguration(name string, position mgl32.Vec3, orientation mgl32.Mat4, options ...CameraConfigurationOption) *CameraConfiguration {
	return NewCameraConfiguration(name,
		NewPositionConfiguration(PositionModeFreeFly, position),
		NewOrientationConfiguration(OrientationModeFree, orientation),
		options...,
	)
}

// newTransitionConfiguration captures a world state as a free configuration that skips confinement and
// cleanup, used as the starting point of a camera transition.
func newTransitionConfiguration(position, orientation mgl32.Mat4, fov, span float32) *CameraConfiguration {
	cc := NewCameraConfiguration("transition",
		NewPositionConfiguration(PositionModeFreeFly, translationOf(position), asTransitionPosition()),
		NewOrientationConfiguration(OrientationModeFree, orientation, asTransitionOrientation()),
		WithFOV(fov, fov, fov),
		WithSpan(span, span, span),
	)
	return cc
}

// Name returns the configuration's name.
func (cc *CameraConfiguration) Name() string {
	return cc.name
}

// Position returns the configuration's PositionConfiguration.
func (cc *CameraConfiguration) Position() *PositionConfiguration {
	return cc.position
}

// Orientation returns the configuration's OrientationConfiguration.
func (cc *CameraConfiguration) Orientation() *OrientationConfiguration {
	return cc.orientation
}

// ResetsOnFocusChange returns whether the configuration resets itself whenever a camera switches to it.
func (cc *CameraConfiguration) ResetsOnFocusChange() bool {
	return cc.resetsOnFocusChange
}

// Update turns and then moves the camera with the given control input over dt (see
// OrientationConfiguration.Update and PositionConfiguration.Update for the units). Orientation goes first
// since position may depend on it; a second round without input then lets the two settle on each other.
// Update returns false if a configuration reset itself during the update.
func (cc *CameraConfiguration) Update(velocity, angularVelocity mgl32.Vec3, dt time.Duration) bool {

	if !cc.orientation.Update(angularVelocity, dt) {
		return false
	}

	if !cc.position.Update(cc.WorldOrientationMatrix(), cc.orientation.followedPositionRef(), velocity, dt) {
		return false
	}

	cc.orientation.Update(mgl32.Vec3{}, 0)

	return cc.position.Update(cc.WorldOrientationMatrix(), cc.orientation.followedPositionRef(), mgl32.Vec3{}, 0)

}

// positionEstimate returns the world position the orientation is computed against. Orbiting positions
// depend on the orientation, so they use the orientation computed last.
func (cc *CameraConfiguration) positionEstimate() mgl32.Vec3 {
	orientation := mgl32.Ident4()
	if cc.orientation.hasLastWorld {
		orientation = cc.orientation.lastWorld
	}
	return cc.position.WorldPosition(orientation)
}

// WorldOrientationMatrix returns the camera's world orientation.
func (cc *CameraConfiguration) WorldOrientationMatrix() mgl32.Mat4 {
	return cc.orientation.WorldOrientationMatrix(cc.positionEstimate(), cc.position.firstFollowed())
}

// WorldPositionMatrix returns the camera's world position as a translation matrix.
func (cc *CameraConfiguration) WorldPositionMatrix() mgl32.Mat4 {
	return cc.position.WorldPositionMatrix(cc.WorldOrientationMatrix())
}

// WorldPosition returns the camera's world position.
func (cc *CameraConfiguration) WorldPosition() mgl32.Vec3 {
	return translationOf(cc.WorldPositionMatrix())
}

// FOV returns the vertical field of view, in degrees.
func (cc *CameraConfiguration) FOV() float32 {
	return cc.fov
}

// SetFOV sets the field of view, clamped to its range.
func (cc *CameraConfiguration) SetFOV(fov float32) {
	cc.fov = cc.fovRange.Clamp(fov)
}

// DecreaseFOV narrows the field of view by a fixed factor, zooming in.
func (cc *CameraConfiguration) DecreaseFOV() {
	cc.SetFOV(cc.fov * fovDecreaseFactor)
}

// IncreaseFOV widens the field of view by a fixed factor, zooming out.
func (cc *CameraConfiguration) IncreaseFOV() {
	cc.SetFOV(cc.fov * fovIncreaseFactor)
}

// FOVRange returns the range the field of view is limited to.
func (cc *CameraConfiguration) FOVRange() Range {
	return cc.fovRange
}

// Span returns the span, the height of the view at the near plane in meters.
func (cc *CameraConfiguration) Span() float32 {
	return cc.span
}

// SetSpan sets the span, clamped to its range.
func (cc *CameraConfiguration) SetSpan(span float32) {
	cc.span = cc.spanRange.Clamp(span)
}

// DecreaseSpan shrinks the span by a fixed factor.
func (cc *CameraConfiguration) DecreaseSpan() {
	cc.SetSpan(cc.span * fovDecreaseFactor)
}

// IncreaseSpan grows the span by a fixed factor.
func (cc *CameraConfiguration) IncreaseSpan() {
	cc.SetSpan(cc.span * fovIncreaseFactor)
}

// SpanRange returns the range the span is limited to.
func (cc *CameraConfiguration) SpanRange() Range {
	return cc.spanRange
}

// ResetToDefaults resets the position and orientation configurations, the field of view and the span.
func (cc *CameraConfiguration) ResetToDefaults() {
	cc.position.ResetToDefaults()
	cc.orientation.ResetToDefaults()
	cc.fov = cc.defaultFOV
	cc.span = cc.defaultSpan
}

// Copy returns an independent copy of the configuration under a new name.
func (cc *CameraConfiguration) Copy(name string) *CameraConfiguration {
	newCC := *cc
	newCC.name = name
	newCC.position = cc.position.Copy()
	newCC.orientation = cc.orientation.Copy()
	return &newCC
}

// FollowsObjects returns whether the position or the orientation follows anything.
func (cc *CameraConfiguration) FollowsObjects() bool {
	return cc.position.Following() || cc.orientation.Following()
}
