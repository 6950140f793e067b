package tetracam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ViewDescriptor describes a CameraConfiguration in a form that can be written by hand in YAML or TOML.
// Followed objects can't be named in a descriptor; they are bound when the descriptor is built.
type ViewDescriptor struct {
	Name                string                `yaml:"name" toml:"name"`
	FOV                 float32               `yaml:"fov,omitempty" toml:"fov,omitempty"`
	FOVRange            []float32             `yaml:"fovRange,omitempty" toml:"fovRange,omitempty"`
	Span                float32               `yaml:"span,omitempty" toml:"span,omitempty"`
	SpanRange           []float32             `yaml:"spanRange,omitempty" toml:"spanRange,omitempty"`
	ResetsOnFocusChange bool                  `yaml:"resetsOnFocusChange,omitempty" toml:"resetsOnFocusChange,omitempty"`
	Position            PositionDescriptor    `yaml:"position" toml:"position"`
	Orientation         OrientationDescriptor `yaml:"orientation" toml:"orientation"`
}

// PositionDescriptor describes a PositionConfiguration.
type PositionDescriptor struct {
	Mode                       string    `yaml:"mode" toml:"mode"`
	Offset                     []float32 `yaml:"offset,omitempty" toml:"offset,omitempty"`
	FollowsTarget              bool      `yaml:"followsTarget,omitempty" toml:"followsTarget,omitempty"`
	MovesRelativeToObject      bool      `yaml:"movesRelativeToObject,omitempty" toml:"movesRelativeToObject,omitempty"`
	StartsWithRelativePosition bool      `yaml:"startsWithRelativePosition,omitempty" toml:"startsWithRelativePosition,omitempty"`
	DistanceRange              []float32 `yaml:"distanceRange,omitempty" toml:"distanceRange,omitempty"`
	ConfinesX                  []float32 `yaml:"confinesX,omitempty" toml:"confinesX,omitempty"`
	ConfinesY                  []float32 `yaml:"confinesY,omitempty" toml:"confinesY,omitempty"`
	ConfinesZ                  []float32 `yaml:"confinesZ,omitempty" toml:"confinesZ,omitempty"`
	ResetsWhenLeavingConfines  bool      `yaml:"resetsWhenLeavingConfines,omitempty" toml:"resetsWhenLeavingConfines,omitempty"`
}

// OrientationDescriptor describes an OrientationConfiguration. Rotations are applied in order, each about
// the camera's own axis.
type OrientationDescriptor struct {
	Mode            string               `yaml:"mode" toml:"mode"`
	FollowsTarget   bool                 `yaml:"followsTarget,omitempty" toml:"followsTarget,omitempty"`
	Rotations       []RotationDescriptor `yaml:"rotations,omitempty" toml:"rotations,omitempty"`
	Alpha           float32              `yaml:"alpha,omitempty" toml:"alpha,omitempty"`
	Beta            float32              `yaml:"beta,omitempty" toml:"beta,omitempty"`
	AlphaRange      []float32            `yaml:"alphaRange,omitempty" toml:"alphaRange,omitempty"`
	BetaRange       []float32            `yaml:"betaRange,omitempty" toml:"betaRange,omitempty"`
	BaseOrientation string               `yaml:"baseOrientation,omitempty" toml:"baseOrientation,omitempty"`
	PointToFallback string               `yaml:"pointToFallback,omitempty" toml:"pointToFallback,omitempty"`
}

// RotationDescriptor is a rotation about one axis ("x", "y" or "z"), in degrees.
type RotationDescriptor struct {
	Axis    string  `yaml:"axis" toml:"axis"`
	Degrees float32 `yaml:"degrees" toml:"degrees"`
}

type viewFile struct {
	Views []ViewDescriptor `yaml:"views" toml:"views"`
}

// ParseViewDescriptorsYAML parses a YAML document holding a "views" list.
func ParseViewDescriptorsYAML(data []byte) ([]ViewDescriptor, error) {
	var file viewFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing views YAML: %w", err)
	}
	return file.Views, nil
}

// ParseViewDescriptorsTOML parses a TOML document holding a "views" array of tables.
func ParseViewDescriptorsTOML(data []byte) ([]ViewDescriptor, error) {
	var file viewFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing views TOML: %w", err)
	}
	return file.Views, nil
}

// LoadViewDescriptors reads view descriptors from a .yaml, .yml or .toml file.
func LoadViewDescriptors(path string) ([]ViewDescriptor, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseViewDescriptorsYAML(data)
	case ".toml":
		return ParseViewDescriptorsTOML(data)
	}

	return nil, fmt.Errorf("unsupported views file extension %q", filepath.Ext(path))

}

// MarshalViewDescriptorsYAML writes descriptors in the format ParseViewDescriptorsYAML reads.
func MarshalViewDescriptorsYAML(descriptors []ViewDescriptor) ([]byte, error) {
	return yaml.Marshal(viewFile{Views: descriptors})
}

// MarshalViewDescriptorsTOML writes descriptors in the format ParseViewDescriptorsTOML reads.
func MarshalViewDescriptorsTOML(descriptors []ViewDescriptor) ([]byte, error) {
	return toml.Marshal(viewFile{Views: descriptors})
}

// Build creates the CameraConfiguration the descriptor describes. target is bound as the followed object
// wherever the descriptor says so; it may be nil only if nothing follows it.
func (vd ViewDescriptor) Build(target Followable) (*CameraConfiguration, error) {

	position, err := vd.Position.build(target)
	if err != nil {
		return nil, fmt.Errorf("view %q: %w", vd.Name, err)
	}

	orientation, err := vd.Orientation.build(target)
	if err != nil {
		return nil, fmt.Errorf("view %q: %w", vd.Name, err)
	}

	var options []CameraConfigurationOption

	if vd.FOV != 0 || vd.FOVRange != nil {
		fov := vd.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		r, err := parseRange(vd.FOVRange, DefaultFOVRange)
		if err != nil {
			return nil, fmt.Errorf("view %q: fovRange: %w", vd.Name, err)
		}
		options = append(options, WithFOV(fov, r.Min, r.Max))
	}

	if vd.Span != 0 || vd.SpanRange != nil {
		span := vd.Span
		if span == 0 {
			span = DefaultSpan
		}
		r, err := parseRange(vd.SpanRange, DefaultSpanRange)
		if err != nil {
			return nil, fmt.Errorf("view %q: spanRange: %w", vd.Name, err)
		}
		options = append(options, WithSpan(span, r.Min, r.Max))
	}

	if vd.ResetsOnFocusChange {
		options = append(options, WithResetsOnFocusChange())
	}

	return NewCameraConfiguration(vd.Name, position, orientation, options...), nil

}

// BuildCameraConfigurations builds every descriptor against the same target.
func BuildCameraConfigurations(descriptors []ViewDescriptor, target Followable) ([]*CameraConfiguration, error) {
	configurations := make([]*CameraConfiguration, 0, len(descriptors))
	for _, vd := range descriptors {
		cc, err := vd.Build(target)
		if err != nil {
			return nil, err
		}
		configurations = append(configurations, cc)
	}
	return configurations, nil
}

func (pd PositionDescriptor) build(target Followable) (*PositionConfiguration, error) {

	mode, err := ParsePositionMode(pd.Mode)
	if err != nil {
		return nil, err
	}

	offset, err := parseVec3(pd.Offset)
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}

	var options []PositionOption

	if pd.FollowsTarget {
		if target == nil {
			return nil, fmt.Errorf("position follows a target, but none was given")
		}
		if mode == PositionModeFreeFly && !pd.StartsWithRelativePosition {
			return nil, fmt.Errorf("a free position can only follow a target with startsWithRelativePosition")
		}
		options = append(options, WithPositionFollowing(target))
	}

	if mode == PositionModeOrbitFollow && pd.FollowsTarget && offset.Len() < degenerateEpsilon {
		return nil, fmt.Errorf("an orbiting position needs a non-zero offset")
	}

	if pd.MovesRelativeToObject {
		options = append(options, WithMovesRelativeToObject())
	}
	if pd.StartsWithRelativePosition {
		options = append(options, WithStartsWithRelativePosition())
	}
	if pd.ResetsWhenLeavingConfines {
		options = append(options, WithResetsWhenLeavingConfines())
	}

	if pd.DistanceRange != nil {
		r, err := parseRange(pd.DistanceRange, Range{})
		if err != nil {
			return nil, fmt.Errorf("distanceRange: %w", err)
		}
		options = append(options, WithDistanceRange(r.Min, r.Max))
	}

	for axis, confines := range [3][]float32{pd.ConfinesX, pd.ConfinesY, pd.ConfinesZ} {
		if confines == nil {
			continue
		}
		r, err := parseRange(confines, Range{})
		if err != nil {
			return nil, fmt.Errorf("confines%s: %w", Axis(axis), err)
		}
		options = append(options, WithConfines(Axis(axis), r.Min, r.Max))
	}

	return NewPositionConfiguration(mode, offset, options...), nil

}

func (od OrientationDescriptor) build(target Followable) (*OrientationConfiguration, error) {

	mode, err := ParseOrientationMode(od.Mode)
	if err != nil {
		return nil, err
	}

	relative := mgl32.Ident4()
	for _, rotation := range od.Rotations {
		var axis mgl32.Vec3
		switch strings.ToLower(rotation.Axis) {
		case "x":
			axis = vecX
		case "y":
			axis = vecY
		case "z":
			axis = vecZ
		default:
			return nil, fmt.Errorf("unknown rotation axis %q", rotation.Axis)
		}
		relative = relative.Mul4(rotationDegrees(axis, rotation.Degrees))
	}

	options := []OrientationOption{WithFPSAngles(od.Alpha, od.Beta)}

	if od.FollowsTarget {
		if target == nil {
			return nil, fmt.Errorf("orientation follows a target, but none was given")
		}
		options = append(options, WithOrientationFollowing(target))
	}

	if od.AlphaRange != nil {
		r, err := parseRange(od.AlphaRange, DefaultAlphaRange)
		if err != nil {
			return nil, fmt.Errorf("alphaRange: %w", err)
		}
		options = append(options, WithAlphaRange(r.Min, r.Max))
	}

	if od.BetaRange != nil {
		r, err := parseRange(od.BetaRange, DefaultBetaRange)
		if err != nil {
			return nil, fmt.Errorf("betaRange: %w", err)
		}
		options = append(options, WithBetaRange(r.Min, r.Max))
	}

	if od.BaseOrientation != "" {
		base, err := ParseBaseOrientation(od.BaseOrientation)
		if err != nil {
			return nil, err
		}
		options = append(options, WithBaseOrientation(base))
	}

	if od.PointToFallback != "" {
		fallback, err := ParsePointToFallback(od.PointToFallback)
		if err != nil {
			return nil, err
		}
		options = append(options, WithPointToFallback(fallback))
	}

	return NewOrientationConfiguration(mode, relative, options...), nil

}

func parseVec3(values []float32) (mgl32.Vec3, error) {
	switch len(values) {
	case 0:
		return mgl32.Vec3{}, nil
	case 3:
		return mgl32.Vec3{values[0], values[1], values[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(values))
}

func parseRange(values []float32, fallback Range) (Range, error) {
	switch len(values) {
	case 0:
		return fallback, nil
	case 2:
		if values[0] > values[1] {
			return Range{}, fmt.Errorf("minimum %v is greater than maximum %v", values[0], values[1])
		}
		return Range{Min: values[0], Max: values[1]}, nil
	}
	return Range{}, fmt.Errorf("expected [min, max], got %d values", len(values))
}
