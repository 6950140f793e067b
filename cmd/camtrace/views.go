package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/solarlune/tetracam"
	"github.com/spf13/cobra"
)

var targetFlag string

var viewsCmd = &cobra.Command{
	Use:   "views [file]",
	Short: "List the views of a view file",
	Long:  "Build every view of a YAML or TOML view file and print where each one places the camera.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseVec3Flag(targetFlag)
		if err != nil {
			return fmt.Errorf("--target: %w", err)
		}
		return listViews(cmd.OutOrStdout(), args[0], target)
	},
}

func init() {
	viewsCmd.Flags().StringVar(&targetFlag, "target", "0,0,0", "world position of the followed object, as x,y,z")
	rootCmd.AddCommand(viewsCmd)
}

// loadViews builds the views of a file against a target Transform placed at the given position.
func loadViews(path string, target mgl32.Vec3) ([]*tetracam.CameraConfiguration, *tetracam.Transform, error) {

	descriptors, err := tetracam.LoadViewDescriptors(path)
	if err != nil {
		return nil, nil, err
	}

	transform := tetracam.NewTransform("target")
	transform.SetLocalPositionVec(target)

	configurations, err := tetracam.BuildCameraConfigurations(descriptors, transform)
	if err != nil {
		return nil, nil, err
	}

	return configurations, transform, nil

}

func listViews(w io.Writer, path string, target mgl32.Vec3) error {

	configurations, _, err := loadViews(path, target)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d view(s) in %s\n\n", len(configurations), path)

	for _, cc := range configurations {
		p := cc.WorldPosition()
		f := cc.WorldOrientationMatrix().Col(2).Vec3().Mul(-1)
		fmt.Fprintf(w, "%s\n", cc.Name())
		fmt.Fprintf(w, "  Position: %s (%.3f, %.3f, %.3f)\n", cc.Position().Mode(), p.X(), p.Y(), p.Z())
		fmt.Fprintf(w, "  Orientation: %s, forward (%.3f, %.3f, %.3f)\n", cc.Orientation().Mode(), f.X(), f.Y(), f.Z())
		fmt.Fprintf(w, "  FOV: %.1f [%.1f, %.1f]\n", cc.FOV(), cc.FOVRange().Min, cc.FOVRange().Max)
		fmt.Fprintf(w, "  Follows target: %t\n", cc.FollowsObjects())
	}

	return nil

}

func parseVec3Flag(value string) (mgl32.Vec3, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return mgl32.Vec3{}, fmt.Errorf("expected x,y,z, got %q", value)
	}
	var v mgl32.Vec3
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return mgl32.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return v, nil
}
