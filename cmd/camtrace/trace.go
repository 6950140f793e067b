package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/solarlune/tetracam"
	"github.com/spf13/cobra"
)

type traceOptions struct {
	from, to string
	target   string
	style    string
	duration time.Duration
	step     time.Duration
	settle   time.Duration
}

var traceOpts = traceOptions{}

var traceCmd = &cobra.Command{
	Use:   "trace [file]",
	Short: "Trace a camera transition between two views",
	Long: `Start a camera on one view of a view file, blend it into another and print the
camera's state at every step as CSV: time in milliseconds, position, forward
direction, field of view and transition progress.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrace(cmd.OutOrStdout(), args[0], traceOpts)
	},
}

func init() {
	flags := traceCmd.Flags()
	flags.StringVar(&traceOpts.from, "from", "", "name of the view to start on (defaults to the first view)")
	flags.StringVar(&traceOpts.to, "to", "", "name of the view to blend into (defaults to the view after --from)")
	flags.StringVar(&traceOpts.target, "target", "0,0,0", "world position of the followed object, as x,y,z")
	flags.StringVar(&traceOpts.style, "style", "smooth", "transition style, linear or smooth")
	flags.DurationVar(&traceOpts.duration, "duration", time.Second, "length of the transition")
	flags.DurationVar(&traceOpts.step, "step", 100*time.Millisecond, "time between two traced frames")
	flags.DurationVar(&traceOpts.settle, "settle", 0, "extra time to keep tracing after the transition ends")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(w io.Writer, path string, opts traceOptions) error {

	if opts.step <= 0 {
		return fmt.Errorf("--step must be positive, got %s", opts.step)
	}

	style, err := tetracam.ParseTransitionStyle(opts.style)
	if err != nil {
		return err
	}

	target, err := parseVec3Flag(opts.target)
	if err != nil {
		return fmt.Errorf("--target: %w", err)
	}

	configurations, _, err := loadViews(path, target)
	if err != nil {
		return err
	}

	scene := tetracam.NewScene(path)
	scene.AddCameraConfigurations(configurations...)

	from, err := findView(scene, opts.from, nil)
	if err != nil {
		return err
	}
	to, err := findView(scene, opts.to, from)
	if err != nil {
		return err
	}

	camera := tetracam.NewCamera(from, tetracam.WithNavigator(scene))
	camera.StartTransitionToConfiguration(to, opts.duration, style)

	out := csv.NewWriter(w)
	if err := out.Write([]string{"ms", "x", "y", "z", "forward_x", "forward_y", "forward_z", "fov", "progress"}); err != nil {
		return err
	}

	total := opts.duration + opts.settle
	for elapsed := time.Duration(0); ; elapsed += opts.step {

		if err := out.Write(traceRow(camera, elapsed)); err != nil {
			return err
		}

		if elapsed >= total {
			break
		}

		camera.Update(opts.step)

	}

	out.Flush()
	return out.Error()

}

// findView returns the view with the given name, or the view after previous when name is empty.
func findView(scene *tetracam.Scene, name string, previous *tetracam.CameraConfiguration) (*tetracam.CameraConfiguration, error) {

	if name == "" {
		if cc := scene.NextCameraConfiguration(previous); cc != nil {
			return cc, nil
		}
		return nil, fmt.Errorf("no views in %s", scene.Name)
	}

	for _, cc := range scene.CameraConfigurations() {
		if cc.Name() == name {
			return cc, nil
		}
	}

	return nil, fmt.Errorf("no view named %q in %s", name, scene.Name)

}

func traceRow(camera *tetracam.Camera, elapsed time.Duration) []string {
	p := camera.PositionVector()
	f := camera.Forward()
	values := []float32{p.X(), p.Y(), p.Z(), f.X(), f.Y(), f.Z(), camera.FOV(), camera.TransitionProgress()}
	row := []string{strconv.FormatInt(elapsed.Milliseconds(), 10)}
	for _, v := range values {
		if v == 0 {
			v = 0 // No "-0.0000" columns.
		}
		row = append(row, strconv.FormatFloat(float64(v), 'f', 4, 32))
	}
	return row
}
