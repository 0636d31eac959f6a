package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/btbonval/raymarch/internal/logging"
	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/marcher"
	"github.com/btbonval/raymarch/pkg/record"
	"github.com/btbonval/raymarch/pkg/render"
	"github.com/btbonval/raymarch/pkg/scene"
)

func main() {
	sceneName := flag.String("scene", "single", "Scene name: 'open', 'single', 'corridor' or 'cluster'")
	mode := flag.String("mode", "render", "Mode: 'render' (one ray), 'fan' (full circle) or 'record' (sweep session)")
	angle := flag.Float64("angle", 0, "Sweep direction in degrees (render mode)")
	rays := flag.Int("rays", 64, "Number of rays (fan mode)")
	frames := flag.Int("frames", 200, "Number of frames (record mode)")
	fps := flag.Int("fps", 20, "Simulated frames per second (record mode)")
	recordDir := flag.String("record", "records", "Record root directory (record mode)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("2D Sphere-Tracing Ray Marcher")
		fmt.Println("Usage: raymarch [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, info := range scene.ListAll().Scenes {
			fmt.Printf("  %-8s - %s\n", info.ID, info.Description)
		}
		fmt.Println()
		fmt.Println("Render output is saved to output/<scene>/<mode>_<timestamp>.png")
		return
	}

	sc := scene.Create(*sceneName)
	if sc == nil {
		fmt.Printf("Unknown scene: %s. Using 'single'.\n", *sceneName)
		sc = scene.NewSingleObstacleScene()
	}

	switch *mode {
	case "render":
		runRender(sc, *angle)
	case "fan":
		runFan(sc, *rays)
	case "record":
		runRecord(sc, *frames, *fps, *recordDir)
	default:
		fmt.Printf("Unknown mode: %s. Use 'render', 'fan' or 'record'.\n", *mode)
		os.Exit(1)
	}
}

// runRender marches a single ray and saves the annotated scene as a PNG
func runRender(sc *scene.Scene, angleDegrees float64) {
	f, err := sc.Field()
	logging.Check(err, "Could not build distance field")

	direction := core.FromAngle(angleDegrees * math.Pi / 180)
	startTime := time.Now()
	result, err := marcher.March(sc.Start, direction, f, sc.MarchConfig)
	logging.Check(err, "March failed")

	fmt.Printf("March completed in %v: %d samples, truncated=%v\n",
		time.Since(startTime), len(result.Samples), result.Truncated)
	if len(result.Samples) > 0 {
		end := result.End()
		fmt.Printf("Last sample at (%.2f, %.2f)\n", end.X, end.Y)
	}

	saveImage(sc, []marcher.Result{result}, "march")
}

// runFan marches a full circle of rays through the worker pool and saves
// the combined picture
func runFan(sc *scene.Scene, rays int) {
	f, err := sc.Field()
	logging.Check(err, "Could not build distance field")

	startTime := time.Now()
	results, err := marcher.MarchFan(f, sc.MarchConfig, sc.Start, 0, 2*math.Pi, rays, 0)
	logging.Check(err, "Fan march failed")

	totalSamples := 0
	for _, result := range results {
		totalSamples += len(result.Samples)
	}
	fmt.Printf("Fan of %d rays completed in %v: %d samples total\n",
		rays, time.Since(startTime), totalSamples)

	saveImage(sc, results, "fan")
}

// runRecord runs an offline sweep session and archives every frame
func runRecord(sc *scene.Scene, frames, fps int, root string) {
	sweeper, err := scene.NewSweeper(sc, scene.DefaultSweeperConfig())
	logging.Check(err, "Could not build sweeper")

	writer, manifest, err := record.NewWriter(root, sc, nil)
	logging.Check(err, "Could not open record session")
	defer writer.Close()

	dt := 1.0 / float64(fps)
	for i := 0; i < frames; i++ {
		frame, err := sweeper.Advance(dt)
		logging.Check(err, "Sweep march failed")
		logging.Check(writer.AppendFrame(frame), "Could not record frame")
	}

	fmt.Printf("Recorded %d frames of scene %q to %s (created %s)\n",
		frames, sc.Name, writer.Dir(), manifest.CreatedAt)
}

// saveImage writes the annotated scene under output/<scene>/ with a
// timestamped filename
func saveImage(sc *scene.Scene, results []marcher.Result, prefix string) {
	outputDir := filepath.Join("output", sc.Name)
	logging.Check(os.MkdirAll(outputDir, 0755), "Could not create output directory")

	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(outputDir, fmt.Sprintf("%s_%s.png", prefix, timestamp))

	logging.Check(render.SavePNG(filename, sc, results, render.DefaultOptions()), "Could not save PNG")
	fmt.Printf("Image saved as %s\n", filename)
}
