package render

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/marcher"
	"github.com/btbonval/raymarch/pkg/scene"
)

func marchScene(t *testing.T, sc *scene.Scene, angle float64) marcher.Result {
	t.Helper()
	f, err := sc.Field()
	if err != nil {
		t.Fatalf("Field() failed: %v", err)
	}
	result, err := marcher.March(sc.Start, core.FromAngle(angle), f, sc.MarchConfig)
	if err != nil {
		t.Fatalf("March() failed: %v", err)
	}
	return result
}

func TestDraw_ImageDimensions(t *testing.T) {
	tests := []struct {
		name           string
		sc             *scene.Scene
		width          int
		expectedWidth  int
		expectedHeight int
	}{
		{
			name:           "Square viewport",
			sc:             scene.NewSingleObstacleScene(),
			width:          200,
			expectedWidth:  200,
			expectedHeight: 200,
		},
		{
			name:           "Wide viewport keeps aspect",
			sc:             scene.NewCorridorScene(), // 480x200 world units
			width:          480,
			expectedWidth:  480,
			expectedHeight: 200,
		},
		{
			name:           "Zero width takes default",
			sc:             scene.NewOpenScene(),
			width:          0,
			expectedWidth:  800,
			expectedHeight: 800,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := marchScene(t, tt.sc, 0)
			img, err := Draw(tt.sc, []marcher.Result{result}, Options{Width: tt.width, DrawHalos: true, DrawMarkers: true})
			if err != nil {
				t.Fatalf("Draw() failed: %v", err)
			}

			bounds := img.Bounds()
			if bounds.Dx() != tt.expectedWidth || bounds.Dy() != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d",
					tt.expectedWidth, tt.expectedHeight, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestDraw_EmptyResult(t *testing.T) {
	sc := scene.NewOpenScene()
	if _, err := Draw(sc, []marcher.Result{{}}, DefaultOptions()); err != nil {
		t.Errorf("Draw() with an empty result failed: %v", err)
	}
}

func TestDraw_DegenerateViewport(t *testing.T) {
	sc := scene.NewScene("degenerate", nil,
		core.NewRect(core.NewVec2(5, 5), core.NewVec2(5, 5)), core.NewVec2(5, 5))

	if _, err := Draw(sc, nil, DefaultOptions()); err == nil {
		t.Error("Expected degenerate viewport to be rejected")
	}
}

func TestSavePNG(t *testing.T) {
	sc := scene.NewSingleObstacleScene()
	results := []marcher.Result{
		marchScene(t, sc, 0),
		marchScene(t, sc, math.Pi/3),
	}

	path := filepath.Join(t.TempDir(), "march.png")
	if err := SavePNG(path, sc, results, Options{Width: 160}); err != nil {
		t.Fatalf("SavePNG() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected PNG file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Expected non-empty PNG file")
	}
}
