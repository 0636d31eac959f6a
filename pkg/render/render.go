// Package render draws scenes and march results to images for inspection.
// It is the outbound visualization collaborator of the marching core: it
// consumes sample chains and clearance radii but never feeds back into the
// algorithm.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gogpu/gg"

	"github.com/btbonval/raymarch/pkg/core"
	"github.com/btbonval/raymarch/pkg/marcher"
	"github.com/btbonval/raymarch/pkg/scene"
)

// Options contains rendering configuration
type Options struct {
	Width       int  // Image width in pixels; height follows the viewport aspect
	DrawHalos   bool // Stroke each sample's clearance radius
	DrawMarkers bool // Fill a dot at each sample point
}

// DefaultOptions returns the default rendering configuration
func DefaultOptions() Options {
	return Options{
		Width:       800,
		DrawHalos:   true,
		DrawMarkers: true,
	}
}

// canvas maps world coordinates into a gg drawing context
type canvas struct {
	dc    *gg.Context
	min   core.Vec2
	scale float64
}

func (c canvas) x(p core.Vec2) float64 { return (p.X - c.min.X) * c.scale }
func (c canvas) y(p core.Vec2) float64 { return (p.Y - c.min.Y) * c.scale }

// Draw renders the scene's viewport and obstacles plus any number of march
// results into a new image
func Draw(sc *scene.Scene, results []marcher.Result, opts Options) (image.Image, error) {
	size := sc.Bounds.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("cannot render degenerate viewport %v", sc.Bounds)
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}

	scale := float64(opts.Width) / size.X
	height := int(size.Y * scale)
	if height < 1 {
		height = 1
	}

	dc := gg.NewContext(opts.Width, height)
	defer dc.Close()
	c := canvas{dc: dc, min: sc.Bounds.Min, scale: scale}

	dc.ClearWithColor(gg.White)

	// Viewport border
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.SetLineWidth(2)
	dc.DrawRectangle(0, 0, float64(opts.Width), float64(height))
	dc.Stroke()

	// Obstacles
	for _, circle := range sc.Circles {
		dc.SetRGB(0.75, 0.75, 0.78)
		dc.DrawCircle(c.x(circle.Center), c.y(circle.Center), circle.Radius*scale)
		dc.Fill()
		dc.SetRGB(0.35, 0.35, 0.4)
		dc.SetLineWidth(1.5)
		dc.DrawCircle(c.x(circle.Center), c.y(circle.Center), circle.Radius*scale)
		dc.Stroke()
	}

	for _, result := range results {
		drawResult(c, result, opts)
	}

	return dc.Image(), nil
}

// SavePNG renders the scene and march results and writes them to a PNG file
func SavePNG(path string, sc *scene.Scene, results []marcher.Result, opts Options) error {
	img, err := Draw(sc, results, opts)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// drawResult draws one march chain: clearance halos first, then connecting
// segments, then sample markers on top
func drawResult(c canvas, result marcher.Result, opts Options) {
	samples := result.Samples
	if len(samples) == 0 {
		return
	}

	if opts.DrawHalos {
		c.dc.SetRGBA(0.2, 0.55, 0.9, 0.35)
		c.dc.SetLineWidth(1)
		for _, sample := range samples {
			c.dc.DrawCircle(c.x(sample.Point), c.y(sample.Point), sample.Clearance*c.scale)
			c.dc.Stroke()
		}
	}

	c.dc.SetRGB(0.85, 0.3, 0.2)
	c.dc.SetLineWidth(2)
	for i := 0; i+1 < len(samples); i++ {
		c.dc.DrawLine(
			c.x(samples[i].Point), c.y(samples[i].Point),
			c.x(samples[i+1].Point), c.y(samples[i+1].Point),
		)
		c.dc.Stroke()
	}

	if opts.DrawMarkers {
		c.dc.SetRGB(0.6, 0.1, 0.1)
		for _, sample := range samples {
			c.dc.DrawPoint(c.x(sample.Point), c.y(sample.Point), 3)
			c.dc.Fill()
		}
	}
}
