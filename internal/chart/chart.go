package chart

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lox/faixaclima/internal/band"
)

// Bar is one labelled value. Values are drawn relative to the largest bar,
// or to 1 when every value is a fraction.
type Bar struct {
	Label string
	Value float64
}

const (
	Width     = 640
	barHeight = 22
	barGap    = 8
	padding   = 16
	titleArea = 32
	labelArea = 200
	valueArea = 64
)

var (
	background = color.RGBA{250, 250, 247, 255}
	ink        = color.RGBA{40, 44, 52, 255}
	muted      = color.RGBA{110, 116, 128, 255}
	track      = color.RGBA{232, 233, 236, 255}
	defaultBar = color.RGBA{52, 120, 186, 255}
)

// Tier colours, cold to warm. Rainy bands use a darker shade.
var tierColors = map[band.Tier][2]color.RGBA{
	band.TierFrio:   {{96, 165, 250, 255}, {37, 99, 235, 255}},
	band.TierAmeno:  {{74, 222, 128, 255}, {22, 163, 74, 255}},
	band.TierQuente: {{251, 146, 60, 255}, {220, 38, 38, 255}},
}

var ErrNoBars = errors.New("chart has no bars")

// Height returns the image height for n bars.
func Height(n int) int {
	return padding*2 + titleArea + n*(barHeight+barGap)
}

// Bars renders a horizontal bar chart as PNG. Labels that parse as climate
// bands are coloured by tier.
func Bars(title string, bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, ErrNoBars
	}

	img := image.NewRGBA(image.Rect(0, 0, Width, Height(len(bars))))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	drawText(img, title, padding, padding+13, ink)

	scale := 1.0
	for _, b := range bars {
		if b.Value > scale {
			scale = b.Value
		}
	}

	trackX := padding + labelArea
	trackW := Width - trackX - valueArea - padding
	for i, b := range bars {
		y := padding + titleArea + i*(barHeight+barGap)
		drawText(img, truncate(b.Label, labelArea/7-1), padding, y+15, ink)

		fillRect(img, trackX, y, trackW, barHeight, track)
		w := int(float64(trackW) * clamp(b.Value/scale))
		fillRect(img, trackX, y, w, barHeight, barColor(b.Label))

		drawText(img, fmt.Sprintf("%.3f", b.Value), trackX+trackW+8, y+15, muted)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barColor(label string) color.RGBA {
	b, ok := band.Parse(label)
	if !ok {
		return defaultBar
	}
	shades := tierColors[b.Tier]
	if b.Condition == band.ConditionChuvoso {
		return shades[1]
	}
	return shades[0]
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	if w <= 0 {
		return
	}
	draw.Draw(img, image.Rect(x, y, x+w, y+h), image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func clamp(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}
