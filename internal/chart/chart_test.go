package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsEncodesPNG(t *testing.T) {
	data, err := Bars("Importância das variáveis", []Bar{
		{Label: "temp_c", Value: 0.41},
		{Label: "precipitacao_mm", Value: 0.30},
		{Label: "umidade_pct", Value: 0.12},
	})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height(3), img.Bounds().Dy())
}

func TestBarsColoursBands(t *testing.T) {
	data, err := Bars("Probabilidades", []Bar{
		{Label: "Frio_Seco", Value: 1},
		{Label: "Quente_Chuvoso", Value: 1},
	})
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	x := padding + labelArea + 10
	first := padding + titleArea + barHeight/2
	second := first + barHeight + barGap

	r, g, b, _ := img.At(x, first).RGBA()
	assert.Equal(t, [3]uint32{96, 165, 250}, [3]uint32{r >> 8, g >> 8, b >> 8})
	r, g, b, _ = img.At(x, second).RGBA()
	assert.Equal(t, [3]uint32{220, 38, 38}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestBarsEmpty(t *testing.T) {
	_, err := Bars("vazio", nil)
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestBarColor(t *testing.T) {
	assert.Equal(t, defaultBar, barColor("radiacao_kj"))
	assert.Equal(t, tierColors["Ameno"][1], barColor("Ameno_Chuvoso"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "curto", truncate("curto", 10))
	assert.Equal(t, "umid~", truncate("umidade_pct", 5))
}

func TestCacheRender(t *testing.T) {
	c := NewCache(2)
	calls := 0
	render := func() ([]byte, error) {
		calls++
		return []byte{byte(calls)}, nil
	}

	a, err := c.Render("a", "test", render)
	require.NoError(t, err)
	again, err := c.Render("a", "test", render)
	require.NoError(t, err)
	assert.Equal(t, a, again)
	assert.Equal(t, 1, calls)

	_, err = c.Render("b", "test", render)
	require.NoError(t, err)
	_, err = c.Render("c", "test", render)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("c")
	assert.False(t, ok)
}

func TestCacheRenderError(t *testing.T) {
	c := NewCache(4)
	boom := errors.New("boom")
	_, err := c.Render("k", "test", func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}
