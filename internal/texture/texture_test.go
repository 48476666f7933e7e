package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(n int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeImage(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f))
}

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error { return png.Encode(f, solid(2, c)) })
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "leaves", "Oak.png"), color.NRGBA{0, 255, 0, 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oak.jpg"), []byte("not really"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 1, idx.Len())

	for _, name := range []string{"oak", "OAK.jpg", "trees/oak", `trees\oak`} {
		p, ok := idx.ResolvePath(name)
		require.True(t, ok, name)
		assert.Equal(t, filepath.Join(dir, "leaves", "Oak.png"), p)
	}
	_, ok := idx.ResolvePath("maple")
	assert.False(t, ok)

	assert.Zero(t, BuildIndex("").Len())
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fern.png")
	writePNG(t, path, color.NRGBA{10, 20, 30, 255})
	img, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(1, 1))

	_, err = LoadTexture(filepath.Join(t.TempDir(), "x.bmp"))
	assert.Error(t, err)
	bad := filepath.Join(t.TempDir(), "bad.tga")
	require.NoError(t, os.WriteFile(bad, []byte{1, 2, 3}, 0o644))
	_, err = LoadTexture(bad)
	assert.Error(t, err)
}

func TestLoadTextureByExtension(t *testing.T) {
	dir := t.TempDir()
	want := color.NRGBA{200, 120, 40, 255}

	jpg := filepath.Join(dir, "oak.JPG")
	writeImage(t, jpg, func(f *os.File) error {
		return jpeg.Encode(f, solid(4, want), &jpeg.Options{Quality: 100})
	})
	img, err := LoadTexture(jpg)
	require.NoError(t, err)
	got := img.NRGBAAt(2, 2)
	assert.InDelta(t, want.R, got.R, 4)
	assert.InDelta(t, want.G, got.G, 4)
	assert.InDelta(t, want.B, got.B, 4)
	assert.Equal(t, uint8(255), got.A)

	tg := filepath.Join(dir, "elm.tga")
	writeImage(t, tg, func(f *os.File) error { return tga.Encode(f, solid(3, want)) })
	img, err = LoadTexture(tg)
	require.NoError(t, err)
	assert.Equal(t, want, img.NRGBAAt(0, 2))

	// A PNG saved under a .jpg name is rejected rather than sniffed.
	fake := filepath.Join(dir, "ash.jpg")
	writePNG(t, fake, want)
	_, err = LoadTexture(fake)
	assert.Error(t, err)
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "birch.png"), color.NRGBA{1, 2, 3, 255})
	c := NewCache(BuildIndex(dir))

	first := c.Resolve("birch")
	require.NotNil(t, first)
	assert.Same(t, first, c.Resolve("birch"))
	assert.Nil(t, c.Resolve("willow"))
}
