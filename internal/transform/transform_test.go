package transform

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"banner-cache/internal/surface"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestPowerOfTwo(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 31: 32, 32: 32, 33: 64, 400: 512}
	for n, want := range tests {
		if got := PowerOfTwo(n); got != want {
			t.Errorf("PowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestFloorPowerOfTwo(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 2, 255: 128, 256: 256, 300: 256, 4095: 2048}
	for n, want := range tests {
		if got := FloorPowerOfTwo(n); got != want {
			t.Errorf("FloorPowerOfTwo(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestClosest_TiePrefersHigher(t *testing.T) {
	// 24 is 8 away from both 32 and 16.
	if got := Closest(24, 32, 16); got != 32 {
		t.Errorf("Closest(24, 32, 16) = %d, want 32", got)
	}
	if got := Closest(20, 32, 16); got != 16 {
		t.Errorf("Closest(20, 32, 16) = %d, want 16", got)
	}
	if got := Closest(400, 512, 256); got != 512 {
		t.Errorf("Closest(400, 512, 256) = %d, want 512", got)
	}
}

func TestTargetSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape 800x600", 800, 600, 512, 256},
		{"floor at 32", 40, 40, 32, 32},
		{"tie rounds up", 48, 48, 32, 32},
		{"tie rounds up above floor", 96, 96, 64, 64},
		{"unrotated canvas", 256, 64, 128, 32},
		{"tiny source keeps own floor", 3, 1, 4, 1},
		{"one pixel", 1, 1, 1, 1},
		{"common banner", 418, 164, 256, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := TargetSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("TargetSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
			if !IsPowerOfTwo(w) || !IsPowerOfTwo(h) {
				t.Errorf("TargetSize(%d, %d) = %dx%d is not power-of-two", tt.w, tt.h, w, h)
			}
		})
	}
}

func TestTargetSize_FloorNeverBelowSourceRounding(t *testing.T) {
	for n := 1; n <= 1024; n++ {
		got, _ := TargetSize(n, n)
		floor := PowerOfTwo(n)
		if floor > 32 {
			floor = 32
		}
		if got < floor {
			t.Fatalf("TargetSize(%d) = %d, below floor %d", n, got, floor)
		}
		if !IsPowerOfTwo(got) {
			t.Fatalf("TargetSize(%d) = %d is not a power of two", n, got)
		}
	}
}

func TestIsDiagonal(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{256, 256, true},
		{256, 257, true},
		{257, 256, true},
		{256, 258, false},
		{99, 99, false},
		{100, 100, true},
		{418, 164, false},
	}
	for _, tt := range tests {
		if got := IsDiagonal(tt.w, tt.h); got != tt.want {
			t.Errorf("IsDiagonal(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestApplyColorKey(t *testing.T) {
	img := solid(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 1, HotPink)

	keyed := ApplyColorKey(img).(*image.NRGBA)
	if got := keyed.NRGBAAt(1, 1); got.A != 0 {
		t.Errorf("hot pink pixel alpha = %d, want 0", got.A)
	}
	if got := keyed.NRGBAAt(0, 0); got.A != 255 {
		t.Errorf("other pixel alpha = %d, want 255", got.A)
	}
	if img.NRGBAAt(1, 1) != HotPink {
		t.Error("ApplyColorKey must not modify its input")
	}

	twice := ApplyColorKey(keyed).(*image.NRGBA)
	for i := range keyed.Pix {
		if keyed.Pix[i] != twice.Pix[i] {
			t.Fatal("ApplyColorKey should be idempotent")
		}
	}
}

func TestApplyColorKey_Paletted(t *testing.T) {
	pal := color.Palette{color.NRGBA{A: 255}, HotPink}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	img.Pix[1] = 1

	keyed, ok := ApplyColorKey(img).(*image.Paletted)
	if !ok {
		t.Fatalf("ApplyColorKey(paletted) returned %T", ApplyColorKey(img))
	}
	if _, _, _, a := keyed.At(1, 0).RGBA(); a != 0 {
		t.Errorf("hot pink palette entry alpha = %d, want 0", a)
	}
	if _, _, _, a := img.At(1, 0).RGBA(); a == 0 {
		t.Error("ApplyColorKey must not modify the input palette")
	}
}

func TestUnrotate(t *testing.T) {
	src := solid(256, 256, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	out := Unrotate(src)

	if out.Bounds().Dx() != UnrotatedWidth || out.Bounds().Dy() != UnrotatedHeight {
		t.Fatalf("Unrotate size = %v, want %dx%d", out.Bounds(), UnrotatedWidth, UnrotatedHeight)
	}
	// The canvas center samples the middle of the artwork.
	if got := out.NRGBAAt(128, 32); got.A == 0 || got.R < 190 {
		t.Errorf("center pixel = %+v, want opaque source color", got)
	}
}

func TestSourceToCanvas_Corners(t *testing.T) {
	src := image.Rect(0, 0, 200, 200)
	m := sourceToCanvas(src, UnrotatedWidth, UnrotatedHeight)

	apply := func(x, y float64) (float64, float64) {
		return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
	}

	tests := []struct {
		sx, sy float64
		cx, cy float64
	}{
		{0.02 * 200, 0.78 * 200, 0, 0},
		{0.22 * 200, 0.98 * 200, 0, UnrotatedHeight},
		{0.98 * 200, 0.22 * 200, UnrotatedWidth, UnrotatedHeight},
		{0.78 * 200, 0.02 * 200, UnrotatedWidth, 0},
	}
	for _, tt := range tests {
		x, y := apply(tt.sx, tt.sy)
		if diff(x, tt.cx) > 1e-6 || diff(y, tt.cy) > 1e-6 {
			t.Errorf("source (%v,%v) -> (%v,%v), want (%v,%v)", tt.sx, tt.sy, x, y, tt.cx, tt.cy)
		}
	}
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestZoom(t *testing.T) {
	src := solid(100, 50, color.NRGBA{R: 255, A: 255})
	out := Zoom(src, 64, 32)
	if out.Bounds().Dx() != 64 || out.Bounds().Dy() != 32 {
		t.Errorf("Zoom size = %v, want 64x32", out.Bounds())
	}

	pal := image.NewPaletted(image.Rect(0, 0, 64, 32), color.Palette{color.Black})
	if Zoom(pal, 64, 32) != image.Image(pal) {
		t.Error("Zoom to the current size should return the input")
	}
}

func TestOrderedDither(t *testing.T) {
	src := solid(8, 8, color.NRGBA{R: 255, G: 0, B: 255, A: 255})
	src.SetNRGBA(0, 0, color.NRGBA{})

	out := OrderedDither(src)
	if got := out.At5551(1, 1); got != surface.Pack5551(31, 0, 31, 1) {
		t.Errorf("extreme channels should survive dithering exactly, got %#x", uint16(got))
	}
	if _, _, _, a := out.At5551(0, 0).Channels(); a != 0 {
		t.Error("transparent pixel should stay transparent")
	}
}

func TestOrderedDither_MidtoneVaries(t *testing.T) {
	// 132 sits between two 5-bit levels, so the pattern must use both.
	out := OrderedDither(solid(4, 4, color.NRGBA{R: 132, G: 132, B: 132, A: 255}))
	seen := map[uint8]bool{}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, _, _, _ := out.At5551(x, y).Channels()
			seen[r] = true
		}
	}
	if len(seen) != 2 {
		t.Errorf("dithered midtone used %d levels, want 2", len(seen))
	}
}

func TestPalettize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: uint8((x + y) * 4), A: 255})
		}
	}

	p := Palettize(img)
	if len(p.Palette) > 256 {
		t.Errorf("palette has %d entries, want <= 256", len(p.Palette))
	}
	if p.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", p.Bounds(), img.Bounds())
	}

	// Nearest-color mapping keeps the image close to the source.
	r1, _, _, _ := img.At(31, 0).RGBA()
	r2, _, _, _ := p.At(31, 0).RGBA()
	if diff(float64(r1>>8), float64(r2>>8)) > 48 {
		t.Errorf("palettized red %d too far from source %d", r2>>8, r1>>8)
	}
}

func TestPalettize_ExactForFewColors(t *testing.T) {
	img := solid(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{})

	p := Palettize(img)
	if len(p.Palette) != 2 {
		t.Fatalf("palette has %d entries, want 2", len(p.Palette))
	}
	if got := color.NRGBAModel.Convert(p.At(1, 1)).(color.NRGBA); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("pixel = %+v, want exact source color", got)
	}
}

func TestPalettize_ManyColorsKeepsTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 200, A: 255})
		}
	}
	img.SetNRGBA(5, 5, color.NRGBA{R: 90, G: 90, B: 90})

	p := Palettize(img)
	if len(p.Palette) > 256 {
		t.Errorf("palette has %d entries, want <= 256", len(p.Palette))
	}
	if _, _, _, a := p.At(5, 5).RGBA(); a != 0 {
		t.Errorf("transparent pixel alpha = %d, want 0", a)
	}
	if _, _, _, a := p.At(6, 6).RGBA(); a != 0xffff {
		t.Errorf("opaque pixel alpha = %d, want opaque", a)
	}
}

func TestTransform_Landscape(t *testing.T) {
	bmp, meta, err := Transform(solid(800, 600, color.NRGBA{G: 255, A: 255}), Options{Fingerprint: 7})
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}

	if meta.OriginalWidth != 800 || meta.OriginalHeight != 600 || meta.Reoriented || meta.Fingerprint != 7 {
		t.Errorf("metadata = %+v", meta)
	}
	if bmp.Format() != surface.FormatRGB5A1 {
		t.Errorf("format = %v, want RGB5A1", bmp.Format())
	}
	if bmp.Width() != 512 || bmp.Height() != 256 {
		t.Errorf("size = %dx%d, want 512x256", bmp.Width(), bmp.Height())
	}
}

func TestTransform_Diagonal(t *testing.T) {
	bmp, meta, err := Transform(solid(256, 256, color.NRGBA{R: 255, A: 255}), Options{})
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}

	if !meta.Reoriented {
		t.Error("diagonal banner should be reoriented")
	}
	if meta.OriginalWidth != UnrotatedWidth || meta.OriginalHeight != UnrotatedHeight {
		t.Errorf("original size = %dx%d, want %dx%d", meta.OriginalWidth, meta.OriginalHeight, UnrotatedWidth, UnrotatedHeight)
	}
	if bmp.Width() != 128 || bmp.Height() != 32 {
		t.Errorf("size = %dx%d, want 128x32", bmp.Width(), bmp.Height())
	}
}

func TestTransform_Paletted(t *testing.T) {
	bmp, _, err := Transform(solid(300, 100, color.NRGBA{B: 255, A: 255}), Options{Paletted: true})
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if bmp.Format() != surface.FormatPaletted {
		t.Errorf("format = %v, want PAL", bmp.Format())
	}
	if !IsPowerOfTwo(bmp.Width()) || !IsPowerOfTwo(bmp.Height()) {
		t.Errorf("size %dx%d is not power-of-two", bmp.Width(), bmp.Height())
	}
}

func TestTransform_Empty(t *testing.T) {
	_, _, err := Transform(image.NewNRGBA(image.Rect(0, 0, 0, 10)), Options{})
	if !errors.Is(err, ErrZeroDimension) {
		t.Errorf("Transform(empty) error = %v, want ErrZeroDimension", err)
	}
}
