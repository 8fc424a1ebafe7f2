package median_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/imgtools/quant"
	"github.com/imgtools/quant/median"
)

// TestMedian tests the median quantizer on png files found in the source
// directory.  Output files are prefixed with _median_.  Files begining with
// _ are skipped when scanning for input files.  Note nothing is tested
// with a fresh source tree--drop a png or two in the source directory
// before testing to give the test something to work on.  Png files in the
// parent directory are similarly used for testing.  Put files there
// to compare results of the different quantizers.
func TestMedian(t *testing.T) {
	for _, p := range glob(t) {
		f, err := os.Open(p)
		if err != nil {
			t.Log(err) // skip files that can't be opened
			continue
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Log(err) // skip files that can't be decoded
			continue
		}
		pDir, pFile := filepath.Split(p)
		for _, n := range []int{16, 256} {
			// prefix _ on file name marks this as a result
			fq, err := os.Create(fmt.Sprintf("%s_median_%d_%s", pDir, n, pFile))
			if err != nil {
				t.Fatal(err) // probably can't create any others
			}
			var q quant.Quantizer = median.Quantizer(n)
			err = png.Encode(fq, q.Image(img))
			fq.Close()
			if err != nil {
				t.Fatal(err) // any problem is probably a problem for all
			}
		}
	}
}

func glob(tb testing.TB) []string {
	_, file, _, _ := runtime.Caller(0)
	srcDir, _ := filepath.Split(file)
	// ignore file names starting with _, those are result files.
	imgs, err := filepath.Glob(srcDir + "[^_]*.png")
	if err != nil {
		tb.Fatal(err)
	}
	if srcDir > "" {
		srcDir = srcDir[:len(srcDir)-1]
	}
	pDir, _ := filepath.Split(srcDir)
	pImgs, err := filepath.Glob(pDir + "[^_]*.png")
	if err != nil {
		tb.Fatal(err)
	}
	return append(imgs, pImgs...)
}

func TestBuildPalette(t *testing.T) {
	tcs := []struct {
		name   string
		pixels []uint32
		k      int
		want   quant.LinearPalette
	}{
		{"empty", nil, 4, quant.LinearPalette{}},
		{"zero k", []uint32{0xff0000}, 0, quant.LinearPalette{}},
		{"negative k", []uint32{0xff0000}, -3, quant.LinearPalette{}},
		{
			"dominant red",
			[]uint32{0xff0000, 0xff0000, 0x00ff00, 0x0000ff},
			2,
			quant.LinearPalette{
				quant.EntryOf(170, 85, 0, 3),
				quant.EntryOf(0, 0, 255, 1),
			},
		},
		{
			"fewer colors than k",
			[]uint32{0x0a0b0c, 0xffffff, 0x010203, 0x0a0b0c, 0xffffff, 0x0a0b0c},
			5,
			quant.LinearPalette{
				quant.NewEntry(0x0a0b0c, 3),
				quant.NewEntry(0xffffff, 2),
				quant.NewEntry(0x010203, 1),
			},
		},
		{
			"equal counts keep color order",
			[]uint32{0x30, 0x10, 0x20},
			3,
			quant.LinearPalette{
				quant.NewEntry(0x10, 1),
				quant.NewEntry(0x20, 1),
				quant.NewEntry(0x30, 1),
			},
		},
		{
			"alpha ignored",
			[]uint32{0xff112233, 0x00112233, 0x80445566},
			2,
			quant.LinearPalette{
				quant.NewEntry(0x112233, 2),
				quant.NewEntry(0x445566, 1),
			},
		},
		{
			"single color rounds half up",
			[]uint32{0x000000, 0xffffff},
			1,
			quant.LinearPalette{quant.EntryOf(128, 128, 128, 2)},
		},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := median.BuildPalette(tc.pixels, tc.k)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d entries %v, want %v", len(got), got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestBuildPaletteRGBA(t *testing.T) {
	buf := []byte{
		0xff, 0, 0, 0xff,
		0xff, 0, 0, 0,
		0, 0xff, 0, 0xff,
	}
	p, err := median.BuildPaletteRGBA(buf, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := quant.LinearPalette{
		quant.NewEntry(0xff0000, 2),
		quant.NewEntry(0x00ff00, 1),
	}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("got %v, want %v", p, want)
	}
	if _, err := median.BuildPaletteRGBA(buf[:7], 5); !errors.Is(err, quant.ErrBufferLength) {
		t.Fatalf("short buffer: got error %v, want %v", err, quant.ErrBufferLength)
	}
}

func randomPixels(r *rand.Rand, n, spread int) []uint32 {
	px := make([]uint32, n)
	for i := range px {
		// Cluster around a few centers so that counts vary.
		c := uint32(r.Intn(4)) * 0x3f3f3f
		px[i] = c + uint32(r.Intn(spread))<<16 + uint32(r.Intn(spread))<<8 + uint32(r.Intn(spread))
	}
	return px
}

func TestPaletteProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	px := randomPixels(rng, 2000, 40)
	for _, k := range []int{1, 2, 3, 7, 16, 64, 256} {
		p := median.BuildPalette(px, k)
		if len(p) == 0 || len(p) > k {
			t.Fatalf("k=%d: palette has %d entries", k, len(p))
		}
		total := 0
		for i, e := range p {
			total += e.Count
			if i > 0 && e.Count > p[i-1].Count {
				t.Fatalf("k=%d: entry %d count %d > previous %d", k, i, e.Count, p[i-1].Count)
			}
			if e.RGB != uint32(e.R)<<16|uint32(e.G)<<8|uint32(e.B) {
				t.Fatalf("k=%d: entry %d has inconsistent rgb %+v", k, i, e)
			}
		}
		if total != len(px) {
			t.Fatalf("k=%d: palette counts sum to %d, want %d", k, total, len(px))
		}

		q := p.Map(px)
		if len(q) != len(px) {
			t.Fatalf("k=%d: mapped %d pixels, got %d", k, len(px), len(q))
		}
		for i, c := range q {
			r, g, b := quant.Unpack(px[i])
			d := p[p.Index(c)].Distance2(r, g, b)
			for _, e := range p {
				if e.Distance2(r, g, b) < d {
					t.Fatalf("k=%d: pixel %06x mapped to %06x, %06x is closer", k, px[i], c, e.RGB)
				}
			}
		}
		if again := p.Map(q); !reflect.DeepEqual(again, q) {
			t.Fatalf("k=%d: remapping a quantized image changed it", k)
		}
	}
}

func TestBuildPaletteDeterministic(t *testing.T) {
	px := randomPixels(rand.New(rand.NewSource(7)), 500, 64)
	a := median.BuildPalette(px, 12)
	b := median.BuildPalette(px, 12)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("palettes of the same input differ")
	}
}

func TestQuantizerImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(1, 1, 3, 3))
	img.Set(1, 1, color.NRGBA{0xff, 0, 0, 0xff})
	img.Set(2, 1, color.NRGBA{0xff, 0, 0, 0xff})
	img.Set(1, 2, color.NRGBA{0, 0, 0xff, 0xff})
	img.Set(2, 2, color.NRGBA{0, 0, 0xf0, 0xff})
	pi := median.Quantizer(2).Image(img)
	if pi.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v, want %v", pi.Bounds(), img.Bounds())
	}
	if len(pi.Palette) != 2 {
		t.Fatalf("palette has %d colors, want 2", len(pi.Palette))
	}
	if pi.Palette[0] != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("first color %v, want red", pi.Palette[0])
	}
	if pi.Palette[1] != (color.RGBA{0, 0, 0xf8, 0xff}) {
		t.Errorf("second color %v, want mean of blues", pi.Palette[1])
	}
	if pi.ColorIndexAt(1, 1) != 0 || pi.ColorIndexAt(2, 1) != 0 ||
		pi.ColorIndexAt(1, 2) != 1 || pi.ColorIndexAt(2, 2) != 1 {
		t.Errorf("unexpected indexes %v", pi.Pix)
	}
}

func TestQuantizerDraw(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x, c := range []color.NRGBA{
		{0xff, 0, 0, 0xff},
		{0, 0xff, 0, 0xff},
		{0, 0, 0xff, 0xff},
		{0xff, 0xff, 0xff, 0xff},
	} {
		img.Set(x, 0, c)
	}
	var q draw.Quantizer = median.Quantizer(16)
	p := q.Quantize(make(color.Palette, 0, 3), img)
	if len(p) != 3 {
		t.Fatalf("got %d colors, want 3", len(p))
	}
	p = median.Quantizer(2).Quantize(make(color.Palette, 1, 8), img)
	if len(p) != 3 {
		t.Fatalf("got %d colors, want 1 preset plus 2", len(p))
	}
}

func ExampleBuildPalette() {
	px := []uint32{0xff0000, 0xff0000, 0x00ff00, 0x0000ff}
	p := median.BuildPalette(px, 2)
	for _, e := range p.Colors() {
		fmt.Printf("#%06x %d\n", e.RGB, e.Count)
	}
	fmt.Printf("%06x\n", p.Map([]uint32{0x00ff00, 0x0000f0}))
	// Output:
	// #aa5500 3
	// #0000ff 1
	// [aa5500 0000ff]
}
