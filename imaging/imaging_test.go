package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"

	"go.uber.org/zap"
	"golang.org/x/image/tiff"
)

func init() {
	log.SetLogger(zap.NewNop())
}

func TestGrayRoundTrip(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 10)
	}
	fn := filepath.Join(t.TempDir(), "g.lum")
	ds, err := FromImage(fn, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if ds.DataType() != lum.Byte {
		t.Fatal(ds.DataType())
	}
	img, err := ToImage(ds)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := img.(*image.Gray)
	if !ok || !bytes.Equal(g.Pix, src.Pix) {
		t.Fatal(img)
	}
}

func TestGray16RoundTrip(t *testing.T) {
	src := image.NewGray16(image.Rect(10, 10, 13, 12))
	src.SetGray16(10, 10, color.Gray16{Y: 4095})
	src.SetGray16(12, 11, color.Gray16{Y: 300})
	fn := filepath.Join(t.TempDir(), "g16.lum")
	ds, err := FromImage(fn, src, []string{"NBITS=12"})
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if ds.DataType() != lum.UInt16 || ds.RasterXSize() != 3 || ds.RasterYSize() != 2 {
		t.Fatal(ds.Header())
	}
	img, err := ToImage(ds)
	if err != nil {
		t.Fatal(err)
	}
	g := img.(*image.Gray16)
	if g.Gray16At(0, 0).Y != 4095 || g.Gray16At(2, 1).Y != 300 || g.Gray16At(1, 0).Y != 0 {
		t.Fatal(g.Pix)
	}
	Stretch(g, 12)
	if g.Gray16At(0, 0).Y != 4095<<4 {
		t.Fatal(g.Gray16At(0, 0))
	}
}

func TestFromGray16FullDepth(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 60000})
	src.SetGray16(1, 0, color.Gray16{Y: 65535})
	ds, err := FromImage(filepath.Join(t.TempDir(), "full.lum"), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if ds.Header().Depth() != 16 {
		t.Fatal(ds.Tag())
	}
	img, _ := ToImage(ds)
	g := img.(*image.Gray16)
	if g.Gray16At(0, 0).Y != 60000 || g.Gray16At(1, 0).Y != 65535 {
		t.Fatal(g.Pix)
	}
}

func TestPreviewSaturates(t *testing.T) {
	ds, err := lum.Create(filepath.Join(t.TempDir(), "s.lum"), 3, 1, 1, lum.UInt16, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	band, _ := ds.RasterBand(1)
	if err = band.IO(lum.Write, 0, 0, 3, 1, []uint16{4095, 4096, 60000}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err = WritePreview(ds, &buf, 0); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint16{4095 << 4, 0xFFFF, 0xFFFF}
	for x, v := range want {
		if got := color.Gray16Model.Convert(img.At(x, 0)).(color.Gray16).Y; got != v {
			t.Fatal(x, got)
		}
	}
}

func TestFromImageWriteFailure(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	fn := filepath.Join(t.TempDir(), "ro.lum")
	ds, err := FromImage(fn, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds.Close()
	ro, err := lum.OpenFile(fn, lum.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	ds, err = writeAll(ro, src.Pix)
	if !errors.Is(err, lum.ErrReadOnly) || ds != nil || !ro.Closed() {
		t.Fatal(ds, err)
	}
}

func TestFromColorImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.White)
	src.Set(1, 1, color.RGBA{R: 0, G: 0, B: 0, A: 255})
	ds, err := FromImage(filepath.Join(t.TempDir(), "c.lum"), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	img, _ := ToImage(ds)
	g := img.(*image.Gray)
	if g.GrayAt(0, 0).Y != 255 || g.GrayAt(1, 1).Y != 0 {
		t.Fatal(g.Pix)
	}
	if _, err = FromImage(filepath.Join(t.TempDir(), "e.lum"), image.NewGray(image.Rect(0, 0, 0, 0)), nil); err != ErrEmptyImage {
		t.Fatal(err)
	}
}

func TestWriteTIFF(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 5, 5))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	ds, err := FromImage(filepath.Join(t.TempDir(), "t.lum"), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	var buf bytes.Buffer
	if err = WriteTIFF(ds, &buf); err != nil {
		t.Fatal(err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := img.(*image.Gray16)
	if !ok || !bytes.Equal(g.Pix, src.Pix) {
		t.Fatalf("%T", img)
	}
}

func TestWritePreview(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 32))
	ds, err := FromImage(filepath.Join(t.TempDir(), "p.lum"), src, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	var buf bytes.Buffer
	if err = WritePreview(ds, &buf, 16); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 16 || cfg.Height != 8 {
		t.Fatal(cfg.Width, cfg.Height)
	}
}
