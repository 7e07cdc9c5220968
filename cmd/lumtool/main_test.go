package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wgdzlh/gdalum/lum"
)

func TestDefaultOutputPaths(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "scene.lum")
	ds, err := lum.Create(in, 4, 2, 1, lum.UInt16, nil)
	if err != nil {
		t.Fatal(err)
	}
	ds.Close()
	if err = runTIFF([]string{"-in", in}); err != nil {
		t.Fatal(err)
	}
	if err = runPreview([]string{"-in", in, "-max", "0"}); err != nil {
		t.Fatal(err)
	}
	for _, fn := range []string{"scene.tif", "scene.png"} {
		if fi, err := os.Stat(filepath.Join(dir, fn)); err != nil || fi.Size() == 0 {
			t.Fatal(fn, err)
		}
	}
	if err = runTIFF(nil); err != errMissingArgs {
		t.Fatal(err)
	}
}
