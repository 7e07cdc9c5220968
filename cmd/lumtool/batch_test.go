package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wgdzlh/gdalum"
	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"

	"go.uber.org/zap"
)

func init() {
	log.SetLogger(zap.NewNop())
}

const jobsYaml = `
creates:
  - file: %[1]s/a.lum
    width: 8
    height: "4"
    type: uint16
    calc: "x * 100"
    options:
      nbits: 14
      byte_order: MSB
  - file: %[1]s/b.lum
    width: 2
    height: 2
exports:
  - infile: %[1]s/a.lum
    outfile: %[1]s/a.tif
    srid: 4326
    options: [COMPRESS=LZW, TILED=YES]
`

func TestParseBatch(t *testing.T) {
	b, err := parseBatch([]byte(fmt.Sprintf(jobsYaml, "/tmp")))
	if err != nil {
		t.Fatal(err)
	}
	if len(b.creates) != 2 || len(b.exports) != 1 {
		t.Fatal(b)
	}
	c := b.creates[0]
	if c.Height != 4 || c.Type != "uint16" || c.Options.NBits != 14 || c.Options.ByteOrder != "MSB" || c.Calc != "x * 100" {
		t.Fatalf("%+v", c)
	}
	if b.creates[1].Type != "Byte" {
		t.Fatal(b.creates[1].Type)
	}
	e := b.exports[0]
	if e.Srid != 4326 || len(e.Options) != 2 || e.Options[1] != "TILED=YES" || e.Driver != "" {
		t.Fatalf("%+v", e)
	}

	if _, err = parseBatch([]byte("creates:\n  - file: x.lum\n    depth: 3\n")); err == nil {
		t.Fatal("unknown key accepted")
	}
	if _, err = parseBatch([]byte("jobs: []\n")); err == nil {
		t.Fatal("unknown top level key accepted")
	}
}

func TestRunBatchJobs(t *testing.T) {
	dir := t.TempDir()
	b, err := parseBatch([]byte(fmt.Sprintf(jobsYaml, filepath.ToSlash(dir))))
	if err != nil {
		t.Fatal(err)
	}
	b.creates = append(b.creates, createJob{File: filepath.Join(dir, "bad.lum"), Width: 1, Height: 1, Type: "Float32"})
	m := lum.NewDriverManager()
	lum.RegisterLUM(m)
	var exported []string
	boom := errors.New("boom")
	err = runBatchJobs(m, b, func(job gdalum.ExportJob) error {
		exported = append(exported, job.Outfile)
		return boom
	})
	if !errors.Is(err, lum.ErrUnsupportedDataType) || !errors.Is(err, boom) {
		t.Fatal(err)
	}
	if len(exported) != 1 || !strings.HasSuffix(exported[0], "a.tif") {
		t.Fatal(exported)
	}

	ds, err := lum.OpenFile(filepath.Join(dir, "a.lum"), lum.ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	if ds.Tag() != "14BI" || ds.RasterXSize() != 8 || ds.RasterYSize() != 4 {
		t.Fatal(ds.Header())
	}
	band, _ := ds.RasterBand(1)
	row := make([]uint16, 8)
	if err = band.IO(lum.Read, 0, 3, 8, 1, row); err != nil {
		t.Fatal(err)
	}
	if row[0] != 0 || row[7] != 700 {
		t.Fatal(row)
	}
}
