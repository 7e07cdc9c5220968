package lum

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegisterLUM(t *testing.T) {
	m := NewDriverManager()
	RegisterLUM(m)
	RegisterLUM(m)
	if m.DriverCount() != 1 {
		t.Fatal(m.DriverCount())
	}
	d := m.GetDriverByName("lum")
	if d == nil {
		t.Fatal("driver not found")
	}
	if d.Description() != DRIVER_NAME || d.MetadataItem(DMD_EXTENSION) != "lum" ||
		d.MetadataItem(DMD_CREATIONDATATYPES) != "Byte UInt16" || d.MetadataItem(DCAP_RASTER) != "YES" {
		t.Fatal(d.metadata)
	}
	if m.RegisterDriver(NewDriver("LUM")) {
		t.Fatal("duplicate driver registered")
	}
	if !m.RegisterDriver(NewDriver("MEM")) || m.DriverCount() != 2 {
		t.Fatal(m.DriverCount())
	}
}

func TestDriverManagerOpenEx(t *testing.T) {
	m := NewDriverManager()
	// 不识别任何文件的驱动排在前面
	m.RegisterDriver(NewDriver("NULL"))
	RegisterLUM(m)
	dir := t.TempDir()
	fn := filepath.Join(dir, "g.lum")

	d := m.GetDriverByName(DRIVER_NAME)
	rds, err := d.Create(fn, 7, 6, 1, UInt16, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err = rds.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err = m.GetDriverByName("NULL").Create(fn, 1, 1, 1, Byte, nil); !errors.Is(err, ErrNoCreate) {
		t.Fatal(err)
	}
	if _, err = d.Create(fn, 7, 6, 2, UInt16, nil); !errors.Is(err, ErrIllegalBandCount) {
		t.Fatal(err)
	}

	rds, err = m.OpenEx(fn, ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	defer rds.Close()
	ds, ok := rds.(*Dataset)
	if !ok {
		t.Fatalf("%T", rds)
	}
	if ds.RasterXSize() != 7 || ds.RasterYSize() != 6 || ds.DataType() != UInt16 {
		t.Fatal(ds.Header())
	}

	other := filepath.Join(dir, "h.txt")
	if err = os.WriteFile(other, []byte("hello, world, not a raster"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err = m.OpenEx(other, ReadOnly); !errors.Is(err, ErrNoDriver) {
		t.Fatal(err)
	}
	if _, err = m.OpenEx(filepath.Join(dir, "missing.lum"), ReadOnly); !errors.Is(err, ErrOpenFailed) {
		t.Fatal(err)
	}
}

func TestOpenInfoClose(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "i.lum")
	if err := os.WriteFile(fn, rawHeader(1, 1, HostEndian().ByteOrder(), "08LI"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := NewOpenInfo(fn, ReadOnly)
	if err != nil {
		t.Fatal(err)
	}
	if len(info.Header) != HEADER_SIZE || !Identify(info) {
		t.Fatal(info.Header)
	}
	if err = info.Close(); err != nil {
		t.Fatal(err)
	}
	if info.File != nil || Identify(info) {
		t.Fatal("handle still held")
	}
	if err = info.Close(); err != nil {
		t.Fatal(err)
	}
}
