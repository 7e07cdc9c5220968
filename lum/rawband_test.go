package lum

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestRawBandSwappedUInt16(t *testing.T) {
	data := rawHeader(3, 2, binary.BigEndian, "12BI")
	for _, v := range []uint16{0x0102, 0x0304, 0x0506, 0x0708, 0x090a, 0x0b0c} {
		data = binary.BigEndian.AppendUint16(data, v)
	}
	info, f := memInfo(data, Update)
	ds, err := Open(info)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	band, _ := ds.RasterBand(1)
	got := make([]uint16, 6)
	if err = band.IO(Read, 0, 0, 3, 2, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 0x0102 || got[5] != 0x0b0c {
		t.Fatalf("%x", got)
	}
	// 行内部分写入不影响相邻像元
	if err = band.IO(Write, 1, 1, 1, 1, []uint16{0xbeef}); err != nil {
		t.Fatal(err)
	}
	off := HEADER_SIZE + 3*2 + 2
	if binary.BigEndian.Uint16(f.data[off:]) != 0xbeef || binary.BigEndian.Uint16(f.data[off-2:]) != 0x0708 ||
		binary.BigEndian.Uint16(f.data[off+2:]) != 0x0b0c {
		t.Fatalf("% x", f.data[HEADER_SIZE:])
	}

	line := make([]byte, band.LineSize())
	if err = band.ReadLine(1, line); err != nil {
		t.Fatal(err)
	}
	host := HostEndian().ByteOrder()
	if host.Uint16(line[2:]) != 0xbeef {
		t.Fatalf("% x", line)
	}
}

func TestRawBandBlocks(t *testing.T) {
	info, f := memInfo(rawHeader(2, 3, binary.LittleEndian, "08LI"), Update)
	ds, err := Open(info)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	band, _ := ds.RasterBand(1)
	// 新文件没有像元数据，读出全0
	buf := []byte{9, 9, 9, 9, 9, 9}
	if err = band.ReadBlock(0, 3, buf); err != nil {
		t.Fatal(err)
	}
	for _, v := range buf {
		if v != 0 {
			t.Fatal(buf)
		}
	}
	if err = band.WriteBlock(1, 2, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if len(f.data) != HEADER_SIZE+6 || f.data[HEADER_SIZE+2] != 1 || f.data[HEADER_SIZE+5] != 4 {
		t.Fatal(f.data)
	}
	if err = band.WriteLine(0, []byte{7, 8}); err != nil {
		t.Fatal(err)
	}
	if err = band.ReadLine(0, buf); err != nil || buf[0] != 7 || buf[1] != 8 {
		t.Fatal(buf, err)
	}
}

func TestRawBandErrors(t *testing.T) {
	info, _ := memInfo(rawHeader(4, 4, binary.LittleEndian, "08LI"), ReadOnly)
	ds, err := Open(info)
	if err != nil {
		t.Fatal(err)
	}
	defer ds.Close()
	band, _ := ds.RasterBand(1)
	windows := [][4]int{{-1, 0, 1, 1}, {0, 0, 5, 1}, {3, 3, 2, 1}, {0, 0, 0, 1}}
	for _, w := range windows {
		if err = band.IO(Read, w[0], w[1], w[2], w[3], make([]uint8, 16)); !errors.Is(err, ErrWindow) {
			t.Errorf("%v: %v", w, err)
		}
	}
	if err = band.IO(Read, 0, 0, 4, 4, make([]uint16, 16)); !errors.Is(err, ErrBufferType) {
		t.Fatal(err)
	}
	if err = band.IO(Read, 0, 0, 4, 4, make([]float32, 16)); !errors.Is(err, ErrBufferType) {
		t.Fatal(err)
	}
	if err = band.IO(Read, 0, 0, 4, 4, make([]uint8, 15)); !errors.Is(err, ErrBufferSize) {
		t.Fatal(err)
	}
	if err = band.ReadLine(4, make([]byte, 4)); !errors.Is(err, ErrWindow) {
		t.Fatal(err)
	}
	if err = band.ReadLine(0, make([]byte, 3)); !errors.Is(err, ErrBufferSize) {
		t.Fatal(err)
	}
	if err = band.WriteLine(0, make([]byte, 4)); !errors.Is(err, ErrReadOnly) {
		t.Fatal(err)
	}
	if _, err = ds.RasterBand(2); !errors.Is(err, ErrNoSuchBand) {
		t.Fatal(err)
	}
}

func TestRawBandPixelInterleaved(t *testing.T) {
	// 像元步长4字节，每个像元后跟2字节其它数据
	f := &memFile{data: []byte{
		0x01, 0x00, 0xaa, 0xaa, 0x02, 0x00, 0xbb, 0xbb,
		0x03, 0x00, 0xcc, 0xcc, 0x04, 0x00, 0xdd, 0xdd,
	}}
	ds := &Dataset{xSize: 2, ySize: 2, access: Update, file: f}
	band := NewRawRasterBand(ds, 1, f, 0, 4, 8, UInt16, HostEndian() == LittleEndian)
	got := make([]uint16, 4)
	if err := band.IO(Read, 0, 0, 2, 2, got); err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 4 {
		t.Fatal(got)
	}
	if err := band.IO(Write, 1, 1, 1, 1, []uint16{0x0605}); err != nil {
		t.Fatal(err)
	}
	if f.data[12] != 0x05 || f.data[13] != 0x06 || f.data[14] != 0xdd || f.data[10] != 0xcc || f.data[8] != 0x03 {
		t.Fatalf("% x", f.data)
	}
}

func TestSwapWords(t *testing.T) {
	p := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	swapWords(p, 2)
	if p[0] != 2 || p[1] != 1 || p[7] != 7 {
		t.Fatal(p)
	}
	swapWords(p, 4)
	if p[0] != 3 || p[3] != 2 {
		t.Fatal(p)
	}
	swapWords(p, 8)
	swapWords(p, 8)
	if p[0] != 3 {
		t.Fatal(p)
	}
}
