package lum

import (
	"encoding/binary"
	"unsafe"

	"github.com/wgdzlh/gdalum/utils"
)

// 像元数据类型
type DataType int

const (
	Unknown DataType = iota
	Byte
	UInt16
	Int16
	UInt32
	Int32
	Float32
	Float64
)

var dataTypeNames = [...]string{"Unknown", "Byte", "UInt16", "Int16", "UInt32", "Int32", "Float32", "Float64"}

var dataTypeSizes = [...]int{0, 1, 2, 2, 4, 4, 4, 8}

func (dt DataType) String() string {
	if dt < 0 || int(dt) >= len(dataTypeNames) {
		return dataTypeNames[Unknown]
	}
	return dataTypeNames[dt]
}

// 单个像元的字节数
func (dt DataType) Size() int {
	if dt < 0 || int(dt) >= len(dataTypeSizes) {
		return 0
	}
	return dataTypeSizes[dt]
}

// 按名称查找数据类型，大小写无关；未知名称返回Unknown
func DataTypeByName(name string) DataType {
	for i, n := range dataTypeNames {
		if utils.EqualFold(n, name) {
			return DataType(i)
		}
	}
	return Unknown
}

// 波段颜色解释
type ColorInterp int

const (
	CIUndefined ColorInterp = iota
	CIGrayIndex
	CIPaletteIndex
)

func (ci ColorInterp) String() string {
	switch ci {
	case CIGrayIndex:
		return "Gray"
	case CIPaletteIndex:
		return "Palette"
	}
	return "Undefined"
}

type Access int

const (
	ReadOnly Access = iota
	Update
)

func (a Access) String() string {
	if a == Update {
		return "Update"
	}
	return "ReadOnly"
}

type RWFlag int

const (
	Read RWFlag = iota
	Write
)

// 仿射变换六参数：
// Xgeo = gt[0] + pixel*gt[1] + line*gt[2]
// Ygeo = gt[3] + pixel*gt[4] + line*gt[5]
type GeoTransform [6]float64

var DefaultGeoTransform = GeoTransform{0, 1, 0, 0, 0, 1}

func (gt GeoTransform) Apply(pixel, line float64) (x, y float64) {
	x = gt[0] + pixel*gt[1] + line*gt[2]
	y = gt[3] + pixel*gt[4] + line*gt[5]
	return
}

// 字节序
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (e Endian) String() string {
	if e == BigEndian {
		return "MSB"
	}
	return "LSB"
}

var hostEndian = detectHostEndian()

// 运行时检测本机字节序
func detectHostEndian() Endian {
	var x uint16 = 1
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return LittleEndian
	}
	return BigEndian
}

func HostEndian() Endian {
	return hostEndian
}
