package lum

const (
	DRIVER_NAME      = "LUM"
	DRIVER_LONGNAME  = "LUM (.lum)"
	DRIVER_HELPTOPIC = "frmt_various.html#LUM"
	FILE_EXT_LUM     = "lum"

	HEADER_SIZE      = 12
	TAG_OFFSET       = 8
	TAG_SIZE         = 4
	OPEN_HEADER_SIZE = 1024 // 打开文件时预读的字节数

	TAG_MSB   = "BI"
	TAG_LSB   = "LI"
	TAG_FLOAT = "FLOL"

	DEPTH_BYTE    = 8
	DEPTH_UINT16  = 12 // 创建UInt16文件时默认写入的位深
	DEPTH_MIN     = 8
	DEPTH_MAX     = 16
	MAX_INT32     = 1<<31 - 1
	DEFAULT_PERMS = 0o644

	// 创建选项
	OPT_NBITS      = "NBITS"
	OPT_BYTE_ORDER = "BYTE_ORDER"

	BYTE_ORDER_NATIVE = "NATIVE"
	BYTE_ORDER_MSB    = "MSB"
	BYTE_ORDER_LSB    = "LSB"

	// 驱动元数据项
	DCAP_RASTER           = "DCAP_RASTER"
	DCAP_VIRTUALIO        = "DCAP_VIRTUALIO"
	DMD_LONGNAME          = "DMD_LONGNAME"
	DMD_HELPTOPIC         = "DMD_HELPTOPIC"
	DMD_EXTENSION         = "DMD_EXTENSION"
	DMD_CREATIONDATATYPES = "DMD_CREATIONDATATYPES"
)

// 可识别的19种标签
var recognizedTags = [...]string{
	"08BI", "09BI", "10BI", "11BI", "12BI", "13BI", "14BI", "15BI", "16BI",
	"08LI", "09LI", "10LI", "11LI", "12LI", "13LI", "14LI", "15LI", "16LI",
	TAG_FLOAT,
}
