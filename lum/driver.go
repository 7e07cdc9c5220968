package lum

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/utils"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const logTag = "LUMDriver:"

// 结构化的创建选项，零值表示使用默认值
type CreateOptions struct {
	NBits     int    `mapstructure:"nbits" yaml:"nbits,omitempty"`
	ByteOrder string `mapstructure:"byte_order" yaml:"byte_order,omitempty"`
}

// 转为 KEY=VALUE 选项列表
func (o CreateOptions) Strings() []string {
	m := make(map[string]string, 2)
	if o.NBits != 0 {
		m[OPT_NBITS] = strconv.Itoa(o.NBits)
	}
	if o.ByteOrder != "" {
		m[OPT_BYTE_ORDER] = o.ByteOrder
	}
	if len(m) == 0 {
		return nil
	}
	return utils.MapToNameValues(m)
}

// UInt16数据按满量程写入时使用：未指定NBITS则补上 NBITS=16
func FullDepthOptions(dt DataType, options []string) []string {
	if dt != UInt16 {
		return options
	}
	if _, ok := utils.FetchNameValue(options, OPT_NBITS); ok {
		return options
	}
	return append(options[:len(options):len(options)], OPT_NBITS+"="+strconv.Itoa(DEPTH_MAX))
}

// 文件头长度足够、持有文件句柄且标签可识别
func Identify(info *OpenInfo) bool {
	if info == nil || len(info.Header) < HEADER_SIZE || info.File == nil {
		return false
	}
	_, ok := MatchTag(info.Header[TAG_OFFSET:])
	return ok
}

func Open(info *OpenInfo) (ds *Dataset, err error) {
	if info == nil || info.File == nil {
		err = ErrNoFileHandle
		return
	}
	if !Identify(info) {
		err = ErrNotLUM
		return
	}
	header, err := ParseHeader(info.Header)
	if err != nil {
		return
	}
	d := newDataset()
	d.file = info.TakeFile()
	d.access = info.Access
	d.header = header
	d.description = info.Filename
	// 与C的int一致，宽高按有符号32位解释
	d.xSize = int(int32(header.Width))
	d.ySize = int(int32(header.Height))
	if d.xSize <= 0 || d.ySize <= 0 {
		log.Error(logTag+"invalid dimensions", zap.String("file", info.Filename), zap.Int("width", d.xSize), zap.Int("height", d.ySize))
		err = fmt.Errorf("%w: %d x %d", ErrInvalidDimensions, d.xSize, d.ySize)
		d.Close()
		return
	}
	dt := header.DataType()
	pixelSize := dt.Size()
	if d.xSize > MAX_INT32/pixelSize {
		log.Error(logTag+"int overflow occurred", zap.String("file", info.Filename), zap.Int("width", d.xSize), zap.Int("pixelSize", pixelSize))
		err = fmt.Errorf("%w: width %d, pixel size %d", ErrIntOverflow, d.xSize, pixelSize)
		d.Close()
		return
	}
	lineSize := int64(d.xSize * pixelSize)
	d.band = NewRawRasterBand(d, 1, d.file, HEADER_SIZE, int64(pixelSize), lineSize, dt, !header.NeedSwap())
	d.band.SetColorInterpretation(CIGrayIndex)
	// 不读取world文件，使用默认变换
	d.geoTransformValid = true
	log.Debug(logTag+"opened", zap.String("file", info.Filename), zap.Stringer("header", header), zap.Stringer("access", d.access))
	ds = d
	return
}

// 打开文件并以LUM格式解析
func OpenFile(filename string, access Access) (ds *Dataset, err error) {
	info, err := NewOpenInfo(filename, access)
	if err != nil {
		return
	}
	defer info.Close()
	return Open(info)
}

func parseCreateOptions(dt DataType, options []string) (tag string, err error) {
	depth := DEPTH_BYTE
	if dt == UInt16 {
		depth = DEPTH_UINT16
	}
	opts := utils.NameValuesToMap(options)
	if v, ok := opts[OPT_NBITS]; ok {
		n, e := strconv.Atoi(v)
		switch {
		case e != nil:
			err = fmt.Errorf("%w: %s=%s", ErrInvalidOption, OPT_NBITS, v)
			return
		case dt == Byte && n != DEPTH_BYTE:
			err = fmt.Errorf("%w: %s=%d for %s", ErrInvalidOption, OPT_NBITS, n, dt)
			return
		case dt == UInt16 && n <= DEPTH_BYTE:
			err = fmt.Errorf("%w: %s=%d for %s", ErrInvalidOption, OPT_NBITS, n, dt)
			return
		}
		depth = n
	}
	order := HostEndian()
	if v, ok := opts[OPT_BYTE_ORDER]; ok {
		switch strings.ToUpper(v) {
		case BYTE_ORDER_NATIVE:
		case BYTE_ORDER_MSB:
			order = BigEndian
		case BYTE_ORDER_LSB:
			order = LittleEndian
		default:
			err = fmt.Errorf("%w: %s=%s", ErrInvalidOption, OPT_BYTE_ORDER, v)
			return
		}
	}
	return NewTag(depth, order)
}

// 创建只含文件头的LUM文件，然后以更新模式重新打开
func Create(filename string, xSize, ySize, bands int, dt DataType, options []string) (ds *Dataset, err error) {
	if dt != Byte && dt != UInt16 {
		log.Error(logTag+"illegal data type", zap.Stringer("dataType", dt))
		err = fmt.Errorf("%w: (%s)", ErrUnsupportedDataType, dt)
		return
	}
	if bands != 1 {
		log.Error(logTag+"illegal number of bands", zap.Int("bands", bands))
		err = fmt.Errorf("%w: %d", ErrIllegalBandCount, bands)
		return
	}
	if !utils.HasExt(filename, FILE_EXT_LUM) {
		log.Warn(logTag+"extension for lum file should be .lum", zap.String("file", filename))
	}
	if xSize <= 0 || ySize <= 0 || xSize > MAX_INT32 || ySize > MAX_INT32 {
		err = fmt.Errorf("%w: %d x %d", ErrInvalidDimensions, xSize, ySize)
		return
	}
	if xSize > MAX_INT32/dt.Size() {
		err = fmt.Errorf("%w: width %d, pixel size %d", ErrIntOverflow, xSize, dt.Size())
		return
	}
	tag, err := parseCreateOptions(dt, options)
	if err != nil {
		return
	}
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, DEFAULT_PERMS)
	if err != nil {
		log.Error(logTag+"attempt to create file failed", zap.String("file", filename), zap.Error(err))
		err = fmt.Errorf("%w: create %s: %v", ErrOpenFailed, filename, err)
		return
	}
	header := Header{Width: uint32(xSize), Height: uint32(ySize), Tag: tag}
	_, err = f.Write(header.Encode())
	err = multierr.Append(err, f.Close())
	if err != nil {
		log.Error(logTag+"write header failed", zap.String("file", filename), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrWriteFailed, err)
		return
	}
	log.Info(logTag+"created", zap.String("file", filename), zap.Stringer("header", header))
	return OpenFile(filename, Update)
}
