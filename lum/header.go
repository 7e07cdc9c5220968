package lum

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/wgdzlh/gdalum/utils"
)

// 12字节文件头：宽(uint32) + 高(uint32) + 4字符标签
type Header struct {
	Width  uint32
	Height uint32
	Tag    string // 规范化为大写
}

// 判断b是否为可识别的标签（大小写无关），返回规范化的标签
func MatchTag(b []byte) (tag string, ok bool) {
	if len(b) < TAG_SIZE {
		return
	}
	s := utils.B2S(b[:TAG_SIZE])
	for _, t := range recognizedTags {
		if utils.EqualFold(s, t) {
			return t, true
		}
	}
	return
}

// 由位深和字节序生成标签，如 "08LI"、"12BI"
func NewTag(depth int, e Endian) (tag string, err error) {
	if depth < DEPTH_MIN || depth > DEPTH_MAX {
		err = fmt.Errorf("%w: %s=%d", ErrInvalidOption, OPT_NBITS, depth)
		return
	}
	letters := TAG_LSB
	if e == BigEndian {
		letters = TAG_MSB
	}
	tag = fmt.Sprintf("%02d%s", depth, letters)
	return
}

// 解析文件头。宽高先按本机字节序读取，若标签声明的字节序与本机不同则翻转
func ParseHeader(b []byte) (h Header, err error) {
	if len(b) < HEADER_SIZE {
		err = ErrNotLUM
		return
	}
	tag, ok := MatchTag(b[TAG_OFFSET:])
	if !ok {
		err = ErrNotLUM
		return
	}
	h.Tag = tag
	host := HostEndian().ByteOrder()
	h.Width = host.Uint32(b[0:4])
	h.Height = host.Uint32(b[4:8])
	if h.NeedSwap() {
		h.Width = bits.ReverseBytes32(h.Width)
		h.Height = bits.ReverseBytes32(h.Height)
	}
	return
}

// 标签声明的字节序，FLOL 为小端
func (h Header) Endian() Endian {
	if strings.HasSuffix(h.Tag, TAG_MSB) {
		return BigEndian
	}
	return LittleEndian
}

// 文件字节序与本机不同时需要翻转
func (h Header) NeedSwap() bool {
	return h.Endian() != HostEndian()
}

// 标签中的位深，FLOL 返回0
func (h Header) Depth() int {
	if h.Tag == TAG_FLOAT {
		return 0
	}
	return utils.StrToInt(h.Tag[:2])
}

// "08" 对应 Byte，其余标签（含 FLOL）一律按 UInt16 处理
func (h Header) DataType() DataType {
	if strings.HasPrefix(h.Tag, "08") {
		return Byte
	}
	return UInt16
}

func (h Header) Encode() []byte {
	b := make([]byte, HEADER_SIZE)
	order := h.Endian().ByteOrder()
	order.PutUint32(b[0:4], h.Width)
	order.PutUint32(b[4:8], h.Height)
	copy(b[TAG_OFFSET:], h.Tag)
	return b
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%d %s", h.Width, h.Height, h.Tag)
}
