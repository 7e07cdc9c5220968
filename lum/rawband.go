package lum

import (
	"errors"
	"fmt"
	"io"
)

// 通用原始栅格波段：按偏移/步长直接读写文件中的像元，
// nativeOrder为false时读写时逐像元翻转字节序
type RawRasterBand struct {
	ds          *Dataset
	band        int
	file        File
	imgOffset   int64
	pixelOffset int64
	lineOffset  int64
	dataType    DataType
	nativeOrder bool
	xSize       int
	ySize       int
	colorInterp ColorInterp
	lineBuf     []byte
}

func NewRawRasterBand(ds *Dataset, band int, file File, imgOffset, pixelOffset, lineOffset int64,
	dt DataType, nativeOrder bool) *RawRasterBand {
	return &RawRasterBand{
		ds:          ds,
		band:        band,
		file:        file,
		imgOffset:   imgOffset,
		pixelOffset: pixelOffset,
		lineOffset:  lineOffset,
		dataType:    dt,
		nativeOrder: nativeOrder,
		xSize:       ds.xSize,
		ySize:       ds.ySize,
	}
}

func (b *RawRasterBand) Band() int {
	return b.band
}

func (b *RawRasterBand) DataType() DataType {
	return b.dataType
}

func (b *RawRasterBand) XSize() int {
	return b.xSize
}

func (b *RawRasterBand) YSize() int {
	return b.ySize
}

func (b *RawRasterBand) NativeOrder() bool {
	return b.nativeOrder
}

func (b *RawRasterBand) ColorInterpretation() ColorInterp {
	return b.colorInterp
}

func (b *RawRasterBand) SetColorInterpretation(ci ColorInterp) {
	b.colorInterp = ci
}

// 行字节数（像元按本机字节序紧密排列）
func (b *RawRasterBand) LineSize() int {
	return b.xSize * b.dataType.Size()
}

// 文件中一行所跨越的字节数
func (b *RawRasterBand) lineSpan() int {
	return int(int64(b.xSize-1)*b.pixelOffset) + b.dataType.Size()
}

func (b *RawRasterBand) lineStart(y int) int64 {
	return b.imgOffset + int64(y)*b.lineOffset
}

func (b *RawRasterBand) check(y, lines int, buf []byte) (err error) {
	if b.file == nil {
		return ErrClosed
	}
	if y < 0 || lines < 0 || y+lines > b.ySize {
		return fmt.Errorf("%w: lines %d..%d of %d", ErrWindow, y, y+lines, b.ySize)
	}
	if len(buf) < lines*b.LineSize() {
		return fmt.Errorf("%w: %d < %d", ErrBufferSize, len(buf), lines*b.LineSize())
	}
	return
}

func (b *RawRasterBand) span() []byte {
	n := b.lineSpan()
	if cap(b.lineBuf) < n {
		b.lineBuf = make([]byte, n)
	}
	return b.lineBuf[:n]
}

// 读取文件，超出文件末尾的部分补0（新建文件只有文件头）
func (b *RawRasterBand) readAt(p []byte, off int64) (err error) {
	n, err := b.file.ReadAt(p, off)
	if errors.Is(err, io.EOF) {
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		err = nil
	}
	return
}

// 读取第y行到buf，像元为本机字节序
func (b *RawRasterBand) ReadLine(y int, buf []byte) (err error) {
	if err = b.check(y, 1, buf); err != nil {
		return
	}
	return b.readLine(y, buf[:b.LineSize()])
}

func (b *RawRasterBand) readLine(y int, dst []byte) (err error) {
	sz := b.dataType.Size()
	if b.pixelOffset == int64(sz) {
		if err = b.readAt(dst, b.lineStart(y)); err != nil {
			return
		}
	} else {
		src := b.span()
		if err = b.readAt(src, b.lineStart(y)); err != nil {
			return
		}
		for i := 0; i < b.xSize; i++ {
			copy(dst[i*sz:(i+1)*sz], src[int64(i)*b.pixelOffset:])
		}
	}
	if !b.nativeOrder {
		swapWords(dst, sz)
	}
	return
}

// 将buf（本机字节序）写入第y行
func (b *RawRasterBand) WriteLine(y int, buf []byte) (err error) {
	if err = b.checkWritable(); err != nil {
		return
	}
	if err = b.check(y, 1, buf); err != nil {
		return
	}
	return b.writeLine(y, buf[:b.LineSize()])
}

func (b *RawRasterBand) writeLine(y int, src []byte) (err error) {
	sz := b.dataType.Size()
	out := b.span()
	if b.pixelOffset == int64(sz) {
		copy(out, src)
	} else {
		// 交错存储时保留行内其它字节
		if err = b.readAt(out, b.lineStart(y)); err != nil {
			return
		}
		for i := 0; i < b.xSize; i++ {
			copy(out[int64(i)*b.pixelOffset:], src[i*sz:(i+1)*sz])
		}
	}
	if !b.nativeOrder {
		if b.pixelOffset == int64(sz) {
			swapWords(out, sz)
		} else {
			for i := 0; i < b.xSize; i++ {
				off := int64(i) * b.pixelOffset
				swapWords(out[off:off+int64(sz)], sz)
			}
		}
	}
	_, err = b.file.WriteAt(out, b.lineStart(y))
	return
}

// 读取从yOff开始的连续lines行
func (b *RawRasterBand) ReadBlock(yOff, lines int, buf []byte) (err error) {
	if err = b.check(yOff, lines, buf); err != nil {
		return
	}
	ls := b.LineSize()
	for i := 0; i < lines; i++ {
		if err = b.readLine(yOff+i, buf[i*ls:(i+1)*ls]); err != nil {
			return
		}
	}
	return
}

func (b *RawRasterBand) WriteBlock(yOff, lines int, buf []byte) (err error) {
	if err = b.checkWritable(); err != nil {
		return
	}
	if err = b.check(yOff, lines, buf); err != nil {
		return
	}
	ls := b.LineSize()
	for i := 0; i < lines; i++ {
		if err = b.writeLine(yOff+i, buf[i*ls:(i+1)*ls]); err != nil {
			return
		}
	}
	return
}

func (b *RawRasterBand) checkWritable() error {
	if b.ds != nil && b.ds.access != Update {
		return ErrReadOnly
	}
	return nil
}

// 按窗口读写像元，data须为与数据类型对应的 []uint8 或 []uint16，长度不小于xSize*ySize
func (b *RawRasterBand) IO(flag RWFlag, xOff, yOff, xSize, ySize int, data interface{}) (err error) {
	if b.file == nil {
		return ErrClosed
	}
	if flag == Write {
		if err = b.checkWritable(); err != nil {
			return
		}
	}
	if xOff < 0 || yOff < 0 || xSize <= 0 || ySize <= 0 || xOff+xSize > b.xSize || yOff+ySize > b.ySize {
		return fmt.Errorf("%w: (%d,%d) %dx%d in %dx%d", ErrWindow, xOff, yOff, xSize, ySize, b.xSize, b.ySize)
	}
	var (
		u8  []uint8
		u16 []uint16
		n   int
	)
	switch v := data.(type) {
	case []uint8:
		if b.dataType != Byte {
			return fmt.Errorf("%w: []uint8 for %s", ErrBufferType, b.dataType)
		}
		u8, n = v, len(v)
	case []uint16:
		if b.dataType != UInt16 {
			return fmt.Errorf("%w: []uint16 for %s", ErrBufferType, b.dataType)
		}
		u16, n = v, len(v)
	default:
		return fmt.Errorf("%w: %T", ErrBufferType, data)
	}
	if n < xSize*ySize {
		return fmt.Errorf("%w: %d < %d", ErrBufferSize, n, xSize*ySize)
	}
	var (
		sz    = b.dataType.Size()
		line  = make([]byte, b.LineSize())
		host  = HostEndian().ByteOrder()
		whole = xOff == 0 && xSize == b.xSize
	)
	for j := 0; j < ySize; j++ {
		y := yOff + j
		row := j * xSize
		if flag == Read || !whole {
			if err = b.readLine(y, line); err != nil {
				return
			}
		}
		for i := 0; i < xSize; i++ {
			p := line[(xOff+i)*sz:]
			if flag == Read {
				if u8 != nil {
					u8[row+i] = p[0]
				} else {
					u16[row+i] = host.Uint16(p)
				}
			} else {
				if u8 != nil {
					p[0] = u8[row+i]
				} else {
					host.PutUint16(p, u16[row+i])
				}
			}
		}
		if flag == Write {
			if err = b.writeLine(y, line); err != nil {
				return
			}
		}
	}
	return
}

// 波段不做缓存，直接写穿到文件
func (b *RawRasterBand) Flush() error {
	if b.file == nil {
		return ErrClosed
	}
	return nil
}

func (b *RawRasterBand) release() {
	b.file = nil
	b.lineBuf = nil
}

func swapWords(p []byte, size int) {
	switch size {
	case 2:
		for i := 0; i+1 < len(p); i += 2 {
			p[i], p[i+1] = p[i+1], p[i]
		}
	case 4:
		for i := 0; i+3 < len(p); i += 4 {
			p[i], p[i+1], p[i+2], p[i+3] = p[i+3], p[i+2], p[i+1], p[i]
		}
	case 8:
		for i := 0; i+7 < len(p); i += 8 {
			for k := 0; k < 4; k++ {
				p[i+k], p[i+7-k] = p[i+7-k], p[i+k]
			}
		}
	}
}
