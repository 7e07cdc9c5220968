// Package imaging converts LUM datasets to and from the standard image types,
// and encodes them as TIFF or PNG previews.
package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const logTag = "Imaging:"

var ErrEmptyImage = errors.New("imaging: empty image")

// 读取整个波段，Byte返回*image.Gray，UInt16返回*image.Gray16
func ToImage(ds *lum.Dataset) (img image.Image, err error) {
	band, err := ds.RasterBand(1)
	if err != nil {
		return
	}
	w, h := ds.RasterXSize(), ds.RasterYSize()
	switch band.DataType() {
	case lum.Byte:
		g := image.NewGray(image.Rect(0, 0, w, h))
		if err = band.IO(lum.Read, 0, 0, w, h, g.Pix); err != nil {
			return
		}
		img = g
	case lum.UInt16:
		buf := make([]uint16, w*h)
		if err = band.IO(lum.Read, 0, 0, w, h, buf); err != nil {
			return
		}
		g := image.NewGray16(image.Rect(0, 0, w, h))
		for i, v := range buf {
			g.Pix[2*i] = uint8(v >> 8)
			g.Pix[2*i+1] = uint8(v)
		}
		img = g
	default:
		err = fmt.Errorf("%w: %s", lum.ErrUnsupportedDataType, band.DataType())
	}
	return
}

// 由图像创建LUM文件：Gray16写为UInt16，其余转为灰度后写为Byte
func FromImage(filename string, img image.Image, options []string) (ds *lum.Dataset, err error) {
	b := img.Bounds()
	if b.Empty() {
		err = ErrEmptyImage
		return
	}
	w, h := b.Dx(), b.Dy()
	if g16, ok := img.(*image.Gray16); ok {
		if ds, err = lum.Create(filename, w, h, 1, lum.UInt16, lum.FullDepthOptions(lum.UInt16, options)); err != nil {
			return
		}
		buf := make([]uint16, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				buf[y*w+x] = g16.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		ds, err = writeAll(ds, buf)
		return
	}
	g, ok := img.(*image.Gray)
	if !ok || g.Stride != w || b.Min != (image.Point{}) {
		g = image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	}
	if ds, err = lum.Create(filename, w, h, 1, lum.Byte, options); err != nil {
		return
	}
	ds, err = writeAll(ds, g.Pix)
	return
}

// 写入整个波段，失败时关闭数据集并返回nil
func writeAll(ds *lum.Dataset, buf interface{}) (ret *lum.Dataset, err error) {
	band, err := ds.RasterBand(1)
	if err == nil {
		err = band.IO(lum.Write, 0, 0, ds.RasterXSize(), ds.RasterYSize(), buf)
	}
	if err != nil {
		log.Error(logTag+"write pixels failed", zap.String("file", ds.Description()), zap.Error(err))
		ds.Close()
		return
	}
	ret = ds
	return
}

// 按标签位深把UInt16数据拉伸到16位满量程，便于显示；超出位深的值饱和为0xFFFF
func Stretch(img *image.Gray16, depth int) {
	if depth <= 0 || depth >= 16 {
		return
	}
	shift := uint(16 - depth)
	top := uint16(1)<<uint(depth) - 1
	for i := 0; i+1 < len(img.Pix); i += 2 {
		v := uint16(img.Pix[i])<<8 | uint16(img.Pix[i+1])
		if v > top {
			v = 0xFFFF
		} else {
			v <<= shift
		}
		img.Pix[i], img.Pix[i+1] = uint8(v>>8), uint8(v)
	}
}

func WriteTIFF(ds *lum.Dataset, w io.Writer) (err error) {
	img, err := ToImage(ds)
	if err != nil {
		return
	}
	err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	return
}

// 生成PNG缩略图，长边不超过maxSize；maxSize为0时保持原尺寸
func WritePreview(ds *lum.Dataset, w io.Writer, maxSize uint) (err error) {
	img, err := ToImage(ds)
	if err != nil {
		return
	}
	if g16, ok := img.(*image.Gray16); ok {
		Stretch(g16, ds.Header().Depth())
	}
	if maxSize > 0 {
		img = resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
	}
	log.Debug(logTag+"write preview", zap.String("file", ds.Description()), zap.Stringer("size", img.Bounds().Size()))
	err = png.Encode(w, img)
	return
}
