package gdalum

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"
	"github.com/wgdzlh/gdalum/utils"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

func toGdalType(dt lum.DataType) gdal.DataType {
	if dt == lum.UInt16 {
		return gdal.UInt16
	}
	return gdal.Byte
}

// 读取整个波段到对应类型的切片
func readBand(ds *lum.Dataset) (buf interface{}, err error) {
	band, err := ds.RasterBand(1)
	if err != nil {
		return
	}
	w, h := ds.RasterXSize(), ds.RasterYSize()
	if band.DataType() == lum.UInt16 {
		buf = make([]uint16, w*h)
	} else {
		buf = make([]uint8, w*h)
	}
	err = band.IO(lum.Read, 0, 0, w, h, buf)
	return
}

// 将LUM文件转换为GDAL支持的格式（默认GTiff），srid>0时写入坐标系。
// 先写临时文件，成功后改名为目标文件
func (g *GdalToolbox) ExportRaster(job ExportJob) (err error) {
	if job.Infile == "" || job.Outfile == "" {
		err = ErrMissingJobArgument
		return
	}
	driverName := job.Driver
	if driverName == "" {
		driverName = DEFAULT_DRIVER
	}
	ds, err := lum.OpenFile(job.Infile, lum.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open lum failed", zap.String("file", job.Infile), zap.Error(err))
		return
	}
	defer ds.Close()
	buf, err := readBand(ds)
	if err != nil {
		log.Error(g.logTag+"read lum band failed", zap.String("file", job.Infile), zap.Error(err))
		return
	}
	var projWkt string
	if job.Srid > 0 {
		if projWkt, err = g.SridToWkt(job.Srid); err != nil {
			return
		}
	}
	driver, err := gdal.GetDriverByName(driverName)
	if err != nil {
		log.Error(g.logTag+"gdal driver not found", zap.String("driver", driverName), zap.Error(err))
		err = fmt.Errorf("%w: %s", ErrGdalDriverCreate, driverName)
		return
	}
	w, h := ds.RasterXSize(), ds.RasterYSize()
	log.Info(g.logTag+"export lum", zap.String("in", job.Infile), zap.String("out", job.Outfile), zap.String("driver", driverName),
		zap.Int("width", w), zap.Int("height", h), zap.Stringer("dataType", ds.DataType()))
	write := func(tmp string) (e error) {
		ods := driver.Create(tmp, w, h, 1, toGdalType(ds.DataType()), job.Options)
		if ods == (gdal.Dataset{}) {
			log.Error(g.logTag+"gdal create failed", zap.String("driver", driverName), zap.String("file", tmp), zap.Strings("options", job.Options))
			return fmt.Errorf("%w: %s", ErrGdalDriverCreate, driverName)
		}
		defer ods.Close()
		if gt, e := ds.GeoTransform(); e == nil {
			if e = ods.SetGeoTransform(gt); e != nil {
				return e
			}
		}
		if projWkt != "" {
			if e = ods.SetProjection(projWkt); e != nil {
				return
			}
		}
		band := ods.RasterBand(1)
		if e = band.SetColorInterp(gdal.CI_GrayIndex); e != nil {
			log.Warn(g.logTag+"set color interpretation failed", zap.Error(e))
		}
		if e = band.IO(gdal.Write, 0, 0, w, h, buf, w, h, 0, 0); e != nil {
			log.Error(g.logTag+"write gdal band failed", zap.Error(e))
			e = fmt.Errorf("%w: %v", ErrGdalBandIO, e)
		}
		return
	}
	if g.tmpDir != "" {
		tmp := utils.GetUniqTmpPath(g.tmpDir, filepath.Ext(job.Outfile))
		if err = write(tmp); err != nil {
			os.Remove(tmp)
			return
		}
		err = utils.MoveFile(tmp, job.Outfile)
		return
	}
	err = utils.WriteFileAtomic(job.Outfile, write)
	return
}

// 读取GDAL支持的栅格的第一个波段（Byte/UInt16），写入新的LUM文件，UInt16未指定NBITS时按16位写入。
// 源数据的仿射变换保留在返回的数据集中（不落盘）
func (g *GdalToolbox) ImportRaster(src, dst string, options []string) (ds *lum.Dataset, err error) {
	sds, err := gdal.Open(src, gdal.ReadOnly)
	if err != nil {
		log.Error(g.logTag+"open raster failed", zap.String("file", src), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalDriverOpen, err)
		return
	}
	defer sds.Close()
	if sds.RasterCount() < 1 {
		err = ErrEmptyRaster
		return
	}
	var (
		band = sds.RasterBand(1)
		w    = sds.RasterXSize()
		h    = sds.RasterYSize()
		dt   lum.DataType
		buf  interface{}
	)
	switch band.RasterDataType() {
	case gdal.Byte:
		dt, buf = lum.Byte, make([]uint8, w*h)
	case gdal.UInt16:
		dt, buf = lum.UInt16, make([]uint16, w*h)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedRaster, band.RasterDataType().Name())
		return
	}
	if sds.RasterCount() > 1 {
		log.Warn(g.logTag+"only the first band is imported", zap.String("file", src), zap.Int("bands", sds.RasterCount()))
	}
	if err = band.IO(gdal.Read, 0, 0, w, h, buf, w, h, 0, 0); err != nil {
		log.Error(g.logTag+"read gdal band failed", zap.String("file", src), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrGdalBandIO, err)
		return
	}
	if ds, err = lum.Create(dst, w, h, 1, dt, lum.FullDepthOptions(dt, options)); err != nil {
		return
	}
	lband, _ := ds.RasterBand(1)
	if err = lband.IO(lum.Write, 0, 0, w, h, buf); err != nil {
		ds.Close()
		ds = nil
		return
	}
	ds.SetGeoTransform(lum.GeoTransform(sds.GeoTransform()))
	log.Info(g.logTag+"imported raster", zap.String("src", src), zap.String("dst", dst), zap.Stringer("dataType", dt))
	return
}
