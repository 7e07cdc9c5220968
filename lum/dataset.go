package lum

import (
	"fmt"

	"github.com/wgdzlh/gdalum/log"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// LUM数据集，独占一个文件句柄直到Close
type Dataset struct {
	description       string
	access            Access
	file              File
	header            Header
	xSize             int
	ySize             int
	band              *RawRasterBand
	geoTransform      GeoTransform
	geoTransformValid bool
	closed            bool
	logTag            string
}

func newDataset() *Dataset {
	return &Dataset{
		geoTransform: DefaultGeoTransform,
		logTag:       "LUMDataset:",
	}
}

func (ds *Dataset) Description() string {
	return ds.description
}

func (ds *Dataset) SetDescription(desc string) {
	ds.description = desc
}

func (ds *Dataset) Access() Access {
	return ds.access
}

func (ds *Dataset) Header() Header {
	return ds.header
}

func (ds *Dataset) Tag() string {
	return ds.header.Tag
}

func (ds *Dataset) RasterXSize() int {
	return ds.xSize
}

func (ds *Dataset) RasterYSize() int {
	return ds.ySize
}

func (ds *Dataset) RasterCount() int {
	if ds.band == nil {
		return 0
	}
	return 1
}

func (ds *Dataset) DataType() DataType {
	if ds.band == nil {
		return Unknown
	}
	return ds.band.dataType
}

// 波段序号从1开始，LUM只有一个波段
func (ds *Dataset) RasterBand(i int) (band *RawRasterBand, err error) {
	if ds.closed {
		err = ErrClosed
		return
	}
	if i != 1 || ds.band == nil {
		err = fmt.Errorf("%w: %d", ErrNoSuchBand, i)
		return
	}
	band = ds.band
	return
}

// 仅当打开时标记为有效才返回仿射变换参数
func (ds *Dataset) GeoTransform() (gt GeoTransform, err error) {
	if !ds.geoTransformValid {
		err = ErrNoGeoTransform
		return
	}
	gt = ds.geoTransform
	return
}

// 仅保存在内存中，不写入文件
func (ds *Dataset) SetGeoTransform(gt GeoTransform) {
	ds.geoTransform = gt
	ds.geoTransformValid = true
}

func (ds *Dataset) Closed() bool {
	return ds.closed
}

func (ds *Dataset) FlushCache() (err error) {
	if ds.closed {
		return ErrClosed
	}
	if ds.band != nil {
		if err = ds.band.Flush(); err != nil {
			return
		}
	}
	if ds.access == Update {
		if s, ok := ds.file.(syncer); ok {
			err = s.Sync()
		}
	}
	return
}

// 刷新并释放文件句柄，只生效一次；关闭出错时句柄仍被释放
func (ds *Dataset) Close() (err error) {
	if ds.closed {
		return
	}
	if ds.file != nil {
		err = ds.FlushCache()
		if e := ds.file.Close(); e != nil {
			log.Error(ds.logTag+"I/O error", zap.String("file", ds.description), zap.Error(e))
			err = multierr.Append(err, e)
		}
	}
	if ds.band != nil {
		ds.band.release()
	}
	ds.file = nil
	ds.closed = true
	return
}
