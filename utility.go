package gdalum

import (
	"fmt"
	"math"

	"github.com/wgdzlh/gdalum/lum"
)

func PointsToWkt(lon1, lon2, lat1, lat2 float64) string {
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[1]f %[4]f, %[2]f %[4]f, %[2]f %[3]f, %[1]f %[3]f))", lon1, lon2, lat1, lat2)
}

func SpanToWkt(span [4]float64) string {
	return PointsToWkt(span[0], span[1], span[2], span[3])
}

// 按仿射变换计算栅格四角的外包范围 [minX, maxX, minY, maxY]
func GeoTransformSpan(gt lum.GeoTransform, xSize, ySize int) (span [4]float64) {
	span = [4]float64{math.Inf(1), math.Inf(-1), math.Inf(1), math.Inf(-1)}
	for _, c := range [4][2]float64{{0, 0}, {float64(xSize), 0}, {0, float64(ySize)}, {float64(xSize), float64(ySize)}} {
		x, y := gt.Apply(c[0], c[1])
		span[0] = math.Min(span[0], x)
		span[1] = math.Max(span[1], x)
		span[2] = math.Min(span[2], y)
		span[3] = math.Max(span[3], y)
	}
	return
}

func DatasetSpan(ds Georeferenced) (span [4]float64, err error) {
	gt, err := ds.GeoTransform()
	if err != nil {
		err = ErrNoGeoTransform
		return
	}
	span = GeoTransformSpan(gt, ds.RasterXSize(), ds.RasterYSize())
	return
}
