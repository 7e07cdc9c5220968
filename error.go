package gdalum

import "errors"

var (
	ErrGdalDriverCreate   = errors.New("gdal driver create err")
	ErrGdalDriverOpen     = errors.New("gdal driver open err")
	ErrGdalBandIO         = errors.New("gdal band io err")
	ErrUnsupportedRaster  = errors.New("gdal raster data type not supported by lum")
	ErrEmptyRaster        = errors.New("gdal raster has no bands")
	ErrInvalidWKT         = errors.New("invalid WKT")
	ErrNoGeoTransform     = errors.New("dataset has no geotransform")
	ErrMissingJobArgument = errors.New("export job misses infile or outfile")
)
