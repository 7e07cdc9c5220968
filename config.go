package gdalum

const (
	DEFAULT_DRIVER = "GTiff"
	GTIFF_OPTIONS  = "COMPRESS=LZW"
	UNIVERSAL_SRID = 4326
	WEB_SRID       = 3857
)
