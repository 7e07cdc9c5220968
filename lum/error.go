package lum

import "errors"

var (
	ErrNotLUM              = errors.New("lum: not a lum file")
	ErrNoFileHandle        = errors.New("lum: no file handle")
	ErrInvalidDimensions   = errors.New("lum: invalid dimensions")
	ErrIntOverflow         = errors.New("lum: int overflow occurred")
	ErrUnsupportedDataType = errors.New("lum: illegal data type, only Byte and UInt16 supported")
	ErrIllegalBandCount    = errors.New("lum: illegal number of bands, must be 1 (grayscale)")
	ErrInvalidOption       = errors.New("lum: invalid creation option")
	ErrOpenFailed          = errors.New("lum: open failed")
	ErrWriteFailed         = errors.New("lum: header write failed")
	ErrNoGeoTransform      = errors.New("lum: no geotransform available")
	ErrClosed              = errors.New("lum: dataset closed")
	ErrReadOnly            = errors.New("lum: dataset opened read-only")
	ErrWindow              = errors.New("lum: access window out of range")
	ErrBufferType          = errors.New("lum: buffer type does not match band data type")
	ErrBufferSize          = errors.New("lum: buffer too small")
	ErrNoSuchBand          = errors.New("lum: no such band")
	ErrNoDriver            = errors.New("lum: no driver recognizes the file")
	ErrNoCreate            = errors.New("lum: driver does not support create")
)
