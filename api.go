package gdalum

import "github.com/wgdzlh/gdalum/lum"

// 可计算外包范围的数据集
type Georeferenced interface {
	RasterXSize() int
	RasterYSize() int
	GeoTransform() (lum.GeoTransform, error)
}

// 导出任务：将LUM文件转为GDAL支持的格式
type ExportJob struct {
	Infile  string   `json:"infile" yaml:"infile" mapstructure:"infile"`
	Outfile string   `json:"outfile" yaml:"outfile" mapstructure:"outfile"`
	Driver  string   `json:"driver" yaml:"driver" mapstructure:"driver"`     // GDAL驱动名，默认GTiff
	Srid    int      `json:"srid" yaml:"srid" mapstructure:"srid"`           // 输出坐标系，0表示不设置
	Options []string `json:"options" yaml:"options" mapstructure:"options"` // 创建选项
}
