package main

import (
	"fmt"
	"os"

	"github.com/wgdzlh/gdalum"
	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"
	"github.com/wgdzlh/gdalum/pixexpr"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// 批处理文件中的创建任务
type createJob struct {
	File    string            `mapstructure:"file"`
	Width   int               `mapstructure:"width"`
	Height  int               `mapstructure:"height"`
	Type    string            `mapstructure:"type"`
	Calc    string            `mapstructure:"calc"` // 创建后执行的像元表达式
	Options lum.CreateOptions `mapstructure:"options"`
}

type batchFile struct {
	Creates []map[string]interface{} `yaml:"creates"`
	Exports []map[string]interface{} `yaml:"exports"`
}

type batch struct {
	creates []createJob
	exports []gdalum.ExportJob
}

func decodeJob(in map[string]interface{}, out interface{}) (err error) {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return
	}
	return dec.Decode(in)
}

func parseBatch(data []byte) (b batch, err error) {
	var raw batchFile
	if err = yaml.UnmarshalStrict(data, &raw); err != nil {
		if yamlErr, ok := err.(*yaml.TypeError); ok {
			for _, msg := range yamlErr.Errors {
				log.Error("batch yaml error", zap.String("msg", msg))
			}
		}
		return
	}
	for i, m := range raw.Creates {
		var job createJob
		if err = decodeJob(m, &job); err != nil {
			err = fmt.Errorf("creates[%d]: %w", i, err)
			return
		}
		if job.Type == "" {
			job.Type = lum.Byte.String()
		}
		b.creates = append(b.creates, job)
	}
	for i, m := range raw.Exports {
		var job gdalum.ExportJob
		if err = decodeJob(m, &job); err != nil {
			err = fmt.Errorf("exports[%d]: %w", i, err)
			return
		}
		b.exports = append(b.exports, job)
	}
	return
}

// 依次执行创建任务，再执行导出任务；出错继续执行后续任务，最后合并返回所有错误
func runBatchJobs(m *lum.DriverManager, b batch, export func(gdalum.ExportJob) error) (err error) {
	d := m.GetDriverByName(lum.DRIVER_NAME)
	for _, job := range b.creates {
		rds, e := d.Create(job.File, job.Width, job.Height, 1, lum.DataTypeByName(job.Type), job.Options.Strings())
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("create %s: %w", job.File, e))
			continue
		}
		if job.Calc != "" {
			if e = calcDataset(rds, job.Calc); e != nil {
				err = multierr.Append(err, fmt.Errorf("calc %s: %w", job.File, e))
			}
		}
		err = multierr.Append(err, rds.Close())
		log.Info("batch create done", zap.String("file", job.File))
	}
	for _, job := range b.exports {
		if e := export(job); e != nil {
			err = multierr.Append(err, fmt.Errorf("export %s: %w", job.Infile, e))
			continue
		}
		log.Info("batch export done", zap.String("in", job.Infile), zap.String("out", job.Outfile))
	}
	return
}

func calcDataset(rds lum.RasterDataset, expr string) (err error) {
	ds, ok := rds.(*lum.Dataset)
	if !ok {
		return fmt.Errorf("unexpected dataset type %T", rds)
	}
	_, err = pixexpr.Apply(ds, expr)
	return
}

func runBatch(m *lum.DriverManager, args []string) error {
	fs := newFlagSet("batch")
	config := fs.String("config", "", "YAML job file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return errMissingArgs
	}
	data, err := os.ReadFile(*config)
	if err != nil {
		return err
	}
	b, err := parseBatch(data)
	if err != nil {
		return err
	}
	var exporter func(gdalum.ExportJob) error
	if len(b.exports) > 0 {
		exporter = gdalum.NewGdalToolbox().ExportRaster
	}
	return runBatchJobs(m, b, exporter)
}
