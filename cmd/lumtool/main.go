package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wgdzlh/gdalum"
	"github.com/wgdzlh/gdalum/imaging"
	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"
	"github.com/wgdzlh/gdalum/pixexpr"
	"github.com/wgdzlh/gdalum/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errMissingArgs = errors.New("missing required arguments")

// 可重复的 -co KEY=VALUE 参数
type optionList []string

func (o *optionList) String() string {
	return strings.Join(*o, ",")
}

func (o *optionList) Set(v string) error {
	*o = append(*o, v)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	level := zapcore.InfoLevel
	if os.Getenv("LUMTOOL_DEBUG") != "" {
		level = zapcore.DebugLevel
	}
	if l, err := log.NewDevelopment(level); err == nil {
		log.SetLogger(l)
	}
	defer log.Sync()

	manager := lum.NewDriverManager()
	lum.RegisterLUM(manager)

	var err error
	args := os.Args[2:]
	switch os.Args[1] {
	case "identify":
		err = runIdentify(manager, args)
	case "info":
		err = runInfo(args)
	case "create":
		err = runCreate(manager, args)
	case "calc":
		err = runCalc(args)
	case "preview":
		err = runPreview(args)
	case "tiff":
		err = runTIFF(args)
	case "export":
		err = runExport(args)
	case "import":
		err = runImport(args)
	case "batch":
		err = runBatch(manager, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: lumtool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  identify -in file")
	fmt.Fprintln(os.Stderr, "  info     -in file.lum [-srid 4326 [-tsrid 3857]]")
	fmt.Fprintln(os.Stderr, "  create   -out file.lum -w 512 -h 512 [-type Byte|UInt16] [-co NBITS=12] [-co BYTE_ORDER=MSB]")
	fmt.Fprintln(os.Stderr, "  calc     -in file.lum -expr 'v * 2'")
	fmt.Fprintln(os.Stderr, "  preview  -in file.lum [-out preview.png] [-max 256]")
	fmt.Fprintln(os.Stderr, "  tiff     -in file.lum [-out file.tif]")
	fmt.Fprintln(os.Stderr, "  export   -in file.lum -out file.tif [-driver GTiff] [-srid 4326] [-co KEY=VALUE]")
	fmt.Fprintln(os.Stderr, "  import   -in any.tif -out file.lum [-co KEY=VALUE]")
	fmt.Fprintln(os.Stderr, "  batch    -config jobs.yaml")
}

func fail(err error) {
	log.Error("lumtool failed", zap.Error(err))
	log.Sync()
	os.Exit(1)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func runIdentify(m *lum.DriverManager, args []string) error {
	fs := newFlagSet("identify")
	in := fs.String("in", "", "input file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errMissingArgs
	}
	info, err := lum.NewOpenInfo(*in, lum.ReadOnly)
	if err != nil {
		return err
	}
	defer info.Close()
	if d := m.IdentifyDriver(info); d != nil {
		fmt.Println(d.Description())
	} else {
		fmt.Println("unknown")
	}
	return nil
}

func runInfo(args []string) error {
	fs := newFlagSet("info")
	in := fs.String("in", "", "input LUM file")
	srid := fs.Int("srid", 0, "EPSG code of the geotransform, prints the footprint when set")
	tSrid := fs.Int("tsrid", 0, "EPSG code the footprint is reprojected to, defaults to -srid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errMissingArgs
	}
	ds, err := lum.OpenFile(*in, lum.ReadOnly)
	if err != nil {
		return err
	}
	defer ds.Close()
	h := ds.Header()
	fmt.Printf("File:       %s\n", ds.Description())
	fmt.Printf("Size:       %d x %d\n", ds.RasterXSize(), ds.RasterYSize())
	fmt.Printf("Tag:        %s\n", h.Tag)
	fmt.Printf("Data type:  %s\n", ds.DataType())
	fmt.Printf("Byte order: %s (host %s)\n", h.Endian(), lum.HostEndian())
	if gt, err := ds.GeoTransform(); err == nil {
		fmt.Printf("GeoTransform: %v\n", [6]float64(gt))
	}
	if *srid > 0 {
		if *tSrid <= 0 {
			*tSrid = *srid
		}
		g := gdalum.NewGdalToolbox()
		wkt, err := g.FootprintWkt(ds, *srid, *tSrid)
		if err != nil {
			return err
		}
		span, err := g.GetWktSpan(wkt, *tSrid)
		if err != nil {
			return err
		}
		fmt.Printf("Footprint:  %s\n", wkt)
		fmt.Printf("Extent:     x %f..%f, y %f..%f (EPSG:%d)\n", span[0], span[1], span[2], span[3], *tSrid)
	}
	return nil
}

func runCreate(m *lum.DriverManager, args []string) error {
	fs := newFlagSet("create")
	out := fs.String("out", "", "output LUM file")
	w := fs.Int("w", 0, "width")
	h := fs.Int("h", 0, "height")
	typ := fs.String("type", "Byte", "data type (Byte or UInt16)")
	var opts optionList
	fs.Var(&opts, "co", "creation option KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" || *w <= 0 || *h <= 0 {
		return errMissingArgs
	}
	ds, err := m.GetDriverByName(lum.DRIVER_NAME).Create(*out, *w, *h, 1, lum.DataTypeByName(*typ), opts)
	if err != nil {
		return err
	}
	return ds.Close()
}

func runCalc(args []string) error {
	fs := newFlagSet("calc")
	in := fs.String("in", "", "LUM file to update in place")
	expr := fs.String("expr", "", "pixel expression, variables v, x, y, max")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *expr == "" {
		return errMissingArgs
	}
	ds, err := lum.OpenFile(*in, lum.Update)
	if err != nil {
		return err
	}
	clipped, err := pixexpr.Apply(ds, *expr)
	if e := ds.Close(); err == nil {
		err = e
	}
	if err == nil && clipped > 0 {
		log.Warn("values clipped to band range", zap.Int("pixels", clipped))
	}
	return err
}

func runPreview(args []string) error {
	fs := newFlagSet("preview")
	in := fs.String("in", "", "input LUM file")
	out := fs.String("out", "", "output PNG, defaults to the input with .png")
	maxSize := fs.Uint("max", 256, "longest side of the preview, 0 keeps full size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errMissingArgs
	}
	if *out == "" {
		*out = utils.ReplaceExt(*in, ".png")
	}
	return withOutput(*in, *out, func(ds *lum.Dataset, w io.Writer) error {
		return imaging.WritePreview(ds, w, *maxSize)
	})
}

func runTIFF(args []string) error {
	fs := newFlagSet("tiff")
	in := fs.String("in", "", "input LUM file")
	out := fs.String("out", "", "output TIFF, defaults to the input with .tif")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errMissingArgs
	}
	if *out == "" {
		*out = utils.ReplaceExt(*in, ".tif")
	}
	return withOutput(*in, *out, imaging.WriteTIFF)
}

func withOutput(in, out string, write func(ds *lum.Dataset, w io.Writer) error) (err error) {
	ds, err := lum.OpenFile(in, lum.ReadOnly)
	if err != nil {
		return
	}
	defer ds.Close()
	f, err := os.Create(out)
	if err != nil {
		return
	}
	if err = write(ds, f); err != nil {
		f.Close()
		return
	}
	return f.Close()
}

func runExport(args []string) error {
	fs := newFlagSet("export")
	job := gdalum.ExportJob{}
	var opts optionList
	fs.StringVar(&job.Infile, "in", "", "input LUM file")
	fs.StringVar(&job.Outfile, "out", "", "output raster")
	fs.StringVar(&job.Driver, "driver", gdalum.DEFAULT_DRIVER, "GDAL driver name")
	fs.IntVar(&job.Srid, "srid", 0, "EPSG code written to the output, 0 for none")
	fs.Var(&opts, "co", "GDAL creation option KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	job.Options = opts
	return gdalum.NewGdalToolbox().ExportRaster(job)
}

func runImport(args []string) error {
	fs := newFlagSet("import")
	in := fs.String("in", "", "input raster readable by GDAL")
	out := fs.String("out", "", "output LUM file")
	var opts optionList
	fs.Var(&opts, "co", "LUM creation option KEY=VALUE (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *out == "" {
		return errMissingArgs
	}
	ds, err := gdalum.NewGdalToolbox().ImportRaster(*in, *out, opts)
	if err != nil {
		return err
	}
	return ds.Close()
}
