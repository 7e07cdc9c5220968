// Package pixexpr rewrites LUM pixels in place with an arithmetic expression.
//
// The expression sees the variables v (current value), x, y (pixel position)
// and max (largest value allowed by the band), plus the functions clamp and scale.
package pixexpr

import (
	"errors"
	"fmt"
	"math"

	"github.com/wgdzlh/gdalum/log"
	"github.com/wgdzlh/gdalum/lum"

	"github.com/knetic/govaluate"
	"go.uber.org/zap"
)

const logTag = "PixExpr:"

var (
	ErrExpression = errors.New("pixexpr: invalid expression")
	ErrResultType = errors.New("pixexpr: expression must yield a number or boolean")
)

func functions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"clamp": func(args ...interface{}) (interface{}, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("clamp expects 3 arguments (v, lo, hi)")
			}
			v, lo, hi, err := floats3(args)
			if err != nil {
				return nil, err
			}
			return math.Min(math.Max(v, lo), hi), nil
		},
		// 线性缩放：v从[0,inMax]映射到[0,outMax]
		"scale": func(args ...interface{}) (interface{}, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("scale expects 3 arguments (v, inMax, outMax)")
			}
			v, inMax, outMax, err := floats3(args)
			if err != nil {
				return nil, err
			}
			if inMax == 0 {
				return nil, fmt.Errorf("scale: inMax cannot be zero")
			}
			return v * outMax / inMax, nil
		},
	}
}

func floats3(args []interface{}) (a, b, c float64, err error) {
	var ok bool
	if a, ok = args[0].(float64); !ok {
		err = fmt.Errorf("arg 1 must be numeric")
		return
	}
	if b, ok = args[1].(float64); !ok {
		err = fmt.Errorf("arg 2 must be numeric")
		return
	}
	if c, ok = args[2].(float64); !ok {
		err = fmt.Errorf("arg 3 must be numeric")
	}
	return
}

type Expression struct {
	src    string
	expr   *govaluate.EvaluableExpression
	params map[string]interface{}
}

func Compile(src string) (e *Expression, err error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, functions())
	if err != nil {
		err = fmt.Errorf("%w: %q: %v", ErrExpression, src, err)
		return
	}
	e = &Expression{
		src:    src,
		expr:   expr,
		params: make(map[string]interface{}, 4),
	}
	return
}

func (e *Expression) String() string {
	return e.src
}

// 计算单个像元，布尔结果按1/0处理
func (e *Expression) Eval(v, x, y, max float64) (ret float64, err error) {
	e.params["v"] = v
	e.params["x"] = x
	e.params["y"] = y
	e.params["max"] = max
	out, err := e.expr.Evaluate(e.params)
	if err != nil {
		err = fmt.Errorf("%w: %q: %v", ErrExpression, e.src, err)
		return
	}
	switch r := out.(type) {
	case float64:
		ret = r
	case bool:
		if r {
			ret = 1
		}
	default:
		err = fmt.Errorf("%w: %T", ErrResultType, out)
	}
	return
}

// 标称取值上限（表达式中的max）：Byte为255，UInt16按标签位深
func MaxValue(ds *lum.Dataset) float64 {
	if ds.DataType() == lum.Byte {
		return math.MaxUint8
	}
	if d := ds.Header().Depth(); d > 0 && d < 16 {
		return float64(uint32(1)<<uint(d) - 1)
	}
	return math.MaxUint16
}

// 数据类型可存储的上限，结果按此截断
func limitOf(dt lum.DataType) float64 {
	if dt == lum.Byte {
		return math.MaxUint8
	}
	return math.MaxUint16
}

func clampRound(v, max float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return math.Round(v)
}

// 逐行计算表达式并写回，返回被截断到数据类型取值范围的像元数
func Apply(ds *lum.Dataset, src string) (clipped int, err error) {
	e, err := Compile(src)
	if err != nil {
		return
	}
	band, err := ds.RasterBand(1)
	if err != nil {
		return
	}
	var (
		w, h = ds.RasterXSize(), ds.RasterYSize()
		max  = MaxValue(ds)
		lim  = limitOf(band.DataType())
		u8   []uint8
		u16  []uint16
		row  interface{}
		r    float64
	)
	if band.DataType() == lum.Byte {
		u8 = make([]uint8, w)
		row = u8
	} else {
		u16 = make([]uint16, w)
		row = u16
	}
	log.Info(logTag+"apply expression", zap.String("file", ds.Description()), zap.String("expr", src), zap.Float64("max", max))
	for y := 0; y < h; y++ {
		if err = band.IO(lum.Read, 0, y, w, 1, row); err != nil {
			return
		}
		for x := 0; x < w; x++ {
			var v float64
			if u8 != nil {
				v = float64(u8[x])
			} else {
				v = float64(u16[x])
			}
			if r, err = e.Eval(v, float64(x), float64(y), max); err != nil {
				return
			}
			out := clampRound(r, lim)
			if out != math.Round(r) {
				clipped++
			}
			if u8 != nil {
				u8[x] = uint8(out)
			} else {
				u16[x] = uint16(out)
			}
		}
		if err = band.IO(lum.Write, 0, y, w, 1, row); err != nil {
			return
		}
	}
	return
}
