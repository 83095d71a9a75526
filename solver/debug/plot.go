package debug

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot 静态曲线图（PNG/SVG/PDF）
type Plot struct {
	*Record
	Axis   string    // 横轴坐标（x/y/z），为空时使用观测点序号
	Title  string    // 标题
	Width  vg.Length // 宽度
	Height vg.Length // 高度
}

// NewPlot 创建
func NewPlot(record *Record, axis string) *Plot {
	return &Plot{
		Record: record,
		Axis:   axis,
		Title:  "Biot-Savart",
		Width:  6 * vg.Inch,
		Height: 4 * vg.Inch,
	}
}

// xys 由模长和横轴数据构建曲线数据
func (p *Plot) xys(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].Y = v
		switch p.Axis {
		case "x":
			pts[i].X = p.Points[i].X
		case "y":
			pts[i].X = p.Points[i].Y
		case "z":
			pts[i].X = p.Points[i].Z
		default:
			pts[i].X = float64(i)
		}
	}
	return pts
}

// build 构建图表
func (p *Plot) build() (*plot.Plot, error) {
	if len(p.Magnitude) == 0 || len(p.Magnitude) != len(p.Points) {
		return nil, fmt.Errorf("没有可绘制的求解结果")
	}
	pl := plot.New()
	pl.Title.Text = p.Title
	pl.X.Label.Text = p.Axis
	if p.Axis == "" {
		pl.X.Label.Text = "index"
	}
	pl.Y.Label.Text = "B (T)"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(p.xys(p.Magnitude))
	if err != nil {
		return nil, err
	}
	pl.Add(line)
	pl.Legend.Add("numerical", line)

	names := make([]string, 0, len(p.Reference))
	for name := range p.Reference {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values := p.Reference[name]
		if len(values) != len(p.Points) {
			return nil, fmt.Errorf("参考曲线 %s 长度不一致: %d", name, len(values))
		}
		scatter, err := plotter.NewScatter(p.xys(values))
		if err != nil {
			return nil, err
		}
		pl.Add(scatter)
		pl.Legend.Add(name, scatter)
	}
	pl.Legend.Top = true
	return pl, nil
}

// WriteTo 按格式（png/svg/pdf/eps/jpg/tif）写出
func (p *Plot) WriteTo(w io.Writer, format string) error {
	pl, err := p.build()
	if err != nil {
		return err
	}
	wt, err := pl.WriterTo(p.Width, p.Height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save 保存到文件，格式由扩展名决定
func (p *Plot) Save(path string) error {
	pl, err := p.build()
	if err != nil {
		return err
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext == "" {
		return fmt.Errorf("无法从文件名确定格式: %s", path)
	}
	return pl.Save(p.Width, p.Height, path)
}
