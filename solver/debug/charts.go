package debug

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Charts 曲线绘制
type Charts struct {
	Record
	Axis string // 横轴坐标（x/y/z），为空时使用观测点序号
}

// abscissa 横轴数据
func (c *Charts) abscissa() []string {
	xs := make([]string, len(c.Points))
	for i, p := range c.Points {
		switch c.Axis {
		case "x":
			xs[i] = strconv.FormatFloat(p.X, 'g', 4, 64)
		case "y":
			xs[i] = strconv.FormatFloat(p.Y, 'g', 4, 64)
		case "z":
			xs[i] = strconv.FormatFloat(p.Z, 'g', 4, 64)
		default:
			xs[i] = strconv.Itoa(i)
		}
	}
	return xs
}

// newLine 统一的折线图样式
func (c *Charts) newLine(title, subtitle, unit string) *charts.Line {
	line := charts.NewLine()
	name := c.Axis
	if name == "" {
		name = "index"
	}
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        name,
			SplitNumber: 20,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  unit,
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	line.SetXAxis(c.abscissa())
	return line
}

func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		items[i] = opts.LineData{Value: v}
	}
	return items
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	if len(c.Magnitude) == 0 || len(c.Magnitude) != len(c.Points) {
		return fmt.Errorf("没有可绘制的求解结果")
	}
	// 磁场模长
	lineB := c.newLine("磁场模长", fmt.Sprintf("%s 导线 |B| 随观测点变化曲线", c.Wire), "T")
	lineB.AddSeries("|B|", lineData(c.Magnitude),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	names := make([]string, 0, len(c.Reference))
	for name := range c.Reference {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lineB.AddSeries(name, lineData(c.Reference[name]),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	// 磁场分量
	lineC := c.newLine("磁场分量", "各分量实部与虚部", "T")
	comp := make([][]float64, 6)
	for i := range comp {
		comp[i] = make([]float64, len(c.Fields))
	}
	for i, f := range c.Fields {
		comp[0][i], comp[1][i], comp[2][i] = f.X.Re, f.Y.Re, f.Z.Re
		comp[3][i], comp[4][i], comp[5][i] = f.X.Im, f.Y.Im, f.Z.Im
	}
	for i, name := range []string{"Re Bx", "Re By", "Re Bz", "Im Bx", "Im By", "Im Bz"} {
		lineC.AddSeries(name, lineData(comp[i]))
	}
	// 构建界面
	page := components.NewPage()
	page.SetPageTitle("Biot-Savart")
	page.AddCharts(
		lineB,
		lineC,
	)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (c *Charts) Error(err error) {
	c.Record.Error(err)
	log.Println(err)
}
