package debug

import (
	"biotsavart/maths"
	"biotsavart/solver"
	"biotsavart/types"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/dustin/go-humanize"
)

var _ solver.Debug = (*Record)(nil)

// Record 记录一次求解的输入与结果
type Record struct {
	Wire           string               `json:"wire"`                // 形状名称
	Current        maths.Phasor         `json:"current"`             // 相量电流
	Turns          int                  `json:"turns"`               // 匝数
	Vertices       int                  `json:"vertices"`            // 顶点数
	Points         []maths.Vec3         `json:"points"`              // 观测点
	Fields         []maths.Field        `json:"fields"`              // 磁场
	Magnitude      []float64            `json:"magnitude"`           // 磁场模长
	DegenerateList []int                `json:"degenerate"`          // 零长度线段
	Reference      map[string][]float64 `json:"reference,omitempty"` // 参考曲线（解析解等）
	Err            string               `json:"error,omitempty"`     // 求解错误

	is bool
}

// Init 初始化
func (list *Record) Init(wire *types.Wire, points *types.Points) {
	list.Wire = wire.Name
	list.Current = wire.Current
	list.Turns = wire.N
	list.Vertices = wire.Len()
	list.Points = make([]maths.Vec3, points.Len())
	for i := range list.Points {
		list.Points[i] = points.At(i)
	}
	list.Fields, list.Magnitude, list.DegenerateList, list.Err = nil, nil, nil, ""
}

func (list *Record) IsDebug() bool    { return list.is }
func (list *Record) SetDebug(is bool) { list.is = is }

// Degenerate 记录零长度线段
func (list *Record) Degenerate(segment int) {
	list.DegenerateList = append(list.DegenerateList, segment)
}

// Update 记录数据
func (list *Record) Update(fields []maths.Field) {
	list.Fields = append([]maths.Field{}, fields...)
	list.Magnitude = solver.FieldMagnitude(fields)
}

// AddReference 添加参考曲线
func (list *Record) AddReference(name string, values []float64) {
	if list.Reference == nil {
		list.Reference = map[string][]float64{}
	}
	list.Reference[name] = values
}

// Render 格式和输出内容
func (list *Record) Render(w io.Writer) error { return json.NewEncoder(w).Encode(list) }

// WriteCSV 逐点输出坐标、磁场分量与模长
func (list *Record) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"x", "y", "z", "bx_re", "bx_im", "by_re", "by_im", "bz_re", "bz_im", "magnitude"})
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i, b := range list.Fields {
		p := list.Points[i]
		cw.Write([]string{
			f(p.X), f(p.Y), f(p.Z),
			f(b.X.Re), f(b.X.Im), f(b.Y.Re), f(b.Y.Im), f(b.Z.Re), f(b.Z.Im),
			f(list.Magnitude[i]),
		})
	}
	cw.Flush()
	return cw.Error()
}

// Summary 单行摘要
func (list *Record) Summary() string {
	segments := list.Vertices - 1
	if segments < 0 {
		segments = 0
	}
	return fmt.Sprintf("%s: %s 线段 × %s 观测点 = %s 次计算, 零长度线段 %d",
		list.Wire,
		humanize.Comma(int64(segments)),
		humanize.Comma(int64(len(list.Points))),
		humanize.Comma(int64(segments)*int64(len(list.Points))),
		len(list.DegenerateList))
}

// Error 记录错误，并清除上一次求解留下的数据
func (list *Record) Error(err error) {
	*list = Record{Reference: list.Reference, Err: err.Error(), is: list.is}
	if list.is {
		log.Println(err)
	}
}
