package types

import (
	"biotsavart/maths"
	"fmt"
)

// Wire 分段线性载流导线
// 顶点按遍历顺序给出，闭合回路需要在末尾重复首个顶点。
type Wire struct {
	Name    string       // 形状名称
	X, Y, Z []float64    // 顶点坐标
	Current maths.Phasor // 相量电流
	N       int          // 匝数
}

// NewWire 创建空导线
func NewWire(current maths.Phasor, n int) *Wire {
	return &Wire{Current: current, N: n}
}

// Append 追加顶点
func (w *Wire) Append(v ...maths.Vec3) {
	for _, p := range v {
		w.X = append(w.X, p.X)
		w.Y = append(w.Y, p.Y)
		w.Z = append(w.Z, p.Z)
	}
}

// Len 顶点数
func (w *Wire) Len() int { return len(w.X) }

// Vertex 返回第 i 个顶点
func (w *Wire) Vertex(i int) maths.Vec3 {
	return maths.Vec3{X: w.X[i], Y: w.Y[i], Z: w.Z[i]}
}

// Validate 校验导线
func (w *Wire) Validate() error {
	if len(w.X) != len(w.Y) || len(w.X) != len(w.Z) {
		return &ShapeMismatchError{Name: "wire", Lengths: [3]int{len(w.X), len(w.Y), len(w.Z)}}
	}
	if len(w.X) < MinVertices {
		return fmt.Errorf("%w: %d", ErrTooFewVertices, len(w.X))
	}
	if w.N < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidTurns, w.N)
	}
	if !w.Current.IsFinite() {
		return fmt.Errorf("%w: 电流 %s", ErrNonFinite, w.Current)
	}
	for i := range w.X {
		if !w.Vertex(i).IsFinite() {
			return fmt.Errorf("%w: 顶点(%d)", ErrNonFinite, i)
		}
	}
	return nil
}

// Segments 相邻顶点构成的线段，L个顶点得到L-1段，不自动闭合
func (w *Wire) Segments() []Segment {
	if w.Len() < 2 {
		return nil
	}
	segs := make([]Segment, w.Len()-1)
	for i := range segs {
		segs[i] = Segment{Start: w.Vertex(i), End: w.Vertex(i + 1)}
	}
	return segs
}

// Closed 首尾顶点是否重合
func (w *Wire) Closed() bool {
	n := w.Len()
	return n > 2 && w.Vertex(0).Sub(w.Vertex(n-1)).Magnitude() <= Tolerance
}

// Length 导线总长度
func (w *Wire) Length() (l float64) {
	for _, s := range w.Segments() {
		l += s.Length()
	}
	return l
}

// Clone 深拷贝
func (w *Wire) Clone() *Wire {
	return &Wire{
		Name:    w.Name,
		X:       append([]float64(nil), w.X...),
		Y:       append([]float64(nil), w.Y...),
		Z:       append([]float64(nil), w.Z...),
		Current: w.Current,
		N:       w.N,
	}
}

// WithCurrent 返回替换电流后的副本
func (w *Wire) WithCurrent(current maths.Phasor) *Wire {
	c := w.Clone()
	c.Current = current
	return c
}

// Segment 相邻两个顶点之间的直线段
type Segment struct {
	Start, End maths.Vec3
}

// Dl 线元向量 End-Start
func (s Segment) Dl() maths.Vec3 { return s.End.Sub(s.Start) }

// Mid 线段中点
func (s Segment) Mid() maths.Vec3 { return s.Start.Midpoint(s.End) }

// Length 线段长度
func (s Segment) Length() float64 { return s.Dl().Magnitude() }

// IsDegenerate 首尾重合
func (s Segment) IsDegenerate() bool { return s.Start == s.End }
