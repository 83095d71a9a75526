package types

import (
	"biotsavart/maths"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Points 观测点集合，输出顺序与输入索引一一对应
type Points struct {
	X, Y, Z []float64
}

// NewPoints 由向量列表创建观测点
func NewPoints(v ...maths.Vec3) *Points {
	p := &Points{
		X: make([]float64, 0, len(v)),
		Y: make([]float64, 0, len(v)),
		Z: make([]float64, 0, len(v)),
	}
	p.Append(v...)
	return p
}

// NewAxisPoints 沿坐标轴均匀取点
// axis 为 x/y/z，fixed 为另外两个坐标的固定值（按 x,y,z 顺序跳过 axis）
func NewAxisPoints(axis string, from, to float64, count int, fixed [2]float64) (*Points, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count=%d", ErrEmptyPoints, count)
	}
	line := make([]float64, count)
	if count == 1 {
		line[0] = from
	} else {
		floats.Span(line, from, to)
	}
	a := make([]float64, count)
	b := make([]float64, count)
	for i := range a {
		a[i], b[i] = fixed[0], fixed[1]
	}
	switch strings.ToLower(axis) {
	case "x":
		return &Points{X: line, Y: a, Z: b}, nil
	case "y":
		return &Points{X: a, Y: line, Z: b}, nil
	case "z", "":
		return &Points{X: a, Y: b, Z: line}, nil
	}
	return nil, fmt.Errorf("未知坐标轴: %s", axis)
}

// Append 追加观测点
func (p *Points) Append(v ...maths.Vec3) {
	for _, q := range v {
		p.X = append(p.X, q.X)
		p.Y = append(p.Y, q.Y)
		p.Z = append(p.Z, q.Z)
	}
}

// Len 观测点数量
func (p *Points) Len() int { return len(p.X) }

// At 返回第 i 个观测点
func (p *Points) At(i int) maths.Vec3 {
	return maths.Vec3{X: p.X[i], Y: p.Y[i], Z: p.Z[i]}
}

// Validate 校验观测点
func (p *Points) Validate() error {
	if len(p.X) != len(p.Y) || len(p.X) != len(p.Z) {
		return &ShapeMismatchError{Name: "points", Lengths: [3]int{len(p.X), len(p.Y), len(p.Z)}}
	}
	for i := range p.X {
		if !p.At(i).IsFinite() {
			return fmt.Errorf("%w: 观测点(%d)", ErrNonFinite, i)
		}
	}
	return nil
}
