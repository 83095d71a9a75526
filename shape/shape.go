// Package shape 注册内置导线形状并提供导线细分
package shape

import (
	"biotsavart/maths"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
	"math"
	"strings"

	_ "biotsavart/shape/line"
	_ "biotsavart/shape/loop"
	_ "biotsavart/shape/rectangle"
	_ "biotsavart/shape/solenoid"
)

// Build 按名称生成导线
func Build(name string, values utils.NetList, current maths.Phasor, n int) (*types.Wire, error) {
	return types.BuildWire(name, values, current, n)
}

// Names 已注册形状
func Names() []string { return types.ShapeNames() }

// Usage 形状参数说明，例如 "loop cx=0 cy=0 ..."
func Usage(name string) (string, error) {
	config, ok := types.GetShape(name)
	if !ok {
		return "", fmt.Errorf("未知形状: %s", name)
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(name))
	def := config.ValueInit()
	for i, n := range config.ValueName() {
		fmt.Fprintf(&b, " %s=%g", n, def[i])
	}
	return b.String(), nil
}

// Refine 将每条线段细分为 ceil(len/dl) 段，保持原有顶点不变
// 零长度线段原样保留。
func Refine(w *types.Wire, dl float64) (*types.Wire, error) {
	if dl <= 0 || math.IsNaN(dl) || math.IsInf(dl, 0) {
		return nil, fmt.Errorf("%w: dl=%g", types.ErrShapeParam, dl)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	// 先以浮点数统计细分段数，避免整数溢出
	segs := w.Segments()
	counts := make([]int, len(segs))
	total := 1.0
	for i, seg := range segs {
		k := math.Max(math.Ceil(seg.Length()/dl), 1)
		if total += k; total > float64(types.MaxVertices) {
			return nil, fmt.Errorf("%w: dl=%g 细分后顶点数超过 %d", types.ErrShapeParam, dl, types.MaxVertices)
		}
		counts[i] = int(k)
	}
	out := types.NewWire(w.Current, w.N)
	out.Name = w.Name
	out.Append(w.Vertex(0))
	for j, seg := range segs {
		k := counts[j]
		d := seg.Dl()
		for i := 1; i < k; i++ {
			out.Append(seg.Start.Add(d.Scale(float64(i) / float64(k))))
		}
		out.Append(seg.End)
	}
	return out, nil
}
