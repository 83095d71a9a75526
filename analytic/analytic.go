// Package analytic 常见几何的闭式磁场解，用于校验数值求解结果
package analytic

import (
	"biotsavart/maths"
	"biotsavart/types"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LoopOnAxis 圆环轴线上磁场 B = μ0 N I R² / (2 (R²+z²)^(3/2))
// z 为沿轴线到环心的距离。
func LoopOnAxis(mu0, current float64, turns int, radius, z float64) float64 {
	r2 := radius * radius
	return mu0 * float64(turns) * current * r2 / (2 * math.Pow(r2+z*z, 1.5))
}

// FiniteLine 有限长直导线的磁场
// 观测点到导线所在直线的垂距为 d，a、b 为两端点沿导线方向相对垂足的坐标。
// B = μ0 I / (4π d) (b/√(b²+d²) − a/√(a²+d²))
func FiniteLine(mu0, current, d, a, b float64) float64 {
	if d == 0 {
		return math.Inf(1)
	}
	return mu0 * current / (4 * math.Pi * d) * (b/math.Hypot(b, d) - a/math.Hypot(a, d))
}

// LineAt 由端点坐标计算有限长直导线在 p 处的磁场模长
func LineAt(mu0, current float64, start, end, p maths.Vec3) float64 {
	u := end.Sub(start)
	l := u.Magnitude()
	if l == 0 {
		return 0
	}
	u = u.Scale(1 / l)
	t := p.Sub(start).Dot(u)
	d := p.Sub(start.Add(u.Scale(t))).Magnitude()
	return FiniteLine(mu0, current, d, -t, l-t)
}

// SolenoidOnAxis 有限长螺线管轴线上磁场
// B = μ0 N I / (2L) ((z+L/2)/√(R²+(z+L/2)²) − (z−L/2)/√(R²+(z−L/2)²))
func SolenoidOnAxis(mu0, current float64, turns int, radius, length, z float64) float64 {
	if length == 0 {
		return LoopOnAxis(mu0, current, turns, radius, z)
	}
	p, m := z+length/2, z-length/2
	return mu0 * float64(turns) * current / (2 * length) * (p/math.Hypot(radius, p) - m/math.Hypot(radius, m))
}

// Loop 沿轴线批量计算圆环磁场
func Loop(mu0, current float64, turns int, radius float64, z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = LoopOnAxis(mu0, current, turns, radius, v)
	}
	return out
}

// Solenoid 沿轴线批量计算螺线管磁场
func Solenoid(mu0, current float64, turns int, radius, length float64, z []float64) []float64 {
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = SolenoidOnAxis(mu0, current, turns, radius, length, v)
	}
	return out
}

// Comparison 数值解与解析解的误差
type Comparison struct {
	MaxRelErr float64 `json:"max_rel_err"` // 最大相对误差
	RMSRelErr float64 `json:"rms_rel_err"` // 相对误差均方根
	MaxAbsErr float64 `json:"max_abs_err"` // 最大绝对误差
}

// Compare 比较数值解与参考值，参考值为零的点只计入绝对误差
func Compare(numerical, reference []float64) (Comparison, error) {
	if len(numerical) != len(reference) {
		return Comparison{}, fmt.Errorf("数据长度不一致: %d != %d", len(numerical), len(reference))
	}
	if len(numerical) == 0 {
		return Comparison{}, types.ErrEmptyPoints
	}
	diff := make([]float64, len(numerical))
	floats.SubTo(diff, numerical, reference)
	var c Comparison
	c.MaxAbsErr = math.Max(floats.Max(diff), -floats.Min(diff))

	rel := make([]float64, 0, len(diff))
	for i, d := range diff {
		if reference[i] != 0 {
			rel = append(rel, math.Abs(d/reference[i]))
		}
	}
	if len(rel) > 0 {
		c.MaxRelErr = floats.Max(rel)
		c.RMSRelErr = floats.Norm(rel, 2) / math.Sqrt(float64(len(rel)))
	}
	return c, nil
}
