package maths

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rotation 三维旋转矩阵
type Rotation struct {
	m *mat.Dense
}

// NewRotation 由极角 theta 与方位角 phi 构建旋转 R = Rz(phi)·Ry(theta)
// 作用于 +Z 方向得到法向 (sinθcosφ, sinθsinφ, cosθ)
func NewRotation(theta, phi float64) Rotation {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	ry := mat.NewDense(3, 3, []float64{
		ct, 0, st,
		0, 1, 0,
		-st, 0, ct,
	})
	rz := mat.NewDense(3, 3, []float64{
		cp, -sp, 0,
		sp, cp, 0,
		0, 0, 1,
	})
	r := mat.NewDense(3, 3, nil)
	r.Mul(rz, ry)
	return Rotation{m: r}
}

// IsIdentity 是否为单位旋转
func (r Rotation) IsIdentity() bool {
	return r.m == nil || mat.EqualApprox(r.m, identity, Epsilon)
}

// Apply 旋转向量
func (r Rotation) Apply(v Vec3) Vec3 {
	if r.m == nil {
		return v
	}
	out := mat.NewVecDense(3, nil)
	out.MulVec(r.m, mat.NewVecDense(3, v.Slice()))
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// ApplyAbout 绕中心点 c 旋转
func (r Rotation) ApplyAbout(v, c Vec3) Vec3 {
	return r.Apply(v.Sub(c)).Add(c)
}

// Place 旋转后平移到中心 c（顶点以原点为参考）
func (r Rotation) Place(vs []Vec3, c Vec3) []Vec3 {
	out := make([]Vec3, len(vs))
	for i, v := range vs {
		out[i] = r.Apply(v).Add(c)
	}
	return out
}

// Normal 旋转后的 +Z 方向
func (r Rotation) Normal() Vec3 {
	return r.Apply(Vec3{Z: 1})
}

var identity = mat.NewDiagDense(3, []float64{1, 1, 1})
