package maths

import "fmt"

// NewField 由相量系数与实向量广播得到 c·v
func NewField(c Phasor, v Vec3) Field {
	return Field{
		X: c.Scale(v.X),
		Y: c.Scale(v.Y),
		Z: c.Scale(v.Z),
	}
}

// Add 场叠加
func (f Field) Add(other Field) Field {
	return Field{f.X.Add(other.X), f.Y.Add(other.Y), f.Z.Add(other.Z)}
}

// Scale 相量缩放（每个分量做复数乘法）
func (f Field) Scale(c Phasor) Field {
	return Field{f.X.Mul(c), f.Y.Mul(c), f.Z.Mul(c)}
}

// ScaleReal 实数缩放
func (f Field) ScaleReal(s float64) Field {
	return Field{f.X.Scale(s), f.Y.Scale(s), f.Z.Scale(s)}
}

// Dot 非共轭点积 Σ fᵢ·gᵢ
func (f Field) Dot(other Field) Phasor {
	return f.X.Mul(other.X).Add(f.Y.Mul(other.Y)).Add(f.Z.Mul(other.Z))
}

// Magnitude 非共轭模长 sqrt(f·f)，结果仍为相量
// 注意：与共轭模长 sqrt(Σ|fᵢ|²) 对相位不同的分量结果不同
func (f Field) Magnitude() Phasor {
	return f.Dot(f).Sqrt()
}

// Abs 实数模长 |sqrt(f·f)|
func (f Field) Abs() float64 {
	return f.Magnitude().Abs()
}

// Real 实部向量
func (f Field) Real() Vec3 { return Vec3{f.X.Re, f.Y.Re, f.Z.Re} }

// Imag 虚部向量
func (f Field) Imag() Vec3 { return Vec3{f.X.Im, f.Y.Im, f.Z.Im} }

// IsZero 是否为零场
func (f Field) IsZero() bool {
	return f.X.IsZero() && f.Y.IsZero() && f.Z.IsZero()
}

// IsFinite 所有分量均为有限值
func (f Field) IsFinite() bool {
	return f.X.IsFinite() && f.Y.IsFinite() && f.Z.IsFinite()
}

// String 返回场的字符串表示
func (f Field) String() string {
	return fmt.Sprintf("[%s %s %s]", f.X, f.Y, f.Z)
}
