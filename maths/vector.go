package maths

import (
	"fmt"
	"math"
)

// NewVec3 创建向量
func NewVec3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Add 向量加法
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub 向量减法
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale 向量缩放
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot 计算点积
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross 计算叉积 v × other
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Magnitude 模长 sqrt(v·v)，零向量返回0
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// Abs 同 Magnitude
func (v Vec3) Abs() float64 { return v.Magnitude() }

// Midpoint 与另一点的中点
func (v Vec3) Midpoint(other Vec3) Vec3 {
	return Vec3{(v.X + other.X) / 2, (v.Y + other.Y) / 2, (v.Z + other.Z) / 2}
}

// IsZero 是否为零向量
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// IsFinite 所有分量均为有限值
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Slice 转换为切片 [x, y, z]
func (v Vec3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }

// String 返回向量的字符串表示
func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
