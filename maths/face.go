package maths

import "math"

// 补充必要常量（浮点精度阈值）
const Epsilon = 1e-16

// Vec3 实数三维向量（坐标、线元、位移）
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Phasor 相量（复数标量），以实部/虚部两个分量表示
// 实部为幅值分量，虚部为相位分量
type Phasor struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// Field 相量三维向量（磁场），每个分量都是相量
type Field struct {
	X Phasor `json:"x"`
	Y Phasor `json:"y"`
	Z Phasor `json:"z"`
}

// isFinite 检查数值有限
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
