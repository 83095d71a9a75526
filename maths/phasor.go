package maths

import (
	"math"
	"math/cmplx"
	"strconv"
)

// NewPhasor 创建相量
func NewPhasor(re, im float64) Phasor { return Phasor{Re: re, Im: im} }

// FromComplex 从内置复数转换
func FromComplex(c complex128) Phasor { return Phasor{Re: real(c), Im: imag(c)} }

// ParsePhasor 解析 "1+0.5i" 形式的字符串
func ParsePhasor(s string) (Phasor, error) {
	c, err := strconv.ParseComplex(s, 128)
	if err != nil {
		return Phasor{}, err
	}
	return FromComplex(c), nil
}

// Complex 转换为内置复数
func (p Phasor) Complex() complex128 { return complex(p.Re, p.Im) }

// Add 相量加法
func (p Phasor) Add(other Phasor) Phasor {
	return Phasor{p.Re + other.Re, p.Im + other.Im}
}

// Sub 相量减法
func (p Phasor) Sub(other Phasor) Phasor {
	return Phasor{p.Re - other.Re, p.Im - other.Im}
}

// Mul 相量乘法（复数乘法，不取共轭）
func (p Phasor) Mul(other Phasor) Phasor {
	return Phasor{
		Re: p.Re*other.Re - p.Im*other.Im,
		Im: p.Re*other.Im + p.Im*other.Re,
	}
}

// Scale 实数缩放
func (p Phasor) Scale(s float64) Phasor {
	return Phasor{p.Re * s, p.Im * s}
}

// Sqrt 主值平方根
func (p Phasor) Sqrt() Phasor {
	return FromComplex(cmplx.Sqrt(p.Complex()))
}

// Abs 复数模 |p|
func (p Phasor) Abs() float64 {
	return math.Hypot(p.Re, p.Im)
}

// IsZero 是否为零
func (p Phasor) IsZero() bool { return p.Re == 0 && p.Im == 0 }

// IsFinite 实部虚部均为有限值
func (p Phasor) IsFinite() bool { return isFinite(p.Re) && isFinite(p.Im) }

// String 返回 "(re+imi)" 形式
func (p Phasor) String() string {
	return strconv.FormatComplex(p.Complex(), 'g', -1, 128)
}
