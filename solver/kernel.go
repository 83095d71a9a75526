package solver

import (
	"biotsavart/maths"
	"biotsavart/types"
	"math"
)

// SegmentField 计算单个直线段在观测点产生的磁场增量（中点法离散 Biot-Savart）
//
//	dB = mu0/(4π) · I · (dl × r) / |r|³
//
// 其中 dl 为线段向量，r 为观测点相对线段中点的位移。
// 观测点与中点重合时返回 types.ErrColocated，结果超出浮点范围时返回 types.ErrNonFinite。
// 零长度线段返回零向量。
func SegmentField(mu0 float64, seg types.Segment, point maths.Vec3, current maths.Phasor) (maths.Field, error) {
	dl := seg.Dl()
	r := point.Sub(seg.Mid())
	rm := r.Magnitude()
	if rm == 0 {
		return maths.Field{}, types.ErrColocated
	}
	// 先归一化 r，避免 |r|³ 提前下溢
	k := mu0 / (4 * math.Pi) / rm / rm
	db := maths.NewField(current.Scale(k), dl.Cross(r.Scale(1/rm)))
	if !db.IsFinite() {
		return maths.Field{}, types.ErrNonFinite
	}
	return db, nil
}

// EffectiveCurrent 有效电流：实部乘以匝数，虚部保持不变
func EffectiveCurrent(current maths.Phasor, n int) maths.Phasor {
	return maths.Phasor{Re: current.Re * float64(n), Im: current.Im}
}
