package solver

import (
	"biotsavart/maths"
	"biotsavart/types"
	"errors"
	"math"
	"testing"
)

// circle 生成半径为 r、位于XY平面、以原点为中心的闭合圆环（首尾顶点重合）
func circle(r float64, np int, current maths.Phasor, n int) *types.Wire {
	w := types.NewWire(current, n)
	for i := 0; i < np; i++ {
		a := 2 * math.Pi * float64(i) / float64(np-1)
		w.Append(maths.NewVec3(r*math.Cos(a), r*math.Sin(a), 0))
	}
	return w
}

// fieldClose 比较两个场的相对误差
func fieldClose(a, b maths.Field, tol float64) bool {
	scale := math.Max(a.Real().Magnitude()+a.Imag().Magnitude(), b.Real().Magnitude()+b.Imag().Magnitude())
	if scale == 0 {
		return true
	}
	d := a.Add(b.ScaleReal(-1))
	return (d.Real().Magnitude()+d.Imag().Magnitude())/scale <= tol
}

func testPoints() *types.Points {
	return types.NewPoints(
		maths.NewVec3(0, 0, 1),
		maths.NewVec3(0.3, -0.2, 0.5),
		maths.NewVec3(5, 5, 5),
		maths.NewVec3(-1.5, 0.7, -2),
	)
}

func TestSegmentField(t *testing.T) {
	mu0 := types.Mu0
	// 沿X轴的单位线段，观测点在中点正上方 (0.5, 1, 0)
	seg := types.Segment{Start: maths.NewVec3(0, 0, 0), End: maths.NewVec3(1, 0, 0)}
	db, err := SegmentField(mu0, seg, maths.NewVec3(0.5, 1, 0), maths.NewPhasor(1, 0))
	if err != nil {
		t.Fatalf("SegmentField failed: %v", err)
	}
	// dl × r = (1,0,0) × (0,1,0) = (0,0,1), |r| = 1
	want := mu0 / (4 * math.Pi)
	if math.Abs(db.Z.Re-want) > 1e-20 || db.X.Re != 0 || db.Y.Re != 0 || !db.Z.IsFinite() {
		t.Errorf("单段磁场不正确: %v, 期望 Z=%g", db, want)
	}

	// 零长度线段贡献严格为零
	zero := types.Segment{Start: maths.NewVec3(1, 2, 3), End: maths.NewVec3(1, 2, 3)}
	for _, p := range []maths.Vec3{{X: 0}, {X: 5, Y: -1, Z: 2}, {X: 1, Y: 2, Z: 4}} {
		db, err := SegmentField(mu0, zero, p, maths.NewPhasor(3, -2))
		if err != nil {
			t.Fatalf("零长度线段不应报错: %v", err)
		}
		if !db.IsZero() {
			t.Errorf("零长度线段贡献应为零: %v", db)
		}
	}

	// 观测点与中点重合
	if _, err := SegmentField(mu0, seg, maths.NewVec3(0.5, 0, 0), maths.NewPhasor(1, 0)); !errors.Is(err, types.ErrColocated) {
		t.Errorf("中点重合应返回 ErrColocated, got %v", err)
	}
	if _, err := SegmentField(mu0, seg, maths.NewVec3(0.5, 1e-200, 0), maths.NewPhasor(1, 0)); !errors.Is(err, types.ErrNonFinite) {
		t.Errorf("超出浮点范围应返回 ErrNonFinite, got %v", err)
	}
}

func TestEffectiveCurrent(t *testing.T) {
	got := EffectiveCurrent(maths.NewPhasor(1.5, 2), 4)
	if got != maths.NewPhasor(6, 2) {
		t.Errorf("EffectiveCurrent = %v, want (6+2i)", got)
	}
}

func TestSolveOutputShape(t *testing.T) {
	s := New()
	w := circle(1, 16, maths.NewPhasor(1, 0), 1)
	for _, n := range []int{0, 1, 7} {
		p := &types.Points{X: make([]float64, n), Y: make([]float64, n), Z: make([]float64, n)}
		for i := range p.Z {
			p.Z[i] = float64(i) + 0.5
		}
		b, err := s.Solve(w, p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		if len(b) != n {
			t.Errorf("输出长度不正确: 期望 %d, 实际 %d", n, len(b))
		}
	}
}

func TestSolveLinearity(t *testing.T) {
	s := New()
	p := testPoints()

	t.Run("real scale", func(t *testing.T) {
		w := circle(2, 40, maths.NewPhasor(0.8, 0.3), 3)
		base, err := s.Solve(w, p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		k := -2.5
		scaled, err := s.Solve(w.WithCurrent(w.Current.Scale(k)), p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		for i := range base {
			if !fieldClose(scaled[i], base[i].ScaleReal(k), 1e-12) {
				t.Errorf("点(%d)线性不成立: %v vs %v", i, scaled[i], base[i].ScaleReal(k))
			}
		}
	})

	t.Run("complex scale", func(t *testing.T) {
		w := circle(2, 40, maths.NewPhasor(1, 0.5), 1)
		base, err := s.Solve(w, p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		k := maths.NewPhasor(0.3, -1.7)
		scaled, err := s.Solve(w.WithCurrent(w.Current.Mul(k)), p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		for i := range base {
			if !fieldClose(scaled[i], base[i].Scale(k), 1e-12) {
				t.Errorf("点(%d)复数线性不成立: %v vs %v", i, scaled[i], base[i].Scale(k))
			}
		}
	})
}

// TestSolveTurnScaling 匝数只缩放电流实部，虚部不缩放
func TestSolveTurnScaling(t *testing.T) {
	s := New()
	p := testPoints()

	unit, err := s.Solve(circle(1.5, 30, maths.NewPhasor(1, 0), 1), p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	n0 := 4
	// 纯实电流：随匝数成比例
	re, err := s.Solve(circle(1.5, 30, maths.NewPhasor(1, 0), n0), p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	// 纯虚电流：不随匝数变化
	im1, err := s.Solve(circle(1.5, 30, maths.NewPhasor(0, 1), 1), p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	imN, err := s.Solve(circle(1.5, 30, maths.NewPhasor(0, 1), n0), p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	// 混合电流 1+2i：等效为 (n0 + 2i)
	mixed, err := s.Solve(circle(1.5, 30, maths.NewPhasor(1, 2), n0), p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	for i := range unit {
		if !fieldClose(re[i], unit[i].ScaleReal(float64(n0)), 1e-12) {
			t.Errorf("点(%d)实电流未按匝数缩放: %v", i, re[i])
		}
		if !fieldClose(imN[i], im1[i], 1e-15) {
			t.Errorf("点(%d)虚电流不应随匝数变化: %v vs %v", i, imN[i], im1[i])
		}
		want := unit[i].Scale(maths.NewPhasor(float64(n0), 2))
		if !fieldClose(mixed[i], want, 1e-12) {
			t.Errorf("点(%d)混合电流不正确: %v vs %v", i, mixed[i], want)
		}
	}
}

// TestSolveSuperposition 把一段拆分为共线子段，结果随子段变短收敛
func TestSolveSuperposition(t *testing.T) {
	s := New()
	a, b := maths.NewVec3(-1, 0, 0), maths.NewVec3(1, 0.5, 0)
	p := types.NewPoints(maths.NewVec3(0.2, 0.8, 0.3))

	split := func(k int) maths.Field {
		w := types.NewWire(maths.NewPhasor(1, 0), 1)
		for i := 0; i <= k; i++ {
			w.Append(a.Add(b.Sub(a).Scale(float64(i) / float64(k))))
		}
		f, err := s.Solve(w, p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		return f[0]
	}

	diff := func(x, y maths.Field) float64 {
		return x.Add(y.ScaleReal(-1)).Abs()
	}

	// 两段之和近似单段
	one, two := split(1), split(2)
	if rel := diff(one, two) / two.Abs(); rel > 0.5 {
		t.Errorf("两段与单段差异过大: %g", rel)
	}

	// 中点法收敛：相邻细分的差逐步减小
	coarse := diff(split(2), split(4))
	fine := diff(split(16), split(32))
	if !(fine < coarse/10) {
		t.Errorf("细分未收敛: coarse=%g fine=%g", coarse, fine)
	}
}

// TestSolveCircularLoop 圆环轴线磁场收敛到解析解
func TestSolveCircularLoop(t *testing.T) {
	mu0 := 4 * math.Pi * 1e-7
	s := New(WithMu0(mu0))
	r, z := 2.0, 1.0
	exact := mu0 * 1 * r * r / (2 * math.Pow(z*z+r*r, 1.5))
	p := types.NewPoints(maths.NewVec3(0, 0, z))

	relErr := func(np int) float64 {
		mag, err := s.SolveMagnitude(circle(r, np, maths.NewPhasor(1, 0), 1), p)
		if err != nil {
			t.Fatalf("Solve failed: %v", err)
		}
		return math.Abs(mag[0]-exact) / exact
	}

	coarse, fine := relErr(20), relErr(1000)
	if fine >= 0.01 {
		t.Errorf("n_p=1000 相对误差应小于1%%: %g", fine)
	}
	if fine >= coarse {
		t.Errorf("加密离散后误差未减小: n_p=20 %g, n_p=1000 %g", coarse, fine)
	}
	if math.Abs(exact-2.2479e-7) > 1e-10 {
		t.Errorf("解析值不正确: %g", exact)
	}
}

func TestSolveColocated(t *testing.T) {
	w := types.NewWire(maths.NewPhasor(1, 0), 1)
	w.Append(maths.NewVec3(-1, 0, 0), maths.NewVec3(1, 0, 0), maths.NewVec3(1, 2, 0))
	p := types.NewPoints(maths.NewVec3(0, 1, 0), maths.NewVec3(1, 1, 0))

	b, err := New().Solve(w, p)
	if b != nil {
		t.Errorf("出错时不应返回部分结果")
	}
	var colocated *types.ColocatedPointError
	if !errors.As(err, &colocated) {
		t.Fatalf("应返回 ColocatedPointError, got %v", err)
	}
	if colocated.Segment != 1 || colocated.Point != 1 {
		t.Errorf("错误索引不正确: %+v", colocated)
	}
	if !errors.Is(err, types.ErrColocated) {
		t.Errorf("errors.Is(err, ErrColocated) 应为真")
	}
}

func TestSolveNearMidpoint(t *testing.T) {
	w := types.NewWire(maths.NewPhasor(1, 0), 1)
	w.Append(maths.NewVec3(-1, 0, 0), maths.NewVec3(1, 0, 0))

	// 极近但不重合：导线延长线上磁场为零，正上方按 1/|r|² 增长
	b, err := New().Solve(w, types.NewPoints(maths.NewVec3(1e-120, 0, 0), maths.NewVec3(0, 1e-120, 0)))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !b[0].IsZero() {
		t.Errorf("导线延长线上磁场应为零: %v", b[0])
	}
	want := types.Mu0 / (4 * math.Pi) * 2 / 1e-120 / 1e-120
	if !b[1].IsFinite() || math.Abs(b[1].Z.Re-want) > 1e-12*want || b[1].X.Re != 0 || b[1].Y.Re != 0 {
		t.Errorf("近场结果不正确: %v, 期望 Z=%g", b[1], want)
	}

	// 超出浮点范围
	b, err = New().Solve(w, types.NewPoints(maths.NewVec3(0, 0, 1), maths.NewVec3(0, 1e-200, 0)))
	if b != nil {
		t.Errorf("出错时不应返回部分结果")
	}
	var nonFinite *types.NonFiniteFieldError
	if !errors.As(err, &nonFinite) {
		t.Fatalf("应返回 NonFiniteFieldError, got %v", err)
	}
	if nonFinite.Segment != 0 || nonFinite.Point != 1 {
		t.Errorf("错误索引不正确: %+v", nonFinite)
	}
	if !errors.Is(err, types.ErrNonFinite) {
		t.Errorf("errors.Is(err, ErrNonFinite) 应为真")
	}
}

type degenerateSink struct {
	debug
	segments []int
	errs     []error
}

func (d *degenerateSink) Degenerate(segment int) { d.segments = append(d.segments, segment) }
func (d *degenerateSink) Error(err error)        { d.errs = append(d.errs, err) }

func TestSolveDegenerateSegment(t *testing.T) {
	w := types.NewWire(maths.NewPhasor(1, 0), 1)
	w.Append(maths.NewVec3(0, 0, 0), maths.NewVec3(0, 0, 0), maths.NewVec3(1, 0, 0))
	ref := types.NewWire(maths.NewPhasor(1, 0), 1)
	ref.Append(maths.NewVec3(0, 0, 0), maths.NewVec3(1, 0, 0))
	p := testPoints()

	sink := &degenerateSink{}
	b, err := New(WithDebug(sink)).Solve(w, p)
	if err != nil {
		t.Fatalf("默认模式下零长度线段不应报错: %v", err)
	}
	want, _ := New().Solve(ref, p)
	for i := range b {
		if b[i] != want[i] {
			t.Errorf("点(%d)零长度线段改变了结果: %v vs %v", i, b[i], want[i])
		}
	}
	if len(sink.segments) != 1 || sink.segments[0] != 0 {
		t.Errorf("零长度线段未报告: %v", sink.segments)
	}

	_, err = New(WithStrict(true), WithDebug(sink)).Solve(w, p)
	var degenerate *types.DegenerateSegmentError
	if !errors.As(err, &degenerate) || degenerate.Segment != 0 {
		t.Errorf("严格模式应返回 DegenerateSegmentError, got %v", err)
	}
	if len(sink.errs) != 1 {
		t.Errorf("错误未报告给调试接口: %v", sink.errs)
	}
}

func TestSolveShapeMismatch(t *testing.T) {
	w := circle(1, 10, maths.NewPhasor(1, 0), 1)
	p := &types.Points{X: []float64{0, 1}, Y: []float64{0}, Z: []float64{1, 2}}
	b, err := New().Solve(w, p)
	var mismatch *types.ShapeMismatchError
	if b != nil || !errors.As(err, &mismatch) {
		t.Fatalf("应返回 ShapeMismatchError, got %v", err)
	}
}

func TestMu0Injection(t *testing.T) {
	w := circle(1, 50, maths.NewPhasor(1, 0), 1)
	p := testPoints()
	si, err := New().SolveMagnitude(w, p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	unit, err := New(WithMu0(1)).SolveMagnitude(w, p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	for i := range si {
		if math.Abs(si[i]-unit[i]*types.Mu0) > 1e-12*si[i] {
			t.Errorf("点(%d)磁导率注入不正确: %g vs %g", i, si[i], unit[i]*types.Mu0)
		}
	}
}

func TestFieldMagnitude(t *testing.T) {
	b := []maths.Field{
		maths.NewField(maths.NewPhasor(1, 0), maths.NewVec3(3, 4, 0)),
		{X: maths.NewPhasor(1, 0), Y: maths.NewPhasor(0, 1)},
		maths.NewField(maths.NewPhasor(0, 2), maths.NewVec3(0, 0, 1)),
	}
	got := FieldMagnitude(b)
	want := []float64{5, 0, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Errorf("FieldMagnitude[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}
