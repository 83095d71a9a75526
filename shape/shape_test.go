package shape

import (
	"biotsavart/analytic"
	"biotsavart/maths"
	"biotsavart/solver"
	"biotsavart/types"
	"biotsavart/utils"
	"errors"
	"math"
	"strings"
	"testing"
)

const mu0 = 4 * math.Pi * 1e-7

func TestNames(t *testing.T) {
	names := strings.Join(Names(), ",")
	if names != "line,loop,rectangle,solenoid" {
		t.Errorf("形状注册不正确: %s", names)
	}
	usage, err := Usage("LOOP")
	if err != nil || !strings.HasPrefix(usage, "loop cx=0") || !strings.Contains(usage, "points=100") {
		t.Errorf("Usage 不正确: %q %v", usage, err)
	}
	if _, err := Usage("helix"); err == nil {
		t.Errorf("未知形状应返回错误")
	}
}

func TestLoop(t *testing.T) {
	w, err := Build("loop", utils.Fields("0 0 0 2 1000"), maths.NewPhasor(1, 0), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if w.Len() != 1000 || !w.Closed() {
		t.Fatalf("圆环顶点不正确: len=%d closed=%v", w.Len(), w.Closed())
	}
	if l := w.Length(); math.Abs(l-4*math.Pi)/(4*math.Pi) > 1e-5 {
		t.Errorf("圆环周长 %g", l)
	}

	p, _ := types.NewAxisPoints("z", -3, 3, 7, [2]float64{})
	got, err := solver.New(solver.WithMu0(mu0)).SolveMagnitude(w, p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	c, err := analytic.Compare(got, analytic.Loop(mu0, 1, 1, 2, p.Z))
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if c.MaxRelErr > 1e-4 {
		t.Errorf("与解析解误差过大: %+v", c)
	}
}

func TestLoopRotated(t *testing.T) {
	// 法向沿 +X，中心 (1,0,0)
	w, err := Build("loop", utils.Fields("1 0 0 1 400 1.5707963267948966 0"), maths.NewPhasor(1, 0), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := 0; i < w.Len(); i++ {
		if math.Abs(w.X[i]-1) > 1e-12 {
			t.Fatalf("顶点(%d)不在 x=1 平面内: %v", i, w.Vertex(i))
		}
	}
	p := types.NewPoints(maths.NewVec3(1.5, 0, 0))
	b, err := solver.New(solver.WithMu0(mu0)).Solve(w, p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	want := analytic.LoopOnAxis(mu0, 1, 1, 1, 0.5)
	if math.Abs(b[0].X.Re-want)/want > 1e-3 || math.Abs(b[0].Y.Re) > want*1e-9 {
		t.Errorf("旋转后磁场方向不正确: %v, 期望 Bx=%g", b[0], want)
	}
}

func TestSolenoid(t *testing.T) {
	w, err := Build("solenoid", utils.Fields("0 0 0 0.05 1 200 36"), maths.NewPhasor(1, 0), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if w.Len() != 200*36+1 {
		t.Fatalf("螺线管顶点数 %d", w.Len())
	}
	if w.Z[0] != -0.5 || math.Abs(w.Z[w.Len()-1]-0.5) > 1e-12 {
		t.Errorf("螺线管端点不正确: %g %g", w.Z[0], w.Z[w.Len()-1])
	}
	p := types.NewPoints(maths.Vec3{})
	got, err := solver.New(solver.WithMu0(mu0)).SolveMagnitude(w, p)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	want := analytic.SolenoidOnAxis(mu0, 1, 200, 0.05, 1, 0)
	if math.Abs(got[0]-want)/want > 1e-2 {
		t.Errorf("螺线管中心磁场 %g, 期望 %g", got[0], want)
	}
}

func TestLine(t *testing.T) {
	w, err := Build("line", utils.Fields("0 0 -1 0 0 1 2"), maths.NewPhasor(2, 0), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("直导线顶点数 %d", w.Len())
	}
	fine, err := Refine(w, 0.01)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if fine.Len() != 201 || fine.Vertex(0) != w.Vertex(0) || fine.Vertex(200) != w.Vertex(1) {
		t.Fatalf("细分结果不正确: len=%d", fine.Len())
	}

	pt := maths.NewVec3(0.5, 0, 0.2)
	got, err := solver.New(solver.WithMu0(mu0)).SolveMagnitude(fine, types.NewPoints(pt))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	want := analytic.LineAt(mu0, 2, w.Vertex(0), w.Vertex(1), pt)
	if math.Abs(got[0]-want)/want > 1e-3 {
		t.Errorf("直导线磁场 %g, 期望 %g", got[0], want)
	}
}

func TestRectangle(t *testing.T) {
	w, err := Build("rectangle", utils.Fields("0 0 0 2 2"), maths.NewPhasor(1, 0), 1)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if w.Len() != 5 || !w.Closed() || w.Length() != 8 {
		t.Fatalf("矩形不正确: len=%d length=%g", w.Len(), w.Length())
	}
	fine, err := Refine(w, 0.005)
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	got, err := solver.New(solver.WithMu0(mu0)).Solve(fine, types.NewPoints(maths.Vec3{}))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	// 正方形中心：四条边各贡献 μ0 I √2 / (4π a)，a 为半边长
	want := 4 * analytic.FiniteLine(mu0, 1, 1, -1, 1)
	if math.Abs(got[0].Z.Re-want)/want > 1e-4 {
		t.Errorf("矩形中心磁场 %g, 期望 %g", got[0].Z.Re, want)
	}
}

func TestShapeParam(t *testing.T) {
	cases := []struct {
		name   string
		values string
	}{
		{"loop", "0 0 0 -1"},
		{"loop", "0 0 0 1 2"},
		{"loop", "0 0 0 1 2000000"},
		{"solenoid", "0 0 0 1 1 0"},
		{"solenoid", "0 0 0 1 -1"},
		{"line", "0 0 0 1 1 1 1"},
		{"line", "0 0 0 1 1 1 5000000"},
		{"solenoid", "0 0 0 1 1 100000 100"},
		{"rectangle", "0 0 0 0 1"},
	}
	for _, c := range cases {
		_, err := Build(c.name, utils.Fields(c.values), maths.NewPhasor(1, 0), 1)
		if !errors.Is(err, types.ErrShapeParam) {
			t.Errorf("%s %q: 期望 ErrShapeParam, 得到 %v", c.name, c.values, err)
		}
	}
	if _, err := Build("helix", nil, maths.NewPhasor(1, 0), 1); err == nil {
		t.Errorf("未知形状应返回错误")
	}
	if _, err := Build("loop", nil, maths.NewPhasor(1, 0), 0); !errors.Is(err, types.ErrInvalidTurns) {
		t.Errorf("匝数为0应返回 ErrInvalidTurns: %v", err)
	}

	w, _ := Build("line", nil, maths.NewPhasor(1, 0), 1)
	if _, err := Refine(w, 0); !errors.Is(err, types.ErrShapeParam) {
		t.Errorf("dl<=0 应返回错误: %v", err)
	}
	// 步长过小时细分顶点数超过上限
	for _, dl := range []float64{1e-7, 1e-300} {
		if _, err := Refine(w, dl); !errors.Is(err, types.ErrShapeParam) {
			t.Errorf("dl=%g 应返回 ErrShapeParam: %v", dl, err)
		}
	}
}
