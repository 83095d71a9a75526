package solver

import (
	"biotsavart/maths"
	"biotsavart/types"
	"errors"
	"fmt"
	"log/slog"
)

// Solver 磁场求解器
// 构造后只读（调试接口除外），可在多个 Solve 调用之间复用。
type Solver struct {
	Mu0    float64      // 真空磁导率
	Strict bool         // 严格模式：零长度线段返回错误
	Debug  Debug        // 调试接口
	Logger *slog.Logger // 日志
}

// Option 求解器选项
type Option func(*Solver)

// WithMu0 注入磁导率常数（便于使用其他单位制）
func WithMu0(mu0 float64) Option { return func(s *Solver) { s.Mu0 = mu0 } }

// WithStrict 设置严格模式
func WithStrict(strict bool) Option { return func(s *Solver) { s.Strict = strict } }

// WithDebug 设置调试接口
func WithDebug(d Debug) Option { return func(s *Solver) { s.Debug = d } }

// WithLogger 设置日志
func WithLogger(l *slog.Logger) Option { return func(s *Solver) { s.Logger = l } }

// New 创建求解器
func New(opts ...Option) *Solver {
	s := &Solver{
		Mu0:    types.Mu0,
		Debug:  &debug{},
		Logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve 计算导线在所有观测点处的叠加磁场
// 外层遍历线段，内层遍历观测点，逐点累加。
// 输入在计算开始前全部校验，任何错误都不会返回部分结果。
func (s *Solver) Solve(wire *types.Wire, points *types.Points) ([]maths.Field, error) {
	if err := wire.Validate(); err != nil {
		return nil, s.fail(err)
	}
	if err := points.Validate(); err != nil {
		return nil, s.fail(err)
	}
	s.Debug.Init(wire, points)

	current := EffectiveCurrent(wire.Current, wire.N)
	segs := wire.Segments()
	b := make([]maths.Field, points.Len())
	for i, seg := range segs {
		if seg.IsDegenerate() {
			if s.Strict {
				return nil, s.fail(&types.DegenerateSegmentError{Segment: i})
			}
			s.Logger.Debug("零长度线段", "segment", i, "vertex", seg.Start)
			s.Debug.Degenerate(i)
		}
		for j := range b {
			db, err := SegmentField(s.Mu0, seg, points.At(j), current)
			if err != nil {
				switch {
				case errors.Is(err, types.ErrColocated):
					err = &types.ColocatedPointError{Segment: i, Point: j}
				case errors.Is(err, types.ErrNonFinite):
					err = &types.NonFiniteFieldError{Segment: i, Point: j}
				}
				return nil, s.fail(err)
			}
			b[j] = b[j].Add(db)
			if !b[j].IsFinite() {
				return nil, s.fail(&types.NonFiniteFieldError{Segment: i, Point: j})
			}
		}
	}

	s.Logger.Debug("磁场求解完成", "segments", len(segs), "points", len(b))
	s.Debug.Update(b)
	return b, nil
}

// SolveMagnitude 求解并直接返回磁场模长
func (s *Solver) SolveMagnitude(wire *types.Wire, points *types.Points) ([]float64, error) {
	b, err := s.Solve(wire, points)
	if err != nil {
		return nil, err
	}
	return FieldMagnitude(b), nil
}

// fail 记录错误
func (s *Solver) fail(err error) error {
	s.Debug.Error(err)
	return fmt.Errorf("solve: %w", err)
}

// FieldMagnitude 磁场模长：先求非共轭模长 sqrt(b·b)，再取复数模
func FieldMagnitude(b []maths.Field) []float64 {
	out := make([]float64, len(b))
	for i := range b {
		out[i] = b[i].Magnitude().Abs()
	}
	return out
}
