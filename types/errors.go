package types

import (
	"errors"
	"fmt"
)

// 输入校验错误
var (
	ErrColocated      = errors.New("观测点与线段中点重合")
	ErrTooFewVertices = errors.New("导线顶点数不足")
	ErrInvalidTurns   = errors.New("匝数必须大于等于1")
	ErrNonFinite      = errors.New("存在非有限数值")
	ErrEmptyPoints    = errors.New("观测点为空")
	ErrShapeParam     = errors.New("形状参数无效")
)

// ShapeMismatchError 坐标序列长度不一致
type ShapeMismatchError struct {
	Name    string // 数据名称（wire / points）
	Lengths [3]int // 三个坐标轴的长度
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s 坐标长度不一致: x=%d y=%d z=%d", e.Name, e.Lengths[0], e.Lengths[1], e.Lengths[2])
}

// ColocatedPointError 观测点与线段中点重合，位移为零
type ColocatedPointError struct {
	Segment int // 线段索引
	Point   int // 观测点索引
}

func (e *ColocatedPointError) Error() string {
	return fmt.Sprintf("观测点(%d)与线段(%d)中点重合", e.Point, e.Segment)
}

// Unwrap 支持 errors.Is(err, ErrColocated)
func (e *ColocatedPointError) Unwrap() error { return ErrColocated }

// DegenerateSegmentError 零长度线段（仅严格模式下返回）
type DegenerateSegmentError struct {
	Segment int // 线段索引
}

func (e *DegenerateSegmentError) Error() string {
	return fmt.Sprintf("线段(%d)长度为零", e.Segment)
}

// NonFiniteFieldError 观测点距线段中点过近，磁场超出浮点范围
type NonFiniteFieldError struct {
	Segment int // 线段索引
	Point   int // 观测点索引
}

func (e *NonFiniteFieldError) Error() string {
	return fmt.Sprintf("观测点(%d)处线段(%d)的磁场超出浮点范围", e.Point, e.Segment)
}

// Unwrap 支持 errors.Is(err, ErrNonFinite)
func (e *NonFiniteFieldError) Unwrap() error { return ErrNonFinite }
