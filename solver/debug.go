package solver

import (
	"biotsavart/maths"
	"biotsavart/types"
	"io"
)

// Debug 调试接口
type Debug interface {
	Init(wire *types.Wire, points *types.Points)
	IsDebug() bool
	SetDebug(is bool)
	Degenerate(segment int)
	Update(fields []maths.Field)
	Render(w io.Writer) error
	Error(err error)
}

type debug struct{ is bool }

func (debug) Init(wire *types.Wire, points *types.Points) {}
func (debug *debug) IsDebug() bool                        { return debug.is }
func (debug *debug) SetDebug(is bool)                     { debug.is = is }
func (debug) Degenerate(segment int)                      {}
func (debug) Update(fields []maths.Field)                 {}
func (debug) Render(w io.Writer) error                    { return nil }
func (debug) Error(err error)                             {}
