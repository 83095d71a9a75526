package line

import (
	"biotsavart/maths"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
)

// Name 形状名称
const Name = "line"

// init 初始化
func init() {
	types.ShapeRegister(Name, &config{})
}

// config 默认配置
type config struct{}

// ValueName 参数名称
func (config) ValueName() []string {
	return []string{"ax", "ay", "az", "bx", "by", "bz", "points"}
}

// ValueInit 参数默认值
func (config) ValueInit() []float64 { return []float64{0, 0, -1, 0, 0, 1, 2} }

// Build 生成顶点
func (c config) Build(values utils.NetList) ([]maths.Vec3, error) {
	def := c.ValueInit()
	a := maths.NewVec3(values.ParseFloat64(0, def[0]), values.ParseFloat64(1, def[1]), values.ParseFloat64(2, def[2]))
	b := maths.NewVec3(values.ParseFloat64(3, def[3]), values.ParseFloat64(4, def[4]), values.ParseFloat64(5, def[5]))
	return New(a, b, values.ParseInt(6, int(def[6])))
}

// New 生成从 a 到 b 的直导线，np 个等距顶点
func New(a, b maths.Vec3, np int) ([]maths.Vec3, error) {
	if np < 2 || np > types.MaxVertices {
		return nil, fmt.Errorf("%w: points=%d", types.ErrShapeParam, np)
	}
	vs := make([]maths.Vec3, np)
	d := b.Sub(a)
	for i := range vs {
		vs[i] = a.Add(d.Scale(float64(i) / float64(np-1)))
	}
	vs[np-1] = b
	return vs, nil
}
