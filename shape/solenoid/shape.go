package solenoid

import (
	"biotsavart/maths"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
	"math"
)

// Name 形状名称
const Name = "solenoid"

// init 初始化
func init() {
	types.ShapeRegister(Name, &config{})
}

// config 默认配置
type config struct{}

// ValueName 参数名称
func (config) ValueName() []string {
	return []string{"cx", "cy", "cz", "radius", "length", "turns", "points", "theta", "phi"}
}

// ValueInit 参数默认值
func (config) ValueInit() []float64 { return []float64{0, 0, 0, 1, 1, 10, 36, 0, 0} }

// Build 生成顶点
func (c config) Build(values utils.NetList) ([]maths.Vec3, error) {
	def := c.ValueInit()
	centre := maths.NewVec3(
		values.ParseFloat64(0, def[0]),
		values.ParseFloat64(1, def[1]),
		values.ParseFloat64(2, def[2]),
	)
	return New(centre,
		values.ParseFloat64(3, def[3]),
		values.ParseFloat64(4, def[4]),
		values.ParseInt(5, int(def[5])),
		values.ParseInt(6, int(def[6])),
		values.ParseFloat64(7, def[7]),
		values.ParseFloat64(8, def[8]),
	)
}

// New 生成螺线管（螺旋线）
// 沿法向轴居中于 centre，共 turns 圈，每圈 perTurn 个线段，为开放折线。
func New(centre maths.Vec3, radius, length float64, turns, perTurn int, theta, phi float64) ([]maths.Vec3, error) {
	switch {
	case radius <= 0:
		return nil, fmt.Errorf("%w: radius=%g", types.ErrShapeParam, radius)
	case length < 0:
		return nil, fmt.Errorf("%w: length=%g", types.ErrShapeParam, length)
	case turns < 1:
		return nil, fmt.Errorf("%w: turns=%d", types.ErrShapeParam, turns)
	case perTurn < 3:
		return nil, fmt.Errorf("%w: points=%d", types.ErrShapeParam, perTurn)
	case float64(turns)*float64(perTurn) >= float64(types.MaxVertices):
		return nil, fmt.Errorf("%w: turns=%d points=%d 顶点数超过 %d", types.ErrShapeParam, turns, perTurn, types.MaxVertices)
	}
	n := turns * perTurn
	vs := make([]maths.Vec3, n+1)
	for i := range vs {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(perTurn))
		z := -length/2 + length*float64(i)/float64(n)
		vs[i] = maths.NewVec3(radius*c, radius*s, z)
	}
	return maths.NewRotation(theta, phi).Place(vs, centre), nil
}
