package loop

import (
	"biotsavart/maths"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
	"math"
)

// Name 形状名称
const Name = "loop"

// init 初始化
func init() {
	types.ShapeRegister(Name, &config{})
}

// config 默认配置
type config struct{}

// ValueName 参数名称
func (config) ValueName() []string {
	return []string{"cx", "cy", "cz", "radius", "points", "theta", "phi"}
}

// ValueInit 参数默认值
func (config) ValueInit() []float64 { return []float64{0, 0, 0, 1, float64(types.DefaultPoints), 0, 0} }

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
		values.ParseInt(4, int(def[4])),
		values.ParseFloat64(5, def[5]),
		values.ParseFloat64(6, def[6]),
	)
}

// New 生成闭合圆环
// np 个顶点均匀分布在 [0, 2π] 上，末尾顶点与首个顶点重合；
// 圆环法向为 (sinθcosφ, sinθsinφ, cosθ)。
func New(centre maths.Vec3, radius float64, np int, theta, phi float64) ([]maths.Vec3, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius=%g", types.ErrShapeParam, radius)
	}
	if np < 3 || np > types.MaxVertices {
		return nil, fmt.Errorf("%w: points=%d", types.ErrShapeParam, np)
	}
	vs := make([]maths.Vec3, np)
	for i := 0; i < np-1; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / float64(np-1))
		vs[i] = maths.NewVec3(radius*c, radius*s, 0)
	}
	vs = maths.NewRotation(theta, phi).Place(vs[:np-1], centre)
	// 首尾重合保证闭合
	return append(vs, vs[0]), nil
}
