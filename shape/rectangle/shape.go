package rectangle

import (
	"biotsavart/maths"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
)

// Name 形状名称
const Name = "rectangle"

// init 初始化
func init() {
	types.ShapeRegister(Name, &config{})
}

// config 默认配置
type config struct{}

// ValueName 参数名称
func (config) ValueName() []string {
	return []string{"cx", "cy", "cz", "width", "height", "theta", "phi"}
}

// ValueInit 参数默认值
func (config) ValueInit() []float64 { return []float64{0, 0, 0, 1, 1, 0, 0} }

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
		values.ParseFloat64(5, def[5]),
		values.ParseFloat64(6, def[6]),
	)
}

// New 生成闭合矩形回路（5个顶点，逆时针）
func New(centre maths.Vec3, width, height, theta, phi float64) ([]maths.Vec3, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%g height=%g", types.ErrShapeParam, width, height)
	}
	w, h := width/2, height/2
	vs := maths.NewRotation(theta, phi).Place([]maths.Vec3{
		{X: -w, Y: -h},
		{X: w, Y: -h},
		{X: w, Y: h},
		{X: -w, Y: h},
	}, centre)
	return append(vs, vs[0]), nil
}
