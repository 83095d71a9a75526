package types

import (
	"biotsavart/maths"
	"biotsavart/utils"
	"fmt"
	"sort"
	"strings"
)

// ShapeConfig 导线形状生成器
type ShapeConfig interface {
	ValueName() []string                              // 参数名称（按位置）
	ValueInit() []float64                             // 参数默认值
	Build(values utils.NetList) ([]maths.Vec3, error) // 生成顶点
}

// shapeList 形状映射
var shapeList = map[string]ShapeConfig{}

// ShapeRegister 注册形状
func ShapeRegister(name string, config ShapeConfig) {
	name = strings.ToLower(name)
	if _, ok := shapeList[name]; ok {
		panic(fmt.Errorf("指定形状已经注册: %s", name))
	}
	shapeList[name] = config
}

// GetShape 通过名称获取形状
func GetShape(name string) (ShapeConfig, bool) {
	config, ok := shapeList[strings.ToLower(name)]
	return config, ok
}

// ShapeNames 已注册形状名称（排序）
func ShapeNames() []string {
	names := make([]string, 0, len(shapeList))
	for n := range shapeList {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// BuildWire 由形状名称和位置参数生成导线
func BuildWire(name string, values utils.NetList, current maths.Phasor, n int) (*Wire, error) {
	config, ok := GetShape(name)
	if !ok {
		return nil, fmt.Errorf("未知形状: %s", name)
	}
	vertices, err := config.Build(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	w := NewWire(current, n)
	w.Name = strings.ToLower(name)
	w.Append(vertices...)
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return w, nil
}
