// Package config 求解场景配置（yaml 文件 + BIOT_ 环境变量）
package config

import (
	"biotsavart"
	"biotsavart/analytic"
	"biotsavart/maths"
	"biotsavart/shape"
	"biotsavart/solver"
	"biotsavart/types"
	"biotsavart/utils"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath 默认配置文件
const DefaultPath = "biotsavart.yaml"

// EnvPrefix 环境变量前缀，BIOT_SOLVER__MU0 对应 solver.mu0
const EnvPrefix = "BIOT_"

type Config struct {
	Solver SolverConfig `koanf:"solver"`
	Wire   WireConfig   `koanf:"wire"`
	Points PointsConfig `koanf:"points"`
	Output OutputConfig `koanf:"output"`
	Store  StoreConfig  `koanf:"store"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

type SolverConfig struct {
	Mu0    float64 `koanf:"mu0"`
	Strict bool    `koanf:"strict"` // 零长度线段视为错误
}

type WireConfig struct {
	Shape   string         `koanf:"shape"`  // 内置形状名称
	Params  map[string]any `koanf:"params"` // 形状参数（按名称）
	File    string         `koanf:"file"`   // 线圈文件，优先于 shape
	Current CurrentConfig  `koanf:"current"`
	Turns   int            `koanf:"turns"`
	Refine  float64        `koanf:"refine"` // 细分步长，0 表示不细分
}

type CurrentConfig struct {
	Re float64 `koanf:"re"`
	Im float64 `koanf:"im"`
}

type PointsConfig struct {
	Axis  string    `koanf:"axis"`
	From  float64   `koanf:"from"`
	To    float64   `koanf:"to"`
	Count int       `koanf:"count"`
	Fixed []float64 `koanf:"fixed"` // 另外两个坐标的固定值
	File  string    `koanf:"file"`  // 观测点文件，优先于 axis
}

type OutputConfig struct {
	Path   string `koanf:"path"`
	Format string `koanf:"format"` // json, csv
	Chart  string `koanf:"chart"`  // echarts 页面
	Plot   string `koanf:"plot"`   // 静态图片，格式由扩展名决定
}

type StoreConfig struct {
	Path string `koanf:"path"` // sqlite 数据库，为空时不保存
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
	JSON  bool   `koanf:"json"`
}

// Load 加载配置
// path 为空时尝试 DefaultPath，文件不存在则只使用环境变量与默认值。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	name := path
	if name == "" {
		name = DefaultPath
	}
	if err := k.Load(file.Provider(name), yaml.Parser()); err != nil {
		if path != "" || !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	// 环境变量覆盖文件配置
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// 默认值
	defaults := map[string]any{
		"solver.mu0":      types.Mu0,
		"wire.shape":      "loop",
		"wire.current.re": 1.0,
		"wire.turns":      1,
		"points.axis":     "z",
		"points.from":     -1.0,
		"points.to":       1.0,
		"points.count":    types.DefaultPoints,
		"output.format":   "json",
		"server.addr":     ":8080",
		"log.level":       "info",
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if mu0 := cfg.Solver.Mu0; !(mu0 > 0) || math.IsInf(mu0, 0) {
		return nil, fmt.Errorf("config: solver.mu0 必须为正的有限数: %g", mu0)
	}
	return &cfg, nil
}

// BuildWire 构建导线：优先读取线圈文件，否则按形状生成
func (c *Config) BuildWire() (*types.Wire, error) {
	current := maths.NewPhasor(c.Wire.Current.Re, c.Wire.Current.Im)
	var w *types.Wire
	if c.Wire.File != "" {
		coil := biotsavart.NewCoil()
		coil.Current, coil.N = current, c.Wire.Turns
		if err := coil.Load(c.Wire.File); err != nil {
			return nil, fmt.Errorf("wire.file: %w", err)
		}
		w = coil.Wire
	} else {
		sc, ok := types.GetShape(c.Wire.Shape)
		if !ok {
			return nil, fmt.Errorf("wire.shape: 未知形状 %s", c.Wire.Shape)
		}
		var err error
		w, err = shape.Build(c.Wire.Shape, utils.FromMap(sc.ValueName(), c.Wire.Params), current, c.Wire.Turns)
		if err != nil {
			return nil, fmt.Errorf("wire.shape: %w", err)
		}
	}
	if c.Wire.Refine > 0 {
		return shape.Refine(w, c.Wire.Refine)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// BuildPoints 构建观测点：优先读取观测点文件，否则沿坐标轴均匀取点
func (c *Config) BuildPoints() (*types.Points, error) {
	if c.Points.File != "" {
		p, err := biotsavart.LoadPoints(c.Points.File)
		if err != nil {
			return nil, fmt.Errorf("points.file: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p, nil
	}
	var fixed [2]float64
	copy(fixed[:], c.Points.Fixed)
	return types.NewAxisPoints(c.Points.Axis, c.Points.From, c.Points.To, c.Points.Count, fixed)
}

// Reference 轴线解析解
// 仅适用于未旋转的 loop / solenoid 且观测点沿 z 轴穿过中心，其余情况返回 false。
func (c *Config) Reference(mu0 float64) (string, []float64, bool) {
	if c.Wire.File != "" || c.Points.File != "" || !strings.EqualFold(c.Points.Axis, "z") {
		return "", nil, false
	}
	sc, ok := types.GetShape(c.Wire.Shape)
	if !ok {
		return "", nil, false
	}
	def := sc.ValueInit()
	values := utils.FromMap(sc.ValueName(), c.Wire.Params)
	param := func(i int) float64 { return values.ParseFloat64(i, def[i]) }

	var fixed [2]float64
	copy(fixed[:], c.Points.Fixed)
	if param(0) != fixed[0] || param(1) != fixed[1] {
		return "", nil, false
	}
	p, err := c.BuildPoints()
	if err != nil {
		return "", nil, false
	}
	z := make([]float64, p.Len())
	for i := range z {
		z[i] = p.Z[i] - param(2)
	}
	current := solver.EffectiveCurrent(maths.NewPhasor(c.Wire.Current.Re, c.Wire.Current.Im), c.Wire.Turns).Abs()

	switch strings.ToLower(c.Wire.Shape) {
	case "loop":
		if param(5) != 0 || param(6) != 0 {
			return "", nil, false
		}
		return "loop (analytic)", analytic.Loop(mu0, current, 1, param(3), z), true
	case "solenoid":
		if param(7) != 0 || param(8) != 0 {
			return "", nil, false
		}
		return "solenoid (analytic)", analytic.Solenoid(mu0, current, int(param(5)), param(3), param(4), z), true
	}
	return "", nil, false
}
