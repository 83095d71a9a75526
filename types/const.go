package types

// 默认参数常量定义
var (
	Mu0           = 1.25663706212e-6 // 真空磁导率 (H/m)，CODATA 2018
	Tolerance     = 1e-9             // 默认相对容差
	MinVertices   = 2                // 导线最少顶点数
	DefaultPoints = 100              // 默认离散点数
	MaxVertices   = 1 << 20          // 生成或细分导线的顶点上限
)
