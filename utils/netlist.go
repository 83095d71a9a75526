package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NetList 按位置排列的参数列表（字符串形式）
type NetList []string

// FromMap 按参数名称顺序把命名参数转换为 NetList
// 缺失的参数使用空字符串占位，由 ParseXxx 回退到默认值
func FromMap(names []string, values map[string]any) NetList {
	result := make(NetList, len(names))
	for i, n := range names {
		if v, ok := values[n]; ok {
			result[i] = anyToString(v)
		}
	}
	return result
}

// Fields 按空白切分一行，忽略 # 之后的注释
func Fields(line string) NetList {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return NetList(strings.Fields(line))
}

// anyToString 将任意基础类型转换为字符串
func anyToString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case complex128:
		return strconv.FormatComplex(val, 'g', -1, 128)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

// ParseInt 解析整数
func (value NetList) ParseInt(i int, defaultValue int) int {
	if i < len(value) {
		if val, err := strconv.Atoi(value[i]); err == nil {
			return val
		}
		// 允许 "100.0" 形式
		if val, err := strconv.ParseFloat(value[i], 64); err == nil && val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultValue
}

// ParseFloat64 解析64位浮点数
func (value NetList) ParseFloat64(i int, defaultValue float64) float64 {
	if i < len(value) {
		if val, err := strconv.ParseFloat(value[i], 64); err == nil {
			return val
		}
	}
	return defaultValue
}

// ParseString 安全获取字符串
func (value NetList) ParseString(i int, defaultValue string) string {
	if i < len(value) && value[i] != "" {
		return value[i]
	}
	return defaultValue
}

// Floats 严格解析全部元素为浮点数
func (value NetList) Floats() ([]float64, error) {
	out := make([]float64, len(value))
	for i, s := range value {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("参数(%d)解析失败: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
