// Package conv 提供类型转换工具，用于简化 YAML/JSON 配置解析中的重复逻辑。
package conv

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// ConvertMap 将 map[K]V1 按 convert 转为 map[K]V2，convert 返回 false 的条目被跳过。
func ConvertMap[K comparable, V1, V2 any](m map[K]V1, convert func(V1) (V2, bool)) map[K]V2 {
	if m == nil {
		return nil
	}
	out := make(map[K]V2, len(m))
	for k, v := range m {
		if v2, ok := convert(v); ok {
			out[k] = v2
		}
	}
	return out
}

// MapToFloat64 将 map[string]any 转为 map[string]float64，仅保留可转为 float64 的 value。
func MapToFloat64(m map[string]any) map[string]float64 {
	return ConvertMap(m, func(v any) (float64, bool) { return ToFloat64(v) })
}

// ConfigGet 从 map[string]any（如 YAML 解析结果）按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt 从 config 取 int。YAML 解析常得到 int 或 float64，此处兼容并统一为 int。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	case float32:
		return int(val)
	default:
		return defaultVal
	}
}
