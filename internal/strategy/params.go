package strategy

import (
	"strings"

	"github.com/Rana718/Forge/internal/value"
)

// Configuration maps arrive from YAML, JSON or Go literals, so every scalar
// may show up as int, float64 or string. These helpers normalize access.

func strParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok && v != nil {
		return value.String(v)
	}
	return def
}

func floatParam(params map[string]interface{}, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		if f, fok := value.Float(v); fok {
			return f
		}
	}
	return def
}

func optFloatParam(params map[string]interface{}, key string) *float64 {
	if v, ok := params[key]; ok {
		if f, fok := value.Float(v); fok {
			return &f
		}
	}
	return nil
}

func intParam(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key]; ok {
		if n, nok := value.Int(v); nok {
			return int(n)
		}
	}
	return def
}

func boolParam(params map[string]interface{}, key string, def bool) bool {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	default:
		if f, fok := value.Float(v); fok {
			return f != 0
		}
		return def
	}
}

func listParam(params map[string]interface{}, key string) []interface{} {
	if v, ok := params[key]; ok {
		if list, lok := v.([]interface{}); lok {
			return list
		}
	}
	return nil
}

func mapParam(params map[string]interface{}, key string) map[string]interface{} {
	v, ok := params[key]
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, mv := range m {
			out[value.String(k)] = mv
		}
		return out
	default:
		return nil
	}
}
