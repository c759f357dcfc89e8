package utils

import (
	"strconv"
	"strings"
)

// SplitList 解析逗号分隔的列表：去掉首尾空白，丢弃空项
// "rock, pop,,jazz " -> ["rock", "pop", "jazz"]
func SplitList(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// ParseInt 解析整数，失败时返回默认值
func ParseInt(s string, defaultValue int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return v
}

// ParseOptionalInt 解析可选整数，空串或非法值返回 nil
func ParseOptionalInt(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &v
}

// ParseOptionalFloat 解析可选浮点数，空串或非法值返回 nil
func ParseOptionalFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
