package models

import (
	"math"
	"strconv"
	"strings"
)

// Ranges enforced on every write.
const (
	MinChoices = 4
	MaxChoices = 8

	MinTemperature = 0.0
	MaxTemperature = 2.0

	MinMaxTokens = 256
	MaxMaxTokens = 8000

	MinQuestionCount     = 1
	MaxQuestionCount     = 100
	DefaultQuestionCount = 10

	MinAddCount     = 1
	MaxAddCount     = 50
	DefaultAddCount = 5
)

// ClampInt limits n to [lo, hi].
func ClampInt(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

// ClampFloat limits x to [lo, hi]; NaN and infinities yield fallback.
func ClampFloat(x, lo, hi, fallback float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, x))
}

// ParseClampInt parses the leading integer of s and clamps it to [lo, hi].
// Text without a leading integer yields fallback.
func ParseClampInt(s string, lo, hi, fallback int) int {
	n, ok := leadingInt(s)
	if !ok {
		return fallback
	}
	return ClampInt(n, lo, hi)
}

// ParseClampFloat parses s as a number and clamps it to [lo, hi].
func ParseClampFloat(s string, lo, hi, fallback float64) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return ClampFloat(x, lo, hi, fallback)
}

// ClampChoices normalizes a per-question choice count.
func ClampChoices(n int) int { return ClampInt(n, MinChoices, MaxChoices) }

// ClampQuestionCount normalizes the number of questions to generate.
func ClampQuestionCount(n int) int { return ClampInt(n, MinQuestionCount, MaxQuestionCount) }

// ClampAddCount normalizes the number of questions to append.
func ClampAddCount(n int) int { return ClampInt(n, MinAddCount, MaxAddCount) }

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// out of int range: saturate in the direction of the sign
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, true
}
