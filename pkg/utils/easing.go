package utils

import (
	"math"
	"time"
)

// EaseOutCubic 三次方缓出，t ∈ [0, 1]
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Clamp01 将 t 限制在 [0, 1]，NaN 视为 0
func Clamp01(t float64) float64 {
	if !(t > 0) {
		return 0
	}
	return math.Min(t, 1)
}

// FadeIn 返回淡入进度 ∈ [0, 1]
//
// 参数：
//   - elapsed: 已经过的时间
//   - duration: 淡入总时长，<= 0 时直接返回 1
func FadeIn(elapsed, duration time.Duration) float64 {
	if duration <= 0 {
		return 1
	}
	return EaseOutCubic(Clamp01(float64(elapsed) / float64(duration)))
}
