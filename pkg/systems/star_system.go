package systems

import (
	"math"
	"math/rand/v2"

	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
)

// InitStars 生成背景星空
// 视口尺寸无效（非有限或不大于 0）时返回 nil
func InitStars(w, h float64, rng *rand.Rand) []components.StarComponent {
	if !validSize(w, h) {
		return nil
	}
	stars := make([]components.StarComponent, config.StarCount)
	for i := range stars {
		stars[i] = components.StarComponent{
			X:           rng.Float64() * w,
			Y:           rng.Float64() * h,
			Radius:      rng.Float64() * config.StarRadiusMax,
			Opacity:     config.StarOpacityMin + rng.Float64()*(config.StarOpacityMax-config.StarOpacityMin),
			TwinkleRate: config.StarTwinkleMin + rng.Float64()*config.StarTwinkleSpan,
		}
	}
	return stars
}

// StepStar 推进一颗星星的闪烁，越过边界后反向
func StepStar(s components.StarComponent) components.StarComponent {
	s.Opacity += s.TwinkleRate
	if s.Opacity > config.StarOpacityMax {
		s.TwinkleRate = -math.Abs(s.TwinkleRate)
	} else if s.Opacity < config.StarOpacityMin {
		s.TwinkleRate = math.Abs(s.TwinkleRate)
	}
	return s
}

// UpdateStars 原地推进所有星星
func UpdateStars(stars []components.StarComponent) {
	for i := range stars {
		stars[i] = StepStar(stars[i])
	}
}

func validSize(w, h float64) bool {
	m := math.Min(w, h)
	return !math.IsNaN(w) && !math.IsNaN(h) && !math.IsInf(w, 0) && !math.IsInf(h, 0) && m > 0
}
