// Package assist 配置建议服务的边界
//
// 建议服务（远程模型或离线预设）根据自然语言描述给出一份新的萤火虫配置。
// 引擎不感知建议服务，宿主拿到结果后通过 Engine.SetConfig 下发。
package assist

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/fireflies/pkg/config"
)

// Suggester 配置建议服务
type Suggester interface {
	// Suggest 根据提示词返回新配置
	// 失败时返回 current 和错误，调用方可以直接使用返回的配置
	Suggest(ctx context.Context, prompt string, current config.FireflyConfig) (config.FireflyConfig, error)
}

// Range 数值建议的允许范围
type Range struct {
	Min, Max float64
}

// Clamp 把 v 限制在范围内
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// 建议值的允许范围
var (
	CountRange       = Range{Min: 1, Max: 50}
	SpeedRange       = Range{Min: 0.5, Max: 5}
	FlickerRateRange = Range{Min: 1, Max: 10}
	WingSpeedRange   = Range{Min: 1, Max: 15}
)

// ErrIncomplete 回复缺少必需字段
var ErrIncomplete = errors.New("suggestion is missing required fields")

// rawSuggestion 建议回复，所有字段必填
type rawSuggestion struct {
	Count       *float64 `yaml:"count"`
	Color       *string  `yaml:"color"`
	Speed       *float64 `yaml:"speed"`
	FlickerRate *float64 `yaml:"flickerRate"`
	WingSpeed   *float64 `yaml:"wingSpeed"`
}

// DecodeSuggestion 解析建议服务的 JSON 回复
//
// 回复必须包含 count、color、speed、flickerRate、wingSpeed 五个字段，
// 数值会被限制在允许范围内，颜色必须可解析。允许回复被 ``` 代码块包裹。
//
// 参数：
//   - raw: 回复原文
//   - current: 当前配置，解析失败时原样返回
//
// 返回：
//   - config.FireflyConfig: 新配置，失败时为 current
//   - error: 解析或校验失败时返回错误
func DecodeSuggestion(raw []byte, current config.FireflyConfig) (config.FireflyConfig, error) {
	text := stripFence(string(raw))
	if text == "" {
		return current, fmt.Errorf("failed to parse suggestion: empty reply")
	}

	var s rawSuggestion
	if err := yaml.Unmarshal([]byte(text), &s); err != nil {
		return current, fmt.Errorf("failed to parse suggestion: %w", err)
	}
	if s.Count == nil || s.Color == nil || s.Speed == nil || s.FlickerRate == nil || s.WingSpeed == nil {
		return current, ErrIncomplete
	}
	for name, v := range map[string]float64{
		"count":       *s.Count,
		"speed":       *s.Speed,
		"flickerRate": *s.FlickerRate,
		"wingSpeed":   *s.WingSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return current, fmt.Errorf("invalid suggestion: %s is not finite", name)
		}
	}
	if _, err := config.ParseColor(*s.Color); err != nil {
		return current, fmt.Errorf("invalid suggestion: %w", err)
	}

	return config.FireflyConfig{
		Count:       int(math.Round(CountRange.Clamp(*s.Count))),
		Color:       strings.TrimSpace(*s.Color),
		Speed:       SpeedRange.Clamp(*s.Speed),
		FlickerRate: FlickerRateRange.Clamp(*s.FlickerRate),
		WingSpeed:   WingSpeedRange.Clamp(*s.WingSpeed),
	}, nil
}

// stripFence 去掉首尾空白和 Markdown 代码块标记
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
