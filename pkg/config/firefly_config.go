package config

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/decker502/fireflies/pkg/embedded"
)

// FireflyConfig 萤火虫外观与运动参数
//
// 由外部控制方（菜单、配置建议服务等）修改，引擎每帧读取。
//
// 配置文件位置: data/fireflies.yaml
type FireflyConfig struct {
	// Count 自由飞行时的萤火虫数量
	Count int `yaml:"count"`

	// Color 显示颜色（"#rrggbb"、"#rgb" 或常见 CSS 颜色名）
	Color string `yaml:"color"`

	// Speed 基础飞行速度倍率
	Speed float64 `yaml:"speed"`

	// FlickerRate 尾部闪烁速度
	FlickerRate float64 `yaml:"flickerRate"`

	// WingSpeed 翅膀扇动速度
	WingSpeed float64 `yaml:"wingSpeed"`
}

// DefaultFireflyConfigPath 默认配置文件路径（嵌入资源）
const DefaultFireflyConfigPath = "data/fireflies.yaml"

// 配置值的安全上限（上游未校验时使用）
const (
	MaxCount = 2000
	MaxSpeed = 50.0
	MaxRate  = 100.0
)

// DefaultFireflyConfig 返回默认配置
func DefaultFireflyConfig() FireflyConfig {
	return FireflyConfig{
		Count:       35,
		Color:       "#ffff00",
		Speed:       1.2,
		FlickerRate: 5,
		WingSpeed:   8,
	}
}

// ParseFireflyConfig 解析 YAML 格式的萤火虫配置
//
// 缺省字段使用默认值，解析后会校验颜色值。
//
// 参数:
//   - data: YAML 内容
//
// 返回:
//   - FireflyConfig: 解析后的配置
//   - error: 解析或校验失败时返回错误
func ParseFireflyConfig(data []byte) (FireflyConfig, error) {
	cfg := DefaultFireflyConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultFireflyConfig(), fmt.Errorf("failed to parse firefly config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultFireflyConfig(), fmt.Errorf("invalid firefly config: %w", err)
	}
	return cfg, nil
}

// LoadFireflyConfig 从嵌入资源加载萤火虫配置
//
// 参数:
//   - path: 配置文件路径（如 "data/fireflies.yaml"）
//
// 返回:
//   - FireflyConfig: 加载成功后的配置，失败时为默认配置
//   - error: 加载失败时返回错误
func LoadFireflyConfig(path string) (FireflyConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return DefaultFireflyConfig(), fmt.Errorf("failed to read firefly config: %w", err)
	}
	return ParseFireflyConfig(data)
}

// Validate 验证配置有效性
//
// 检查项：
//   - 数量不能为负
//   - 速度与频率必须是有限非负数
//   - 颜色必须可解析
func (c FireflyConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", c.Count)
	}
	for name, v := range map[string]float64{
		"speed":       c.Speed,
		"flickerRate": c.FlickerRate,
		"wingSpeed":   c.WingSpeed,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s must be a finite non-negative number, got %v", name, v)
		}
	}
	if _, err := ParseColor(c.Color); err != nil {
		return err
	}
	return nil
}

// Sanitize 返回一份可安全使用的配置副本
//
// 非法值回退到默认值，过大的值被限制在上限内。引擎本身不做校验，
// 由宿主在交给引擎前调用。
func (c FireflyConfig) Sanitize() FireflyConfig {
	def := DefaultFireflyConfig()
	out := c

	if out.Count < 0 {
		out.Count = 0
	}
	if out.Count > MaxCount {
		out.Count = MaxCount
	}
	out.Speed = clampFinite(out.Speed, def.Speed, MaxSpeed)
	out.FlickerRate = clampFinite(out.FlickerRate, def.FlickerRate, MaxRate)
	out.WingSpeed = clampFinite(out.WingSpeed, def.WingSpeed, MaxRate)
	if _, err := ParseColor(out.Color); err != nil {
		out.Color = def.Color
	}
	return out
}

// RGBA 返回配置颜色，无法解析时返回默认黄色
func (c FireflyConfig) RGBA() color.NRGBA {
	clr, err := ParseColor(c.Color)
	if err != nil {
		clr, _ = ParseColor(DefaultFireflyConfig().Color)
	}
	return clr
}

func clampFinite(v, fallback, max float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}

// cssColors 配置建议服务可能返回的常见颜色名
var cssColors = map[string]string{
	"white":   "#ffffff",
	"yellow":  "#ffff00",
	"gold":    "#ffd700",
	"orange":  "#ffa500",
	"red":     "#ff0000",
	"pink":    "#ffc0cb",
	"magenta": "#ff00ff",
	"purple":  "#800080",
	"blue":    "#0000ff",
	"cyan":    "#00ffff",
	"aqua":    "#00ffff",
	"teal":    "#008080",
	"green":   "#008000",
	"lime":    "#00ff00",
}

// ParseColor 解析颜色字符串
//
// 支持 "#rrggbb"、"#rgb" 以及 cssColors 中的颜色名（不区分大小写）。
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if hex, ok := cssColors[strings.ToLower(s)]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
