package assist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/embedded"
)

// DefaultPresetsPath 内置预设文件路径（嵌入资源）
const DefaultPresetsPath = "data/presets.yaml"

// ErrNoMatch 提示词没有命中任何预设
var ErrNoMatch = errors.New("no preset matches the prompt")

// Preset 一组命名的配置
type Preset struct {
	Name     string               `yaml:"name"`
	Keywords []string             `yaml:"keywords"`
	Config   config.FireflyConfig `yaml:"config"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// ParsePresets 解析 YAML 格式的预设列表
func ParsePresets(data []byte) ([]Preset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	for i, p := range f.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if err := p.Config.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return f.Presets, nil
}

// LoadPresets 从嵌入资源加载预设
func LoadPresets(path string) ([]Preset, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	return ParsePresets(data)
}

// PresetSuggester 离线建议服务：按关键字匹配预设
type PresetSuggester struct {
	presets []Preset
	next    int
}

// NewPresetSuggester 创建离线建议服务
func NewPresetSuggester(presets []Preset) *PresetSuggester {
	return &PresetSuggester{presets: presets}
}

// Presets 返回所有预设
func (s *PresetSuggester) Presets() []Preset {
	return s.presets
}

// Suggest 返回第一个关键字出现在提示词中的预设（不区分大小写）
//
// 预设配置先编码为回复文本，再经 DecodeSuggestion 解析，
// 与远程建议服务走同一条校验路径。
func (s *PresetSuggester) Suggest(ctx context.Context, prompt string, current config.FireflyConfig) (config.FireflyConfig, error) {
	if err := ctx.Err(); err != nil {
		return current, err
	}
	p, ok := s.match(prompt)
	if !ok {
		return current, ErrNoMatch
	}
	log.Printf("[PresetSuggester] Prompt %q matched preset %q", prompt, p.Name)
	return s.reply(p, current)
}

// Next 按顺序轮换预设（快捷键切换用）
//
// 返回：
//   - string: 预设名称，没有预设时为 ""
//   - config.FireflyConfig: 新配置，没有预设时为 current
func (s *PresetSuggester) Next(current config.FireflyConfig) (string, config.FireflyConfig) {
	if len(s.presets) == 0 {
		return "", current
	}
	p := s.presets[s.next%len(s.presets)]
	s.next++
	cfg, err := s.reply(p, current)
	if err != nil {
		log.Printf("[PresetSuggester] Warning: preset %q rejected: %v", p.Name, err)
	}
	return p.Name, cfg
}

func (s *PresetSuggester) match(prompt string) (Preset, bool) {
	lower := strings.ToLower(prompt)
	for _, p := range s.presets {
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			return p, true
		}
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return p, true
			}
		}
	}
	return Preset{}, false
}

func (s *PresetSuggester) reply(p Preset, current config.FireflyConfig) (config.FireflyConfig, error) {
	raw, err := yaml.Marshal(p.Config)
	if err != nil {
		return current, fmt.Errorf("failed to encode preset %q: %w", p.Name, err)
	}
	return DecodeSuggestion(raw, current)
}
