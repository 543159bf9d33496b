package game

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/assist"
	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/engine"
)

// Action 宿主无关的用户操作
// 桌面端和终端各自把按键映射为 Action，交给 FireflyController 处理
type Action int

const (
	ActionNone Action = iota
	ActionHeart
	ActionArrowHeart
	ActionScatter
	ActionCycleShape // 依次切换图形，最后回到散开（触摸/点击）
	ActionMoreFireflies
	ActionFewerFireflies
	ActionNextPreset
	ActionToggleHelp
	ActionToggleSound
)

// CountStep 每次增减的萤火虫数量
const CountStep = 5

// noticeDuration 提示信息显示时长
const noticeDuration = 2 * time.Second

// SoundPlayer 提示音播放器（*AudioManager 或终端的 beep 播放器）
type SoundPlayer interface {
	PlaySound(soundID string) bool
}

// ConfigSource 外部配置来源（*config.ConfigWatcher）
type ConfigSource interface {
	Updates() <-chan config.FireflyConfig
	Close() error
}

// FireflyController 连接引擎、选择策略、设置与提示音
//
// 职责：
//   - 处理用户操作（图形选择、数量增减、预设切换）
//   - 每帧推进延迟汇聚和引擎
//   - 汇聚状态变化时播放提示音
//   - 退出时把当前参数写回设置
type FireflyController struct {
	engine    *engine.Engine
	selection *SelectionController
	settings  *SettingsManager
	sound     SoundPlayer
	presets   *assist.PresetSuggester
	clock     Clock
	source    ConfigSource

	wasActive   bool
	showHelp    bool
	notice      string
	noticeUntil time.Time
}

// NewFireflyController 创建控制器
//
// 参数：
//   - eng: 萤火虫引擎
//   - settings: 设置管理器，可为 nil（不保存）
//   - sound: 提示音播放器，可为 nil（静音）
//   - presets: 离线预设，可为 nil（禁用预设切换）
//   - clock: 时间源，为 nil 时使用系统时间
func NewFireflyController(eng *engine.Engine, settings *SettingsManager, sound SoundPlayer, presets *assist.PresetSuggester, clock Clock) *FireflyController {
	if clock == nil {
		clock = NewTimeProvider()
	}
	return &FireflyController{
		engine:    eng,
		selection: NewSelectionController(eng, clock),
		settings:  settings,
		sound:     sound,
		presets:   presets,
		clock:     clock,
	}
}

// Engine 返回控制的引擎
func (c *FireflyController) Engine() *engine.Engine {
	return c.engine
}

// Selection 返回选择控制器
func (c *FireflyController) Selection() *SelectionController {
	return c.selection
}

// ShowHelp 是否显示帮助
func (c *FireflyController) ShowHelp() bool {
	return c.showHelp
}

// WatchConfig 每帧从 source 读取新配置并应用，Close 时关闭 source
func (c *FireflyController) WatchConfig(source ConfigSource) {
	c.source = source
}

// Select 选择图形，规则见 SelectionController
func (c *FireflyController) Select(id shape.ID) {
	c.selection.Select(id)
}

// HandleAction 处理一次用户操作
func (c *FireflyController) HandleAction(a Action) {
	switch a {
	case ActionHeart:
		c.Select(shape.Heart)
	case ActionArrowHeart:
		c.Select(shape.ArrowHeart)
	case ActionScatter:
		c.Select(engine.ScatterID)
	case ActionCycleShape:
		c.Select(c.nextShape())
	case ActionMoreFireflies:
		c.adjustCount(CountStep)
	case ActionFewerFireflies:
		c.adjustCount(-CountStep)
	case ActionNextPreset:
		c.nextPreset()
	case ActionToggleHelp:
		c.showHelp = !c.showHelp
	case ActionToggleSound:
		if c.settings != nil {
			enabled := !c.settings.GetSettings().SoundEnabled
			c.settings.SetSoundEnabled(enabled)
			c.setNotice(fmt.Sprintf("sound %s", onOff(enabled)))
		}
	}
}

// Suggest 通过建议服务获取新配置并应用
func (c *FireflyController) Suggest(ctx context.Context, s assist.Suggester, prompt string) error {
	cfg, err := s.Suggest(ctx, prompt, c.engine.Config())
	if err != nil {
		c.setNotice("no suggestion")
		return fmt.Errorf("suggest %q: %w", prompt, err)
	}
	c.ApplyConfig(cfg)
	c.play(SoundPreset)
	return nil
}

// ApplyConfig 修正并下发新配置
func (c *FireflyController) ApplyConfig(cfg config.FireflyConfig) {
	cfg = cfg.Sanitize()
	c.engine.SetConfig(cfg)
	if c.settings != nil {
		c.settings.SetFirefly(cfg)
	}
}

// Update 每帧调用
func (c *FireflyController) Update() {
	if c.source != nil {
		select {
		case cfg := <-c.source.Updates():
			c.ApplyConfig(cfg)
			c.setNotice("config reloaded")
			log.Printf("[FireflyController] Config reloaded: %+v", cfg)
		default:
		}
	}

	c.selection.Update()

	active := c.selection.Selection().Active()
	if active != c.wasActive {
		if active {
			c.play(SoundGather)
		} else {
			c.play(SoundScatter)
		}
		c.wasActive = active
	}

	c.engine.Update(c.clock.Now())
}

// Status 返回一行状态文本
func (c *FireflyController) Status() string {
	sel := c.selection.Selection()

	mode := "free"
	switch {
	case c.selection.Waiting():
		mode = shapeLabel(c.selection.WaitingFor()) + " ..."
	case sel.Active():
		mode = shapeLabel(sel.ShapeID)
	}

	stats := c.engine.Stats()
	parts := []string{
		fmt.Sprintf("%d fireflies", len(c.engine.Fireflies())),
		mode,
	}
	if sel.Active() {
		parts = append(parts, fmt.Sprintf("docked %d/%d", stats[components.StateDocked], len(c.engine.Targets())))
	}
	if n := stats[components.StateRetiring]; n > 0 {
		parts = append(parts, fmt.Sprintf("leaving %d", n))
	}
	if c.notice != "" && c.clock.Now().Before(c.noticeUntil) {
		parts = append(parts, c.notice)
	}
	return strings.Join(parts, " | ")
}

// HelpLines 返回快捷键说明
func (c *FireflyController) HelpLines() []string {
	return []string{
		"1  heart",
		"2  arrow through heart",
		"0 / space  scatter",
		"+ / -  more / fewer fireflies",
		"p  next preset",
		"s  toggle sound",
		"h  toggle help",
		"esc / q  quit",
	}
}

// SaveState 把当前参数和图形写回设置并保存
//
// 返回：
//   - error: 保存失败时返回错误
func (c *FireflyController) SaveState() error {
	if c.settings == nil {
		return nil
	}
	c.settings.SetFirefly(c.engine.Config())

	last := shape.ID("")
	if id := c.selection.WaitingFor(); id != "" {
		last = id
	} else if sel := c.selection.Selection(); sel.Active() {
		last = sel.ShapeID
	}
	c.settings.SetLastShape(last)
	return c.settings.Save()
}

// Close 取消延迟任务、停止引擎并关闭配置来源
func (c *FireflyController) Close() {
	c.selection.Cancel()
	c.engine.Close()
	if c.source != nil {
		if err := c.source.Close(); err != nil {
			log.Printf("[FireflyController] Warning: failed to close config source: %v", err)
		}
		c.source = nil
	}
}

func (c *FireflyController) adjustCount(delta int) {
	cfg := c.engine.Config()
	cfg.Count = max(0, min(config.MaxCount, cfg.Count+delta))
	c.ApplyConfig(cfg)
	if c.selection.Selection().Active() {
		c.setNotice(fmt.Sprintf("count %d after scatter", cfg.Count))
	}
}

func (c *FireflyController) nextPreset() {
	if c.presets == nil {
		return
	}
	name, cfg := c.presets.Next(c.engine.Config())
	if name == "" {
		return
	}
	c.ApplyConfig(cfg)
	c.setNotice("preset " + name)
	c.play(SoundPreset)
	log.Printf("[FireflyController] Applied preset %q: %+v", name, cfg)
}

// nextShape 当前图形之后的下一个图形，最后一个之后回到散开
func (c *FireflyController) nextShape() shape.ID {
	current := c.selection.WaitingFor()
	if current == "" {
		if sel := c.selection.Selection(); sel.Active() {
			current = sel.ShapeID
		}
	}

	infos := shape.Known()
	if current == "" {
		return infos[0].ID
	}
	for i, info := range infos {
		if info.ID == current {
			if i+1 < len(infos) {
				return infos[i+1].ID
			}
			return engine.ScatterID
		}
	}
	return infos[0].ID
}

func (c *FireflyController) setNotice(msg string) {
	c.notice = msg
	c.noticeUntil = c.clock.Now().Add(noticeDuration)
}

func (c *FireflyController) play(id string) {
	if c.sound == nil {
		return
	}
	if c.settings != nil && !c.settings.GetSettings().SoundEnabled {
		return
	}
	c.sound.PlaySound(id)
}

func shapeLabel(id shape.ID) string {
	if info, ok := shape.Lookup(id); ok {
		return info.Label
	}
	return string(id)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
