package scenes

import (
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/fireflies/pkg/game"
	"github.com/decker502/fireflies/pkg/render"
	"github.com/decker502/fireflies/pkg/utils"
)

// keyBinding 按键到操作的映射
type keyBinding struct {
	key    ebiten.Key
	action game.Action
}

// keyBindings 桌面端快捷键
var keyBindings = []keyBinding{
	{ebiten.KeyDigit1, game.ActionHeart},
	{ebiten.KeyNumpad1, game.ActionHeart},
	{ebiten.KeyDigit2, game.ActionArrowHeart},
	{ebiten.KeyNumpad2, game.ActionArrowHeart},
	{ebiten.KeyDigit0, game.ActionScatter},
	{ebiten.KeyNumpad0, game.ActionScatter},
	{ebiten.KeySpace, game.ActionScatter},
	{ebiten.KeyEqual, game.ActionMoreFireflies},
	{ebiten.KeyNumpadAdd, game.ActionMoreFireflies},
	{ebiten.KeyMinus, game.ActionFewerFireflies},
	{ebiten.KeyNumpadSubtract, game.ActionFewerFireflies},
	{ebiten.KeyP, game.ActionNextPreset},
	{ebiten.KeyH, game.ActionToggleHelp},
	{ebiten.KeyS, game.ActionToggleSound},
}

var boundKeys = func() []ebiten.Key {
	keys := make([]ebiten.Key, len(keyBindings))
	for i, b := range keyBindings {
		keys[i] = b.key
	}
	return keys
}()

// ActionForKey 返回按键对应的操作，未绑定时返回 game.ActionNone
func ActionForKey(key ebiten.Key) game.Action {
	for _, b := range keyBindings {
		if b.key == key {
			return b.action
		}
	}
	return game.ActionNone
}

// HUD 布局
const (
	hudMargin      = 8.0
	hudLineHeight  = 16.0
	helpFadeIn     = 250 * time.Millisecond
	helpPanelAlpha = 0.85
)

// FireflyScene 萤火虫夜空场景
//
// 负责把按键和触摸转换为操作交给 FireflyController，
// 绘制由 render.Renderer 完成，HUD 使用 basicfont 位图字体。
type FireflyScene struct {
	controller *game.FireflyController
	renderer   *render.Renderer
	clock      game.Clock
	hudFace    text.Face

	helpShownAt time.Time
	pressed     []ebiten.Key
}

// NewFireflyScene 创建萤火虫场景
//
// 参数：
//   - controller: 萤火虫控制器
//   - clock: 时间源，为 nil 时使用系统时间（需与 controller 使用同一个时间源）
func NewFireflyScene(controller *game.FireflyController, clock game.Clock) *FireflyScene {
	if clock == nil {
		clock = game.NewTimeProvider()
	}
	return &FireflyScene{
		controller: controller,
		renderer:   render.NewRenderer(),
		clock:      clock,
		hudFace:    text.NewGoXFace(basicfont.Face7x13),
	}
}

// Controller 返回场景的控制器
func (s *FireflyScene) Controller() *game.FireflyController {
	return s.controller
}

// HandleAction 处理一次操作
func (s *FireflyScene) HandleAction(a game.Action) {
	if a == game.ActionNone {
		return
	}
	s.controller.HandleAction(a)
	if a == game.ActionToggleHelp && s.controller.ShowHelp() {
		s.helpShownAt = s.clock.Now()
	}
}

// Update 读取输入并推进模拟
func (s *FireflyScene) Update(deltaTime float64) {
	s.pressed = utils.AppendJustPressedKeys(s.pressed[:0], boundKeys)
	for _, k := range s.pressed {
		s.HandleAction(ActionForKey(k))
	}
	if tapped, _, _ := utils.IsJustTouchedOrClicked(); tapped {
		s.HandleAction(game.ActionCycleShape)
	}

	s.controller.Update()
}

// Draw 绘制夜空和 HUD
func (s *FireflyScene) Draw(screen *ebiten.Image) {
	s.renderer.Draw(screen, s.controller.Engine())
	s.drawStatus(screen)
	if s.controller.ShowHelp() {
		s.drawHelp(screen)
	}
}

// Resize 同步视口尺寸
func (s *FireflyScene) Resize(width, height int) {
	s.controller.Engine().Resize(float64(width), float64(height))
}

// SaveOnExit 保存当前参数和图形
func (s *FireflyScene) SaveOnExit() bool {
	if err := s.controller.SaveState(); err != nil {
		log.Printf("[FireflyScene] Warning: Failed to save settings: %v", err)
		return false
	}
	return true
}

// Close 停止引擎
func (s *FireflyScene) Close() {
	s.controller.Close()
}

// drawStatus 左下角状态栏，使用萤火虫颜色
func (s *FireflyScene) drawStatus(screen *ebiten.Image) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(hudMargin, float64(screen.Bounds().Dy())-hudMargin-hudLineHeight)
	op.ColorScale.ScaleWithColor(s.controller.Engine().Config().RGBA())
	op.ColorScale.ScaleAlpha(0.8)
	text.Draw(screen, s.controller.Status(), s.hudFace, op)
}

// drawHelp 左上角帮助，淡入显示
func (s *FireflyScene) drawHelp(screen *ebiten.Image) {
	lines := s.controller.HelpLines()
	if utils.IsMobile() {
		lines = []string{"tap  next shape"}
	}

	alpha := helpPanelAlpha * utils.FadeIn(s.clock.Now().Sub(s.helpShownAt), helpFadeIn)
	op := &text.DrawOptions{}
	op.GeoM.Translate(hudMargin, hudMargin)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.LineSpacing = hudLineHeight
	text.Draw(screen, strings.Join(lines, "\n"), s.hudFace, op)
}
