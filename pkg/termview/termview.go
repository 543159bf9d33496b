// Package termview 在终端里绘制萤火虫
//
// 每个字符格对应 CellWidth×CellHeight 个视口单位，终端字符的宽高比约为 1:2，
// 这样引擎里的爱心在终端中不会被拉扁。
package termview

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/decker502/fireflies/pkg/components"
)

// 每个字符格对应的视口单位
const (
	CellWidth  = 6.0
	CellHeight = 12.0
)

// 亮度分级对应的字符
var fireflyGlyphs = []rune{'.', '+', '*'}

const starGlyph = '.'

// Scene 终端渲染需要的只读视图（由 *engine.Engine 实现）
type Scene interface {
	Stars() []components.StarComponent
	Fireflies() []components.FireflyComponent
}

// ViewportSize 返回 cols×rows 个字符格对应的视口尺寸
// 最后一行留给状态栏
func ViewportSize(cols, rows int) (float64, float64) {
	rows = max(rows-1, 0)
	return float64(max(cols, 0)) * CellWidth, float64(rows) * CellHeight
}

// CellOf 把视口坐标映射到字符格
// 返回：列、行，以及坐标是否落在 cols×rows 范围内
func CellOf(x, y float64, cols, rows int) (int, int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, 0, false
	}
	cx := int(math.Floor(x / CellWidth))
	cy := int(math.Floor(y / CellHeight))
	return cx, cy, cx >= 0 && cx < cols && cy >= 0 && cy < rows
}

// View 终端渲染器
type View struct {
	screen tcell.Screen
	base   tcell.Style
}

// New 创建终端渲染器
func New(screen tcell.Screen) *View {
	return &View{
		screen: screen,
		base:   tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite),
	}
}

// Draw 绘制一帧并刷新屏幕
func (v *View) Draw(scene Scene, status string) {
	cols, rows := v.screen.Size()
	fieldRows := max(rows-1, 0)

	v.screen.SetStyle(v.base)
	v.screen.Clear()

	for _, s := range scene.Stars() {
		cx, cy, ok := CellOf(s.X, s.Y, cols, fieldRows)
		if !ok {
			continue
		}
		g := int32(math.Round(255 * math.Max(0, math.Min(1, s.Opacity)) * 0.6))
		v.screen.SetContent(cx, cy, starGlyph, nil, v.base.Foreground(tcell.NewRGBColor(g, g, g)))
	}

	for i := range scene.Fireflies() {
		f := &scene.Fireflies()[i]
		cx, cy, ok := CellOf(f.X, f.Y, cols, fieldRows)
		if !ok {
			continue
		}
		level := (math.Sin(f.FlickerPhase) + 1) / 2
		v.screen.SetContent(cx, cy, Glyph(level), nil, v.base.Foreground(FireflyColor(f, level)).Bold(level > 0.5))
	}

	if rows > 0 {
		v.drawStatus(status, cols, rows-1)
	}
	v.screen.Show()
}

func (v *View) drawStatus(status string, cols, row int) {
	style := v.base.Foreground(tcell.ColorGray)
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, row, r, nil, style)
		x++
	}
}

// Glyph 根据亮度选择字符
func Glyph(level float64) rune {
	i := int(level * float64(len(fireflyGlyphs)))
	return fireflyGlyphs[max(0, min(i, len(fireflyGlyphs)-1))]
}

// FireflyColor 把萤火虫颜色按亮度混向黑色
// 最暗时保留 35% 亮度，避免在终端里完全消失
func FireflyColor(f *components.FireflyComponent, level float64) tcell.Color {
	c := colorful.Color{R: float64(f.Color.R) / 255, G: float64(f.Color.G) / 255, B: float64(f.Color.B) / 255}
	black := colorful.Color{}
	mixed := black.BlendRgb(c, 0.35+0.65*math.Max(0, math.Min(1, level))).Clamped()
	r, g, b := mixed.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
