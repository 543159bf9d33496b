// Package render 使用 ebiten 绘制星空和萤火虫
package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/fireflies/pkg/components"
)

// 萤火虫外形参数（局部坐标，y 轴指向尾部）
const (
	glowBaseRadius    = 9.0
	glowFlickerRadius = 18.0
	tailOffset        = 4.5 // 光晕和亮点相对身体中心的偏移

	coreRadius    = 1.5
	coreBaseAlpha = 0.6

	bodyRadiusX = 1.8
	bodyRadiusY = 3.75

	wingOffsetX = 2.25
	wingOffsetY = -0.75
	wingRadiusX = 4.2
	wingRadiusY = 0.9
	wingSpread  = 0.8 // 扇动幅度（弧度）
	wingRest    = 0.3 // 静止时的张开角度
	wingAlpha   = 0.15
)

var (
	backgroundColor = color.Black
	bodyColor       = color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
)

// additiveBlend 加法混合（发光效果）
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Scene 渲染器读取的只读视图（由 *engine.Engine 实现）
type Scene interface {
	Stars() []components.StarComponent
	Fireflies() []components.FireflyComponent
}

// Renderer 萤火虫渲染器
// 贴图在创建时生成一次，之后每帧只做 DrawImage
type Renderer struct {
	glow *ebiten.Image
	disc *ebiten.Image

	op ebiten.DrawImageOptions
}

// NewRenderer 创建渲染器
func NewRenderer() *Renderer {
	return &Renderer{
		glow: newGlowTexture(glowTextureSize),
		disc: newDiscTexture(discTextureSize),
	}
}

// Draw 绘制一帧：清屏 → 星空 → 萤火虫
func (r *Renderer) Draw(screen *ebiten.Image, scene Scene) {
	screen.Fill(backgroundColor)

	for _, s := range scene.Stars() {
		r.drawStar(screen, s)
	}
	for i := range scene.Fireflies() {
		r.drawFirefly(screen, &scene.Fireflies()[i])
	}
}

func (r *Renderer) drawStar(screen *ebiten.Image, s components.StarComponent) {
	a := math.Max(0, math.Min(1, s.Opacity))
	clr := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(math.Round(a * 255))}
	vector.DrawFilledCircle(screen, float32(s.X), float32(s.Y), float32(s.Radius), clr, true)
}

func (r *Renderer) drawFirefly(screen *ebiten.Image, f *components.FireflyComponent) {
	flicker := FlickerLevel(f.FlickerPhase)
	heading := f.Angle + math.Pi/2

	// 光晕
	glowR := GlowRadius(f.FlickerPhase)
	r.draw(screen, r.glow, PartGeoM(glowTextureSize, 0, tailOffset, glowR, glowR, 0, heading, f.X, f.Y), func(op *ebiten.DrawImageOptions) {
		op.ColorScale.ScaleWithColor(f.Color)
		op.Blend = additiveBlend
	})

	// 中心亮点
	r.draw(screen, r.disc, PartGeoM(discTextureSize, 0, tailOffset, coreRadius, coreRadius, 0, heading, f.X, f.Y), func(op *ebiten.DrawImageOptions) {
		op.ColorScale.ScaleAlpha(float32(coreBaseAlpha + flicker*(1-coreBaseAlpha)))
		op.Blend = additiveBlend
	})

	// 身体
	r.draw(screen, r.disc, PartGeoM(discTextureSize, 0, 0, bodyRadiusX, bodyRadiusY, 0, heading, f.X, f.Y), func(op *ebiten.DrawImageOptions) {
		op.ColorScale.ScaleWithColor(bodyColor)
	})

	// 翅膀
	spread := WingSpread(f.WingPhase)
	for _, side := range [2]float64{-1, 1} {
		g := PartGeoM(discTextureSize, side*wingOffsetX, wingOffsetY, wingRadiusX, wingRadiusY, side*spread, heading, f.X, f.Y)
		r.draw(screen, r.disc, g, func(op *ebiten.DrawImageOptions) {
			op.ColorScale.ScaleAlpha(wingAlpha)
		})
	}
}

func (r *Renderer) draw(screen, img *ebiten.Image, g ebiten.GeoM, style func(op *ebiten.DrawImageOptions)) {
	r.op = ebiten.DrawImageOptions{}
	r.op.GeoM = g
	r.op.Filter = ebiten.FilterLinear
	style(&r.op)
	screen.DrawImage(img, &r.op)
}

// FlickerLevel 把闪烁相位映射到 [0, 1]
func FlickerLevel(phase float64) float64 {
	return (math.Sin(phase) + 1) / 2
}

// GlowRadius 返回光晕半径，随闪烁在 9 到 27 之间变化
func GlowRadius(flickerPhase float64) float64 {
	return glowBaseRadius + FlickerLevel(flickerPhase)*glowFlickerRadius
}

// WingSpread 返回单侧翅膀相对身体的张开角度（右翅为正，左翅取反）
func WingSpread(wingPhase float64) float64 {
	return math.Sin(wingPhase)*wingSpread + wingRest
}

// PartGeoM 计算萤火虫某个部件的变换
//
// 把边长 texSize 的正方形贴图拉伸为半径 (rx, ry) 的椭圆，中心放在局部坐标 (cx, cy)，
// 先绕局部原点旋转 localRot，再整体旋转 heading 并平移到 (x, y)。
func PartGeoM(texSize int, cx, cy, rx, ry, localRot, heading, x, y float64) ebiten.GeoM {
	var g ebiten.GeoM
	half := float64(texSize) / 2
	g.Translate(-half, -half)
	g.Scale(rx/half, ry/half)
	g.Translate(cx, cy)
	g.Rotate(localRot)
	g.Rotate(heading)
	g.Translate(x, y)
	return g
}
