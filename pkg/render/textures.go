package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// 贴图尺寸（像素），绘制时按需缩放
const (
	glowTextureSize = 64
	discTextureSize = 32
)

// 光晕渐变的色标：圆心为完整颜色，半径一半处约 7% 亮度，边缘透明
const (
	glowMidStop  = 0.5
	glowMidAlpha = float64(0x11) / 255
)

// newGlowTexture 生成白色径向渐变贴图（预乘 alpha）
func newGlowTexture(size int) *ebiten.Image {
	pix := make([]byte, size*size*4)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			a := glowAlpha(d)
			v := byte(math.Round(a * 255))
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

// glowAlpha 返回归一化半径 d 处的光晕强度
func glowAlpha(d float64) float64 {
	switch {
	case d <= 0:
		return 1
	case d < glowMidStop:
		t := d / glowMidStop
		return 1 + (glowMidAlpha-1)*t
	case d < 1:
		t := (d - glowMidStop) / (1 - glowMidStop)
		return glowMidAlpha * (1 - t)
	default:
		return 0
	}
}

// newDiscTexture 生成边缘抗锯齿的白色实心圆贴图，拉伸后用作椭圆
func newDiscTexture(size int) *ebiten.Image {
	pix := make([]byte, size*size*4)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			a := math.Max(0, math.Min(1, c-d))
			v := byte(math.Round(a * 255))
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}
