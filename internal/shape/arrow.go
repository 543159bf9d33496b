package shape

import (
	"math"
	"math/rand/v2"
)

// 箭的几何参数（相对 scale）
const (
	arrowAngleOffset = 0.1  // 箭杆方向 = π/4 + 0.1，从左上指向右下
	arrowLength      = 2.8  // 箭杆长度
	arrowShift       = 0.3  // 整支箭向左上平移
	headSizeRatio    = 0.4  // 箭头倒刺长度
	headSplay        = 0.85 // 倒刺与箭杆的夹角（π 的倍数）
	tailSizeRatio    = 0.35 // 箭尾尺寸
	featherGroups    = 4    // 箭尾羽毛簇数量
	featherSpacing   = 0.2  // 羽毛簇沿箭杆的间距（tailSize 的倍数）
	featherSplay     = 0.7  // 羽毛与箭杆的夹角（π 的倍数）
	featherReach     = 0.4  // 羽毛最大长度（tailSize 的倍数）
)

// ArrowPart 箭的组成部分
type ArrowPart int

const (
	PartShaft ArrowPart = iota
	PartHead
	PartTail
)

// arrow 一支穿过爱心的箭，坐标相对视口中心
type arrow struct {
	angle          float64
	startX, startY float64
	endX, endY     float64
	headSize       float64
	tailSize       float64
}

func newArrow(scale float64) arrow {
	angle := math.Pi/4 + arrowAngleOffset
	half := scale * arrowLength * 0.5
	shift := scale * arrowShift
	return arrow{
		angle:    angle,
		startX:   -math.Cos(angle)*half - shift,
		startY:   -math.Sin(angle)*half - shift,
		endX:     math.Cos(angle)*half - shift,
		endY:     math.Sin(angle)*half - shift,
		headSize: scale * headSizeRatio,
		tailSize: scale * tailSizeRatio,
	}
}

// PartAt 返回箭内部相对位置 t (0..1) 所属的部分
func PartAt(t float64) ArrowPart {
	switch {
	case t < shaftEnd:
		return PartShaft
	case t < headEnd:
		return PartHead
	default:
		return PartTail
	}
}

// point 返回箭上相对位置 t 处的点
func (a arrow) point(t float64, rng *rand.Rand) (float64, float64) {
	switch PartAt(t) {
	case PartShaft:
		tl := t / shaftEnd
		x := a.startX + (a.endX-a.startX)*tl
		y := a.startY + (a.endY-a.startY)*tl
		return x + jitter(rng, ShaftJitter), y + jitter(rng, ShaftJitter)

	case PartHead:
		th := (t - shaftEnd) / (headEnd - shaftEnd)
		side := 1.0
		local := th * 2
		if th >= 0.5 {
			side = -1
			local = (th - 0.5) * 2
		}
		hAngle := a.angle + math.Pi*headSplay*side
		x := a.endX + math.Cos(hAngle)*a.headSize*local
		y := a.endY + math.Sin(hAngle)*a.headSize*local
		return x + jitter(rng, ShaftJitter), y + jitter(rng, ShaftJitter)

	default:
		tt := (t - headEnd) / (1 - headEnd)
		group := int(math.Floor(tt * featherGroups))
		if group >= featherGroups {
			group = featherGroups - 1
		}
		along := float64(group) * a.tailSize * featherSpacing
		baseX := a.startX + math.Cos(a.angle)*along
		baseY := a.startY + math.Sin(a.angle)*along
		side := 1.0
		if rng.Float64() <= 0.5 {
			side = -1
		}
		fAngle := a.angle + math.Pi*featherSplay*side
		dist := a.tailSize * featherReach * rng.Float64()
		return baseX + math.Cos(fAngle)*dist, baseY + math.Sin(fAngle)*dist
	}
}

// FeatherBase 返回第 group 个羽毛簇的基点（相对视口中心），供测试校验簇的位置
func FeatherBase(scale float64, group int) Point {
	a := newArrow(scale)
	along := float64(group) * a.tailSize * featherSpacing
	return Point{
		X: a.startX + math.Cos(a.angle)*along,
		Y: a.startY + math.Sin(a.angle)*along,
	}
}

// ShaftEnds 返回箭杆起点与终点（相对视口中心）
func ShaftEnds(scale float64) (Point, Point) {
	a := newArrow(scale)
	return Point{X: a.startX, Y: a.startY}, Point{X: a.endX, Y: a.endY}
}
