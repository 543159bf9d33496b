// Package shape 生成萤火虫汇聚用的图形目标点序列
//
// 生成器是纯函数：给定图形 ID 与视口尺寸，返回视口坐标系下的目标点。
// 所有随机扰动都来自调用方注入的随机源，便于在测试中复现。
package shape

import (
	"math"
	"math/rand/v2"
)

// ID 图形标识符
type ID string

const (
	// Heart 爱心
	Heart ID = "heart"
	// ArrowHeart 一箭穿心
	ArrowHeart ID = "arrow_heart"
)

// 图形生成参数
const (
	// PointCount 每个图形的目标点数量
	PointCount = 500

	// ScaleFactor 图形缩放系数，乘以 min(width, height)
	ScaleFactor = 0.35

	// HeartRatio 一箭穿心中组成爱心的点所占比例，其余组成箭
	HeartRatio = 0.65

	// ParamJitter 心形曲线参数 t 的抖动幅度（2π 的 ±1%）
	ParamJitter = 0.02 * 2 * math.Pi

	// ShaftJitter 箭杆与箭头点的位置抖动幅度（±1 单位）
	ShaftJitter = 2.0
)

// 箭的子段划分（按箭内部的相对位置）
const (
	shaftEnd = 0.70 // 0-70% 箭杆
	headEnd  = 0.85 // 70-85% 箭头，85-100% 箭尾羽毛
)

// Point 视口坐标系中的一个点
type Point struct {
	X float64
	Y float64
}

// Info 描述一个可选图形
type Info struct {
	ID    ID
	Label string
}

var known = []Info{
	{ID: Heart, Label: "Heart"},
	{ID: ArrowHeart, Label: "Arrow Through Heart"},
}

// Known 返回所有可选图形（按菜单顺序）
func Known() []Info {
	out := make([]Info, len(known))
	copy(out, known)
	return out
}

// IsKnown 判断图形 ID 是否可被生成
func IsKnown(id ID) bool {
	_, ok := Lookup(id)
	return ok
}

// Lookup 查找图形信息
func Lookup(id ID) (Info, bool) {
	for _, info := range known {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}

// Generate 生成图形目标点并随机打乱顺序
//
// 打乱后按索引顺序依次分配给萤火虫，填充效果在空间上是均匀的，而不是沿轮廓推进。
//
// 参数：
//   - id: 图形 ID，未知 ID 返回空序列
//   - width, height: 视口尺寸，min(width, height) <= 0 时返回空序列
//   - rng: 随机源
//
// 返回：
//   - []Point: 长度为 PointCount 的目标点序列，或 nil
func Generate(id ID, width, height float64, rng *rand.Rand) []Point {
	points := Outline(id, width, height, rng)
	Shuffle(points, rng)
	return points
}

// Outline 按生成顺序返回图形目标点（未打乱）
//
// 一箭穿心的前 65% 为爱心，后 35% 为箭。
func Outline(id ID, width, height float64, rng *rand.Rand) []Point {
	if !IsKnown(id) || !validViewport(width, height) {
		return nil
	}

	cx := width / 2
	cy := height / 2
	scale := math.Min(width, height) * ScaleFactor

	points := make([]Point, 0, PointCount)
	switch id {
	case Heart:
		for i := 0; i < PointCount; i++ {
			t := float64(i) / PointCount * 2 * math.Pi
			x, y := heartCurve(t+jitter(rng, ParamJitter), scale)
			points = append(points, Point{X: cx + x, Y: cy + y})
		}
	case ArrowHeart:
		heartCount := HeartCount()
		for i := 0; i < heartCount; i++ {
			t := float64(i) / float64(heartCount) * 2 * math.Pi
			x, y := heartCurve(t+jitter(rng, ParamJitter), scale)
			points = append(points, Point{X: cx + x, Y: cy + y})
		}
		arrowTotal := PointCount - heartCount
		a := newArrow(scale)
		for i := 0; i < arrowTotal; i++ {
			x, y := a.point(float64(i)/float64(arrowTotal), rng)
			points = append(points, Point{X: cx + x, Y: cy + y})
		}
	}
	return points
}

// HeartCount 返回一箭穿心中爱心部分的点数
func HeartCount() int {
	return int(math.Floor(PointCount * HeartRatio))
}

// Shuffle 对点序列做均匀随机置换（Fisher-Yates）
func Shuffle(points []Point, rng *rand.Rand) {
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
}

// heartCurve 心形参数曲线，返回相对中心的偏移
// x = 16sin³(t), y = -(13cos t - 5cos 2t - 2cos 3t - cos 4t)
func heartCurve(t, scale float64) (float64, float64) {
	s := math.Sin(t)
	x := 16 * s * s * s
	y := -(13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t))
	return x * scale / 16, y * scale / 16
}

// HeartExtent 返回给定缩放下心形曲线的最大半径（相对中心）
// 曲线原始坐标的最大模长约为 17.1，留一点余量给参数抖动
func HeartExtent(scale float64) float64 {
	return 17.5 * scale / 16
}

func jitter(rng *rand.Rand, span float64) float64 {
	return (rng.Float64() - 0.5) * span
}

func validViewport(width, height float64) bool {
	if math.IsNaN(width) || math.IsNaN(height) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return false
	}
	return math.Min(width, height) > 0
}
