package shape

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// TestGenerate_HeartPointCount 测试不同视口尺寸下爱心点数与范围
func TestGenerate_HeartPointCount(t *testing.T) {
	sizes := []struct {
		w, h float64
	}{
		{800, 600},
		{1920, 1080},
		{300, 900},
		{1, 1},
	}

	for _, size := range sizes {
		points := Generate(Heart, size.w, size.h, newTestRand())
		if len(points) != PointCount {
			t.Fatalf("%vx%v: got %d points, want %d", size.w, size.h, len(points), PointCount)
		}

		cx, cy := size.w/2, size.h/2
		scale := math.Min(size.w, size.h) * ScaleFactor
		limit := HeartExtent(scale)

		sumX := 0.0
		for _, p := range points {
			d := math.Hypot(p.X-cx, p.Y-cy)
			if d > limit {
				t.Errorf("%vx%v: point (%.2f, %.2f) at distance %.2f, want <= %.2f", size.w, size.h, p.X, p.Y, d, limit)
			}
			sumX += p.X
		}

		// 心形左右对称，X 均值应接近中心
		meanX := sumX / float64(len(points))
		if math.Abs(meanX-cx) > scale*0.05 {
			t.Errorf("%vx%v: mean X = %.2f, want close to %.2f", size.w, size.h, meanX, cx)
		}
	}
}

// TestGenerate_UnknownShape 测试未知图形返回空序列
func TestGenerate_UnknownShape(t *testing.T) {
	for _, id := range []ID{"", "scatter", "star", "HEART"} {
		if points := Generate(id, 800, 600, newTestRand()); len(points) != 0 {
			t.Errorf("Generate(%q): got %d points, want 0", id, len(points))
		}
	}
}

// TestGenerate_DegenerateViewport 测试退化视口返回空序列
func TestGenerate_DegenerateViewport(t *testing.T) {
	cases := []struct {
		name string
		w, h float64
	}{
		{"zero", 0, 0},
		{"zero width", 0, 600},
		{"negative", -100, 600},
		{"NaN", math.NaN(), 600},
		{"Inf", math.Inf(1), 600},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, id := range []ID{Heart, ArrowHeart} {
				if points := Generate(id, tc.w, tc.h, newTestRand()); points != nil {
					t.Errorf("Generate(%s): got %d points, want nil", id, len(points))
				}
			}
		})
	}
}

// TestGenerate_Reproducible 测试相同种子生成相同序列
func TestGenerate_Reproducible(t *testing.T) {
	a := Generate(ArrowHeart, 800, 600, rand.New(rand.NewPCG(7, 7)))
	b := Generate(ArrowHeart, 800, 600, rand.New(rand.NewPCG(7, 7)))

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

// TestShuffle_PreservesPoints 测试打乱只改变顺序，不改变点集合
func TestShuffle_PreservesPoints(t *testing.T) {
	outline := Outline(Heart, 800, 600, newTestRand())
	shuffled := make([]Point, len(outline))
	copy(shuffled, outline)
	Shuffle(shuffled, rand.New(rand.NewPCG(3, 4)))

	counts := make(map[Point]int, len(outline))
	for _, p := range outline {
		counts[p]++
	}
	for _, p := range shuffled {
		counts[p]--
	}
	for p, n := range counts {
		if n != 0 {
			t.Fatalf("point %v count mismatch after shuffle: %d", p, n)
		}
	}

	// 500 个点打乱后保持原顺序的概率可以忽略
	same := 0
	for i := range outline {
		if outline[i] == shuffled[i] {
			same++
		}
	}
	if same == len(outline) {
		t.Error("Shuffle did not change the order")
	}
}

// TestOutline_ArrowHeartSplit 测试一箭穿心的爱心/箭划分
func TestOutline_ArrowHeartSplit(t *testing.T) {
	const w, h = 1000.0, 800.0
	points := Outline(ArrowHeart, w, h, newTestRand())
	if len(points) != PointCount {
		t.Fatalf("got %d points, want %d", len(points), PointCount)
	}

	heartCount := HeartCount()
	if heartCount != 325 {
		t.Fatalf("HeartCount() = %d, want 325", heartCount)
	}

	cx, cy := w/2, h/2
	scale := math.Min(w, h) * ScaleFactor

	// 爱心部分：每个点都落在心形曲线附近
	curve := sampleHeart(scale, 4000)
	for i := 0; i < heartCount; i++ {
		p := Point{X: points[i].X - cx, Y: points[i].Y - cy}
		if d := distanceToPolyline(p, curve); d > 1.0 {
			t.Errorf("heart point %d is %.2f away from the curve", i, d)
		}
	}

	// 箭部分：按相对位置分成箭杆、箭头、箭尾三段
	start, end := ShaftEnds(scale)
	a := newArrow(scale)
	arrowTotal := PointCount - heartCount
	groups := make(map[int]bool)

	for i := 0; i < arrowTotal; i++ {
		tArrow := float64(i) / float64(arrowTotal)
		p := Point{X: points[heartCount+i].X - cx, Y: points[heartCount+i].Y - cy}

		switch PartAt(tArrow) {
		case PartShaft:
			if d := distanceToSegment(p, start, end); d > 1.5 {
				t.Errorf("shaft point %d is %.2f away from the shaft", i, d)
			}
		case PartHead:
			left := Point{X: end.X + math.Cos(a.angle+math.Pi*headSplay)*a.headSize, Y: end.Y + math.Sin(a.angle+math.Pi*headSplay)*a.headSize}
			right := Point{X: end.X + math.Cos(a.angle-math.Pi*headSplay)*a.headSize, Y: end.Y + math.Sin(a.angle-math.Pi*headSplay)*a.headSize}
			d := math.Min(distanceToSegment(p, end, left), distanceToSegment(p, end, right))
			if d > 1.5 {
				t.Errorf("head point %d is %.2f away from both barbs", i, d)
			}
		case PartTail:
			matched := false
			for g := 0; g < featherGroups; g++ {
				base := FeatherBase(scale, g)
				if math.Hypot(p.X-base.X, p.Y-base.Y) <= a.tailSize*featherReach+1e-9 {
					matched = true
					groups[g] = true
				}
			}
			if !matched {
				t.Errorf("tail point %d (%.2f, %.2f) is outside every feather cluster", i, p.X, p.Y)
			}
		}
	}

	if len(groups) != featherGroups {
		t.Errorf("got %d feather clusters, want %d", len(groups), featherGroups)
	}
}

// TestPartAt 测试箭子段边界
func TestPartAt(t *testing.T) {
	cases := []struct {
		t    float64
		want ArrowPart
	}{
		{0, PartShaft},
		{0.69, PartShaft},
		{0.70, PartHead},
		{0.84, PartHead},
		{0.85, PartTail},
		{0.99, PartTail},
	}
	for _, tc := range cases {
		if got := PartAt(tc.t); got != tc.want {
			t.Errorf("PartAt(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

// TestKnown 测试图形注册表
func TestKnown(t *testing.T) {
	infos := Known()
	if len(infos) != 2 {
		t.Fatalf("Known() returned %d shapes, want 2", len(infos))
	}
	if infos[0].ID != Heart || infos[1].ID != ArrowHeart {
		t.Errorf("unexpected menu order: %v", infos)
	}

	// 修改返回值不影响注册表
	infos[0].Label = "changed"
	if info, _ := Lookup(Heart); info.Label == "changed" {
		t.Error("Known() exposed internal registry")
	}

	if IsKnown("scatter") {
		t.Error("scatter should not be a generatable shape")
	}
}

func sampleHeart(scale float64, n int) []Point {
	out := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		x, y := heartCurve(float64(i)/float64(n)*2*math.Pi, scale)
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

func distanceToPolyline(p Point, line []Point) float64 {
	best := math.Inf(1)
	for i := 1; i < len(line); i++ {
		best = math.Min(best, distanceToSegment(p, line[i-1], line[i]))
	}
	return best
}

func distanceToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
