package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
)

const (
	testWidth  = 800.0
	testHeight = 600.0
	frameMs    = 16.0
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed*31+7))
}

func testEnv() MotionEnv {
	return MotionEnv{
		Width:  testWidth,
		Height: testHeight,
		Config: config.DefaultFireflyConfig(),
	}
}

// TestNewFirefly_Traits 测试个体差异属性的取值范围
func TestNewFirefly_Traits(t *testing.T) {
	rng := newTestRand(1)
	palette := config.DefaultPalette()

	for i := 0; i < 200; i++ {
		f := NewFirefly(testWidth, testHeight, false, palette, rng)

		if f.X < 0 || f.X > testWidth || f.Y < 0 || f.Y > testHeight {
			t.Fatalf("inside spawn out of viewport: (%.1f, %.1f)", f.X, f.Y)
		}
		if f.SpeedFactor < 0.4 || f.SpeedFactor > 1.0 {
			t.Errorf("SpeedFactor out of range: %v", f.SpeedFactor)
		}
		if f.GatherDelay < 0 || f.GatherDelay > config.SpawnGatherDelayMax {
			t.Errorf("GatherDelay out of range: %v", f.GatherDelay)
		}
		if f.CruiseSpeed < 2 || f.CruiseSpeed > 5 {
			t.Errorf("CruiseSpeed out of range: %v", f.CruiseSpeed)
		}
		if f.Target != components.NoTarget || f.Docked || f.Retiring {
			t.Errorf("new firefly should be wandering, got %v", f.State())
		}
		if f.Angle != f.TargetAngle {
			t.Errorf("Angle %v should equal TargetAngle %v", f.Angle, f.TargetAngle)
		}

		found := false
		for _, c := range palette {
			if c == f.Color {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("color %v not in palette", f.Color)
		}
	}
}

// TestNewFirefly_FromEdge 测试从视口外生成
func TestNewFirefly_FromEdge(t *testing.T) {
	rng := newTestRand(2)
	b := config.SpawnEdgeBuffer
	sides := make(map[string]bool)

	for i := 0; i < 400; i++ {
		f := NewFirefly(testWidth, testHeight, true, nil, rng)
		switch {
		case f.X == -b:
			sides["left"] = true
		case f.X == testWidth+b:
			sides["right"] = true
		case f.Y == -b:
			sides["top"] = true
		case f.Y == testHeight+b:
			sides["bottom"] = true
		default:
			t.Fatalf("edge spawn not on a buffer line: (%.1f, %.1f)", f.X, f.Y)
		}
	}
	if len(sides) != 4 {
		t.Errorf("got spawns on %d sides, want 4", len(sides))
	}
}

// TestStepFirefly_PhasesAlwaysAdvance 测试翅膀和闪烁相位在所有状态下推进
func TestStepFirefly_PhasesAlwaysAdvance(t *testing.T) {
	rng := newTestRand(3)
	env := testEnv()
	env.Gathering = true
	env.HasTarget = true
	env.Target = shape.Point{X: 400, Y: 300}

	base := NewFirefly(testWidth, testHeight, false, nil, rng)
	variants := map[string]components.FireflyComponent{}
	variants["wandering"] = base
	approaching := base
	approaching.Target = 0
	variants["approaching"] = approaching
	docked := approaching
	docked.Docked = true
	variants["docked"] = docked
	retiring := base
	retiring.Retiring = true
	variants["retiring"] = retiring

	wantWing := config.WingStep * env.Config.WingSpeed
	wantFlicker := config.FlickerStep * env.Config.FlickerRate

	for name, f := range variants {
		next := StepFirefly(f, env, rng)
		if d := next.WingPhase - f.WingPhase; math.Abs(d-wantWing) > 1e-9 {
			t.Errorf("%s: wing phase advanced by %v, want %v", name, d, wantWing)
		}
		if d := next.FlickerPhase - f.FlickerPhase; math.Abs(d-wantFlicker) > 1e-9 {
			t.Errorf("%s: flicker phase advanced by %v, want %v", name, d, wantFlicker)
		}
	}
}

// TestStepFirefly_WrapsAtEdges 测试自由飞行越过边缘缓冲后从对边出现
func TestStepFirefly_WrapsAtEdges(t *testing.T) {
	rng := newTestRand(4)
	f := NewFirefly(testWidth, testHeight, false, nil, rng)
	f.X, f.Y = -config.WrapBuffer+0.1, 300
	f.Angle, f.TargetAngle = math.Pi, math.Pi
	f.SpeedFactor = 1

	next := StepFirefly(f, testEnv(), rng)
	if next.X != testWidth+config.WrapBuffer {
		t.Errorf("X after wrap: got %v, want %v", next.X, testWidth+config.WrapBuffer)
	}
}

// TestStepFirefly_NotGatheringClearsDocked 测试非汇聚状态下取消停靠
func TestStepFirefly_NotGatheringClearsDocked(t *testing.T) {
	rng := newTestRand(5)
	f := NewFirefly(testWidth, testHeight, false, nil, rng)
	f.Target = 3
	f.Docked = true

	next := StepFirefly(f, testEnv(), rng)
	if next.Docked {
		t.Error("Docked should be cleared when not gathering")
	}
}

// TestStepFirefly_GatherDelay 测试等待时间未到时不停靠
func TestStepFirefly_GatherDelay(t *testing.T) {
	rng := newTestRand(6)
	env := testEnv()
	env.Gathering = true
	env.HasTarget = true
	env.Target = shape.Point{X: 400, Y: 300}

	f := NewFirefly(testWidth, testHeight, false, nil, rng)
	f.Target = 0
	f.X, f.Y = 403, 300
	f.GatherDelay = 1000

	env.GatherElapsed = 500
	if next := StepFirefly(f, env, rng); next.Docked {
		t.Error("should not dock before gather delay elapsed")
	}

	env.GatherElapsed = 1500
	next := StepFirefly(f, env, rng)
	if !next.Docked {
		t.Fatal("should dock once delay elapsed and within dock distance")
	}
	if next.X != f.X || next.Y != f.Y {
		t.Errorf("docking frame should not move, got (%v, %v)", next.X, next.Y)
	}
	if next.TargetAngle != f.Angle {
		t.Errorf("TargetAngle on dock: got %v, want %v", next.TargetAngle, f.Angle)
	}
	if next.State() != components.StateDocked {
		t.Errorf("State: got %v, want Docked", next.State())
	}
}

// TestStepFirefly_ApproachReachesTarget 测试接近后最终停靠
func TestStepFirefly_ApproachReachesTarget(t *testing.T) {
	rng := newTestRand(7)
	env := testEnv()
	env.Gathering = true
	env.HasTarget = true
	env.Target = shape.Point{X: 400, Y: 300}
	env.GatherElapsed = 1e9

	for trial := 0; trial < 10; trial++ {
		f := NewFirefly(testWidth, testHeight, true, nil, rng)
		f.Target = 0

		docked := false
		for frame := 0; frame < 10000; frame++ {
			env.Time = float64(frame) * frameMs
			f = StepFirefly(f, env, rng)
			if f.Docked {
				docked = true
				break
			}
		}
		if !docked {
			t.Errorf("trial %d: firefly never docked, last distance %.1f", trial, math.Hypot(f.X-400, f.Y-300))
		}
	}
}

// TestStepFirefly_DockedStaysNearTarget 测试停靠后始终在目标附近
func TestStepFirefly_DockedStaysNearTarget(t *testing.T) {
	rng := newTestRand(8)
	env := testEnv()
	env.Gathering = true
	env.HasTarget = true
	env.Target = shape.Point{X: 123, Y: 456}
	env.GatherElapsed = 1e9

	f := NewFirefly(testWidth, testHeight, false, nil, rng)
	f.Target = 0
	f.Docked = true
	startAngle := f.Angle

	for frame := 0; frame < 20000; frame++ {
		env.Time = float64(frame) * frameMs
		f = StepFirefly(f, env, rng)
		if !f.Docked {
			t.Fatalf("frame %d: left docked state", frame)
		}
		if d := math.Hypot(f.X-env.Target.X, f.Y-env.Target.Y); d > 20 {
			t.Fatalf("frame %d: distance %.2f from target, want <= 20", frame, d)
		}
	}
	if f.Angle == startAngle {
		t.Error("docked heading should drift over time")
	}
}

// TestStepFirefly_RetiringMovesOutward 测试离场萤火虫到中心的距离单调不减
func TestStepFirefly_RetiringMovesOutward(t *testing.T) {
	rng := newTestRand(9)
	env := testEnv()
	cx, cy := testWidth/2, testHeight/2

	for trial := 0; trial < 50; trial++ {
		f := NewFirefly(testWidth, testHeight, false, nil, rng)
		f.Retiring = true
		f.TargetAngle = rng.Float64() * 2 * math.Pi
		prev := math.Hypot(f.X-cx, f.Y-cy)

		for frame := 0; frame < 600; frame++ {
			env.Time = float64(frame) * frameMs
			f = StepFirefly(f, env, rng)
			d := math.Hypot(f.X-cx, f.Y-cy)
			if d < prev-1e-9 {
				t.Fatalf("trial %d frame %d: distance decreased %.4f -> %.4f", trial, frame, prev, d)
			}
			prev = d
		}
		if prev < math.Hypot(cx, cy)+config.CleanupMargin {
			t.Errorf("trial %d: retiring firefly still at %.1f from center after 600 frames", trial, prev)
		}
	}
}

// TestStepFirefly_Reproducible 测试相同随机源得到相同结果
func TestStepFirefly_Reproducible(t *testing.T) {
	run := func() components.FireflyComponent {
		rng := newTestRand(10)
		f := NewFirefly(testWidth, testHeight, true, config.DefaultPalette(), rng)
		env := testEnv()
		for frame := 0; frame < 300; frame++ {
			env.Time = float64(frame) * frameMs
			f = StepFirefly(f, env, rng)
		}
		return f
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed produced different state:\n%+v\n%+v", a, b)
	}
}

// TestHoverOffset_Bounded 测试悬停偏移的范围
func TestHoverOffset_Bounded(t *testing.T) {
	limit := math.Sqrt2 * config.HoverRadius * (1 + hoverMinorRatio)
	for i := 0; i < 100000; i++ {
		ox, oy := HoverOffset(float64(i)*7.3, float64(i%1000))
		if d := math.Hypot(ox, oy); d > limit+1e-9 {
			t.Fatalf("offset %.3f exceeds %.3f", d, limit)
		}
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := normalizeAngle(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
