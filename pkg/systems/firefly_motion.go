package systems

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
)

// 停靠悬停的谐波参数
const (
	hoverHarmonicX  = 2.1
	hoverHarmonicY1 = 0.87
	hoverHarmonicY2 = 1.73
	hoverMinorRatio = 0.4
)

// MotionEnv 单帧运动计算所需的外部输入
type MotionEnv struct {
	Width, Height float64
	Config        config.FireflyConfig
	Gathering     bool

	// Target 萤火虫目标点在当前序列中的坐标，HasTarget 为 false 时无效
	Target    shape.Point
	HasTarget bool

	// Time 自循环开始以来的毫秒数
	Time float64
	// GatherElapsed 自最近一次汇聚开始以来的毫秒数，未汇聚时为 0
	GatherElapsed float64
}

// NewFirefly 创建一只萤火虫
//
// 参数：
//   - w, h: 视口尺寸
//   - fromEdge: true 时在视口外一侧生成（看起来是从外面飞进来），否则在视口内随机位置
//   - palette: 颜色调色板，为空时使用白色
//   - rng: 随机源
func NewFirefly(w, h float64, fromEdge bool, palette []color.NRGBA, rng *rand.Rand) components.FireflyComponent {
	f := components.FireflyComponent{Target: components.NoTarget}

	if fromEdge {
		buffer := config.SpawnEdgeBuffer
		switch rng.IntN(4) {
		case 0:
			f.X, f.Y = -buffer, rng.Float64()*h
		case 1:
			f.X, f.Y = w+buffer, rng.Float64()*h
		case 2:
			f.X, f.Y = rng.Float64()*w, -buffer
		default:
			f.X, f.Y = rng.Float64()*w, h+buffer
		}
	} else {
		f.X = rng.Float64() * w
		f.Y = rng.Float64() * h
	}

	f.VX = (rng.Float64() - 0.5) * 2
	f.VY = (rng.Float64() - 0.5) * 2
	f.Angle = math.Atan2(f.VY, f.VX)
	f.TargetAngle = f.Angle
	f.WingPhase = rng.Float64() * 2 * math.Pi
	f.FlickerPhase = rng.Float64() * 2 * math.Pi

	f.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if len(palette) > 0 {
		f.Color = palette[rng.IntN(len(palette))]
	}

	f.SpeedFactor = config.SpeedFactorMin + rng.Float64()*config.SpeedFactorSpan
	f.NoiseOffset = rng.Float64() * config.NoiseOffsetSpan
	f.GatherDelay = rng.Float64() * config.SpawnGatherDelayMax
	f.CruiseSpeed = config.CruiseSpeedMin + rng.Float64()*config.CruiseSpeedSpan
	return f
}

// StepFirefly 计算萤火虫下一帧的状态
//
// 纯函数：不修改入参，只通过 rng 产生随机性。
// 翅膀与闪烁相位在任何状态下都会推进。
func StepFirefly(f components.FireflyComponent, env MotionEnv, rng *rand.Rand) components.FireflyComponent {
	f.WingPhase += config.WingStep * env.Config.WingSpeed
	f.FlickerPhase += config.FlickerStep * env.Config.FlickerRate

	if f.Retiring {
		return retire(f, env, rng)
	}

	if env.Gathering && f.HasTarget() && env.HasTarget {
		switch {
		case f.Docked:
			return hover(f, env, rng)
		case env.GatherElapsed > f.GatherDelay:
			return approach(f, env)
		default:
			return wander(f, env, rng)
		}
	}

	f.Docked = false
	return wander(f, env, rng)
}

// steer 更新自由飞行的朝向和速度
func steer(f components.FireflyComponent, env MotionEnv, rng *rand.Rand) (components.FireflyComponent, float64) {
	if rng.Float64() < config.WanderRetargetChance {
		f.TargetAngle += (rng.Float64() - 0.5) * config.WanderRetargetSpan
	}
	f.Angle += normalizeAngle(f.TargetAngle-f.Angle) * config.WanderTurnRate

	speed := env.Config.Speed * f.SpeedFactor
	wave := math.Sin(env.Time*config.WanderWaveFreq+f.NoiseOffset) * config.WanderWaveAmp
	f.VX = math.Cos(f.Angle+wave) * speed
	f.VY = math.Sin(f.Angle+wave) * speed
	return f, speed
}

// wander 自由飞行，越过边缘缓冲后从对边出现
func wander(f components.FireflyComponent, env MotionEnv, rng *rand.Rand) components.FireflyComponent {
	f, _ = steer(f, env, rng)
	f.X += f.VX
	f.Y += f.VY

	buffer := config.WrapBuffer
	if f.X < -buffer {
		f.X = env.Width + buffer
	}
	if f.X > env.Width+buffer {
		f.X = -buffer
	}
	if f.Y < -buffer {
		f.Y = env.Height + buffer
	}
	if f.Y > env.Height+buffer {
		f.Y = -buffer
	}
	return f
}

// retire 离场飞行：去掉指向中心的速度分量并叠加向外推力，不做边缘循环
// 到中心的距离因此单调不减
func retire(f components.FireflyComponent, env MotionEnv, rng *rand.Rand) components.FireflyComponent {
	f, speed := steer(f, env, rng)

	dx := f.X - env.Width/2
	dy := f.Y - env.Height/2
	dist := math.Hypot(dx, dy)
	if dist > 0 {
		ux, uy := dx/dist, dy/dist
		if radial := f.VX*ux + f.VY*uy; radial < 0 {
			f.VX -= radial * ux
			f.VY -= radial * uy
		}
		push := config.RetireBasePush*speed + config.RetireRadialGain*dist
		f.VX += ux * push
		f.VY += uy * push
	}

	f.X += f.VX
	f.Y += f.VY
	return f
}

// approach 飞向目标点，距离越近摆动越小、速度越慢
func approach(f components.FireflyComponent, env MotionEnv) components.FireflyComponent {
	dx := env.Target.X - f.X
	dy := env.Target.Y - f.Y
	dist := math.Hypot(dx, dy)

	if dist < config.DockDistance {
		f.Docked = true
		f.TargetAngle = f.Angle
		return f
	}

	desired := math.Atan2(dy, dx)
	wobble := math.Sin(env.Time*config.ApproachWobbleFreq+f.NoiseOffset) * config.ApproachWobbleAmp
	heading := desired + wobble*math.Min(1, dist/config.ApproachWobbleRange)
	speed := math.Min(f.CruiseSpeed, dist*config.ApproachSlowdown+config.ApproachMinSpeed)

	f.VX += (math.Cos(heading)*speed - f.VX) * config.ApproachSmoothing
	f.VY += (math.Sin(heading)*speed - f.VY) * config.ApproachSmoothing
	f.X += f.VX
	f.Y += f.VY
	f.Angle = math.Atan2(f.VY, f.VX)
	return f
}

// hover 停靠后在目标点附近做复合正弦悬停，朝向独立随机漂移
func hover(f components.FireflyComponent, env MotionEnv, rng *rand.Rand) components.FireflyComponent {
	ox, oy := HoverOffset(env.Time, f.NoiseOffset)
	f.X = env.Target.X + ox
	f.Y = env.Target.Y + oy

	if rng.Float64() < config.HoverRetargetChance {
		f.TargetAngle = rng.Float64() * 2 * math.Pi
	}
	f.Angle += normalizeAngle(f.TargetAngle-f.Angle) * config.HoverTurnRate
	return f
}

// HoverOffset 返回停靠悬停相对目标点的偏移
// 每个轴两个正弦项叠加，单轴幅度不超过 HoverRadius*(1+0.4)
func HoverOffset(timeMs, noise float64) (float64, float64) {
	r := config.HoverRadius
	t := timeMs * config.HoverFreq
	ox := math.Sin(t+noise)*r + math.Sin(t*hoverHarmonicX+noise)*r*hoverMinorRatio
	oy := math.Cos(t*hoverHarmonicY1+noise)*r + math.Cos(t*hoverHarmonicY2+noise)*r*hoverMinorRatio
	return ox, oy
}

// normalizeAngle 把角度差归一化到 [-π, π]
func normalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
