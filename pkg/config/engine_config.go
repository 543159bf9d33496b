package config

import (
	"fmt"
	"image/color"
	"time"
)

// 萤火虫引擎常量
// 距离单位均为视口像素，时间单位除特别说明外为毫秒
const (
	// InitialCountCap 启动时最多放置的萤火虫数量（随机分布在视口内）
	InitialCountCap = 150

	// SpawnEdgeBuffer 新萤火虫在视口外生成的距离，看起来是从外面飞进来的
	SpawnEdgeBuffer = 150.0

	// WrapBuffer 自由飞行越过边缘多远后从对边出现
	WrapBuffer = 100.0

	// CleanupMargin 离场萤火虫飞出视口多远后被移除
	CleanupMargin = 200.0

	// DockDistance 距离目标点小于该值时停靠
	DockDistance = 10.0

	// StarCount 背景星星数量
	StarCount = 200
)

// 运动模型参数（每帧增量）
const (
	// WingStep 翅膀相位每帧增量，乘以 WingSpeed
	WingStep = 0.2

	// FlickerStep 闪烁相位每帧增量，乘以 FlickerRate
	FlickerStep = 0.06

	// WanderRetargetChance 自由飞行时每帧随机改变目标朝向的概率
	WanderRetargetChance = 0.01

	// WanderRetargetSpan 随机改变目标朝向的幅度（弧度）
	WanderRetargetSpan = 1.5

	// WanderTurnRate 朝向向目标朝向平滑的系数
	WanderTurnRate = 0.02

	// WanderWaveFreq 飞行摆动的频率（每毫秒弧度）
	WanderWaveFreq = 0.01

	// WanderWaveAmp 飞行摆动的幅度（弧度）
	WanderWaveAmp = 0.5

	// RetireBasePush 离场时的基础外推力（乘以速度）
	RetireBasePush = 0.5

	// RetireRadialGain 离场时与到中心距离成正比的外推增益
	RetireRadialGain = 0.005

	// ApproachWobbleFreq 接近目标时航向摆动的频率（每毫秒弧度）
	ApproachWobbleFreq = 0.003

	// ApproachWobbleAmp 接近目标时航向摆动的幅度（弧度）
	ApproachWobbleAmp = 1.5

	// ApproachWobbleRange 超过该距离摆动为满幅，距离为 0 时无摆动
	ApproachWobbleRange = 300.0

	// ApproachSlowdown 接近目标时按距离减速的系数
	ApproachSlowdown = 0.05

	// ApproachMinSpeed 接近目标时的最低速度
	ApproachMinSpeed = 0.5

	// ApproachSmoothing 速度向期望速度平滑的系数
	ApproachSmoothing = 0.04

	// HoverRadius 停靠悬停半径
	HoverRadius = 10.0

	// HoverFreq 停靠悬停的基础频率（每毫秒弧度）
	HoverFreq = 0.002

	// HoverRetargetChance 停靠时每帧随机选择新朝向的概率
	HoverRetargetChance = 0.02

	// HoverTurnRate 停靠时朝向平滑系数
	HoverTurnRate = 0.05
)

// 个体差异参数
const (
	SpeedFactorMin      = 0.4
	SpeedFactorSpan     = 0.6
	NoiseOffsetSpan     = 1000.0
	SpawnGatherDelayMax = 3000.0 // 创建时的汇聚延迟上限
	GatherDelayMax      = 5000.0 // 每次汇聚重新随机的延迟上限
	CruiseSpeedMin      = 2.0
	CruiseSpeedSpan     = 3.0
)

// 星空参数
const (
	StarRadiusMax   = 1.2
	StarOpacityMin  = 0.1
	StarOpacityMax  = 1.0
	StarTwinkleMin  = 0.005
	StarTwinkleSpan = 0.01
)

// SettleDelay 切换图形时从散开到重新汇聚的等待时间
const SettleDelay = 1500 * time.Millisecond

// PaletteHex 萤火虫颜色调色板
var PaletteHex = []string{
	"#ffff33", "#ccff00", "#00ffff", "#ffaa00", "#00ffcc", "#ff66cc", "#ffffff",
}

// Palette 解析调色板
//
// 返回：
//   - []color.NRGBA: 调色板颜色
//   - error: 任一颜色无法解析时返回错误
func Palette(hexes []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// DefaultPalette 返回内置调色板
func DefaultPalette() []color.NRGBA {
	p, err := Palette(PaletteHex)
	if err != nil {
		// 内置调色板是常量，解析失败说明代码有误
		panic(err)
	}
	return p
}
