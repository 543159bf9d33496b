package components

import "image/color"

// NoTarget 表示萤火虫没有分配目标点
const NoTarget = -1

// FireflyState 萤火虫的逻辑状态
// 由 Retiring/Docked/Target 三个字段推导，不单独存储
type FireflyState int

const (
	// StateWandering 自由飞行，没有目标点
	StateWandering FireflyState = iota
	// StateApproaching 有目标点，尚未到达
	StateApproaching
	// StateDocked 已到达目标点，在附近悬停
	StateDocked
	// StateRetiring 已标记移除，向外飞离屏幕
	StateRetiring
)

// String 返回状态名称（用于日志和调试）
func (s FireflyState) String() string {
	switch s {
	case StateWandering:
		return "Wandering"
	case StateApproaching:
		return "Approaching"
	case StateDocked:
		return "Docked"
	case StateRetiring:
		return "Retiring"
	default:
		return "Unknown"
	}
}

// FireflyComponent 一只萤火虫的全部运动状态
//
// 纯数据结构，每帧由 systems.StepFirefly 计算出新值。
// Target 是当前目标序列中的索引（非拥有关系），序列重新生成后索引依然按位置对应。
type FireflyComponent struct {
	X, Y   float64 // 视口坐标
	VX, VY float64 // 每帧位移

	Angle       float64 // 当前朝向（弧度）
	TargetAngle float64 // 期望朝向（弧度）

	WingPhase    float64 // 翅膀相位
	FlickerPhase float64 // 闪烁相位

	Color color.NRGBA // 创建时从调色板抽取

	Target   int  // 目标点索引，NoTarget 表示无目标
	Docked   bool // 是否已停靠
	Retiring bool // 是否正在离场

	// 创建时确定的个体差异
	SpeedFactor float64 // 自由飞行速度系数
	NoiseOffset float64 // 相位噪声偏移
	GatherDelay float64 // 汇聚开始前的等待时间（毫秒）
	CruiseSpeed float64 // 接近目标时的最高速度
}

// HasTarget 是否分配了目标点
func (f *FireflyComponent) HasTarget() bool {
	return f.Target >= 0
}

// State 推导当前逻辑状态
//
// 优先级：Retiring > Wandering（无目标）> Docked > Approaching。
// 没有目标时 Docked 标记不生效。
func (f *FireflyComponent) State() FireflyState {
	switch {
	case f.Retiring:
		return StateRetiring
	case !f.HasTarget():
		return StateWandering
	case f.Docked:
		return StateDocked
	default:
		return StateApproaching
	}
}

// ClearTarget 释放目标点并取消停靠
func (f *FireflyComponent) ClearTarget() {
	f.Target = NoTarget
	f.Docked = false
}
