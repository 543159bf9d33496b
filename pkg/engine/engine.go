// Package engine 萤火虫模拟核心
//
// Engine 持有星空、萤火虫种群、当前目标点序列和时间戳。外部只通过
// SetConfig/SetSelection/Resize 修改声明式输入，所有种群变更都推迟到
// Update 中统一处理，渲染器通过只读视图读取状态。
//
// Engine 不是并发安全的，所有方法应在同一个循环中调用。
package engine

import (
	"log"
	"math/rand/v2"
	"time"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/ecs"
	"github.com/decker502/fireflies/pkg/systems"
)

// ScatterID 表示不选择任何图形
const ScatterID shape.ID = "scatter"

// Selection 外部选择状态
type Selection struct {
	// ShapeID 已知图形 ID、"" 或 ScatterID
	ShapeID shape.ID
	// Gathering 是否汇聚
	Gathering bool
}

// Active 是否处于汇聚到某个图形的状态
func (s Selection) Active() bool {
	return s.Gathering && s.ShapeID != "" && s.ShapeID != ScatterID
}

// Options 引擎选项
type Options struct {
	// Seed 随机种子，0 表示使用系统熵
	Seed uint64
	// Palette 萤火虫调色板，为空时使用 config.DefaultPalette()
	Palette []string
}

// Engine 萤火虫模拟引擎
type Engine struct {
	cfg       config.FireflyConfig
	selection Selection

	width, height float64

	rng        *rand.Rand
	stars      []components.StarComponent
	fireflies  *ecs.EntityManager[components.FireflyComponent]
	population *systems.PopulationSystem
	targets    []shape.Point

	started     bool
	startTime   time.Time
	gatherStart time.Time

	// 待处理的输入变化
	pendingSelection bool
	pendingCount     bool
	pendingResize    bool

	closed bool
}

// New 创建引擎
//
// 参数：
//   - cfg: 初始配置（调用方负责校验，可先调用 cfg.Sanitize()）
//   - width, height: 初始视口尺寸
//   - opts: 引擎选项
//
// 返回：
//   - *Engine: 已放置初始种群和星空的引擎
//   - error: 调色板无法解析时返回错误
func New(cfg config.FireflyConfig, width, height float64, opts Options) (*Engine, error) {
	palette := config.DefaultPalette()
	if len(opts.Palette) > 0 {
		p, err := config.Palette(opts.Palette)
		if err != nil {
			return nil, err
		}
		palette = p
	}

	seed1, seed2 := opts.Seed, opts.Seed^0x9e3779b97f4a7c15
	if opts.Seed == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed1, seed2))

	em := ecs.NewEntityManager[components.FireflyComponent]()
	e := &Engine{
		cfg:        cfg,
		width:      width,
		height:     height,
		rng:        rng,
		fireflies:  em,
		population: systems.NewPopulationSystem(em, palette, rng),
	}
	e.population.SetViewport(width, height)
	e.stars = systems.InitStars(width, height, rng)
	e.population.Seed(cfg.Count)
	e.pendingCount = true

	log.Printf("[Engine] Created %vx%v, count=%d", width, height, cfg.Count)
	return e, nil
}

// SetConfig 替换配置
// 颜色、速度和频率在下一帧生效；数量变化在汇聚期间推迟到散开后生效
func (e *Engine) SetConfig(cfg config.FireflyConfig) {
	if cfg.Count != e.cfg.Count {
		e.pendingCount = true
	}
	e.cfg = cfg
}

// SetSelection 更新图形选择
func (e *Engine) SetSelection(sel Selection) {
	if sel == e.selection {
		return
	}
	e.selection = sel
	e.pendingSelection = true
}

// Resize 更新视口尺寸，下一帧重建星空，汇聚中时重新生成目标点
func (e *Engine) Resize(width, height float64) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.pendingResize = true
}

// Update 推进一帧
//
// 顺序：处理待定输入 → 星空 → 萤火虫 → 清理飞出边界的离场萤火虫。
func (e *Engine) Update(now time.Time) {
	if e.closed {
		return
	}
	if !e.started {
		e.started = true
		e.startTime = now
	}

	e.applyPending(now)

	elapsed := msSince(e.startTime, now)
	gatherElapsed := 0.0
	if e.selection.Active() {
		gatherElapsed = msSince(e.gatherStart, now)
	}

	systems.UpdateStars(e.stars)

	env := systems.MotionEnv{
		Width:         e.width,
		Height:        e.height,
		Config:        e.cfg,
		Gathering:     e.selection.Active(),
		Time:          elapsed,
		GatherElapsed: gatherElapsed,
	}
	e.fireflies.Each(func(_ int, f *components.FireflyComponent) {
		env.HasTarget = f.Target >= 0 && f.Target < len(e.targets)
		if env.HasTarget {
			env.Target = e.targets[f.Target]
		}
		*f = systems.StepFirefly(*f, env, e.rng)
	})

	e.population.Sweep()
}

func (e *Engine) applyPending(now time.Time) {
	if e.pendingResize {
		e.pendingResize = false
		e.population.SetViewport(e.width, e.height)
		e.stars = systems.InitStars(e.width, e.height, e.rng)
		if e.selection.Active() && !e.pendingSelection {
			e.targets = shape.Generate(e.selection.ShapeID, e.width, e.height, e.rng)
			e.population.Gather(e.targets)
		}
		log.Printf("[Engine] Resized to %vx%v", e.width, e.height)
	}

	if e.pendingSelection {
		e.pendingSelection = false
		if e.selection.Active() {
			e.targets = shape.Generate(e.selection.ShapeID, e.width, e.height, e.rng)
			e.population.Gather(e.targets)
			e.gatherStart = now
			e.pendingCount = false
			log.Printf("[Engine] Gathering into %q (%d points)", e.selection.ShapeID, len(e.targets))
		} else {
			e.targets = nil
			e.population.Scatter(e.cfg.Count)
			e.pendingCount = true
			log.Printf("[Engine] Scattered, free count %d", e.cfg.Count)
		}
	}

	if e.pendingCount && !e.selection.Active() {
		e.pendingCount = false
		e.population.ApplyCount(e.cfg.Count)
	}
}

// Close 停止引擎，之后 Update 不再有效果
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.fireflies.Truncate(0)
	e.stars = nil
	e.targets = nil
	log.Printf("[Engine] Closed")
}

// Closed 是否已停止
func (e *Engine) Closed() bool {
	return e.closed
}

// Stars 返回星空（只读）
func (e *Engine) Stars() []components.StarComponent {
	return e.stars
}

// Fireflies 返回萤火虫（只读，按种群索引排列）
func (e *Engine) Fireflies() []components.FireflyComponent {
	return e.fireflies.Items()
}

// Targets 返回当前目标点序列（只读）
func (e *Engine) Targets() []shape.Point {
	return e.targets
}

// Size 返回视口尺寸
func (e *Engine) Size() (float64, float64) {
	return e.width, e.height
}

// Config 返回当前配置
func (e *Engine) Config() config.FireflyConfig {
	return e.cfg
}

// Selection 返回当前选择状态
func (e *Engine) Selection() Selection {
	return e.selection
}

// Stats 返回各状态的萤火虫数量
func (e *Engine) Stats() map[components.FireflyState]int {
	return e.population.CountByState()
}

func msSince(from, now time.Time) float64 {
	return float64(now.Sub(from)) / float64(time.Millisecond)
}
