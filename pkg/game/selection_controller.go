package game

import (
	"log"
	"time"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/engine"
)

// SelectionTarget 接收选择状态的一方（通常是 *engine.Engine）
type SelectionTarget interface {
	SetSelection(sel engine.Selection)
}

// SelectionController 图形选择策略
//
// 规则：
//   - 选择 scatter：立即散开
//   - 再次选择当前已汇聚的图形：切换为散开
//   - 汇聚中选择另一个图形：立即散开，等待 config.SettleDelay 后汇聚到新图形
//   - 未汇聚时选择图形：立即汇聚
//
// 任何新的选择都会取消尚未执行的延迟汇聚。
type SelectionController struct {
	target SelectionTarget
	clock  Clock
	task   DeferredTask

	selection engine.Selection
	// waitingFor 等待延迟汇聚的图形
	waitingFor shape.ID
}

// NewSelectionController 创建选择控制器
//
// 参数：
//   - target: 选择状态的接收方
//   - clock: 时间源，为 nil 时使用系统时间
func NewSelectionController(target SelectionTarget, clock Clock) *SelectionController {
	if clock == nil {
		clock = NewTimeProvider()
	}
	return &SelectionController{
		target: target,
		clock:  clock,
	}
}

// Select 处理一次图形选择（菜单点击、快捷键）
func (c *SelectionController) Select(id shape.ID) {
	if c.task.Cancel() {
		log.Printf("[SelectionController] Cancelled pending gather into %q", c.waitingFor)
	}
	c.waitingFor = ""

	switch {
	case id == "" || id == engine.ScatterID:
		c.apply(engine.Selection{ShapeID: engine.ScatterID})

	case c.selection.Gathering && c.selection.ShapeID == id:
		c.apply(engine.Selection{ShapeID: id})

	case c.selection.Gathering:
		c.apply(engine.Selection{ShapeID: id})
		c.waitingFor = id
		c.task.Schedule(c.clock.Now(), config.SettleDelay, func() {
			c.waitingFor = ""
			c.apply(engine.Selection{ShapeID: id, Gathering: true})
		})
		log.Printf("[SelectionController] Switching to %q after %v", id, config.SettleDelay)

	default:
		c.apply(engine.Selection{ShapeID: id, Gathering: true})
	}
}

// Update 每帧调用，到期时执行延迟汇聚
func (c *SelectionController) Update() {
	c.task.Poll(c.clock.Now())
}

// Cancel 取消待执行的延迟汇聚（宿主关闭时调用）
func (c *SelectionController) Cancel() {
	c.task.Cancel()
	c.waitingFor = ""
}

// Waiting 是否正在等待延迟汇聚
func (c *SelectionController) Waiting() bool {
	return c.task.Pending()
}

// WaitingFor 返回等待汇聚的图形，没有时返回 ""
func (c *SelectionController) WaitingFor() shape.ID {
	return c.waitingFor
}

// Selection 返回最近一次下发的选择状态
func (c *SelectionController) Selection() engine.Selection {
	return c.selection
}

// Remaining 返回距离延迟汇聚还有多久
func (c *SelectionController) Remaining() time.Duration {
	if !c.task.Pending() {
		return 0
	}
	return max(c.task.Due().Sub(c.clock.Now()), 0)
}

func (c *SelectionController) apply(sel engine.Selection) {
	c.selection = sel
	c.target.SetSelection(sel)
}
