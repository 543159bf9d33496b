package systems

import (
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/components"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/ecs"
)

// PopulationSystem 让萤火虫数量与期望数量或目标点数量保持一致
//
// 只负责创建、标记离场和分配目标，离场萤火虫由 Sweep 在飞出屏幕后删除。
// 实体在 EntityManager 中的索引即种群索引，目标点按索引一一对应。
type PopulationSystem struct {
	entityManager *ecs.EntityManager[components.FireflyComponent]
	palette       []color.NRGBA
	rng           *rand.Rand

	width, height float64
}

// NewPopulationSystem 创建种群系统
func NewPopulationSystem(em *ecs.EntityManager[components.FireflyComponent], palette []color.NRGBA, rng *rand.Rand) *PopulationSystem {
	return &PopulationSystem{
		entityManager: em,
		palette:       palette,
		rng:           rng,
	}
}

// SetViewport 更新视口尺寸（影响新萤火虫的生成位置和清理边界）
func (s *PopulationSystem) SetViewport(w, h float64) {
	s.width, s.height = w, h
}

// Len 返回当前萤火虫数量（包括离场中的）
func (s *PopulationSystem) Len() int {
	return s.entityManager.Len()
}

// Seed 清空种群并在视口内随机放置初始萤火虫
// 最多放置 config.InitialCountCap 只，其余由 ApplyCount 从边缘补充
func (s *PopulationSystem) Seed(count int) {
	s.entityManager.Truncate(0)
	n := min(max(count, 0), config.InitialCountCap)
	for i := 0; i < n; i++ {
		s.entityManager.CreateEntity(NewFirefly(s.width, s.height, false, s.palette, s.rng))
	}
	log.Printf("[PopulationSystem] Seeded %d fireflies", n)
}

// Gather 按索引把目标点分配给萤火虫
//
// 数量不足时从视口边缘补充，过多时截断到目标点数量。所有萤火虫清除停靠和离场标记，
// 并重新随机汇聚等待时间，让到达时间错开。
// 目标序列为空时不改变种群，只释放已有目标（萤火虫继续自由飞行）。
func (s *PopulationSystem) Gather(targets []shape.Point) {
	n := len(targets)
	if n == 0 {
		s.entityManager.Each(func(_ int, f *components.FireflyComponent) {
			f.ClearTarget()
		})
		log.Printf("[PopulationSystem] Gather with no targets, %d fireflies keep wandering", s.Len())
		return
	}

	spawned := s.grow(n)
	s.entityManager.Truncate(n)

	s.entityManager.Each(func(i int, f *components.FireflyComponent) {
		f.Target = i
		f.Docked = false
		f.Retiring = false
		f.GatherDelay = s.rng.Float64() * config.GatherDelayMax
	})
	log.Printf("[PopulationSystem] Gather: %d targets, %d spawned", n, spawned)
}

// Scatter 释放所有目标，索引不小于 freeCount 的萤火虫开始离场
// 返回：新处于离场状态的萤火虫数量
func (s *PopulationSystem) Scatter(freeCount int) int {
	freeCount = max(freeCount, 0)
	retiring := 0
	s.entityManager.Each(func(i int, f *components.FireflyComponent) {
		f.ClearTarget()
		f.Retiring = i >= freeCount
		if f.Retiring {
			retiring++
		}
	})
	log.Printf("[PopulationSystem] Scatter: %d free, %d retiring", s.Len()-retiring, retiring)
	return retiring
}

// ApplyCount 在自由飞行时调整种群数量
//
// 数量不足时从边缘补充；索引不小于 count 的萤火虫开始离场，其余恢复正常飞行。
// 汇聚期间不应调用（由引擎推迟到散开时）。
func (s *PopulationSystem) ApplyCount(count int) {
	count = max(count, 0)
	spawned := s.grow(count)
	s.entityManager.Each(func(i int, f *components.FireflyComponent) {
		f.Retiring = i >= count
	})
	if spawned > 0 {
		log.Printf("[PopulationSystem] Count %d: %d spawned", count, spawned)
	}
}

// Sweep 删除已飞出清理边界的离场萤火虫，以及坐标无效的萤火虫
// 返回：删除的数量
func (s *PopulationSystem) Sweep() int {
	margin := config.CleanupMargin
	return s.entityManager.RemoveWhere(func(f *components.FireflyComponent) bool {
		if !isFinite(f.X) || !isFinite(f.Y) {
			return true
		}
		if !f.Retiring {
			return false
		}
		return f.X < -margin || f.X > s.width+margin || f.Y < -margin || f.Y > s.height+margin
	})
}

// Retiring 返回离场中的萤火虫数量
func (s *PopulationSystem) Retiring() int {
	n := 0
	for _, f := range s.entityManager.Items() {
		if f.Retiring {
			n++
		}
	}
	return n
}

// CountByState 按逻辑状态统计萤火虫数量
func (s *PopulationSystem) CountByState() map[components.FireflyState]int {
	counts := make(map[components.FireflyState]int, 4)
	for i := range s.entityManager.Items() {
		counts[s.entityManager.At(i).State()]++
	}
	return counts
}

// grow 从视口边缘补充萤火虫直到数量达到 n
func (s *PopulationSystem) grow(n int) int {
	spawned := 0
	for s.entityManager.Len() < n {
		s.entityManager.CreateEntity(NewFirefly(s.width, s.height, true, s.palette, s.rng))
		spawned++
	}
	return spawned
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
