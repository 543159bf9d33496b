// Package ecs 提供有序的实体存储
//
// 与通用 ECS 不同，这里的实体按插入顺序排列，索引顺序即种群索引，
// 删除采用"先标记、后统一清理"的方式，同一帧内索引保持稳定。
package ecs

// EntityID 是实体的唯一标识符
type EntityID uint64

// InvalidEntity 保留为无效 ID
const InvalidEntity EntityID = 0

// EntityManager 按插入顺序管理同一类型的实体数据
type EntityManager[T any] struct {
	nextID uint64
	ids    []EntityID
	items  []T
	// 待删除的实体ID集合
	entitiesToDestroy map[EntityID]struct{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager[T any]() *EntityManager[T] {
	return &EntityManager[T]{
		nextID:            1, // ID从1开始,0保留为无效ID
		entitiesToDestroy: make(map[EntityID]struct{}),
	}
}

// CreateEntity 在末尾追加实体并返回唯一ID
func (em *EntityManager[T]) CreateEntity(item T) EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.ids = append(em.ids, id)
	em.items = append(em.items, item)
	return id
}

// Len 返回实体数量（包括已标记待删除的实体）
func (em *EntityManager[T]) Len() int {
	return len(em.items)
}

// At 返回索引 i 处实体数据的指针，指针在下一次清理前有效
func (em *EntityManager[T]) At(i int) *T {
	return &em.items[i]
}

// IDAt 返回索引 i 处实体的ID
func (em *EntityManager[T]) IDAt(i int) EntityID {
	return em.ids[i]
}

// IndexOf 返回实体当前索引，不存在时返回 -1
func (em *EntityManager[T]) IndexOf(id EntityID) int {
	for i, got := range em.ids {
		if got == id {
			return i
		}
	}
	return -1
}

// Items 返回实体数据切片（只读视图，调用方不应保留）
func (em *EntityManager[T]) Items() []T {
	return em.items
}

// Each 按索引顺序遍历实体
func (em *EntityManager[T]) Each(fn func(i int, item *T)) {
	for i := range em.items {
		fn(i, &em.items[i])
	}
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager[T]) DestroyEntity(id EntityID) {
	em.entitiesToDestroy[id] = struct{}{}
}

// IsMarked 检查实体是否已标记待删除
func (em *EntityManager[T]) IsMarked(id EntityID) bool {
	_, ok := em.entitiesToDestroy[id]
	return ok
}

// RemoveMarkedEntities 清理所有标记删除的实体，保持剩余实体的相对顺序
// 返回：被删除的实体数量
func (em *EntityManager[T]) RemoveMarkedEntities() int {
	if len(em.entitiesToDestroy) == 0 {
		return 0
	}
	removed := em.compact(func(id EntityID, _ *T) bool {
		_, marked := em.entitiesToDestroy[id]
		return marked
	})
	clear(em.entitiesToDestroy)
	return removed
}

// RemoveWhere 删除满足条件的实体，保持剩余实体的相对顺序
// 返回：被删除的实体数量
func (em *EntityManager[T]) RemoveWhere(pred func(item *T) bool) int {
	return em.compact(func(_ EntityID, item *T) bool {
		return pred(item)
	})
}

// Truncate 只保留前 n 个实体
func (em *EntityManager[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(em.items) {
		return
	}
	for _, id := range em.ids[n:] {
		delete(em.entitiesToDestroy, id)
	}
	var zero T
	for i := n; i < len(em.items); i++ {
		em.items[i] = zero
	}
	em.ids = em.ids[:n]
	em.items = em.items[:n]
}

func (em *EntityManager[T]) compact(drop func(id EntityID, item *T) bool) int {
	kept := 0
	for i := range em.items {
		if drop(em.ids[i], &em.items[i]) {
			continue
		}
		em.ids[kept] = em.ids[i]
		em.items[kept] = em.items[i]
		kept++
	}
	removed := len(em.items) - kept
	var zero T
	for i := kept; i < len(em.items); i++ {
		em.items[i] = zero
	}
	em.ids = em.ids[:kept]
	em.items = em.items[:kept]
	return removed
}
