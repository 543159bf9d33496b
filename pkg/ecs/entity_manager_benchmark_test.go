package ecs

import "testing"

type benchmarkComp struct {
	X, Y  float64
	Angle float64
	Dead  bool
}

// setupBenchmarkEntities 创建指定数量的实体，每隔 stride 个标记一个删除
func setupBenchmarkEntities(count, stride int) *EntityManager[benchmarkComp] {
	em := NewEntityManager[benchmarkComp]()
	for i := 0; i < count; i++ {
		em.CreateEntity(benchmarkComp{X: float64(i), Dead: stride > 0 && i%stride == 0})
	}
	return em
}

// BenchmarkRemoveWhere_500 模拟每帧对 500 只萤火虫的清理扫描
func BenchmarkRemoveWhere_500(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		em := setupBenchmarkEntities(500, 10)
		b.StartTimer()
		em.RemoveWhere(func(c *benchmarkComp) bool { return c.Dead })
	}
}

// BenchmarkEach_500 模拟每帧对 500 只萤火虫的更新遍历
func BenchmarkEach_500(b *testing.B) {
	em := setupBenchmarkEntities(500, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		em.Each(func(_ int, c *benchmarkComp) {
			c.X += 1
			c.Angle += 0.01
		})
	}
}
