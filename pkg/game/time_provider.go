package game

import (
	"sync"
	"time"
)

// Clock 时间源接口，控制器和场景通过它获取当前时间
type Clock interface {
	Now() time.Time
}

// TimeProvider 使用系统时间的时间源
type TimeProvider struct{}

// NewTimeProvider 创建系统时间源
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now 返回当前系统时间
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider 可控的时间源（测试用）
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

// NewMockTimeProvider 创建从 startTime 开始的可控时间源
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{
		currentTime: startTime,
	}
}

// Now 返回当前模拟时间
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime 设置当前模拟时间
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance 推进模拟时间
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
