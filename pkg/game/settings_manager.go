package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/config"
)

// Settings 用户设置
// 保存用户最近一次使用的萤火虫参数，下次启动时覆盖内置默认配置
type Settings struct {
	// Firefly 萤火虫参数
	Firefly config.FireflyConfig `yaml:"firefly"`

	// LastShape 退出时汇聚的图形，"" 表示散开
	LastShape shape.ID `yaml:"lastShape"`

	// 音效设置
	SoundEnabled bool    `yaml:"soundEnabled"` // 汇聚/散开提示音开关
	SoundVolume  float64 `yaml:"soundVolume"`  // 提示音音量 (0.0 ~ 1.0)

	// 显示设置
	Fullscreen bool `yaml:"fullscreen"` // 启动时是否全屏
}

// DefaultSettings 返回默认设置
func DefaultSettings() *Settings {
	return &Settings{
		Firefly:      config.DefaultFireflyConfig(),
		LastShape:    "",
		SoundEnabled: true,
		SoundVolume:  0.5,
		Fullscreen:   false,
	}
}

// SettingsManager 设置管理器
// 负责用户设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *Settings      // 当前设置
	loaded       bool           // 当前设置是否来自存储
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "fireflies"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 如果加载设置失败返回错误（不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	// 尝试加载已保存的设置
	if err := sm.Load(); err != nil {
		// 加载失败不是致命错误，使用默认设置
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或文件不存在，使用默认设置。
// 文件中缺省的字段保留默认值，非法的萤火虫参数会被修正。
//
// 返回：
//   - error: 如果反序列化失败返回错误
func (sm *SettingsManager) Load() error {
	sm.loaded = false

	// 降级模式：无法持久化，使用默认设置
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	// 检查设置文件是否存在
	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		// 文件存在但加载失败，使用默认设置
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.Firefly = loaded.Firefly.Sanitize()
	if loaded.LastShape != "" && !shape.IsKnown(loaded.LastShape) {
		loaded.LastShape = ""
	}
	loaded.SoundVolume = clampVolume(loaded.SoundVolume)

	sm.settings = loaded
	sm.loaded = true
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
//
// 如果 gdataManager 为 nil，返回 nil（降级模式，不报错）
//
// 返回：
//   - error: 如果序列化或保存失败返回错误
func (sm *SettingsManager) Save() error {
	// 降级模式：无法持久化，但不报错
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// Loaded 当前设置是否从存储中读取（false 表示使用默认设置）
func (sm *SettingsManager) Loaded() bool {
	return sm.loaded
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *Settings {
	return sm.settings
}

// SetFirefly 设置萤火虫参数
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFirefly(cfg config.FireflyConfig) {
	sm.settings.Firefly = cfg.Sanitize()
}

// SetLastShape 记录当前汇聚的图形
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - id: 图形 ID，未知图形按散开记录
func (sm *SettingsManager) SetLastShape(id shape.ID) {
	if !shape.IsKnown(id) {
		id = ""
	}
	sm.settings.LastShape = id
}

// SetSoundEnabled 设置提示音开关
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetSoundEnabled(enabled bool) {
	sm.settings.SoundEnabled = enabled
}

// SetSoundVolume 设置提示音音量
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)，超出范围会被限制
func (sm *SettingsManager) SetSoundVolume(volume float64) {
	sm.settings.SoundVolume = clampVolume(volume)
}

// SetFullscreen 设置全屏模式
//
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// OpenStorage 打开 gdata 存储
//
// 参数：
//   - appName: 应用名（决定用户数据目录）
//
// 返回：
//   - *gdata.Manager: 存储管理器
//   - error: 打开失败时返回错误，调用方可传 nil 给 NewSettingsManager 降级运行
func OpenStorage(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage %q: %w", appName, err)
	}
	return m, nil
}

// clampVolume 将音量限制在 0.0 ~ 1.0，NaN 视为 0
func clampVolume(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
