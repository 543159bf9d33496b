// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/assist"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/engine"
	"github.com/decker502/fireflies/pkg/game"
	"github.com/decker502/fireflies/pkg/scenes"
)

// AppName 用户数据目录名
const AppName = "fireflies"

// 默认窗口尺寸
const (
	DefaultWindowWidth  = 960
	DefaultWindowHeight = 640
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Count 覆盖萤火虫数量，<0 表示使用设置中的值
	Count int
	// Shape 启动时汇聚的图形，"" 表示使用上次退出时的图形
	Shape shape.ID
	// Seed 随机种子，0 表示使用系统熵
	Seed uint64
	// NoSound 禁用提示音
	NoSound bool
	// NoStorage 不读写用户设置（仅内存）
	NoStorage bool
	// ConfigFile 外部萤火虫配置文件，设置后优先于用户设置并在修改时自动重新加载
	ConfigFile string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	settings     *game.SettingsManager
	verbose      bool
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	var newSound func(*game.SettingsManager) game.SoundPlayer
	if !cfg.NoSound {
		newSound = func(sm *game.SettingsManager) game.SoundPlayer {
			// 初始化音频上下文
			audioManager := game.NewAudioManager(audio.NewContext(game.ChimeSampleRate), sm)
			audioManager.PreloadSounds(game.ChimeIDs())
			log.Printf("[App] AudioManager initialized")
			return audioManager
		}
	}

	clock := game.NewTimeProvider()
	controller, settingsManager, err := Setup(cfg, DefaultWindowWidth, DefaultWindowHeight, newSound, clock)
	if err != nil {
		return nil, err
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scenes.NewFireflyScene(controller, clock))

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settingsManager,
		verbose:      cfg.Verbose,
	}, nil
}

// Setup 桌面端、移动端与终端共用的启动流程
//
// 读取用户设置（没有保存过时使用内置配置文件），应用命令行覆盖，
// 创建引擎、离线预设和控制器，并选择启动图形。
//
// 参数：
//   - cfg: 启动配置
//   - width, height: 初始视口尺寸
//   - newSound: 创建提示音播放器，为 nil 时静音
//   - clock: 时间源
//
// 返回：
//   - *game.FireflyController: 控制器
//   - *game.SettingsManager: 设置管理器（存储不可用时为内存模式）
//   - error: 引擎初始化失败或启动图形未知时返回错误
func Setup(cfg Config, width, height float64, newSound func(*game.SettingsManager) game.SoundPlayer, clock game.Clock) (*game.FireflyController, *game.SettingsManager, error) {
	settingsManager := openSettings(cfg.NoStorage)
	settings := settingsManager.GetSettings()

	// 没有保存过的设置时使用内置配置文件
	fireflyConfig := settings.Firefly
	if !settingsManager.Loaded() {
		base, err := config.LoadFireflyConfig(config.DefaultFireflyConfigPath)
		if err != nil {
			log.Printf("[App] Warning: %v (using defaults)", err)
		}
		fireflyConfig = base
	}

	if cfg.ConfigFile != "" {
		fileConfig, err := config.LoadFireflyConfigFile(cfg.ConfigFile)
		if err != nil {
			return nil, nil, err
		}
		fireflyConfig = fileConfig
	}
	if cfg.Count >= 0 {
		fireflyConfig.Count = cfg.Count
	}
	fireflyConfig = fireflyConfig.Sanitize()

	startShape := cfg.Shape
	if startShape == "" {
		startShape = settings.LastShape
	}
	if startShape != "" && !shape.IsKnown(startShape) && startShape != engine.ScatterID {
		return nil, nil, fmt.Errorf("unknown shape %q", startShape)
	}

	eng, err := engine.New(fireflyConfig, width, height, engine.Options{Seed: cfg.Seed})
	if err != nil {
		return nil, nil, fmt.Errorf("引擎初始化失败: %w", err)
	}

	var sound game.SoundPlayer
	if newSound != nil {
		sound = newSound(settingsManager)
	}

	var presets *assist.PresetSuggester
	if list, err := assist.LoadPresets(assist.DefaultPresetsPath); err != nil {
		log.Printf("[App] Warning: presets unavailable: %v", err)
	} else {
		presets = assist.NewPresetSuggester(list)
	}

	controller := game.NewFireflyController(eng, settingsManager, sound, presets, clock)
	if cfg.ConfigFile != "" {
		if watcher, err := config.NewConfigWatcher(cfg.ConfigFile); err != nil {
			// 热更新不可用不影响启动
			log.Printf("[App] Warning: %v (config file will not be reloaded)", err)
		} else {
			controller.WatchConfig(watcher)
			log.Printf("[App] Watching config file: %s", cfg.ConfigFile)
		}
	}
	if startShape != "" {
		controller.Select(startShape)
		log.Printf("[App] Starting with shape: %s", startShape)
	}
	return controller, settingsManager, nil
}

// openSettings 打开用户设置，存储不可用时降级为内存模式
func openSettings(memoryOnly bool) *game.SettingsManager {
	if memoryOnly {
		sm, _ := game.NewSettingsManager(nil)
		return sm
	}
	storage, err := game.OpenStorage(AppName)
	if err != nil {
		log.Printf("[App] Warning: %v (settings will not be saved)", err)
	}
	sm, _ := game.NewSettingsManager(storage)
	return sm
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// Esc / Q 退出
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑屏幕与窗口一致，窗口尺寸变化时通知场景
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := max(outsideWidth, 1), max(outsideHeight, 1)
	a.sceneManager.Layout(w, h)
	return w, h
}

// Shutdown 保存设置并关闭当前场景
// RunGame 返回后调用
func (a *App) Shutdown() {
	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !s.SaveOnExit() {
			log.Printf("[App] Warning: scene state was not saved")
		}
	} else if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}
	a.sceneManager.Close()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}

// IsTermination 判断 RunGame 的返回值是否为正常退出
func IsTermination(err error) bool {
	return err == nil || errors.Is(err, ebiten.Termination)
}
