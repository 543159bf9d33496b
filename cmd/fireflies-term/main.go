// fireflies-term 在终端里运行萤火虫夜空
//
// 与桌面端共用引擎、设置和快捷键，渲染改为字符格，提示音改用 beep 播放。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-isatty"

	"github.com/decker502/fireflies/data"
	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/app"
	"github.com/decker502/fireflies/pkg/embedded"
	"github.com/decker502/fireflies/pkg/game"
	"github.com/decker502/fireflies/pkg/termview"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	logFile   = flag.String("log", "", "日志文件（终端被占用，日志不输出到屏幕）")
	count     = flag.Int("count", -1, "萤火虫数量（-1 使用保存的设置）")
	shapeID   = flag.String("shape", "", "启动时汇聚的图形：heart, arrow_heart, scatter")
	seed      = flag.Uint64("seed", 0, "随机种子（0 使用系统熵）")
	noSound   = flag.Bool("nosound", false, "禁用提示音")
	noStorage = flag.Bool("nostorage", false, "不读写用户设置")
	cfgFile   = flag.String("config", "", "外部萤火虫配置文件（修改后自动重新加载）")
)

// fail 以红色输出错误并退出
func fail(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// termApp 终端宿主
type termApp struct {
	screen     tcell.Screen
	view       *termview.View
	controller *game.FireflyController
	sound      *beepPlayer
}

func newTermApp() (*termApp, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	t := &termApp{
		screen: screen,
		view:   termview.New(screen),
	}

	var newSound func(*game.SettingsManager) game.SoundPlayer
	if !*noSound {
		newSound = func(sm *game.SettingsManager) game.SoundPlayer {
			p, err := newBeepPlayer(sm)
			if err != nil {
				// 没有声音也能运行
				log.Printf("Audio initialization failed: %v", err)
				return nil
			}
			t.sound = p
			return p
		}
	}

	cols, rows := screen.Size()
	w, h := termview.ViewportSize(cols, rows)
	controller, _, err := app.Setup(app.Config{
		Count:      *count,
		Shape:      shape.ID(*shapeID),
		Seed:       *seed,
		NoStorage:  *noStorage,
		ConfigFile: *cfgFile,
	}, w, h, newSound, nil)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	t.controller = controller
	return t, nil
}

// run 主循环，ctx 取消或按下退出键时返回
func (t *termApp) run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				// 屏幕已关闭
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-eventChan:
			if !t.handleEvent(ev) {
				return
			}

		case <-ticker.C:
			t.controller.Update()
			t.view.Draw(t.controller.Engine(), t.status())
		}
	}
}

// handleEvent 返回 false 表示退出
func (t *termApp) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		action, quit := actionForKey(ev)
		if quit {
			return false
		}
		t.controller.HandleAction(action)

	case *tcell.EventResize:
		t.screen.Sync()
		cols, rows := t.screen.Size()
		t.controller.Engine().Resize(termview.ViewportSize(cols, rows))
	}
	return true
}

func (t *termApp) status() string {
	if t.controller.ShowHelp() {
		return strings.Join(t.controller.HelpLines(), " | ")
	}
	return t.controller.Status() + " | h help"
}

func (t *termApp) cleanup() {
	if err := t.controller.SaveState(); err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
	t.controller.Close()
	if t.sound != nil {
		t.sound.Close()
	}
	t.screen.Fini()
}

func setupLogging(path string) (io.Closer, error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

func main() {
	flag.Parse()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fail("fireflies-term must be run in a terminal")
	}

	closer, err := setupLogging(*logFile)
	if err != nil {
		fail("%v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	embedded.Init(data.FS)

	t, err := newTermApp()
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		fail("Failed to initialize: %v", err)
	}
	defer t.cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t.run(ctx)
}
