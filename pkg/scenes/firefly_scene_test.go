package scenes

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/config"
	"github.com/decker502/fireflies/pkg/engine"
	"github.com/decker502/fireflies/pkg/game"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

var sceneStart = time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)

func newTestScene(t *testing.T) (*FireflyScene, *game.MockTimeProvider) {
	t.Helper()
	e, err := engine.New(config.DefaultFireflyConfig(), 640, 480, engine.Options{Seed: 3})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	sm, _ := game.NewSettingsManager(nil)
	clock := game.NewMockTimeProvider(sceneStart)
	c := game.NewFireflyController(e, sm, nil, nil, clock)
	return NewFireflyScene(c, clock), clock
}

// TestActionForKey 测试快捷键映射
func TestActionForKey(t *testing.T) {
	cases := []struct {
		key  ebiten.Key
		want game.Action
	}{
		{ebiten.KeyDigit1, game.ActionHeart},
		{ebiten.KeyDigit2, game.ActionArrowHeart},
		{ebiten.KeySpace, game.ActionScatter},
		{ebiten.KeyDigit0, game.ActionScatter},
		{ebiten.KeyEqual, game.ActionMoreFireflies},
		{ebiten.KeyMinus, game.ActionFewerFireflies},
		{ebiten.KeyP, game.ActionNextPreset},
		{ebiten.KeyH, game.ActionToggleHelp},
		{ebiten.KeyZ, game.ActionNone},
	}
	for _, tc := range cases {
		if got := ActionForKey(tc.key); got != tc.want {
			t.Errorf("ActionForKey(%v) = %v, want %v", tc.key, got, tc.want)
		}
	}
	if len(boundKeys) != len(keyBindings) {
		t.Errorf("boundKeys: got %d, want %d", len(boundKeys), len(keyBindings))
	}
}

// TestFireflyScene_Resize 测试窗口尺寸同步到引擎
func TestFireflyScene_Resize(t *testing.T) {
	s, _ := newTestScene(t)
	s.Resize(1024, 768)
	if w, h := s.Controller().Engine().Size(); w != 1024 || h != 768 {
		t.Errorf("Size: got %vx%v, want 1024x768", w, h)
	}
}

// TestFireflyScene_HelpToggle 测试帮助显示时刻
func TestFireflyScene_HelpToggle(t *testing.T) {
	s, clock := newTestScene(t)
	clock.Advance(time.Second)

	s.HandleAction(game.ActionToggleHelp)
	if !s.Controller().ShowHelp() {
		t.Fatal("help should be visible")
	}
	if !s.helpShownAt.Equal(sceneStart.Add(time.Second)) {
		t.Errorf("helpShownAt: got %v", s.helpShownAt)
	}

	s.HandleAction(game.ActionNone)
	if !s.Controller().ShowHelp() {
		t.Error("ActionNone should not change help")
	}
}

// TestFireflyScene_SaveAndClose 测试退出时保存并停止引擎
func TestFireflyScene_SaveAndClose(t *testing.T) {
	s, _ := newTestScene(t)
	s.HandleAction(game.ActionHeart)

	if !s.SaveOnExit() {
		t.Error("SaveOnExit should succeed in memory-only mode")
	}
	s.Close()
	if !s.Controller().Engine().Closed() {
		t.Error("engine should be closed")
	}
}

// TestFireflyScene_Draw 测试绘制不崩溃
func TestFireflyScene_Draw(t *testing.T) {
	s, clock := newTestScene(t)
	s.HandleAction(game.ActionHeart)
	s.HandleAction(game.ActionToggleHelp)
	for i := 0; i < 3; i++ {
		s.Controller().Update()
		clock.Advance(16 * time.Millisecond)
	}

	screen := ebiten.NewImage(640, 480)
	s.Draw(screen)

	if got := len(s.Controller().Engine().Fireflies()); got != shape.PointCount {
		t.Errorf("fireflies: got %d, want %d", got, shape.PointCount)
	}
}

// 编译期检查可选接口
var (
	_ game.Scene     = (*FireflyScene)(nil)
	_ game.Resizable = (*FireflyScene)(nil)
	_ game.Saveable  = (*FireflyScene)(nil)
	_ game.Closer    = (*FireflyScene)(nil)
)
