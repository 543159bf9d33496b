package config

import (
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/decker502/fireflies/data"
	"github.com/decker502/fireflies/pkg/embedded"
)

// TestDefaultFireflyConfig 测试默认配置
func TestDefaultFireflyConfig(t *testing.T) {
	cfg := DefaultFireflyConfig()

	if cfg.Count != 35 {
		t.Errorf("Count: got %v, want 35", cfg.Count)
	}
	if cfg.Speed != 1.2 {
		t.Errorf("Speed: got %v, want 1.2", cfg.Speed)
	}
	if cfg.FlickerRate != 5 {
		t.Errorf("FlickerRate: got %v, want 5", cfg.FlickerRate)
	}
	if cfg.WingSpeed != 8 {
		t.Errorf("WingSpeed: got %v, want 8", cfg.WingSpeed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestParseFireflyConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, FireflyConfig)
	}{
		{
			name: "full config",
			yamlContent: `
count: 20
color: "#00ffcc"
speed: 2.5
flickerRate: 3
wingSpeed: 12
`,
			validate: func(t *testing.T, cfg FireflyConfig) {
				if cfg.Count != 20 || cfg.Speed != 2.5 || cfg.FlickerRate != 3 || cfg.WingSpeed != 12 {
					t.Errorf("unexpected config: %+v", cfg)
				}
				if cfg.RGBA() != (color.NRGBA{R: 0, G: 255, B: 204, A: 255}) {
					t.Errorf("RGBA: got %v", cfg.RGBA())
				}
			},
		},
		{
			name:        "partial config keeps defaults",
			yamlContent: "count: 10\n",
			validate: func(t *testing.T, cfg FireflyConfig) {
				if cfg.Count != 10 {
					t.Errorf("Count: got %v, want 10", cfg.Count)
				}
				if cfg.Speed != 1.2 {
					t.Errorf("Speed: got %v, want default 1.2", cfg.Speed)
				}
			},
		},
		{
			name:        "invalid yaml",
			yamlContent: "count: [1, 2",
			wantErr:     true,
			errContains: "failed to parse",
		},
		{
			name:        "negative count",
			yamlContent: "count: -1\n",
			wantErr:     true,
			errContains: "count",
		},
		{
			name:        "bad color",
			yamlContent: "color: not-a-color\n",
			wantErr:     true,
			errContains: "invalid color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseFireflyConfig([]byte(tt.yamlContent))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
				if cfg != DefaultFireflyConfig() {
					t.Errorf("failed parse should return defaults, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

// TestSanitize 测试非法配置值被修正
func TestSanitize(t *testing.T) {
	cfg := FireflyConfig{
		Count:       -5,
		Color:       "???",
		Speed:       math.NaN(),
		FlickerRate: math.Inf(1),
		WingSpeed:   1e9,
	}
	got := cfg.Sanitize()

	if got.Count != 0 {
		t.Errorf("Count: got %v, want 0", got.Count)
	}
	if got.Color != "#ffff00" {
		t.Errorf("Color: got %v, want default", got.Color)
	}
	if got.Speed != 1.2 {
		t.Errorf("Speed: got %v, want default 1.2", got.Speed)
	}
	if got.FlickerRate != 5 {
		t.Errorf("FlickerRate: got %v, want default 5", got.FlickerRate)
	}
	if got.WingSpeed != MaxRate {
		t.Errorf("WingSpeed: got %v, want %v", got.WingSpeed, MaxRate)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("sanitized config should be valid: %v", err)
	}

	big := FireflyConfig{Count: MaxCount + 1, Color: "#fff", Speed: 1, FlickerRate: 1, WingSpeed: 1}
	if got := big.Sanitize(); got.Count != MaxCount {
		t.Errorf("Count: got %v, want %v", got.Count, MaxCount)
	}
}

// TestParseColor 测试颜色解析
func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffff00", color.NRGBA{R: 255, G: 255, B: 0, A: 255}},
		{"#0f0", color.NRGBA{R: 0, G: 255, B: 0, A: 255}},
		{"cyan", color.NRGBA{R: 0, G: 255, B: 255, A: 255}},
		{" Yellow ", color.NRGBA{R: 255, G: 255, B: 0, A: 255}},
	}
	for _, tc := range cases {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q) error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseColor("ffff00"); err == nil {
		t.Error("ParseColor without '#' should fail")
	}
}

// TestDefaultPalette 测试内置调色板
func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if len(p) != len(PaletteHex) {
		t.Fatalf("got %d colors, want %d", len(p), len(PaletteHex))
	}
	if p[len(p)-1] != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("last palette color: got %v, want white", p[len(p)-1])
	}

	if _, err := Palette([]string{"#fff", "bogus"}); err == nil {
		t.Error("Palette with invalid entry should fail")
	}
}

// TestLoadFireflyConfig_Embedded 测试加载内置配置文件
func TestLoadFireflyConfig_Embedded(t *testing.T) {
	embedded.Init(data.FS)
	defer embedded.Init(nil)

	cfg, err := LoadFireflyConfig(DefaultFireflyConfigPath)
	if err != nil {
		t.Fatalf("LoadFireflyConfig error: %v", err)
	}
	if cfg != DefaultFireflyConfig() {
		t.Errorf("embedded config should match defaults, got %+v", cfg)
	}
}

// TestLoadFireflyConfig_NotInitialized 测试嵌入资源未初始化时回退默认配置
func TestLoadFireflyConfig_NotInitialized(t *testing.T) {
	embedded.Init(nil)

	cfg, err := LoadFireflyConfig(DefaultFireflyConfigPath)
	if err == nil {
		t.Fatal("expected error when embedded is not initialized")
	}
	if cfg != DefaultFireflyConfig() {
		t.Errorf("should fall back to defaults, got %+v", cfg)
	}
}
