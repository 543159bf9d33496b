package assist

import (
	"errors"
	"strings"
	"testing"

	"github.com/decker502/fireflies/pkg/config"
)

// TestDecodeSuggestion 测试建议回复的解析与限幅
func TestDecodeSuggestion(t *testing.T) {
	current := config.DefaultFireflyConfig()

	tests := []struct {
		name    string
		raw     string
		wantErr bool
		want    config.FireflyConfig
	}{
		{
			name: "valid reply",
			raw:  `{"count": 20, "color": "#00ffcc", "speed": 2, "flickerRate": 3, "wingSpeed": 10}`,
			want: config.FireflyConfig{Count: 20, Color: "#00ffcc", Speed: 2, FlickerRate: 3, WingSpeed: 10},
		},
		{
			name: "values are clamped",
			raw:  `{"count": 500, "color": "cyan", "speed": 0.1, "flickerRate": 99, "wingSpeed": -3}`,
			want: config.FireflyConfig{Count: 50, Color: "cyan", Speed: 0.5, FlickerRate: 10, WingSpeed: 1},
		},
		{
			name: "fractional count is rounded",
			raw:  `{"count": 12.6, "color": "#fff", "speed": 1, "flickerRate": 1, "wingSpeed": 1}`,
			want: config.FireflyConfig{Count: 13, Color: "#fff", Speed: 1, FlickerRate: 1, WingSpeed: 1},
		},
		{
			name: "fenced reply",
			raw:  "```json\n{\"count\": 5, \"color\": \"#ff0000\", \"speed\": 1, \"flickerRate\": 2, \"wingSpeed\": 3}\n```",
			want: config.FireflyConfig{Count: 5, Color: "#ff0000", Speed: 1, FlickerRate: 2, WingSpeed: 3},
		},
		{
			name:    "missing field",
			raw:     `{"count": 20, "color": "#00ffcc", "speed": 2, "flickerRate": 3}`,
			wantErr: true,
		},
		{
			name:    "bad color",
			raw:     `{"count": 20, "color": "glowing", "speed": 2, "flickerRate": 3, "wingSpeed": 10}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `{"count": [1, 2`,
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "wrong type",
			raw:     `{"count": "many", "color": "#fff", "speed": 1, "flickerRate": 1, "wingSpeed": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSuggestion([]byte(tt.raw), current)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", got)
				}
				if got != current {
					t.Errorf("failed decode should return current config, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestDecodeSuggestion_Incomplete 测试缺字段时返回 ErrIncomplete
func TestDecodeSuggestion_Incomplete(t *testing.T) {
	_, err := DecodeSuggestion([]byte(`{"color": "#fff"}`), config.DefaultFireflyConfig())
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("got %v, want ErrIncomplete", err)
	}
}

// TestStripFence 测试代码块标记去除
func TestStripFence(t *testing.T) {
	cases := map[string]string{
		"  {}  ":                "{}",
		"```\n{}\n```":          "{}",
		"```json\n{\"a\":1}```": "{\"a\":1}",
		"```":                   "",
	}
	for in, want := range cases {
		if got := stripFence(in); got != want {
			t.Errorf("stripFence(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestRangeClamp 测试范围限幅
func TestRangeClamp(t *testing.T) {
	r := Range{Min: 1, Max: 10}
	for _, tc := range []struct{ in, want float64 }{{0, 1}, {5, 5}, {11, 10}} {
		if got := r.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if !strings.Contains(ErrIncomplete.Error(), "missing") {
		t.Errorf("unexpected ErrIncomplete message: %v", ErrIncomplete)
	}
}
