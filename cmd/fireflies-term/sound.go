package main

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/decker502/fireflies/pkg/game"
)

// beepPlayer 用 beep 播放合成提示音
type beepPlayer struct {
	sampleRate beep.SampleRate
	settings   *game.SettingsManager
	samples    map[string][]float64
}

// newBeepPlayer 初始化扬声器
func newBeepPlayer(sm *game.SettingsManager) (*beepPlayer, error) {
	sampleRate := beep.SampleRate(game.ChimeSampleRate)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &beepPlayer{
		sampleRate: sampleRate,
		settings:   sm,
		samples:    make(map[string][]float64),
	}, nil
}

// PlaySound 实现 game.SoundPlayer
func (p *beepPlayer) PlaySound(soundID string) bool {
	samples, ok := p.samples[soundID]
	if !ok {
		chime, found := game.LookupChime(soundID)
		if !found {
			return false
		}
		samples = chime.Samples(int(p.sampleRate))
		p.samples[soundID] = samples
	}

	volume := game.DefaultSettings().SoundVolume
	if p.settings != nil {
		volume = p.settings.GetSettings().SoundVolume
	}
	speaker.Play(withVolume(sampleStreamer(samples), volume))
	return true
}

// Close 关闭扬声器
func (p *beepPlayer) Close() {
	speaker.Close()
}

// sampleStreamer 把单声道采样包装为双声道 Streamer
func sampleStreamer(samples []float64) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}
		n := copy2(buf, samples[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i][0] = src[i]
		dst[i][1] = src[i]
	}
	return n
}

// withVolume 线性音量 (0.0 ~ 1.0) 转为 effects.Volume 的对数音量
func withVolume(s beep.Streamer, volume float64) beep.Streamer {
	if volume >= 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(volume, 1e-6)),
		Silent:   volume <= 0,
	}
}
