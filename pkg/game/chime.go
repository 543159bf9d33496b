package game

import (
	"encoding/binary"
	"math"
	"time"
)

// 提示音 ID
const (
	SoundGather  = "gather"  // 开始汇聚
	SoundScatter = "scatter" // 散开
	SoundPreset  = "preset"  // 应用新配置
)

// ChimeSampleRate 提示音采样率
const ChimeSampleRate = 44100

// 包络参数
const (
	chimeAttack = 5 * time.Millisecond // 起音时长
	chimeDecay  = 5.0                  // 单个音符内的衰减系数
)

// Note 一个正弦音符
type Note struct {
	Freq     float64       // 频率 (Hz)
	Duration time.Duration // 时长
}

// Chime 由若干音符顺序组成的合成提示音
//
// 由程序生成，不依赖音频资源文件。
type Chime struct {
	Notes []Note
	Gain  float64 // 峰值增益 (0.0 ~ 1.0)
}

// chimes 内置提示音
var chimes = map[string]Chime{
	// 上行琶音
	SoundGather: {Gain: 0.4, Notes: []Note{
		{Freq: 659.25, Duration: 90 * time.Millisecond},
		{Freq: 783.99, Duration: 90 * time.Millisecond},
		{Freq: 1046.50, Duration: 220 * time.Millisecond},
	}},
	// 下行
	SoundScatter: {Gain: 0.35, Notes: []Note{
		{Freq: 880.00, Duration: 80 * time.Millisecond},
		{Freq: 587.33, Duration: 200 * time.Millisecond},
	}},
	SoundPreset: {Gain: 0.3, Notes: []Note{
		{Freq: 1318.51, Duration: 120 * time.Millisecond},
	}},
}

// LookupChime 按 ID 查找提示音
func LookupChime(id string) (Chime, bool) {
	c, ok := chimes[id]
	return c, ok
}

// ChimeIDs 返回所有提示音 ID（预加载用）
func ChimeIDs() []string {
	return []string{SoundGather, SoundScatter, SoundPreset}
}

// Duration 返回提示音总时长
func (c Chime) Duration() time.Duration {
	var d time.Duration
	for _, n := range c.Notes {
		d += n.Duration
	}
	return d
}

// Samples 生成单声道采样，取值范围 [-Gain, Gain]
//
// 每个音符带独立的起音和指数衰减包络，音符边界处振幅接近 0，避免爆音。
//
// 参数：
//   - sampleRate: 采样率，<= 0 时返回 nil
func (c Chime) Samples(sampleRate int) []float64 {
	if sampleRate <= 0 {
		return nil
	}
	gain := math.Max(0, math.Min(1, c.Gain))

	var out []float64
	for _, n := range c.Notes {
		count := int(n.Duration.Seconds() * float64(sampleRate))
		if count <= 0 {
			continue
		}
		attack := math.Max(1, chimeAttack.Seconds()*float64(sampleRate))
		for i := 0; i < count; i++ {
			t := float64(i) / float64(sampleRate)
			pos := float64(i) / float64(count)

			env := math.Min(1, float64(i)/attack) * math.Exp(-chimeDecay*pos)
			// 最后 10% 线性收尾到 0
			if pos > 0.9 {
				env *= (1 - pos) / 0.1
			}
			out = append(out, gain*env*math.Sin(2*math.Pi*n.Freq*t))
		}
	}
	return out
}

// PCM16 生成 16 位有符号小端双声道 PCM 数据（ebiten audio 的默认格式）
func (c Chime) PCM16(sampleRate int) []byte {
	samples := c.Samples(sampleRate)
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		v := uint16(int16(math.Round(s * math.MaxInt16)))
		binary.LittleEndian.PutUint16(buf[i*4:], v)
		binary.LittleEndian.PutUint16(buf[i*4+2:], v)
	}
	return buf
}
