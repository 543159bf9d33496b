package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 统一管理提示音的播放
//   - 实现音量控制（从 SettingsManager 读取设置）
//   - 提供便捷的播放接口
//
// 提示音由 Chime 合成，首次播放时生成 PCM 并缓存播放器。
// audio context 为 nil 时所有播放请求都被忽略（静音模式）。
type AudioManager struct {
	context         *audio.Context           // 音频上下文，可为 nil
	settingsManager *SettingsManager         // 设置管理器（用于读取音量设置）
	soundPlayers    map[string]*audio.Player // 音效播放器缓存（提示音ID -> 播放器）
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: 音频上下文，采样率应为 ChimeSampleRate；为 nil 时静音
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
//
// 返回：
//   - *AudioManager: 音频管理器实例
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		context:         ctx,
		settingsManager: sm,
		soundPlayers:    make(map[string]*audio.Player),
	}
}

// Enabled 是否会实际发声
func (am *AudioManager) Enabled() bool {
	if am.context == nil {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}
	return true
}

// PlaySound 播放提示音
// 使用 SoundVolume 设置控制音量，单次播放
//
// 参数：
//   - soundID: 提示音ID（如 SoundGather, SoundScatter）
//
// 返回：
//   - bool: 是否成功播放
func (am *AudioManager) PlaySound(soundID string) bool {
	if !am.Enabled() {
		return false
	}

	player := am.getSoundPlayer(soundID)
	if player == nil {
		return false
	}

	player.SetVolume(am.getSoundVolume())

	// 重置并播放
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", soundID, err)
	}
	player.Play()
	return true
}

// SetSoundVolume 设置音效音量
// 此方法会影响后续播放的所有提示音
//
// 参数：
//   - volume: 音量值 (0.0 ~ 1.0)
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
		volume = am.settingsManager.GetSettings().SoundVolume
	}
	for _, player := range am.soundPlayers {
		player.SetVolume(volume)
	}
}

// GetSoundVolume 获取当前音效音量
func (am *AudioManager) GetSoundVolume() float64 {
	return am.getSoundVolume()
}

// getSoundPlayer 获取或生成提示音播放器
func (am *AudioManager) getSoundPlayer(soundID string) *audio.Player {
	if player, exists := am.soundPlayers[soundID]; exists {
		return player
	}

	chime, ok := LookupChime(soundID)
	if !ok {
		log.Printf("[AudioManager] Warning: Sound not found: %s", soundID)
		return nil
	}

	player := am.context.NewPlayerFromBytes(chime.PCM16(am.context.SampleRate()))
	am.soundPlayers[soundID] = player
	return player
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return DefaultSettings().SoundVolume
}

// PreloadSounds 预生成提示音
// 在场景初始化时调用，避免首次播放时的延迟
//
// 参数：
//   - soundIDs: 要预加载的提示音ID列表
func (am *AudioManager) PreloadSounds(soundIDs []string) {
	if am.context == nil {
		return
	}
	for _, soundID := range soundIDs {
		am.getSoundPlayer(soundID)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(soundIDs))
}
