package game

import (
	"log"

	"github.com/decker502/vantage/pkg/config"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 播放转场音效（单次）
//   - 播放分区环境音（循环，同一时间只有一首）
//   - 静音切换与"点击开启声音"门槛，状态保存在 SettingsManager 中
//
// 音频文件缺失或解码失败时只记录警告，之后保持静默，不影响过渡本身。
// 由宿主创建并显式持有，不是全局单例。
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager // 可为 nil
	config          config.AudioConfig

	whoosh          *audio.Player
	ambiencePlayers map[string]*audio.Player
	currentAmbience *audio.Player
	currentKey      string
	failed          map[string]bool // 加载失败的路径，避免每次重试
	closed          bool
}

// NewAudioManager 创建音频管理器
//
// 参数：
//   - rm: ResourceManager 实例
//   - sm: SettingsManager 实例（可为 nil）
//   - cfg: 音频资源配置
func NewAudioManager(rm *ResourceManager, sm *SettingsManager, cfg config.AudioConfig) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		config:          cfg,
		ambiencePlayers: make(map[string]*audio.Player),
		failed:          make(map[string]bool),
	}
}

// IsEnabled 用户是否已开启声音
func (am *AudioManager) IsEnabled() bool {
	if am.settingsManager == nil {
		return true
	}
	return am.settingsManager.GetSettings().AudioEnabled
}

// IsMuted 是否静音
func (am *AudioManager) IsMuted() bool {
	if am.settingsManager == nil {
		return false
	}
	return am.settingsManager.GetSettings().Muted
}

// audible 当前是否允许发声
func (am *AudioManager) audible() bool {
	return !am.closed && am.IsEnabled() && !am.IsMuted()
}

// Enable 开启声音（首次点击）并开始播放指定环境音
func (am *AudioManager) Enable(ambienceKey string) {
	if am.settingsManager != nil {
		am.settingsManager.SetAudioEnabled(true)
		am.saveSettings()
	}
	log.Printf("[AudioManager] Audio enabled")
	am.PlayAmbience(ambienceKey)
}

// ToggleMute 切换静音，返回切换后的静音状态
func (am *AudioManager) ToggleMute() bool {
	muted := !am.IsMuted()
	if am.settingsManager != nil {
		am.settingsManager.SetMuted(muted)
		am.saveSettings()
	}

	if muted {
		if am.currentAmbience != nil {
			am.currentAmbience.Pause()
		}
	} else if am.currentAmbience != nil && am.IsEnabled() {
		am.currentAmbience.Play()
	} else if am.currentKey != "" {
		am.PlayAmbience(am.currentKey)
	}

	log.Printf("[AudioManager] Muted: %v", muted)
	return muted
}

// PlayWhoosh 播放转场音效
// 返回是否成功播放
func (am *AudioManager) PlayWhoosh() bool {
	if !am.audible() || am.config.Whoosh == "" {
		return false
	}

	if am.whoosh == nil {
		am.whoosh = am.loadPlayer(am.config.Whoosh, false)
		if am.whoosh == nil {
			return false
		}
	}

	am.whoosh.SetVolume(am.config.WhooshVolume * am.soundVolume())
	if err := am.whoosh.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind whoosh: %v", err)
	}
	am.whoosh.Play()
	return true
}

// PlayAmbience 切换到指定环境音
// 同一首正在播放时不重新开始；未开启声音或静音时只记录键，开启后再播放
func (am *AudioManager) PlayAmbience(key string) bool {
	if key == "" {
		key = am.config.DefaultKey
	}

	if am.currentKey == key && am.currentAmbience != nil && am.currentAmbience.IsPlaying() {
		return true
	}

	am.StopAmbience()
	am.currentKey = key
	if am.settingsManager != nil {
		am.settingsManager.SetLastAmbience(key)
	}

	if !am.audible() {
		return false
	}

	path, ok := am.config.Ambience[key]
	if !ok {
		log.Printf("[AudioManager] Warning: Ambience not found: %s", key)
		return false
	}

	player := am.ambiencePlayers[key]
	if player == nil {
		player = am.loadPlayer(path, true)
		if player == nil {
			return false
		}
		am.ambiencePlayers[key] = player
	}

	player.SetVolume(am.config.AmbienceVolume * am.musicVolume())
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind ambience %s: %v", key, err)
	}
	player.Play()
	am.currentAmbience = player

	log.Printf("[AudioManager] Playing ambience: %s", key)
	return true
}

// StopAmbience 停止当前环境音
func (am *AudioManager) StopAmbience() {
	if am.currentAmbience != nil {
		am.currentAmbience.Pause()
		am.currentAmbience = nil
	}
}

// CurrentAmbience 返回当前环境音键
func (am *AudioManager) CurrentAmbience() string {
	return am.currentKey
}

// Close 停止所有播放并释放播放器，之后的播放请求全部静默
// 由创建者（App）在退出时调用；场景退出只需 StopAmbience
func (am *AudioManager) Close() {
	if am.closed {
		return
	}
	am.closed = true
	am.StopAmbience()
	am.whoosh = nil
	am.ambiencePlayers = make(map[string]*audio.Player)
	am.resourceManager.ReleaseAudio()
	log.Printf("[AudioManager] Closed")
}

// IsClosed 是否已经释放
func (am *AudioManager) IsClosed() bool {
	return am.closed
}

func (am *AudioManager) loadPlayer(path string, loop bool) *audio.Player {
	if am.failed[path] {
		return nil
	}

	var (
		player *audio.Player
		err    error
	)
	if loop {
		player, err = am.resourceManager.LoadAudio(path)
	} else {
		player, err = am.resourceManager.LoadSoundEffect(path)
	}
	if err != nil {
		am.failed[path] = true
		log.Printf("[AudioManager] Warning: Failed to load %s: %v (staying silent)", path, err)
		return nil
	}
	return player
}

func (am *AudioManager) musicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 1.0
}

func (am *AudioManager) soundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 1.0
}

func (am *AudioManager) saveSettings() {
	if err := am.settingsManager.Save(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to save settings: %v", err)
	}
}
