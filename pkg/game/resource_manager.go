package game

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/decker502/vantage/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// ErrNoAudioContext 没有可用的音频上下文
var ErrNoAudioContext = errors.New("audio context not available")

// ResourceManager 音频资源加载与缓存
//
// 资源优先从嵌入文件系统读取，找不到时再尝试本地文件，
// 方便开发时直接替换 assets/ 下的音频而无需重新编译。
type ResourceManager struct {
	audioContext *audio.Context
	audioCache   map[string]*audio.Player
}

// NewResourceManager 创建资源管理器
// audioContext 可为 nil，此时所有音频加载都返回 ErrNoAudioContext
func NewResourceManager(audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		audioContext: audioContext,
		audioCache:   make(map[string]*audio.Player),
	}
}

// LoadAudio 加载循环播放的音频（环境音）
// 支持 MP3 (.mp3)、OGG Vorbis (.ogg) 和 WAV (.wav)
func (rm *ResourceManager) LoadAudio(path string) (*audio.Player, error) {
	if cached, exists := rm.audioCache[path]; exists {
		return cached, nil
	}

	stream, err := rm.decode(path)
	if err != nil {
		return nil, err
	}

	loopStream := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := rm.audioContext.NewPlayer(loopStream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// LoadSoundEffect 加载单次播放的音效（转场音效）
// 与 LoadAudio 的区别是不包装为无限循环
func (rm *ResourceManager) LoadSoundEffect(path string) (*audio.Player, error) {
	if cached, exists := rm.audioCache[path]; exists {
		return cached, nil
	}

	stream, err := rm.decode(path)
	if err != nil {
		return nil, err
	}

	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}

	rm.audioCache[path] = player
	return player, nil
}

// ReleaseAudio 关闭并清空所有已缓存的播放器
func (rm *ResourceManager) ReleaseAudio() {
	for path, player := range rm.audioCache {
		if err := player.Close(); err != nil {
			log.Printf("[ResourceManager] Warning: failed to close player %s: %v", path, err)
		}
		delete(rm.audioCache, path)
	}
}

// GetAudioPlayer 返回已缓存的播放器，未加载时返回 nil
func (rm *ResourceManager) GetAudioPlayer(path string) *audio.Player {
	return rm.audioCache[path]
}

type decodedStream interface {
	io.ReadSeeker
	Length() int64
}

// decode 读取并按扩展名解码音频
func (rm *ResourceManager) decode(path string) (decodedStream, error) {
	if rm.audioContext == nil {
		return nil, ErrNoAudioContext
	}

	data, err := readResource(path)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		s, err := mp3.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode MP3 audio %s: %w", path, err)
		}
		return s, nil
	case ".ogg":
		s, err := vorbis.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode OGG audio %s: %w", path, err)
		}
		return s, nil
	case ".wav":
		s, err := wav.DecodeWithoutResampling(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decode WAV audio %s: %w", path, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .mp3, .ogg, .wav)", ext)
	}
}

// readResource 读取资源文件：嵌入文件系统优先，本地文件兜底
func readResource(path string) ([]byte, error) {
	if embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	return data, nil
}
