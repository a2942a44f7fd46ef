package game

import "github.com/decker502/vantage/pkg/config"

// SectionAudio 把分区索引翻译为环境音键
// 实现 systems.AudioCollaborator
type SectionAudio struct {
	manager *AudioManager
	config  *config.ExperienceConfig
}

// NewSectionAudio 创建分区音频适配器
func NewSectionAudio(am *AudioManager, cfg *config.ExperienceConfig) *SectionAudio {
	return &SectionAudio{manager: am, config: cfg}
}

// PlayWhoosh 播放转场音效
func (sa *SectionAudio) PlayWhoosh() {
	sa.manager.PlayWhoosh()
}

// SetAmbience 切换到分区对应的环境音
func (sa *SectionAudio) SetAmbience(section int) {
	sa.manager.PlayAmbience(sa.config.AmbienceFor(section))
}
