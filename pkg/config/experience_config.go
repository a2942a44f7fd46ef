package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/decker502/vantage/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ExperienceConfig 一个"体验"的完整配置
// 一个体验由 N 个分区组成，每个分区拥有自己的镜头姿态、内容和环境音
type ExperienceConfig struct {
	ID       string          `yaml:"id"`
	Sections []SectionConfig `yaml:"sections"`
	Timing   TimingConfig    `yaml:"timing"`
	Camera   CameraConfig    `yaml:"camera"`
	Audio    AudioConfig     `yaml:"audio"`
}

// SectionConfig 单个分区的配置
type SectionConfig struct {
	ID         string     `yaml:"id"`
	Label      string     `yaml:"label"` // 顶部小标签，如 "V-001 · INDEX · PROJECTS"
	Title      string     `yaml:"title"`
	Align      string     `yaml:"align"` // left / center / right
	Paragraphs []string   `yaml:"paragraphs"`
	Spacer     float64    `yaml:"spacer"`   // 段落之间的留白（像素），用于制造可滚动内容
	Ambience   string     `yaml:"ambience"` // 环境音资源键，对应 AudioConfig.Ambience
	Checker    string     `yaml:"checker"`  // 底部检查条文字，如 "END OF PROJECTS"
	Pose       PoseConfig `yaml:"pose"`
}

// PoseConfig 镜头姿态（YAML 表示）
type PoseConfig struct {
	CameraPosition [3]float64 `yaml:"camera_position"`
	LookAt         [3]float64 `yaml:"look_at"`
}

// TimingConfig 过渡与输入冷却时间（秒 / 像素）
type TimingConfig struct {
	TransitionSec          float64 `yaml:"transition_sec"`            // 单次过渡时长
	TransitionBlockSec     float64 `yaml:"transition_block_sec"`      // 过渡开始时的滚轮屏蔽时长
	PostTransitionBlockSec float64 `yaml:"post_transition_block_sec"` // 过渡结束后的滚轮屏蔽时长
	WheelBlockSec          float64 `yaml:"wheel_block_sec"`           // 边缘滚轮触发后的屏蔽时长
	EdgeTolerancePx        float64 `yaml:"edge_tolerance_px"`         // 判定到达顶部/底部的容差
	SentinelSlackPx        float64 `yaml:"sentinel_slack_px"`         // 哨兵触发时"接近底部"的容差
	SentinelThreshold      float64 `yaml:"sentinel_threshold"`        // 哨兵可见比例阈值
}

// CameraConfig 镜头阻尼与视差参数
// 阻尼值表示参考帧率下每帧向目标靠近的比例
type CameraConfig struct {
	PositionDamping float64     `yaml:"position_damping"`
	LookDamping     float64     `yaml:"look_damping"`
	ParallaxDamping float64     `yaml:"parallax_damping"`
	ParallaxX       float64     `yaml:"parallax_x"`
	ParallaxY       float64     `yaml:"parallax_y"`
	ReferenceFPS    float64     `yaml:"reference_fps"`
	FOV             float64     `yaml:"fov"` // 垂直视场角（度）
	InitialLook     *[3]float64 `yaml:"initial_look,omitempty"`
}

// AudioConfig 音频资源配置
type AudioConfig struct {
	Whoosh         string            `yaml:"whoosh"`
	WhooshVolume   float64           `yaml:"whoosh_volume"`
	AmbienceVolume float64           `yaml:"ambience_volume"`
	Ambience       map[string]string `yaml:"ambience"` // 环境音键 -> 资源路径
	DefaultKey     string            `yaml:"default_ambience"`
}

// ErrNoSections 配置中没有任何分区
var ErrNoSections = errors.New("experience must define at least one section")

// DefaultTiming 返回默认时间参数
func DefaultTiming() TimingConfig {
	return TimingConfig{
		TransitionSec:          0.95,
		TransitionBlockSec:     1.0,
		PostTransitionBlockSec: 0.45,
		WheelBlockSec:          0.5,
		EdgeTolerancePx:        1,
		SentinelSlackPx:        8,
		SentinelThreshold:      0.65,
	}
}

// DefaultCamera 返回默认镜头参数
func DefaultCamera() CameraConfig {
	return CameraConfig{
		PositionDamping: 0.10,
		LookDamping:     0.12,
		ParallaxDamping: 0.18,
		ParallaxX:       0.30,
		ParallaxY:       0.20,
		ReferenceFPS:    60,
		FOV:             50,
	}
}

// LoadExperienceConfig 从嵌入资源加载体验配置
//
// 参数：
//   - path: 配置文件路径（如 "data/experience.yaml"）
//
// 返回：
//   - *ExperienceConfig: 已填充默认值并通过校验的配置
//   - error: 读取、解析或校验错误
func LoadExperienceConfig(path string) (*ExperienceConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		// 非嵌入路径（如 --config 指定的本地文件）回退到文件系统
		local, localErr := os.ReadFile(path)
		if localErr != nil {
			return nil, fmt.Errorf("failed to read experience config %s: %w", path, err)
		}
		data = local
	}

	cfg, err := ParseExperienceConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid experience config %s: %w", path, err)
	}

	log.Printf("[Config] 加载体验配置: %s (%d 个分区)", path, len(cfg.Sections))
	return cfg, nil
}

// ParseExperienceConfig 解析 YAML 数据，填充默认值并校验
func ParseExperienceConfig(data []byte) (*ExperienceConfig, error) {
	var cfg ExperienceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal experience config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 为未填写（零值）的字段填充默认值
func (c *ExperienceConfig) applyDefaults() {
	dt := DefaultTiming()
	fillZero(&c.Timing.TransitionSec, dt.TransitionSec)
	fillZero(&c.Timing.TransitionBlockSec, dt.TransitionBlockSec)
	fillZero(&c.Timing.PostTransitionBlockSec, dt.PostTransitionBlockSec)
	fillZero(&c.Timing.WheelBlockSec, dt.WheelBlockSec)
	fillZero(&c.Timing.EdgeTolerancePx, dt.EdgeTolerancePx)
	fillZero(&c.Timing.SentinelSlackPx, dt.SentinelSlackPx)
	fillZero(&c.Timing.SentinelThreshold, dt.SentinelThreshold)

	dc := DefaultCamera()
	fillZero(&c.Camera.PositionDamping, dc.PositionDamping)
	fillZero(&c.Camera.LookDamping, dc.LookDamping)
	fillZero(&c.Camera.ParallaxDamping, dc.ParallaxDamping)
	fillZero(&c.Camera.ParallaxX, dc.ParallaxX)
	fillZero(&c.Camera.ParallaxY, dc.ParallaxY)
	fillZero(&c.Camera.ReferenceFPS, dc.ReferenceFPS)
	fillZero(&c.Camera.FOV, dc.FOV)

	fillZero(&c.Audio.WhooshVolume, 0.15)
	fillZero(&c.Audio.AmbienceVolume, 0.30)
}

func fillZero(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate 校验配置合法性
func (c *ExperienceConfig) Validate() error {
	if len(c.Sections) == 0 {
		return ErrNoSections
	}
	if !(c.Timing.TransitionSec > 0) {
		return fmt.Errorf("transition_sec must be positive, got %v", c.Timing.TransitionSec)
	}
	// 过渡期间的滚轮屏蔽至少要覆盖整个过渡
	if c.Timing.TransitionBlockSec < c.Timing.TransitionSec {
		return fmt.Errorf("transition_block_sec (%v) is too short for transition_sec (%v)",
			c.Timing.TransitionBlockSec, c.Timing.TransitionSec)
	}
	for _, k := range []float64{c.Camera.PositionDamping, c.Camera.LookDamping, c.Camera.ParallaxDamping} {
		if k < 0 || k > 1 {
			return fmt.Errorf("camera damping must be within [0, 1], got %v", k)
		}
	}
	for i, s := range c.Sections {
		if s.Ambience != "" && c.Audio.Ambience != nil {
			if _, ok := c.Audio.Ambience[s.Ambience]; !ok {
				return fmt.Errorf("section %d (%s) references unknown ambience %q", i, s.ID, s.Ambience)
			}
		}
	}
	return nil
}

// PoseTable 返回分区镜头姿态表
func (c *ExperienceConfig) PoseTable() PoseTable {
	table := make(PoseTable, len(c.Sections))
	for i, s := range c.Sections {
		table[i] = s.Pose.ToPose()
	}
	return table
}

// AmbienceFor 返回指定分区的环境音键
// 分区未配置时回退到默认键
func (c *ExperienceConfig) AmbienceFor(section int) string {
	if section >= 0 && section < len(c.Sections) && c.Sections[section].Ambience != "" {
		return c.Sections[section].Ambience
	}
	return c.Audio.DefaultKey
}
