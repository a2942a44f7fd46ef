package systems

import (
	"time"

	"github.com/decker502/vantage/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

// Clock 返回当前墙钟时间，测试中可替换为假时钟
type Clock func() time.Time

// PoseProvider 分区镜头姿态表
// 静态数据，启动时加载一次
type PoseProvider interface {
	Len() int
	Pose(index int) config.Pose
}

// ContentRenderer 分区内容渲染器
// 根据分区索引绘制内容，对协调器没有副作用
type ContentRenderer interface {
	DrawSection(screen *ebiten.Image, section int, scrollTop, opacity float64)
}

// AudioCollaborator 音频协作者
// 所有调用都是"发出即忘"，不返回错误
type AudioCollaborator interface {
	// PlayWhoosh 每次过渡开始时播放一次转场音效
	PlayWhoosh()
	// SetAmbience 切换到指定分区的环境音
	SetAmbience(section int)
}

// TransitionState 过渡状态的只读快照
type TransitionState struct {
	Active bool
	From   int
	To     int
	T      float64
}

// seconds 将配置中的秒数转换为 time.Duration
func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
