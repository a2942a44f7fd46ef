package config

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Pose 镜头姿态：相机位置 + 注视点
// 运行期不可变
type Pose struct {
	CameraPosition mgl64.Vec3
	LookAt         mgl64.Vec3
}

// ToPose 将 YAML 表示转换为 Pose
func (p PoseConfig) ToPose() Pose {
	return Pose{
		CameraPosition: mgl64.Vec3(p.CameraPosition),
		LookAt:         mgl64.Vec3(p.LookAt),
	}
}

// PoseTable 按分区索引排列的姿态表
type PoseTable []Pose

// Len 返回姿态数量
func (pt PoseTable) Len() int {
	return len(pt)
}

// Pose 返回指定分区的姿态，索引按环绕规则处理
func (pt PoseTable) Pose(index int) Pose {
	if len(pt) == 0 {
		return Pose{}
	}
	n := len(pt)
	return pt[((index%n)+n)%n]
}
