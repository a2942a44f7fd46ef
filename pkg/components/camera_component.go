package components

import "github.com/go-gl/mathgl/mgl64"

// CameraRigComponent 镜头装置的运行时状态
//
// 目标值每帧由姿态插值重新计算，实际值向目标指数阻尼逼近，
// 形成"有惯性"的镜头。所有向量都是值类型，每帧复用同一组字段。
type CameraRigComponent struct {
	// Position 实际渲染的相机位置
	Position mgl64.Vec3

	// Look 平滑后的基础注视点（不含视差）
	Look mgl64.Vec3

	// Parallax 平滑后的指针视差偏移
	Parallax mgl64.Vec3

	// TargetPosition 本帧插值得到的目标位置
	TargetPosition mgl64.Vec3

	// TargetLook 本帧插值得到的目标注视点
	TargetLook mgl64.Vec3

	// TargetParallax 本帧指针对应的视差目标
	TargetParallax mgl64.Vec3

	// Pointer 最近一次读取的指针位置（归一化设备坐标）
	Pointer mgl64.Vec2
}

// LookAt 返回最终注视点 = 基础注视点 + 视差偏移
func (c *CameraRigComponent) LookAt() mgl64.Vec3 {
	return c.Look.Add(c.Parallax)
}
