package systems

import (
	"math"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	cameraNear = 0.1
	cameraFar  = 100.0
)

var cameraUp = mgl64.Vec3{0, 1, 0}

// CameraSystem 镜头姿态插值系统
//
// 每帧：
//  1. 过渡中用 smoothstep(t) 在 pose[from] 与 pose[to] 之间插值，空闲时直接取当前显示分区的姿态
//  2. 实际位置/注视点向目标做指数阻尼（与进度缓动叠加，形成有惯性的镜头）
//  3. 指针视差偏移以独立的阻尼速率平滑后叠加到注视点上
//
// 阻尼在空闲时也持续进行，所以指针移动仍会轻微扰动画面。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	entity        ecs.EntityID
	poses         PoseProvider
	cfg           config.CameraConfig
}

// NewCameraSystem 创建镜头系统，并把镜头初始化到第一个分区的姿态
func NewCameraSystem(em *ecs.EntityManager, entity ecs.EntityID, poses PoseProvider, cfg config.CameraConfig) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		entity:        entity,
		poses:         poses,
		cfg:           cfg,
	}

	start := poses.Pose(0)
	look := start.LookAt
	if cfg.InitialLook != nil {
		look = mgl64.Vec3(*cfg.InitialLook)
	}

	ecs.AddComponent(em, entity, &components.CameraRigComponent{
		Position:       start.CameraPosition,
		Look:           look,
		TargetPosition: start.CameraPosition,
		TargetLook:     start.LookAt,
	})

	return cs
}

// Update 更新镜头
// dt 为本帧时间增量（秒）
func (cs *CameraSystem) Update(dt float64) {
	rig, ok := ecs.GetComponent[*components.CameraRigComponent](cs.entityManager, cs.entity)
	if !ok {
		return
	}
	tc, ok1 := ecs.GetComponent[*components.TransitionComponent](cs.entityManager, cs.entity)
	sc, ok2 := ecs.GetComponent[*components.SectionComponent](cs.entityManager, cs.entity)
	if !ok1 || !ok2 {
		return
	}

	if refs, ok := ecs.GetComponent[*components.HostRefsComponent](cs.entityManager, cs.entity); ok && refs.Pointer != nil {
		x, y := refs.Pointer.PointerNDC()
		rig.Pointer = mgl64.Vec2{x, y}
	}

	from, to, k := sc.Displayed, sc.Displayed, 1.0
	if tc.Active {
		from, to, k = tc.From, tc.To, utils.Smoothstep(tc.T)
	}

	fromPose := cs.poses.Pose(from)
	toPose := cs.poses.Pose(to)

	rig.TargetPosition = lerpVec3(fromPose.CameraPosition, toPose.CameraPosition, k)
	rig.TargetLook = lerpVec3(fromPose.LookAt, toPose.LookAt, k)
	rig.TargetParallax = mgl64.Vec3{
		rig.Pointer.X() * cs.cfg.ParallaxX,
		rig.Pointer.Y() * cs.cfg.ParallaxY,
		0,
	}

	fps := cs.cfg.ReferenceFPS
	rig.Position = lerpVec3(rig.Position, rig.TargetPosition, utils.DampFactor(cs.cfg.PositionDamping, dt, fps))
	rig.Look = lerpVec3(rig.Look, rig.TargetLook, utils.DampFactor(cs.cfg.LookDamping, dt, fps))
	rig.Parallax = lerpVec3(rig.Parallax, rig.TargetParallax, utils.DampFactor(cs.cfg.ParallaxDamping, dt, fps))
}

// Position 返回当前相机位置
func (cs *CameraSystem) Position() mgl64.Vec3 {
	rig, ok := ecs.GetComponent[*components.CameraRigComponent](cs.entityManager, cs.entity)
	if !ok {
		return mgl64.Vec3{}
	}
	return rig.Position
}

// LookAt 返回当前注视点（含视差）
func (cs *CameraSystem) LookAt() mgl64.Vec3 {
	rig, ok := ecs.GetComponent[*components.CameraRigComponent](cs.entityManager, cs.entity)
	if !ok {
		return mgl64.Vec3{}
	}
	return rig.LookAt()
}

// ViewMatrix 返回观察矩阵
func (cs *CameraSystem) ViewMatrix() mgl64.Mat4 {
	return mgl64.LookAtV(cs.Position(), cs.LookAt(), cameraUp)
}

// ProjectionMatrix 返回透视投影矩阵
func (cs *CameraSystem) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(cs.cfg.FOV), aspect, cameraNear, cameraFar)
}

// Project 把世界坐标投影到屏幕坐标
// 点位于相机后方时返回 ok=false
func (cs *CameraSystem) Project(p mgl64.Vec3, width, height int) (x, y float64, ok bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	aspect := float64(width) / float64(height)
	clip := cs.ProjectionMatrix(aspect).Mul4(cs.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= cameraNear {
		return 0, 0, false
	}
	nx := clip.X() / clip.W()
	ny := clip.Y() / clip.W()
	if math.IsNaN(nx) || math.IsNaN(ny) {
		return 0, 0, false
	}
	x = (nx + 1) * 0.5 * float64(width)
	y = (1 - ny) * 0.5 * float64(height)
	return x, y, true
}

// lerpVec3 向量线性插值
func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		utils.Lerp(a[0], b[0], t),
		utils.Lerp(a[1], b[1], t),
		utils.Lerp(a[2], b[2], t),
	}
}
