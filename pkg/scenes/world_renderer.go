package scenes

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/systems"
	"github.com/decker502/vantage/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 转场遮挡板参数
const (
	wipeStartX = 3.5
	wipeEndX   = -3.5
	wipeStartZ = -1.5
	wipeEndZ   = -0.6
	wipeSize   = 2.2
	wipeInset  = 0.025
)

// 场景网格范围
const (
	gridMin    = -30.0
	gridMax    = 30.0
	gridStep   = 3.0
	gridY      = -2.0
	markerHalf = 0.8
	cloudCount = 160
)

var (
	gridColor   = color.RGBA{R: 70, G: 80, B: 100, A: 90}
	markerColor = color.RGBA{R: 170, G: 190, B: 220, A: 180}
	cloudColor  = color.RGBA{R: 200, G: 210, B: 230, A: 70}
	wipeFill    = color.RGBA{R: 11, G: 12, B: 16, A: 235}
	wipeFace    = color.RGBA{R: 255, G: 255, B: 255, A: 140}
)

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// WipePlacement 返回转场遮挡板在进度 t 时的位置
// 遮挡板从右向左穿过镜头，同时向镜头靠近
func WipePlacement(t float64) mgl64.Vec3 {
	k := utils.Smoothstep(t)
	return mgl64.Vec3{
		utils.Lerp(wipeStartX, wipeEndX, k),
		0,
		utils.Lerp(wipeStartZ, wipeEndZ, k),
	}
}

// WorldRenderer 线框 3D 背景
//
// 用镜头的观察/投影矩阵把地面网格、分区标记和"云"点投影到屏幕，
// 过渡期间额外绘制一块穿过镜头的遮挡板。
type WorldRenderer struct {
	camera  *systems.CameraSystem
	markers []mgl64.Vec3
	clouds  []mgl64.Vec3
}

// NewWorldRenderer 创建背景渲染器
// 每个分区的注视点处放置一个线框立方体
func NewWorldRenderer(camera *systems.CameraSystem, poses config.PoseTable) *WorldRenderer {
	w := &WorldRenderer{camera: camera}
	for _, p := range poses {
		w.markers = append(w.markers, p.LookAt)
	}

	// 固定种子，每次启动的云层布局一致
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < cloudCount; i++ {
		w.clouds = append(w.clouds, mgl64.Vec3{
			rng.Float64()*50 - 20,
			rng.Float64()*8 + 2,
			rng.Float64()*40 - 30,
		})
	}
	return w
}

// Draw 绘制背景
func (w *WorldRenderer) Draw(screen *ebiten.Image, transition systems.TransitionState) {
	b := screen.Bounds()
	width, height := b.Dx(), b.Dy()

	for v := gridMin; v <= gridMax; v += gridStep {
		w.line(screen, mgl64.Vec3{v, gridY, gridMin}, mgl64.Vec3{v, gridY, gridMax}, gridColor, width, height)
		w.line(screen, mgl64.Vec3{gridMin, gridY, v}, mgl64.Vec3{gridMax, gridY, v}, gridColor, width, height)
	}

	for _, c := range w.clouds {
		if x, y, ok := w.camera.Project(c, width, height); ok {
			vector.DrawFilledRect(screen, float32(x)-1, float32(y)-1, 2, 2, cloudColor, true)
		}
	}

	for _, m := range w.markers {
		w.cube(screen, m, markerHalf, markerColor, width, height)
	}

	if transition.Active {
		w.drawWipe(screen, transition.T, width, height)
	}
}

// drawWipe 绘制转场遮挡板：深色实心面 + 半透明白色内框
func (w *WorldRenderer) drawWipe(screen *ebiten.Image, t float64, width, height int) {
	center := WipePlacement(t)
	half := wipeSize / 2

	corners := [4]mgl64.Vec3{
		center.Add(mgl64.Vec3{-half, -half, 0}),
		center.Add(mgl64.Vec3{half, -half, 0}),
		center.Add(mgl64.Vec3{half, half, 0}),
		center.Add(mgl64.Vec3{-half, half, 0}),
	}
	w.quad(screen, corners, wipeFill, width, height)

	inner := half - wipeInset
	face := center.Add(mgl64.Vec3{0, 0, 0.09})
	facePts := [4]mgl64.Vec3{
		face.Add(mgl64.Vec3{-inner, -inner, 0}),
		face.Add(mgl64.Vec3{inner, -inner, 0}),
		face.Add(mgl64.Vec3{inner, inner, 0}),
		face.Add(mgl64.Vec3{-inner, inner, 0}),
	}
	for i := range facePts {
		w.line(screen, facePts[i], facePts[(i+1)%4], wipeFace, width, height)
	}
}

// quad 填充投影后的四边形，任一顶点在镜头后方时跳过
func (w *WorldRenderer) quad(screen *ebiten.Image, pts [4]mgl64.Vec3, c color.RGBA, width, height int) {
	var vs [4]ebiten.Vertex
	r, g, b, a := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	for i, p := range pts {
		x, y, ok := w.camera.Project(p, width, height)
		if !ok {
			return
		}
		vs[i] = ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 1, SrcY: 1,
			ColorR: r * a, ColorG: g * a, ColorB: b * a, ColorA: a,
		}
	}
	screen.DrawTriangles(vs[:], []uint16{0, 1, 2, 0, 2, 3}, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// cube 绘制线框立方体
func (w *WorldRenderer) cube(screen *ebiten.Image, center mgl64.Vec3, half float64, c color.RGBA, width, height int) {
	var v [8]mgl64.Vec3
	for i := range v {
		dx, dy, dz := -half, -half, -half
		if i&1 != 0 {
			dx = half
		}
		if i&2 != 0 {
			dy = half
		}
		if i&4 != 0 {
			dz = half
		}
		v[i] = center.Add(mgl64.Vec3{dx, dy, dz})
	}
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		w.line(screen, v[e[0]], v[e[1]], c, width, height)
	}
}

// line 绘制一条投影后的线段，端点在镜头后方时跳过
func (w *WorldRenderer) line(screen *ebiten.Image, a, b mgl64.Vec3, c color.RGBA, width, height int) {
	x0, y0, ok0 := w.camera.Project(a, width, height)
	x1, y1, ok1 := w.camera.Project(b, width, height)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, c, true)
}
