package systems

import (
	"log"

	"github.com/decker502/vantage/pkg/components"
	"github.com/decker502/vantage/pkg/ecs"
)

// MidpointThreshold 内容切换的进度阈值
// 此时页面不透明度为 0，切换不会被看到
const MidpointThreshold = 0.5

// MidpointSwapSystem 中点内容切换
//
// 每次过渡恰好触发一次：进度首次达到 0.5 时切换显示的分区、
// 把滚动容器复位到顶部并切换环境音。之后 T 会在多帧内保持 ≥ 0.5，
// 因此只依赖 MidpointSwapped 标记防止重复触发。
type MidpointSwapSystem struct {
	entityManager *ecs.EntityManager
	entity        ecs.EntityID
	audio         AudioCollaborator
	onSwap        func(section int)
}

// NewMidpointSwapSystem 创建中点切换系统
// audio 与 onSwap 均可为 nil
func NewMidpointSwapSystem(em *ecs.EntityManager, entity ecs.EntityID, audio AudioCollaborator, onSwap func(section int)) *MidpointSwapSystem {
	return &MidpointSwapSystem{
		entityManager: em,
		entity:        entity,
		audio:         audio,
		onSwap:        onSwap,
	}
}

// Update 检查并执行中点切换
// 返回本次调用是否触发了切换
func (ms *MidpointSwapSystem) Update() bool {
	tc, ok := ecs.GetComponent[*components.TransitionComponent](ms.entityManager, ms.entity)
	if !ok || !tc.Active || tc.MidpointSwapped {
		return false
	}
	if tc.T < MidpointThreshold {
		return false
	}

	tc.MidpointSwapped = true

	if sc, ok := ecs.GetComponent[*components.SectionComponent](ms.entityManager, ms.entity); ok {
		sc.Displayed = tc.To
	}

	// 内容不可见时立即复位滚动位置
	if refs, ok := ecs.GetComponent[*components.HostRefsComponent](ms.entityManager, ms.entity); ok && refs.Scroll != nil {
		refs.Scroll.ScrollToTop(false)
	}

	if ms.audio != nil {
		ms.audio.SetAmbience(tc.To)
	}
	if ms.onSwap != nil {
		ms.onSwap(tc.To)
	}

	log.Printf("[MidpointSwapSystem] 中点切换内容: 分区 %d (t=%.3f)", tc.To, tc.T)
	return true
}
