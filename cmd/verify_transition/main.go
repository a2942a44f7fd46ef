// verify_transition 无窗口地回放一次分区过渡，逐帧打印时间线
//
// 用法（在仓库根目录执行）：
//
//	go run ./cmd/verify_transition --to 1
//	go run ./cmd/verify_transition --from 2 --to 3 --fps 30 --every 3
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/decker502/vantage/pkg/config"
	"github.com/decker502/vantage/pkg/ecs"
	"github.com/decker502/vantage/pkg/modules"
)

var (
	configPath = flag.String("config", "data/experience.yaml", "体验配置文件路径")
	from       = flag.Int("from", 0, "起始分区（直接跳转，不计入时间线）")
	to         = flag.Int("to", 1, "目标分区（支持负数回绕）")
	fps        = flag.Int("fps", 60, "模拟帧率")
	every      = flag.Int("every", 1, "每隔多少帧打印一行")
	settle     = flag.Float64("settle", 0.5, "过渡完成后继续模拟的秒数（观察镜头收敛）")
	verbose    = flag.Bool("verbose", false, "显示协调器日志")
)

// manualClock 由模拟循环推进的时钟
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// traceAudio 把音频协作者的调用打印到时间线
type traceAudio struct {
	clock *manualClock
	start time.Time
	names []string
}

func (a *traceAudio) elapsed() float64 { return a.clock.now.Sub(a.start).Seconds() }

func (a *traceAudio) PlayWhoosh() {
	fmt.Printf("  %7.3fs  [audio] whoosh\n", a.elapsed())
}

func (a *traceAudio) SetAmbience(section int) {
	name := ""
	if section >= 0 && section < len(a.names) {
		name = a.names[section]
	}
	fmt.Printf("  %7.3fs  [audio] ambience -> %d %s\n", a.elapsed(), section, name)
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	if *fps <= 0 {
		fmt.Fprintln(os.Stderr, "fps 必须大于 0")
		os.Exit(2)
	}
	if *every <= 0 {
		*every = 1
	}

	cfg, err := config.LoadExperienceConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	clock := &manualClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	names := make([]string, len(cfg.Sections))
	for i, s := range cfg.Sections {
		names[i] = s.ID
	}
	audio := &traceAudio{clock: clock, start: clock.now, names: names}

	swapAt := -1.0
	module, err := modules.NewSectionScrollerModule(ecs.NewEntityManager(), modules.SectionScrollerOptions{
		Config: cfg,
		Audio:  audio,
		Clock:  clock.Now,
		OnSwap: func(int) {
			swapAt = audio.elapsed()
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "创建协调器失败: %v\n", err)
		os.Exit(1)
	}
	module.Start()
	defer module.Stop()

	step := time.Second / time.Duration(*fps)

	// 先无输出地跳到起始分区
	if *from != 0 {
		module.SelectSection(*from)
		for module.Snapshot().Transition.Active {
			clock.advance(step)
			module.Update()
		}
		for i := 0; i < *fps*2; i++ {
			clock.advance(step)
			module.Update()
		}
	}

	snap := module.Snapshot()
	fmt.Printf("experience %q: %d sections, duration %.2fs, fps %d\n",
		cfg.ID, len(cfg.Sections), cfg.Timing.TransitionSec, *fps)
	fmt.Printf("request %d -> %d\n", snap.Current, *to)

	audio.start = clock.now
	if !module.RequestTransition(*to) {
		fmt.Println("request ignored (busy or locked)")
		return
	}
	if !module.Snapshot().Transition.Active {
		fmt.Println("same section: scrolled to top, no transition")
		return
	}

	fmt.Printf("  %7s  %5s  %7s  %7s  %4s  %s\n", "time", "t", "opacity", "dim", "show", "camera")
	frame := 0
	printRow := func() {
		s := module.Snapshot()
		p := module.Camera().Position()
		fmt.Printf("  %7.3fs  %5.3f  %7.3f  %7.3f  %4d  (%6.2f, %6.2f, %6.2f)\n",
			audio.elapsed(), s.Transition.T, s.Opacity, s.DimAlpha, s.Section, p.X(), p.Y(), p.Z())
	}

	printRow()
	for module.Snapshot().Transition.Active {
		clock.advance(step)
		module.Update()
		frame++
		if frame%*every == 0 || !module.Snapshot().Transition.Active {
			printRow()
		}
	}
	doneAt := audio.elapsed()

	settleFrames := int(*settle * float64(*fps))
	for i := 1; i <= settleFrames; i++ {
		clock.advance(step)
		module.Update()
		if i%(*every*10) == 0 || i == settleFrames {
			printRow()
		}
	}

	final := module.Snapshot()
	fmt.Printf("midpoint swap at %.3fs, completed at %.3fs (%d frames), current=%d (%s)\n",
		swapAt, doneAt, frame, final.Current, names[final.Current])
}
