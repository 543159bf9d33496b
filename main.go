package main

import (
	"flag"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/fireflies/data"
	"github.com/decker502/fireflies/internal/shape"
	"github.com/decker502/fireflies/pkg/app"
	"github.com/decker502/fireflies/pkg/embedded"
)

var (
	verbose   = flag.Bool("verbose", false, "显示详细调试信息")
	count     = flag.Int("count", -1, "萤火虫数量（-1 使用保存的设置）")
	shapeID   = flag.String("shape", "", "启动时汇聚的图形：heart, arrow_heart, scatter")
	seed      = flag.Uint64("seed", 0, "随机种子（0 使用系统熵）")
	noSound   = flag.Bool("nosound", false, "禁用提示音")
	noStorage = flag.Bool("nostorage", false, "不读写用户设置")
	cfgFile   = flag.String("config", "", "外部萤火虫配置文件（修改后自动重新加载）")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(data.FS)

	fireflyApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Count:      *count,
		Shape:      shape.ID(*shapeID),
		Seed:       *seed,
		NoSound:    *noSound,
		NoStorage:  *noStorage,
		ConfigFile: *cfgFile,
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(app.DefaultWindowWidth, app.DefaultWindowHeight)
	ebiten.SetWindowTitle("Fireflies")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	// RunGame 阻塞到窗口关闭或 Update 返回 ebiten.Termination
	runErr := ebiten.RunGame(fireflyApp)
	fireflyApp.Shutdown()

	if !app.IsTermination(runErr) {
		log.SetOutput(os.Stderr)
		log.Fatal(runErr)
	}
}
