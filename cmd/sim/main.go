package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/metrics"
	"github.com/annel0/tileworld/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to config YAML (or GAME_CONFIG)")
		levelPath   = flag.String("level", "assets/levels/demo.yaml", "Path to level YAML")
		dialogsPath = flag.String("dialogs", "assets/dialogs/dialogs.yaml", "Path to dialog catalog YAML")
		duration    = flag.Duration("duration", 0, "Stop after this wall time (0 - until signal)")
		answers     = flag.String("answers", "good", "Headless answer strategy: good, first, wrong")
		heartbeat   = flag.Duration("heartbeat", 10*time.Second, "Heartbeat log interval")
		restart     = flag.Bool("restart", true, "Restart the level after game over")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logLevel := logging.ParseLevel(cfg.Log.Level)
	if cfg.Game.IsDebug() {
		logLevel = logging.DEBUG
	}
	logOpts := logging.Options{
		Level:  logLevel,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Dir,
	}
	if err := logging.InitDefaultLoggerWithOptions("sim", logOpts); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	lm := logging.GetLoggerManager()
	lm.SetDefaults(logOpts)
	defer func() {
		if err := lm.CloseAll(); err != nil {
			log.Printf("Ошибка закрытия логгеров: %v", err)
		}
	}()

	logging.Info("🎮 Запуск headless-симуляции: level=%s dialogs=%s", *levelPath, *dialogsPath)

	lvl, err := level.Load(*levelPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки уровня: %v", err)
	}
	catalog, err := dialog.LoadCatalog(*dialogsPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки диалогов: %v", err)
	}
	strategy, ok := dialog.ParseAnswerStrategy(*answers)
	if !ok {
		log.Fatalf("❌ Неизвестная стратегия ответов %q", *answers)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	bus := eventbus.NewMemoryBus(1024)
	defer bus.Close()
	if _, err := eventbus.StartLoggingListener(bus, nil); err != nil {
		log.Fatalf("❌ Ошибка подписки на события: %v", err)
	}
	exporter := eventbus.NewMetricsExporter(bus, reg, time.Second)
	exporter.Start()
	defer exporter.Stop()

	w, err := world.New(world.Options{
		Config:      cfg,
		Level:       lvl,
		Dialogs:     catalog,
		HUD:         dialog.NewHeadlessHUD(strategy, nil),
		Registerer:  reg,
		Bus:         bus,
		AutoRestart: *restart,
	})
	if err != nil {
		log.Fatalf("❌ Ошибка построения мира: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if addr := cfg.Metrics.GetAddr(); addr != "" {
		srv, err := metrics.Start(addr, reg, nil)
		if err != nil {
			log.Fatalf("❌ Ошибка запуска /metrics: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Error("Ошибка остановки /metrics: %v", err)
			}
		}()
	}

	stats, err := metrics.NewProcessStats()
	if err != nil {
		logging.Warn("Статистика процесса недоступна: %v", err)
	}
	done := make(chan struct{})
	go runHeartbeat(ctx, done, *heartbeat, stats)

	if err := w.Loop(ctx); err != nil {
		logging.Error("Игровой цикл завершился с ошибкой: %v", err)
	}
	<-done

	p := w.Player()
	logging.Info("👋 Симуляция остановлена: tick=%d state=%s lives=%d inventory=%v",
		w.Tick(), w.State(), p.Lives(), p.Inventory())
}

// runHeartbeat периодически пишет показатели процесса
func runHeartbeat(ctx context.Context, done chan<- struct{}, every time.Duration, stats *metrics.ProcessStats) {
	defer close(done)
	if every <= 0 || stats == nil {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logging.GetComponentLogger("world").WithFields(stats.Fields()).Info("💓 heartbeat")
		}
	}
}
