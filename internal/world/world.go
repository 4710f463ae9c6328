// Package world собирает уровень в игровой мир и ведёт фиксированный тик:
// часы, HUD, физика, объекты (игрок и поведения NPC).
package world

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/clock"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
	"github.com/annel0/tileworld/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// ErrNoLevel - мир нельзя построить без уровня
var ErrNoLevel = errors.New("world: level required")

// State - состояние партии
type State int

const (
	StatePlaying State = iota
	StateGameOver
)

func (s State) String() string {
	if s == StateGameOver {
		return "game_over"
	}
	return "playing"
}

// Pumper - HUD, который завершает диалоги на следующем тике
type Pumper interface {
	Pump()
}

// Options - зависимости мира
type Options struct {
	Config  *config.Config
	Level   *level.Level
	Dialogs *dialog.Catalog
	HUD     dialog.HUD
	Sprites sprite.Factory
	// Registerer - куда регистрировать метрики; nil - без регистрации
	Registerer prometheus.Registerer
	Logger     *logging.Logger
	// Bus получает игровые события; nil - события не публикуются
	Bus eventbus.EventBus
	// AutoRestart перезапускает партию сразу после game over
	AutoRestart bool
}

// World - игровой мир одного уровня
type World struct {
	opts   Options
	logger *logging.Logger

	metrics          *Metrics
	physicsMetrics   *physics.Metrics
	behaviourMetrics *behaviour.Metrics

	clock     *clock.Sim
	physics   *physics.World
	entities  *entity.EntityManager
	player    *entity.Player
	state     State
	tick      uint64
	nextInput int
}

// New строит мир. Ошибки данных уровня прерывают построение.
func New(opts Options) (*World, error) {
	if opts.Level == nil {
		return nil, ErrNoLevel
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.HUD == nil {
		opts.HUD = dialog.NewHeadlessHUD(nil, nil)
	}
	if opts.Sprites == nil {
		opts.Sprites = sprite.HeadlessFactory
	}
	if opts.Dialogs == nil {
		opts.Dialogs = dialog.NewCatalog(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.GetComponentLogger("world")
	}

	w := &World{
		opts:             opts,
		logger:           opts.Logger,
		metrics:          NewMetrics(opts.Registerer),
		physicsMetrics:   physics.NewMetrics(opts.Registerer),
		behaviourMetrics: behaviour.NewMetrics(opts.Registerer),
	}
	if err := w.build(); err != nil {
		return nil, err
	}
	return w, nil
}

// build собирает мир с нуля: часы, карта столкновений, объекты уровня
func (w *World) build() error {
	cfg := w.opts.Config

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	pw := physics.NewWorld(
		physics.WithMetrics(w.physicsMetrics),
		physics.WithLogger(logging.GetComponentLogger("physics")),
	)
	tiles, err := w.opts.Level.BuildCollisionMap()
	if err != nil {
		return fmt.Errorf("collision map: %w", err)
	}
	pw.SetMap(tiles)

	clk := clock.NewSim(0)
	em := entity.NewEntityManager()
	env := &entity.Env{
		Config:     cfg,
		Physics:    pw,
		Level:      w.opts.Level,
		Dialogs:    w.opts.Dialogs,
		HUD:        w.opts.HUD,
		Sprites:    w.opts.Sprites,
		Clock:      clk,
		Rand:       rand.New(rand.NewSource(seed)),
		Behaviours: w.behaviourMetrics,
		Logger:     w.logger,
	}
	player, err := entity.Populate(env, em)
	if err != nil {
		return err
	}

	w.clock = clk
	w.physics = pw
	w.entities = em
	w.player = player
	w.state = StatePlaying
	w.tick = 0
	w.nextInput = 0

	w.metrics.observeState(w.state)
	w.publish(EventWorldBuilt, 0, map[string]string{"level": w.opts.Level.Name})
	w.logger.WithFields(logrus.Fields{
		"level":  w.opts.Level.Name,
		"bodies": pw.Len(),
		"solid":  tiles.SolidCount(),
		"seed":   seed,
	}).Info("World built")
	return nil
}

// Restart перестраивает мир заново после game over
func (w *World) Restart() error {
	if err := w.build(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	w.metrics.restarts.Inc()
	w.publish(EventRestart, 5, nil)
	return nil
}

// Step выполняет один тик длиной deltaMs
func (w *World) Step(deltaMs float64) {
	started := time.Now()
	w.tick++
	w.clock.Advance(deltaMs)
	before := w.snapshot()

	// продолжения диалогов, открытых на прошлом тике
	if p, ok := w.opts.HUD.(Pumper); ok {
		p.Pump()
	}

	if w.state == StateGameOver {
		if w.opts.AutoRestart {
			if err := w.Restart(); err != nil {
				w.logger.Error("Не удалось перезапустить мир: %v", err)
			}
		}
		return
	}

	w.applyInput()
	w.physics.Update(deltaMs)
	if removed := w.entities.UpdateEntities(deltaMs); removed > 0 {
		w.publish(EventEntityRemoved, 0, map[string]string{"count": strconv.Itoa(removed)})
	}
	w.emitPlayerChanges(before)

	if w.player.IsDead() {
		w.state = StateGameOver
		w.metrics.gameOvers.Inc()
		w.publish(EventGameOver, 9, nil)
		w.logger.WithField("tick", w.tick).Info("Game over")
	}

	w.metrics.observeTick(started, w)
}

// applyInput применяет сценарий ввода уровня, наступивший к текущему времени
func (w *World) applyInput() {
	events := w.opts.Level.Input
	now := w.clock.NowMs()
	for w.nextInput < len(events) && events[w.nextInput].AtMs <= now {
		ev := events[w.nextInput]
		w.nextInput++

		name, press := ev.Press, true
		if name == "" {
			name, press = ev.Release, false
		}
		dir, err := behaviour.ParseDirection(name)
		if err != nil {
			w.logger.Warn("Пропущено событие ввода в %vms: %v", ev.AtMs, err)
			continue
		}
		if press {
			w.player.Directions().Press(dir)
		} else {
			w.player.Directions().Release(dir)
		}
	}
}

// Loop крутит фиксированный тик с частотой из конфигурации до отмены ctx
func (w *World) Loop(ctx context.Context) error {
	rate := w.opts.Config.Game.GetTickRate()
	period := time.Second / time.Duration(rate)
	deltaMs := float64(period) / float64(time.Millisecond)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	w.logger.Info("Игровой цикл запущен: %d тиков/с", rate)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Игровой цикл остановлен на тике %d", w.tick)
			return nil
		case <-ticker.C:
			w.Step(deltaMs)
		}
	}
}

// State возвращает состояние партии
func (w *World) State() State { return w.state }

// Tick возвращает номер текущего тика
func (w *World) Tick() uint64 { return w.tick }

// NowMs возвращает игровое время
func (w *World) NowMs() float64 { return w.clock.NowMs() }

// Player возвращает игрока
func (w *World) Player() *entity.Player { return w.player }

// Entities возвращает менеджер объектов
func (w *World) Entities() *entity.EntityManager { return w.entities }

// Physics возвращает физический мир
func (w *World) Physics() *physics.World { return w.physics }

// HUD возвращает HUD диалогов
func (w *World) HUD() dialog.HUD { return w.opts.HUD }
