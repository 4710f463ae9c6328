package world

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/eventbus"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/world/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaLevel = `
name: arena
tile_width: 32
tile_height: 32
width: 20
height: 15
zones:
  - {name: spawn, type: player-spawn, x: 64, y: 64}
  - {name: boss_zone, x: 300, y: 40, width: 100, height: 100}
  - {name: field, x: 64, y: 300, width: 200, height: 150}
pnjs:
  - name: boss
    type: boss
    x: 360
    y: 80
    properties: {textureName: boss, questioning: boss}
  - name: sheep
    type: animal
    x: 100
    y: 340
    properties: {textureName: sheep, behaviour: random, zone: field, talk: sheep}
walls:
  - {x: 0, y: 0, width: 640, height: 10}
input:
  - {at_ms: 100, press: right}
`

func arenaCatalog() *dialog.Catalog {
	return dialog.NewCatalog(map[string]dialog.Entry{
		"sheep": {Text: "Bêê."},
		"boss": {Questioning: []dialog.Step{
			{Text: "Halte !"},
			{Question: &dialog.Question{
				Title:       "2 + 2 ?",
				Answers:     []dialog.Answer{{Text: "3"}, {Text: "4", Good: true}},
				WrongAnswer: "Non.",
			}},
		}},
	})
}

func newArena(t *testing.T, strategy dialog.AnswerStrategy, reg prometheus.Registerer) (*World, *dialog.HeadlessHUD) {
	t.Helper()
	l, err := level.Parse([]byte(arenaLevel))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Game.Seed = 7
	hud := dialog.NewHeadlessHUD(strategy, nil)
	w, err := New(Options{
		Config:     cfg,
		Level:      l,
		Dialogs:    arenaCatalog(),
		HUD:        hud,
		Registerer: reg,
	})
	require.NoError(t, err)
	return w, hud
}

func stepUntil(w *World, max int, cond func() bool) bool {
	for i := 0; i < max; i++ {
		if cond() {
			return true
		}
		w.Step(16)
	}
	return cond()
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoLevel)

	l, err := level.Parse([]byte(arenaLevel))
	require.NoError(t, err)
	l.Pnjs = append(l.Pnjs, level.Object{Name: "ghost", Type: "ghost"})
	_, err = New(Options{Level: l, Dialogs: arenaCatalog()})
	assert.True(t, errors.Is(err, entity.ErrUnknownPnjType), "got %v", err)
}

func TestWorld_BuildsLevel(t *testing.T) {
	w, _ := newArena(t, dialog.AnswerGood, nil)

	assert.Equal(t, StatePlaying, w.State())
	assert.Equal(t, 4, w.Entities().Len(), "Игрок, стена, босс, овца")
	assert.Equal(t, 4, w.Physics().Len())
	require.NotNil(t, w.Player())
	assert.Equal(t, 64.0, w.Player().Position().X)
	assert.Zero(t, w.Tick())
}

func TestWorld_ScriptedInputMovesPlayer(t *testing.T) {
	w, _ := newArena(t, dialog.AnswerGood, nil)

	for i := 0; i < 6; i++ {
		w.Step(16)
	}
	assert.Equal(t, 64.0, w.Player().Position().X, "До 100ms ввода нет")

	w.Step(16) // 112ms: нажато вправо, скорость задана на этом тике
	w.Step(16)
	assert.InDelta(t, 64+300*0.016, w.Player().Position().X, 1e-9)
	assert.Equal(t, uint64(8), w.Tick())
	assert.InDelta(t, 128.0, w.NowMs(), 1e-9)
}

func TestWorld_BossDefeated(t *testing.T) {
	w, hud := newArena(t, dialog.AnswerGood, nil)

	boss, ok := w.Entities().Named("boss")
	require.True(t, ok)
	ok = stepUntil(w, 500, func() bool { return !boss.Alive() })
	require.True(t, ok, "Босс должен быть побеждён")

	assert.Equal(t, StatePlaying, w.State())
	assert.Equal(t, 3, w.Player().Lives())
	assert.Equal(t, []string{"Halte !", "2 + 2 ?"}, hud.Transcript())
	_, ok = w.Entities().Named("boss")
	assert.False(t, ok, "Мёртвый босс удалён из менеджера")
	assert.Equal(t, 3, w.Physics().Len())
}

func TestWorld_GameOverAndRestart(t *testing.T) {
	reg := prometheus.NewRegistry()
	w, _ := newArena(t, dialog.AnswerWrong, reg)

	ok := stepUntil(w, 2000, func() bool { return w.State() == StateGameOver })
	require.True(t, ok, "Три неверных ответа заканчивают партию")
	assert.True(t, w.Player().IsDead())
	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.gameOvers))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.state))

	// после game over мир стоит
	ticks := testutil.ToFloat64(w.metrics.ticks)
	pos := w.Player().Position()
	w.Step(16)
	assert.Equal(t, pos, w.Player().Position())
	assert.Equal(t, ticks, testutil.ToFloat64(w.metrics.ticks))

	old := w.Player()
	require.NoError(t, w.Restart())
	assert.Equal(t, StatePlaying, w.State())
	assert.NotSame(t, old, w.Player())
	assert.Equal(t, 3, w.Player().Lives())
	assert.Zero(t, w.Tick())
	assert.Equal(t, 4, w.Physics().Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(w.metrics.restarts))
	assert.Equal(t, 0.0, testutil.ToFloat64(w.metrics.state))
}

func TestWorld_AutoRestart(t *testing.T) {
	l, err := level.Parse([]byte(arenaLevel))
	require.NoError(t, err)
	w, err := New(Options{
		Level:       l,
		Dialogs:     arenaCatalog(),
		HUD:         dialog.NewHeadlessHUD(dialog.AnswerWrong, nil),
		AutoRestart: true,
	})
	require.NoError(t, err)

	require.True(t, stepUntil(w, 2000, func() bool { return w.State() == StateGameOver }))
	w.Step(16)
	assert.Equal(t, StatePlaying, w.State())
	assert.Equal(t, 3, w.Player().Lives())
}

func TestWorld_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	w, _ := newArena(t, dialog.AnswerGood, reg)

	for i := 0; i < 10; i++ {
		w.Step(16)
	}
	assert.Equal(t, 10.0, testutil.ToFloat64(w.metrics.ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(w.metrics.playerLives))
	assert.Equal(t, 4.0, testutil.ToFloat64(w.metrics.entities))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["tileworld_world_ticks_total"])
	assert.True(t, names["tileworld_world_tick_duration_seconds"])
}

func TestWorld_SheepStaysInField(t *testing.T) {
	w, _ := newArena(t, dialog.AnswerGood, nil)
	sheep, ok := w.Entities().Named("sheep")
	require.True(t, ok)

	field, err := w.opts.Level.ZoneNamed("field")
	require.NoError(t, err)
	for i := 0; i < 2000; i++ {
		w.Step(16)
		require.True(t, sheep.Body().IsContainedExactlyIn(field), "tick %d", i)
	}
}

func TestWorld_LoopStopsOnCancel(t *testing.T) {
	w, _ := newArena(t, dialog.AnswerGood, nil)
	w.opts.Config.Game.TickRate = 200

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Loop(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Loop не остановился")
	}
	assert.Greater(t, w.Tick(), uint64(0))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "game_over", StateGameOver.String())
}

func TestWorld_PublishesEvents(t *testing.T) {
	l, err := level.Parse([]byte(arenaLevel))
	require.NoError(t, err)

	bus := eventbus.NewMemoryBus(256)
	var got []string
	_, err = bus.Subscribe(context.Background(), eventbus.Filter{}, func(_ context.Context, ev *eventbus.Envelope) {
		got = append(got, ev.EventType)
	})
	require.NoError(t, err)

	w, err := New(Options{
		Level:   l,
		Dialogs: arenaCatalog(),
		HUD:     dialog.NewHeadlessHUD(dialog.AnswerWrong, nil),
		Bus:     bus,
	})
	require.NoError(t, err)
	require.True(t, stepUntil(w, 2000, func() bool { return w.State() == StateGameOver }))
	require.NoError(t, w.Restart())
	bus.Close()

	assert.Equal(t, []string{
		EventWorldBuilt,
		EventLifeLost,
		EventLifeLost,
		EventLifeLost,
		EventGameOver,
		EventWorldBuilt,
		EventRestart,
	}, got)
}
