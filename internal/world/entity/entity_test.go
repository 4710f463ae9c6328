package entity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/clock"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureLevel = `
name: fixture
tile_width: 32
tile_height: 32
width: 20
height: 20
zones:
  - {name: spawn, type: player-spawn, x: 100, y: 100}
  - {name: cow_zone, x: 200, y: 200, width: 200, height: 200}
  - {name: mentor_zone, x: 0, y: 300, width: 100, height: 100}
  - {name: boss_zone, x: 500, y: 0, width: 140, height: 140}
  - {name: twin, x: 0, y: 0, width: 10, height: 10}
  - {name: twin, x: 0, y: 0, width: 10, height: 10}
`

type fixture struct {
	env   *Env
	clk   *clock.Sim
	head  *dialog.HeadlessHUD
	world *physics.World
	em    *EntityManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l, err := level.Parse([]byte(fixtureLevel))
	require.NoError(t, err)

	clk := clock.NewSim(0)
	hud := dialog.NewHeadlessHUD(dialog.AnswerGood, nil)
	pw := physics.NewWorld()
	catalog := dialog.NewCatalog(map[string]dialog.Entry{
		"cow":    {Text: "Meuh."},
		"mentor": {Text: "Bienvenue."},
		"key":    {Text: "Une clé !"},
		"boss": {Questioning: []dialog.Step{
			{Text: "Halte !"},
			{Question: &dialog.Question{
				Title:       "2 + 2 ?",
				Answers:     []dialog.Answer{{Text: "3"}, {Text: "4", Good: true}},
				WrongAnswer: "Non.",
			}},
		}},
	})

	env := &Env{
		Config:  config.Default(),
		Physics: pw,
		Level:   l,
		Dialogs: catalog,
		HUD:     hud,
		Sprites: sprite.HeadlessFactory,
		Clock:   clk,
		Rand:    rand.New(rand.NewSource(1)),
	}
	return &fixture{env: env, clk: clk, head: hud, world: pw, em: NewEntityManager()}
}

func (f *fixture) player(t *testing.T, x, y float64) *Player {
	t.Helper()
	p, err := NewPlayer(vec.Vec2Float{X: x, Y: y}, f.env)
	require.NoError(t, err)
	f.em.Add(p)
	return p
}

func (f *fixture) add(t *testing.T) func(Object, error) Object {
	return func(o Object, err error) Object {
		t.Helper()
		require.NoError(t, err)
		f.em.Add(o)
		return o
	}
}

// step повторяет порядок тика мира: часы, HUD, физика, объекты
func (f *fixture) step(n int) {
	for i := 0; i < n; i++ {
		f.clk.Advance(16)
		f.head.Pump()
		f.world.Update(16)
		f.em.UpdateEntities(16)
	}
}

func TestDirectionStack(t *testing.T) {
	s := NewDirectionStack()
	assert.Equal(t, behaviour.DirectionNone, s.Current())

	s.Press(behaviour.DirectionRight)
	s.Press(behaviour.DirectionUp)
	assert.Equal(t, behaviour.DirectionUp, s.Current(), "Побеждает последнее нажатое")

	s.Release(behaviour.DirectionUp)
	assert.Equal(t, behaviour.DirectionRight, s.Current())

	s.Press(behaviour.DirectionDown)
	s.Press(behaviour.DirectionRight)
	s.Release(behaviour.DirectionRight)
	assert.Equal(t, behaviour.DirectionDown, s.Current(), "Повторное нажатие не дублирует направление")

	s.Clear()
	assert.Equal(t, behaviour.DirectionNone, s.Current())
}

func TestPlayer_Controller(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 100, 100)
	spr := p.Sprite().(*sprite.Headless)

	p.Directions().Press(behaviour.DirectionRight)
	p.Update(16)
	assert.Equal(t, vec.Vec2Float{X: 300, Y: 0}, p.Body().Velocity)
	assert.Equal(t, "right", spr.Playing())

	p.SetCanMove(false)
	p.Update(16)
	assert.True(t, p.Body().Velocity.IsZero())
	assert.Equal(t, "", spr.Playing(), "Анимация остановлена во время диалога")

	p.SetCanMove(true)
	p.Update(16)
	assert.Equal(t, "right", spr.Playing())

	p.Directions().Release(behaviour.DirectionRight)
	p.Update(16)
	assert.True(t, p.Body().Velocity.IsZero())
}

func TestPlayer_LivesAndInventory(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 100, 100)

	assert.Equal(t, 3, p.Lives())
	assert.True(t, p.AddLife())
	assert.True(t, p.AddLife())
	assert.False(t, p.AddLife(), "Не больше максимума")
	assert.Equal(t, 5, p.Lives())

	for i := 0; i < 10; i++ {
		p.LoseLife()
	}
	assert.Equal(t, 0, p.Lives())
	assert.True(t, p.IsDead())

	assert.False(t, p.HasItem("key"))
	p.AddCollectedObject("key")
	p.AddCollectedObject("key")
	assert.True(t, p.HasItem("key"))
	assert.Equal(t, []string{"key"}, p.Inventory())
}

func TestNewPnj_ConfigurationErrors(t *testing.T) {
	cases := []struct {
		name string
		obj  level.Object
		want error
	}{
		{"unknown type", level.Object{Name: "x", Type: "dragon"}, ErrUnknownPnjType},
		{"missing texture", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"behaviour": "passive", "talk": "cow"}}, ErrMissingProperty},
		{"missing behaviour", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "talk": "cow"}}, ErrMissingProperty},
		{"unknown behaviour", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "follower", "talk": "cow", "zone": "cow_zone"}},
			behaviour.ErrUnknownBehaviour},
		{"unknown behaviour without zone", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "fly", "talk": "cow"}},
			behaviour.ErrUnknownBehaviour},
		{"missing zone", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "random", "talk": "cow"}}, ErrMissingProperty},
		{"zone not found", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "random", "talk": "cow", "zone": "nope"}},
			level.ErrZoneNotFound},
		{"ambiguous zone", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "random", "talk": "cow", "zone": "twin"}},
			level.ErrAmbiguousZone},
		{"missing item", level.Object{Name: "cow", Type: "animal",
			Properties: level.Properties{"textureName": "cow", "behaviour": "random-item-required", "talk": "cow", "zone": "cow_zone"}},
			ErrMissingProperty},
		{"missing talk", level.Object{Name: "mentor", Type: "mentor"}, ErrMissingProperty},
		{"mentor without zone", level.Object{Name: "lonely", Type: "mentor",
			Properties: level.Properties{"talk": "mentor"}}, level.ErrZoneNotFound},
		{"boss empty questioning", level.Object{Name: "boss", Type: "boss",
			Properties: level.Properties{"textureName": "boss", "questioning": "cow"}}, dialog.ErrEmptyQuestioning},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.player(t, 100, 100)
			_, err := NewPnj(tc.obj, p, f.env)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnimal_TalksOnCollision(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 0, 0)
	cow := f.add(t)(NewPnj(level.Object{Name: "cow", Type: "animal", X: 40, Y: 0,
		Properties: level.Properties{"textureName": "cow", "behaviour": "passive", "talk": "cow"}}, p, f.env)).(*Animal)

	p.Directions().Press(behaviour.DirectionRight)
	for i := 0; i < 20 && len(f.head.Transcript()) == 0; i++ {
		f.step(1)
	}

	require.Equal(t, []string{"Meuh."}, f.head.Transcript())
	assert.True(t, cow.Behaviour().IsInAction())
	assert.False(t, p.Body().Intersects(cow.Body().Rectangle), "Тела не проходят друг сквозь друга")

	f.step(1)
	assert.False(t, cow.Behaviour().IsInAction(), "Диалог завершён на следующем тике")
	assert.True(t, p.CanMove())
	assert.False(t, cow.Behaviour().CanEnterInActionNow(), "Кулдаун после разговора")
}

func TestAnimal_WandersInZone(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 0, 0)
	cow := f.add(t)(NewPnj(level.Object{Name: "cow", Type: "animal", X: 250, Y: 250,
		Properties: level.Properties{"textureName": "cow", "behaviour": "random", "talk": "cow", "zone": "cow_zone"}}, p, f.env))

	zone, err := f.env.Level.ZoneNamed("cow_zone")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		f.step(1)
		require.True(t, cow.Body().IsContainedExactlyIn(zone))
	}
	assert.Equal(t, cow.Body().GetPosition(), cow.(*Animal).Sprite().(*sprite.Headless).Position)
}

func TestMentor_AutoTalkOnceAndVisibility(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 200, 100)
	m := f.add(t)(NewPnj(level.Object{Name: "mentor", Type: "mentor", X: 40, Y: 340,
		Properties: level.Properties{"talk": "mentor"}}, p, f.env)).(*Mentor)
	spr := m.Sprite().(*sprite.Headless)

	m.Update(16)
	assert.True(t, spr.Visible)
	assert.InDelta(t, 1-(math.Hypot(160, 240)-MentorMinDist)/MentorMaxDist, m.Alpha(), 1e-9)

	p.Teleport(vec.Vec2Float{X: 500, Y: 500})
	m.Update(16)
	assert.False(t, spr.Visible, "Слишком далеко")

	p.Teleport(vec.Vec2Float{X: 45, Y: 345})
	m.Update(16)
	assert.True(t, m.HasTalk())
	assert.False(t, p.CanMove())
	f.head.Pump()
	assert.True(t, p.CanMove())

	m.Update(16)
	f.head.Pump()
	assert.Equal(t, []string{"Bienvenue."}, f.head.Transcript(), "Наставник говорит один раз")
	assert.Equal(t, 1.0, m.Alpha())
}

func newBoss(t *testing.T, f *fixture, p *Player) *Boss {
	return f.add(t)(NewPnj(level.Object{Name: "boss", Type: "boss", X: 580, Y: 40,
		Properties: level.Properties{"textureName": "boss", "questioning": "boss"}}, p, f.env)).(*Boss)
}

func TestBoss_CorrectAnswersKill(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 400, 60)
	b := newBoss(t, f, p)

	b.Update(16)
	p.Teleport(vec.Vec2Float{X: 520, Y: 40})
	b.Update(16)
	assert.Equal(t, BossInQcm, b.State())
	assert.False(t, p.CanMove())

	for i := 0; i < 5; i++ {
		f.head.Pump()
	}

	assert.Equal(t, BossDead, b.State())
	assert.False(t, b.Alive())
	assert.False(t, f.world.Contains(b.Body()), "Тело босса удалено из физики")
	assert.False(t, b.Sprite().(*sprite.Headless).Visible)
	assert.True(t, p.CanMove())
	assert.Equal(t, 3, p.Lives())
}

func TestBoss_InterceptsOnPlayerCenter(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 400, 60)
	b := newBoss(t, f, p)

	// позиция в зоне (x < 640), центр тела вне её (630 + 12)
	p.Teleport(vec.Vec2Float{X: 630, Y: 10})
	b.Update(16)
	assert.Equal(t, BossAlive, b.State())
	assert.True(t, p.CanMove())

	p.Teleport(vec.Vec2Float{X: 610, Y: 10})
	b.Update(16)
	assert.Equal(t, BossInQcm, b.State())
	assert.False(t, p.CanMove())
}

func TestBoss_WrongAnswerRestoresAndCostsLife(t *testing.T) {
	f := newFixture(t)
	f.head.SetStrategy(dialog.AnswerWrong)
	p := f.player(t, 400, 60)
	b := newBoss(t, f, p)

	b.Update(16)
	p.Teleport(vec.Vec2Float{X: 520, Y: 40})
	b.Update(16)
	for i := 0; i < 5; i++ {
		f.head.Pump()
	}

	assert.Equal(t, BossAlive, b.State(), "Перехват снова активен")
	assert.Equal(t, vec.Vec2Float{X: 400, Y: 60}, p.Position(), "Игрок возвращён на последнюю позицию вне зоны")
	assert.Equal(t, 2, p.Lives())
	assert.True(t, p.CanMove())
	assert.Equal(t, []string{"Halte !", "2 + 2 ?", "Non."}, f.head.Transcript())

	// повторная попытка
	f.head.SetStrategy(dialog.AnswerGood)
	p.Teleport(vec.Vec2Float{X: 520, Y: 40})
	b.Update(16)
	for i := 0; i < 5; i++ {
		f.head.Pump()
	}
	assert.Equal(t, BossDead, b.State())
}

func TestLifeMapObject(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 100, 100)
	heart := f.add(t)(NewMapObject(level.Object{Name: "heart", X: 300, Y: 300,
		Properties: level.Properties{"type": "life"}}, p, f.env))

	heart.Update(16)
	assert.True(t, heart.Alive(), "Игрок далеко")

	p.Teleport(vec.Vec2Float{X: 290, Y: 290})
	heart.Update(16)
	assert.Equal(t, 4, p.Lives())
	assert.False(t, heart.Alive())

	f.em.UpdateEntities(16)
	_, ok := f.em.Get(heart.ID())
	assert.False(t, ok, "Уничтоженный предмет убран из менеджера")
}

func TestLifeMapObject_AtMaxLivesStays(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 290, 290)
	p.AddLife()
	p.AddLife()
	heart := f.add(t)(NewMapObject(level.Object{Name: "heart", X: 300, Y: 300,
		Properties: level.Properties{"type": "life"}}, p, f.env))

	heart.Update(16)
	assert.True(t, heart.Alive())
	assert.Equal(t, 5, p.Lives())
}

func TestCollectibleMapObject(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 290, 290)
	key := f.add(t)(NewMapObject(level.Object{Name: "key", X: 300, Y: 300,
		Properties: level.Properties{"type": "collectible", "texture": "key", "dialog": "key", "itemName": "key"}}, p, f.env))

	key.Update(16)
	key.Update(16)
	assert.Equal(t, []string{"Une clé !"}, f.head.Transcript(), "Реплика показывается один раз")
	assert.False(t, p.CanMove())
	assert.False(t, p.HasItem("key"))

	f.head.Pump()
	assert.True(t, p.HasItem("key"))
	assert.True(t, p.CanMove())
	assert.False(t, key.Alive())
}

func TestNewMapObject_Errors(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 0, 0)

	_, err := NewMapObject(level.Object{Name: "x"}, p, f.env)
	assert.ErrorIs(t, err, ErrMissingProperty)

	_, err = NewMapObject(level.Object{Name: "x", Properties: level.Properties{"type": "chest"}}, p, f.env)
	assert.ErrorIs(t, err, ErrUnknownMapObjectType)

	_, err = NewMapObject(level.Object{Name: "x",
		Properties: level.Properties{"type": "collectible", "texture": "key", "dialog": "key"}}, p, f.env)
	assert.ErrorIs(t, err, ErrMissingProperty)
}

func TestWall_BlocksPlayer(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 0, 0)
	wall, err := NewWall(0, level.Wall{X: 40, Y: 0, Width: 10, Height: 100}, f.env)
	require.NoError(t, err)
	f.em.Add(wall)

	p.Directions().Press(behaviour.DirectionRight)
	f.step(30)

	assert.LessOrEqual(t, p.Body().Right(), 40.0, "Стена не пропускает игрока")
	assert.Equal(t, physics.NewRectangle(40, 0, 10, 100), wall.Body().Rectangle)
}

func TestEntityManager(t *testing.T) {
	f := newFixture(t)
	p := f.player(t, 0, 0)
	f.em.Add(p)
	assert.Equal(t, 1, f.em.Len(), "Повторное добавление игнорируется")

	got, ok := f.em.Named("player")
	require.True(t, ok)
	assert.Same(t, p, got)
	assert.Len(t, f.em.OfType(EntityTypePlayer), 1)

	assert.True(t, f.em.Remove(p.ID()))
	assert.False(t, f.em.Remove(p.ID()))
	assert.Equal(t, 0, f.em.Len())
}

func TestPopulate(t *testing.T) {
	f := newFixture(t)
	f.env.Level.Pnjs = []level.Object{
		{Name: "cow", Type: "animal", X: 250, Y: 250,
			Properties: level.Properties{"textureName": "cow", "behaviour": "random", "talk": "cow", "zone": "cow_zone"}},
		{Name: "mentor", Type: "mentor", X: 40, Y: 340, Properties: level.Properties{"talk": "mentor"}},
	}
	f.env.Level.Objects = []level.Object{
		{Name: "heart", X: 300, Y: 100, Properties: level.Properties{"type": "life"}},
	}
	f.env.Level.Walls = []level.Wall{{X: 0, Y: 600, Width: 640, Height: 10}}

	p, err := Populate(f.env, f.em)
	require.NoError(t, err)

	assert.Equal(t, vec.Vec2Float{X: 100, Y: 100}, p.Position(), "Игрок в зоне появления")
	assert.Equal(t, 5, f.em.Len())
	assert.Equal(t, 4, f.world.Len(), "Предмет карты не имеет тела")

	f.env.Level.Pnjs = append(f.env.Level.Pnjs, level.Object{Name: "ghost", Type: "ghost"})
	_, err = Populate(f.env, NewEntityManager())
	assert.ErrorIs(t, err, ErrUnknownPnjType)
}
