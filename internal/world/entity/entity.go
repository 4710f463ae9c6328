// Package entity связывает тело физики, спрайт и поведение в игровые объекты:
// игрок, NPC (животные, наставник, босс), предметы карты и стены.
package entity

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/clock"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
	"github.com/google/uuid"
)

// EntityType представляет тип объекта
type EntityType string

const (
	EntityTypePlayer    EntityType = "player"
	EntityTypePnj       EntityType = "pnj"
	EntityTypeMapObject EntityType = "mapObject"
	EntityTypeWall      EntityType = "wall"
)

var (
	// ErrMissingProperty - у объекта карты нет обязательного свойства
	ErrMissingProperty = level.ErrMissingProperty
	// ErrUnknownPnjType - неизвестный тип NPC
	ErrUnknownPnjType = errors.New("entity: unknown PNJ type")
	// ErrUnknownMapObjectType - неизвестный тип предмета карты
	ErrUnknownMapObjectType = errors.New("entity: unknown map object type")
	// ErrNoHUD - объекту с диалогами не передан HUD
	ErrNoHUD = errors.New("entity: HUD required")
)

// Object - игровой объект мира
type Object interface {
	ID() uuid.UUID
	Type() EntityType
	Name() string
	// Body может быть nil у объектов без физики (предметы карты)
	Body() *physics.Body
	Update(deltaMs float64)
	OnCollisionStart(other Object)
	Alive() bool
}

// Env - общие зависимости для построения объектов уровня
type Env struct {
	Config     *config.Config
	Physics    *physics.World
	Level      *level.Level
	Dialogs    *dialog.Catalog
	HUD        dialog.HUD
	Sprites    sprite.Factory
	Clock      clock.Clock
	Rand       *rand.Rand
	Behaviours *behaviour.Metrics
	Logger     *logging.Logger
}

func (e *Env) withDefaults() *Env {
	out := *e
	if out.Config == nil {
		out.Config = config.Default()
	}
	if out.Physics == nil {
		out.Physics = physics.NewWorld()
	}
	if out.Sprites == nil {
		out.Sprites = sprite.HeadlessFactory
	}
	if out.Clock == nil {
		out.Clock = clock.NewReal()
	}
	if out.Rand == nil {
		out.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if out.Logger == nil {
		out.Logger = logging.GetComponentLogger("world")
	}
	if out.Dialogs == nil {
		out.Dialogs = dialog.NewCatalog(nil)
	}
	return &out
}

func (e *Env) behaviourDeps() behaviour.Deps {
	return behaviour.Deps{
		Clock:   e.Clock,
		Rand:    e.Rand,
		Config:  e.Config.Behaviour,
		Metrics: e.Behaviours,
		Logger:  logging.GetComponentLogger("behaviour"),
	}
}

// Base - общая часть объектов: идентификатор, тело и спрайт
type Base struct {
	id     uuid.UUID
	typ    EntityType
	name   string
	body   *physics.Body
	sprite sprite.Sprite
	env    *Env
	alive  bool
}

func newBase(typ EntityType, name string, body *physics.Body, spr sprite.Sprite, env *Env) Base {
	return Base{
		id:     uuid.New(),
		typ:    typ,
		name:   name,
		body:   body,
		sprite: spr,
		env:    env,
		alive:  true,
	}
}

func (b *Base) ID() uuid.UUID { return b.id }
func (b *Base) Type() EntityType { return b.typ }
func (b *Base) Name() string { return b.name }
func (b *Base) Body() *physics.Body { return b.body }
func (b *Base) Sprite() sprite.Sprite { return b.sprite }
func (b *Base) Alive() bool { return b.alive }
func (b *Base) OnCollisionStart(Object) {}

// attach регистрирует тело в физике и направляет его столкновения в self
func (b *Base) attach(self Object) error {
	if b.body == nil {
		return nil
	}
	b.body.SetOwner(self)
	b.body.OnCollide(func(other *physics.Body) {
		if o, ok := other.Owner().(Object); ok {
			self.OnCollisionStart(o)
		}
	})
	if err := b.env.Physics.AddBody(b.body); err != nil {
		return fmt.Errorf("failed to add body of %s: %w", b.name, err)
	}
	return nil
}

// detach убирает тело из физики и прячет спрайт
func (b *Base) detach() {
	b.alive = false
	if b.sprite != nil {
		b.sprite.SetVisible(false)
	}
	if b.body != nil && b.body.World() != nil {
		if err := b.env.Physics.RemoveBody(b.body); err != nil {
			b.env.Logger.Warn("Не удалось удалить тело %s: %v", b.name, err)
		}
	}
}

// syncSprite переносит позицию тела на спрайт
func (b *Base) syncSprite() {
	if b.sprite != nil && b.body != nil {
		b.sprite.SetPosition(b.body.GetPosition())
	}
}

func (e *Env) newSprite(owner, texture string) (sprite.Sprite, error) {
	s, err := e.Sprites.NewSprite(texture)
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite %q for %s: %w", texture, owner, err)
	}
	return s, nil
}
