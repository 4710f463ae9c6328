package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/sirupsen/logrus"
)

// PnjType - тип NPC из поля type объекта карты
type PnjType string

const (
	PnjTypeAnimal PnjType = "animal"
	PnjTypeMentor PnjType = "mentor"
	PnjTypeBoss   PnjType = "boss"
)

// Pnj - общая часть NPC. Реализует behaviour.Owner.
type Pnj struct {
	Base

	object    level.Object
	player    *Player
	behaviour behaviour.Behaviour
	kind      PnjType

	// interact - протокол взаимодействия конкретного NPC
	interact func(done func())
}

func newPnj(kind PnjType, o level.Object, player *Player, texture string, env *Env) (Pnj, error) {
	spr, err := env.newSprite(o.Name, texture)
	if err != nil {
		return Pnj{}, err
	}
	w, err := o.Properties.Float(o.Name, "frameWidth", env.Config.Behaviour.NpcWidth)
	if err != nil {
		return Pnj{}, err
	}
	h, err := o.Properties.Float(o.Name, "frameHeight", env.Config.Behaviour.NpcHeight)
	if err != nil {
		return Pnj{}, err
	}
	body := physics.NewBody(o.X, o.Y, w, h)

	return Pnj{
		Base:   newBase(EntityTypePnj, o.Name, body, spr, env),
		object: o,
		player: player,
		kind:   kind,
	}, nil
}

// Kind возвращает тип NPC
func (p *Pnj) Kind() PnjType { return p.kind }

// Behaviour возвращает поведение NPC (nil у наставника и босса)
func (p *Pnj) Behaviour() behaviour.Behaviour { return p.behaviour }

// Target возвращает игрока для поведения
func (p *Pnj) Target() behaviour.Target {
	if p.player == nil {
		return nil
	}
	return p.player
}

// Player возвращает игрока
func (p *Pnj) Player() *Player { return p.player }

// InteractWithPlayer запускает протокол взаимодействия; done вызывается по его окончании
func (p *Pnj) InteractWithPlayer(done func()) {
	if p.interact == nil {
		done()
		return
	}
	p.interact(done)
}

// OnCollisionStart передаёт столкновение поведению
func (p *Pnj) OnCollisionStart(other Object) {
	if p.behaviour == nil || other == nil {
		return
	}
	p.behaviour.OnCollisionStart(other.Body())
}

// Update обновляет поведение и позицию спрайта
func (p *Pnj) Update(deltaMs float64) {
	if p.behaviour != nil && p.alive {
		p.behaviour.Update(deltaMs)
	}
	p.syncSprite()
}

// showText показывает монолог, блокируя движение игрока на время показа.
// Если диалог занят, onDone вызывается сразу.
func (p *Pnj) showText(text string, onDone func()) {
	hud := p.env.HUD
	if hud == nil {
		onDone()
		return
	}
	shown := hud.Monolog().ShowTextToPlayer(text, func() {
		p.player.SetCanMove(true)
		onDone()
	})
	if !shown {
		onDone()
		return
	}
	p.player.SetCanMove(false)
}

func (p *Pnj) log() *logrus.Entry {
	return p.env.Logger.WithFields(logrus.Fields{
		"pnj":  p.name,
		"kind": string(p.kind),
	})
}

// NewPnj строит NPC по типу объекта карты
func NewPnj(o level.Object, player *Player, env *Env) (Object, error) {
	env = env.withDefaults()
	switch PnjType(o.Type) {
	case PnjTypeAnimal:
		return NewAnimal(o, player, env)
	case PnjTypeMentor:
		return NewMentor(o, player, env)
	case PnjTypeBoss:
		return NewBoss(o, player, env)
	default:
		return nil, fmt.Errorf("%w %q for %s", ErrUnknownPnjType, o.Type, o.Name)
	}
}
