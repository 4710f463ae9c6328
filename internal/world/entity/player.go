package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
	"github.com/annel0/tileworld/internal/vec"
)

// Player представляет игрока: управление направлениями, жизни и инвентарь
type Player struct {
	Base

	directions       *DirectionStack
	lastDirection    behaviour.Direction
	currentAnimation sprite.Animation
	canMove          bool
	speed            float64

	lives     int
	maxLives  int
	inventory []string
}

// NewPlayer создаёт игрока в точке spawn и регистрирует его тело
func NewPlayer(spawn vec.Vec2Float, env *Env) (*Player, error) {
	env = env.withDefaults()
	cfg := env.Config.Player

	spr, err := env.newSprite("player", cfg.Texture)
	if err != nil {
		return nil, err
	}
	body := physics.NewBody(spawn.X, spawn.Y, cfg.Width, cfg.Height)

	p := &Player{
		Base:       newBase(EntityTypePlayer, "player", body, spr, env),
		directions: NewDirectionStack(),
		canMove:    true,
		speed:      cfg.Speed,
		lives:      cfg.Lives,
		maxLives:   cfg.MaxLives,
	}
	p.currentAnimation = spr.GetAnimation(sprite.AnimDown)

	if err := p.attach(p); err != nil {
		return nil, err
	}
	p.syncSprite()
	return p, nil
}

// Directions возвращает стек направлений, которым управляет слой ввода
func (p *Player) Directions() *DirectionStack { return p.directions }

// Update выставляет скорость по верху стека направлений и переключает анимацию
func (p *Player) Update(deltaMs float64) {
	defer p.syncSprite()

	if !p.canMove {
		p.body.Velocity.Set(0, 0)
		p.stopAnimation()
		return
	}

	dir := p.directions.Current()
	if dir == behaviour.DirectionNone {
		p.body.Velocity.Set(0, 0)
		p.stopAnimation()
		return
	}

	p.body.Velocity.CopyFrom(dir.Vector(p.speed))
	if dir != p.lastDirection {
		p.lastDirection = dir
		p.currentAnimation = p.sprite.GetAnimation(dir.String())
		p.playAnimation()
	} else if p.currentAnimation != nil && !p.currentAnimation.IsPlaying() {
		p.playAnimation()
	}
}

func (p *Player) playAnimation() {
	if p.currentAnimation != nil {
		p.currentAnimation.Play()
	}
}

func (p *Player) stopAnimation() {
	if p.currentAnimation != nil {
		p.currentAnimation.Stop()
	}
}

// SetCanMove включает или отключает свободное движение (на время диалогов)
func (p *Player) SetCanMove(canMove bool) {
	p.canMove = canMove
	if !canMove {
		p.body.Velocity.Set(0, 0)
	}
}

// CanMove сообщает, может ли игрок двигаться
func (p *Player) CanMove() bool { return p.canMove }

// Position возвращает позицию тела игрока
func (p *Player) Position() vec.Vec2Float { return p.body.GetPosition() }

// Teleport переносит игрока без отката
func (p *Player) Teleport(pos vec.Vec2Float) {
	p.body.SetPosition(pos)
	p.syncSprite()
}

// Lives возвращает число жизней
func (p *Player) Lives() int { return p.lives }

// MaxLives возвращает предел жизней
func (p *Player) MaxLives() int { return p.maxLives }

// IsDead сообщает, что жизни кончились
func (p *Player) IsDead() bool { return p.lives <= 0 }

// AddLife добавляет жизнь, если не достигнут предел
func (p *Player) AddLife() bool {
	if p.lives >= p.maxLives {
		return false
	}
	p.lives++
	return true
}

// LoseLife отнимает жизнь и возвращает оставшееся число
func (p *Player) LoseLife() int {
	if p.lives > 0 {
		p.lives--
	}
	return p.lives
}

// AddCollectedObject кладёт предмет в инвентарь
func (p *Player) AddCollectedObject(item string) {
	if !p.HasItem(item) {
		p.inventory = append(p.inventory, item)
	}
}

// HasItem проверяет наличие предмета
func (p *Player) HasItem(item string) bool {
	for _, it := range p.inventory {
		if it == item {
			return true
		}
	}
	return false
}

// Inventory возвращает копию инвентаря в порядке сбора
func (p *Player) Inventory() []string {
	out := make([]string, len(p.inventory))
	copy(out, p.inventory)
	return out
}

func (p *Player) String() string {
	return fmt.Sprintf("Player{pos=%v lives=%d/%d items=%v}", p.body.GetPosition(), p.lives, p.maxLives, p.inventory)
}

var _ behaviour.Target = (*Player)(nil)
