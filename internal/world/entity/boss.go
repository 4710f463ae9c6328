package entity

import (
	"github.com/annel0/tileworld/internal/dialog"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/sirupsen/logrus"
)

// BossState - состояние босса
type BossState int

const (
	BossAlive BossState = iota
	BossInQcm
	BossDead
)

func (s BossState) String() string {
	switch s {
	case BossAlive:
		return "alive"
	case BossInQcm:
		return "in_qcm"
	case BossDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Boss перехватывает игрока в зоне <name>_zone и проводит допрос.
// Неверный ответ возвращает игрока назад и стоит жизни; полный успех убирает босса.
type Boss struct {
	Pnj

	interceptZone         physics.Rectangle
	state                 BossState
	sequence              *dialog.Sequence
	lastOutPlayerPosition vec.Vec2Float
}

// NewBoss создаёт босса. Обязательные свойства: textureName, questioning; зона <name>_zone.
func NewBoss(o level.Object, player *Player, env *Env) (*Boss, error) {
	env = env.withDefaults()

	texture, err := o.Properties.Require(o.Name, "textureName")
	if err != nil {
		return nil, err
	}
	questioning, err := o.Properties.Require(o.Name, "questioning")
	if err != nil {
		return nil, err
	}
	steps, err := env.Dialogs.Questioning(questioning)
	if err != nil {
		return nil, err
	}
	if env.Level == nil {
		return nil, level.ErrZoneNotFound
	}
	zone, err := env.Level.ZoneNamed(o.Name + "_zone")
	if err != nil {
		return nil, err
	}
	if env.HUD == nil {
		return nil, ErrNoHUD
	}

	pnj, err := newPnj(PnjTypeBoss, o, player, texture, env)
	if err != nil {
		return nil, err
	}
	b := &Boss{
		Pnj:           pnj,
		interceptZone: zone,
		state:         BossAlive,
		sequence:      dialog.NewSequence(steps, env.HUD),
	}
	if player != nil {
		b.lastOutPlayerPosition = player.Position()
	}
	if err := b.attach(b); err != nil {
		return nil, err
	}
	b.syncSprite()
	return b, nil
}

// State возвращает состояние босса
func (b *Boss) State() BossState { return b.state }

// Update запускает допрос, когда игрок входит в зону перехвата
func (b *Boss) Update(deltaMs float64) {
	b.syncSprite()
	if b.state != BossAlive || b.player == nil {
		return
	}
	b.body.Velocity.Set(0, 0)

	if !b.interceptZone.ContainsPoint(b.player.Body().Center()) {
		b.lastOutPlayerPosition = b.player.Position()
		return
	}

	b.state = BossInQcm
	b.player.SetCanMove(false)
	b.log().Info("Boss intercepts player")
	if err := b.sequence.Start(b.onSequenceEnd); err != nil {
		b.log().WithError(err).Warn("questioning not started")
		b.state = BossAlive
		b.player.SetCanMove(true)
	}
}

func (b *Boss) onSequenceEnd(outcome dialog.Outcome) {
	b.log().WithFields(logrus.Fields{"outcome": outcome.String()}).Info("Questioning finished")

	switch outcome {
	case dialog.OutcomeCompleted:
		b.player.SetCanMove(true)
		b.kill()
	case dialog.OutcomeWrongAnswer:
		b.rearm()
		b.player.LoseLife()
	default:
		b.rearm()
	}
}

// rearm возвращает игрока на последнюю позицию вне зоны и снова ждёт его
func (b *Boss) rearm() {
	b.state = BossAlive
	b.player.Teleport(b.lastOutPlayerPosition)
	b.player.SetCanMove(true)
}

// kill окончательно убирает босса
func (b *Boss) kill() {
	b.state = BossDead
	b.detach()
}
