package entity

import (
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
)

const (
	MentorMinDist = 20.0
	MentorMaxDist = 300.0
)

// Mentor - неподвижный NPC, один раз заговаривает с игроком в зоне <name>_zone.
// Видимость спрайта зависит от расстояния до игрока.
type Mentor struct {
	Pnj

	autoTalkZone physics.Rectangle
	talkText     string
	hasTalk      bool
	alpha        float64
}

// NewMentor создаёт наставника. Обязательное свойство: talk; зона <name>_zone.
func NewMentor(o level.Object, player *Player, env *Env) (*Mentor, error) {
	env = env.withDefaults()

	talk, err := o.Properties.Require(o.Name, "talk")
	if err != nil {
		return nil, err
	}
	text, err := env.Dialogs.Text(talk)
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

	texture := "mentor"
	if t, ok := o.Properties.Get("textureName"); ok {
		texture = t
	}
	pnj, err := newPnj(PnjTypeMentor, o, player, texture, env)
	if err != nil {
		return nil, err
	}

	m := &Mentor{Pnj: pnj, autoTalkZone: zone, talkText: text, alpha: 1}
	if err := m.attach(m); err != nil {
		return nil, err
	}
	m.syncSprite()
	return m, nil
}

// Update: разговор при входе игрока в зону и расчёт видимости
func (m *Mentor) Update(deltaMs float64) {
	m.body.Velocity.Set(0, 0)
	if m.player == nil {
		return
	}

	if !m.hasTalk && m.autoTalkZone.Intersects(m.player.Body().Rectangle) {
		m.hasTalk = true
		m.log().Debug("auto talk")
		m.showText(m.talkText, func() {})
	}

	dist := m.body.GetPosition().DistanceTo(m.player.Position())
	if dist > MentorMaxDist {
		m.sprite.SetVisible(false)
	} else {
		m.sprite.SetVisible(true)
		m.alpha = mentorAlpha(dist)
	}
	m.syncSprite()
}

func mentorAlpha(dist float64) float64 {
	if dist <= MentorMinDist {
		return 1.0
	}
	return 1 - (dist-MentorMinDist)/MentorMaxDist
}

// HasTalk сообщает, состоялся ли разговор
func (m *Mentor) HasTalk() bool { return m.hasTalk }

// Alpha возвращает прозрачность спрайта для рендера
func (m *Mentor) Alpha() float64 { return m.alpha }
