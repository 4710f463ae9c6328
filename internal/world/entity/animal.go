package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/behaviour"
	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
)

// Animal - NPC с поведением из свойства behaviour, при встрече говорит реплику talk
type Animal struct {
	Pnj
	talkText string
}

// NewAnimal создаёт животное. Обязательные свойства: textureName, behaviour, talk;
// zone для блуждающих поведений, itemName для поведения с предметом.
func NewAnimal(o level.Object, player *Player, env *Env) (*Animal, error) {
	env = env.withDefaults()

	texture, err := o.Properties.Require(o.Name, "textureName")
	if err != nil {
		return nil, err
	}
	tag, err := o.Properties.Require(o.Name, "behaviour")
	if err != nil {
		return nil, err
	}
	if !behaviour.Kind(tag).Known() {
		return nil, fmt.Errorf("%w %q for pnj %s", behaviour.ErrUnknownBehaviour, tag, o.Name)
	}
	talk, err := o.Properties.Require(o.Name, "talk")
	if err != nil {
		return nil, err
	}
	text, err := env.Dialogs.Text(talk)
	if err != nil {
		return nil, err
	}

	pnj, err := newPnj(PnjTypeAnimal, o, player, texture, env)
	if err != nil {
		return nil, err
	}
	a := &Animal{Pnj: pnj, talkText: text}
	a.interact = a.talk

	spec := behaviour.Spec{Kind: behaviour.Kind(tag)}
	if spec.Kind != behaviour.KindPassive {
		spec.Zone, err = animalZone(o, env.Level)
		if err != nil {
			return nil, err
		}
	}
	if spec.Kind == behaviour.KindRandomItemRequired {
		spec.ItemName, err = o.Properties.Require(o.Name, "itemName")
		if err != nil {
			return nil, err
		}
	}

	a.behaviour, err = behaviour.New(spec, a, env.behaviourDeps())
	if err != nil {
		return nil, err
	}
	if err := a.attach(a); err != nil {
		return nil, err
	}
	a.syncSprite()
	return a, nil
}

func animalZone(o level.Object, l *level.Level) (physics.Rectangle, error) {
	name, err := o.Properties.Require(o.Name, "zone")
	if err != nil {
		return physics.Rectangle{}, err
	}
	if l == nil {
		return physics.Rectangle{}, level.ErrZoneNotFound
	}
	return l.ZoneNamed(name)
}

// TalkText возвращает реплику животного
func (a *Animal) TalkText() string { return a.talkText }

func (a *Animal) talk(done func()) {
	a.log().Debug("talk")
	a.showText(a.talkText, done)
}
