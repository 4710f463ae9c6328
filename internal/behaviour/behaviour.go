// Package behaviour реализует конечные автоматы поведения NPC поверх физики.
//
// Поведения читают состояние физики (позиции, зоны) и пишут скорость тела,
// а на начало столкновения с игроком запускают диалог, которым владеет NPC.
// Иерархия Passive -> RandomWander -> RandomAggressive -> RandomItemRequired
// собрана встраиванием структур и явными хуками вместо наследования.
package behaviour

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/annel0/tileworld/internal/clock"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownBehaviour - неизвестный тег поведения в объекте карты
	ErrUnknownBehaviour = errors.New("behaviour: unknown behaviour")
	// ErrMissingItemName - для поведения с предметом не задан itemName
	ErrMissingItemName = errors.New("behaviour: missing item name")
	// ErrEmptyZone - зона блуждания нулевого размера
	ErrEmptyZone = errors.New("behaviour: empty zone")
)

// Kind - тег поведения из свойства "behaviour" объекта карты
type Kind string

const (
	KindPassive            Kind = "passive"
	KindRandom             Kind = "random"
	KindRandomAggressive   Kind = "random-aggressive"
	KindRandomItemRequired Kind = "random-item-required"
)

// Known сообщает, есть ли у тега зарегистрированное поведение
func (k Kind) Known() bool {
	switch k {
	case KindPassive, KindRandom, KindRandomAggressive, KindRandomItemRequired:
		return true
	}
	return false
}

// Target - игрок с точки зрения поведения
type Target interface {
	Body() *physics.Body
	HasItem(name string) bool
}

// Owner - NPC, которому принадлежит поведение (невладеющая ссылка)
type Owner interface {
	Name() string
	Body() *physics.Body
	Sprite() sprite.Sprite
	Target() Target
	// InteractWithPlayer запускает диалог; done вызывается ровно один раз по его завершении
	InteractWithPlayer(done func())
}

// Behaviour - стратегия принятия решений одного NPC
type Behaviour interface {
	Kind() Kind
	// Update вызывается раз в тик после шага физики
	Update(deltaMs float64)
	// OnCollisionStart вызывается при столкновении тела NPC с другим телом
	OnCollisionStart(other *physics.Body)
	// CanEnterInActionNow сообщает, можно ли сейчас начать взаимодействие
	CanEnterInActionNow() bool
	IsInAction() bool
}

// Deps - общие зависимости поведений
type Deps struct {
	Clock   clock.Clock
	Rand    *rand.Rand
	Config  config.BehaviourConfig
	Metrics *Metrics
	Logger  *logging.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = clock.NewReal()
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Config == (config.BehaviourConfig{}) {
		d.Config = config.Default().Behaviour
	}
	if d.Logger == nil {
		d.Logger = logging.GetComponentLogger("behaviour")
	}
	return d
}

// Spec описывает поведение, которое нужно построить
type Spec struct {
	Kind     Kind
	Zone     physics.Rectangle // зона блуждания (для random*)
	ItemName string            // предмет (для random-item-required)
}

// New строит поведение по тегу. Ошибки здесь - ошибки данных уровня.
func New(spec Spec, owner Owner, deps Deps) (Behaviour, error) {
	deps = deps.withDefaults()

	if spec.Kind != KindPassive && (spec.Zone.Size.X <= 0 || spec.Zone.Size.Y <= 0) {
		return nil, fmt.Errorf("%w for pnj %s", ErrEmptyZone, owner.Name())
	}

	switch spec.Kind {
	case KindPassive:
		return NewPassive(owner, deps), nil
	case KindRandom:
		return NewRandomWander(owner, spec.Zone, deps), nil
	case KindRandomAggressive:
		return NewRandomAggressive(owner, spec.Zone, deps), nil
	case KindRandomItemRequired:
		if spec.ItemName == "" {
			return nil, fmt.Errorf("%w for pnj %s", ErrMissingItemName, owner.Name())
		}
		return NewRandomItemRequired(owner, spec.Zone, spec.ItemName, deps), nil
	default:
		return nil, fmt.Errorf("%w %q for pnj %s", ErrUnknownBehaviour, spec.Kind, owner.Name())
	}
}

// base - общая часть всех поведений: защёлка "в действии" и кулдаун
type base struct {
	kind  Kind
	owner Owner
	deps  Deps

	inAction     bool
	lastActionMs float64

	// хуки уровней иерархии
	canEnter  func() bool
	afterTalk func()
}

func newBase(kind Kind, owner Owner, deps Deps) base {
	return base{
		kind:  kind,
		owner: owner,
		deps:  deps,
		// первое взаимодействие доступно сразу
		lastActionMs: -deps.Config.CollideCooldownMs,
	}
}

func (b *base) Kind() Kind { return b.kind }

func (b *base) IsInAction() bool { return b.inAction }

// LastActionMs возвращает время завершения последнего взаимодействия
func (b *base) LastActionMs() float64 { return b.lastActionMs }

// CanEnterInActionNow: не в действии и кулдаун истёк
func (b *base) CanEnterInActionNow() bool {
	if b.canEnter != nil {
		return b.canEnter()
	}
	return b.cooldownElapsed()
}

func (b *base) cooldownElapsed() bool {
	return !b.inAction && b.deps.Clock.NowMs() >= b.lastActionMs+b.deps.Config.CollideCooldownMs
}

// OnCollisionStart запускает взаимодействие, если столкнулись с игроком
func (b *base) OnCollisionStart(other *physics.Body) {
	target := b.owner.Target()
	if target == nil || other == nil || other != target.Body() {
		return
	}
	if !b.CanEnterInActionNow() {
		return
	}

	b.inAction = true
	b.deps.Metrics.observeInteraction(b.kind)
	b.deps.Logger.WithFields(logrus.Fields{
		"pnj":       b.owner.Name(),
		"behaviour": string(b.kind),
	}).Debug("interaction started")

	finished := false
	b.owner.InteractWithPlayer(func() {
		if finished {
			return
		}
		finished = true
		b.inAction = false
		b.lastActionMs = b.deps.Clock.NowMs()
		if b.afterTalk != nil {
			b.afterTalk()
		}
	})
}

// Passive никогда не двигается
type Passive struct {
	base
}

// NewPassive создаёт пассивное поведение
func NewPassive(owner Owner, deps Deps) *Passive {
	deps = deps.withDefaults()
	return &Passive{base: newBase(KindPassive, owner, deps)}
}

// Update ничего не делает
func (p *Passive) Update(deltaMs float64) {}
