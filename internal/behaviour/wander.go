package behaviour

import (
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/sprite"
)

// RandomWander блуждает случайно внутри зоны, отбитой границами тела
type RandomWander struct {
	base

	zone                physics.Rectangle
	currentDirection    Direction
	lastDecisionMs      float64
	directionDurationMs float64
	currentAnimation    sprite.Animation
	speed               float64
}

// NewRandomWander создаёт блуждающее поведение и ограничивает тело зоной
func NewRandomWander(owner Owner, zone physics.Rectangle, deps Deps) *RandomWander {
	w := &RandomWander{}
	w.init(KindRandom, owner, zone, deps.withDefaults())
	return w
}

// init настраивает поведение на месте: обработчик границ держит указатель на w
func (w *RandomWander) init(kind Kind, owner Owner, zone physics.Rectangle, deps Deps) {
	w.base = newBase(kind, owner, deps)
	w.zone = zone
	w.speed = deps.Config.WanderSpeed

	body := owner.Body()
	body.SetWorldBounds(zone)
	body.OnCollideWithBounds(func() {
		w.changeWalkDirection(w.deps.Clock.NowMs())
	})

	w.chooseRandomDirection()
	w.playCurrent()
}

// Zone возвращает зону блуждания
func (w *RandomWander) Zone() physics.Rectangle { return w.zone }

// CurrentDirection возвращает текущее направление движения
func (w *RandomWander) CurrentDirection() Direction { return w.currentDirection }

// Update меняет направление по истечении его длительности и выставляет скорость
func (w *RandomWander) Update(deltaMs float64) {
	if !w.inAction {
		w.wanderIfDue()
	}
	w.applyVelocity(w.speed)
}

func (w *RandomWander) wanderIfDue() {
	now := w.deps.Clock.NowMs()
	if w.lastDecisionMs+w.directionDurationMs <= now {
		w.changeWalkDirection(now)
	}
}

// applyVelocity: в действии NPC стоит на месте
func (w *RandomWander) applyVelocity(speed float64) {
	body := w.owner.Body()
	if w.inAction {
		body.Velocity.Set(0, 0)
		return
	}
	body.Velocity.CopyFrom(w.currentDirection.Vector(speed))
}

func (w *RandomWander) changeWalkDirection(now float64) {
	w.lastDecisionMs = now
	w.chooseRandomDirection()
	w.playCurrent()
}

func (w *RandomWander) chooseRandomDirection() {
	allowed := w.allowedDirections()
	if len(allowed) == 0 {
		w.setDirection(DirectionNone)
	} else {
		w.setDirection(allowed[w.deps.Rand.Intn(len(allowed))])
	}

	cfg := w.deps.Config
	w.directionDurationMs = cfg.DirectionMinMs + w.deps.Rand.Float64()*(cfg.DirectionMaxMs-cfg.DirectionMinMs)
}

// allowedDirections - направления, в которых до края зоны больше отступа
func (w *RandomWander) allowedDirections() []Direction {
	body := w.owner.Body()
	margin := w.deps.Config.ZoneMargin

	allowed := make([]Direction, 0, len(Directions))
	if body.Top()-w.zone.Top() > margin {
		allowed = append(allowed, DirectionUp)
	}
	if w.zone.Bottom()-body.Bottom() > margin {
		allowed = append(allowed, DirectionDown)
	}
	if body.Left()-w.zone.Left() > margin {
		allowed = append(allowed, DirectionLeft)
	}
	if w.zone.Right()-body.Right() > margin {
		allowed = append(allowed, DirectionRight)
	}
	return allowed
}

func (w *RandomWander) setDirection(d Direction) {
	if d != w.currentDirection {
		w.deps.Metrics.observeDirectionChange(w.kind)
	}
	w.currentDirection = d
	w.setAnimation(d)
}

// setAnimation выбирает анимацию по имени направления; без спрайта ничего не делает
func (w *RandomWander) setAnimation(d Direction) {
	s := w.owner.Sprite()
	if s == nil {
		w.currentAnimation = nil
		return
	}
	next := s.GetAnimation(d.String())
	if next == nil && w.currentAnimation != nil {
		w.currentAnimation.Stop()
	}
	w.currentAnimation = next
}

func (w *RandomWander) playCurrent() {
	if w.currentAnimation != nil {
		w.currentAnimation.Play()
	}
}
