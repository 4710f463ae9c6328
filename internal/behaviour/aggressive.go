package behaviour

import (
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
)

// RandomAggressive блуждает, а при появлении игрока в зоне бежит к нему
type RandomAggressive struct {
	RandomWander
}

// NewRandomAggressive создаёт агрессивное поведение
func NewRandomAggressive(owner Owner, zone physics.Rectangle, deps Deps) *RandomAggressive {
	a := &RandomAggressive{}
	a.init(KindRandomAggressive, owner, zone, deps.withDefaults())
	return a
}

// Update: игрок в зоне - преследование, иначе неспешное блуждание
func (a *RandomAggressive) Update(deltaMs float64) {
	if a.inAction {
		a.applyVelocity(0)
		return
	}

	if a.playerInZone() {
		a.goToPlayer()
		a.speed = a.deps.Config.AggressiveSpeed
	} else {
		a.wanderIfDue()
		a.speed = a.deps.Config.StandbySpeed
	}
	a.applyVelocity(a.speed)
}

func (a *RandomAggressive) playerInZone() bool {
	target := a.owner.Target()
	if target == nil || target.Body() == nil {
		return false
	}
	return a.zone.Intersects(target.Body().Rectangle)
}

func (a *RandomAggressive) goToPlayer() {
	a.lastDecisionMs = 0
	a.headTowards(a.owner.Target().Body().Center())
}

// headTowards поворачивает NPC к точке по доминирующей оси.
// Внутри мёртвой зоны направление сохраняется.
func (a *RandomAggressive) headTowards(point vec.Vec2Float) {
	body := a.owner.Body()
	diff := point.Sub(body.Center())

	dir, ok := dominantDirection(diff, body.Size.Mul(0.5))
	if !ok {
		return
	}
	a.turn(dir)
}

// turn меняет направление и перезапускает анимацию только при смене
func (a *RandomAggressive) turn(dir Direction) {
	if dir != a.currentDirection {
		a.setDirection(dir)
		a.playCurrent()
	}
}
