package behaviour

import (
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
)

// RandomItemRequired избегает игрока без предмета и идёт к игроку с предметом.
// Разговор случается один раз.
type RandomItemRequired struct {
	RandomAggressive

	itemName string
	hasItem  bool
	hasTalk  bool
}

// NewRandomItemRequired создаёт поведение, завязанное на предмет itemName
func NewRandomItemRequired(owner Owner, zone physics.Rectangle, itemName string, deps Deps) *RandomItemRequired {
	r := &RandomItemRequired{itemName: itemName}
	r.init(KindRandomItemRequired, owner, zone, deps.withDefaults())
	r.canEnter = r.canEnterWithItem
	r.afterTalk = func() { r.hasTalk = true }
	return r
}

// ItemName возвращает требуемый предмет
func (r *RandomItemRequired) ItemName() string { return r.itemName }

// HasTalk сообщает, состоялся ли разговор
func (r *RandomItemRequired) HasTalk() bool { return r.hasTalk }

// Update выбирает между бегством, сближением и блужданием
func (r *RandomItemRequired) Update(deltaMs float64) {
	if r.inAction {
		r.applyVelocity(0)
		return
	}

	if r.hasTalk || !r.playerInZone() {
		r.wanderIfDue()
		r.speed = r.deps.Config.StandbySpeed
		r.applyVelocity(r.speed)
		return
	}

	r.hasItem = r.owner.Target().HasItem(r.itemName)
	if r.hasItem {
		r.goToPlayer()
	} else {
		r.fearPlayer(deltaMs)
	}
	r.speed = r.deps.Config.AggressiveSpeed
	r.applyVelocity(r.speed)
}

// canEnterWithItem: к кулдауну добавляется наличие предмета и отсутствие разговора
func (r *RandomItemRequired) canEnterWithItem() bool {
	target := r.owner.Target()
	if target == nil || r.hasTalk {
		return false
	}
	return r.cooldownElapsed() && target.HasItem(r.itemName)
}

// fearPlayer уводит NPC к углу зоны, противоположному ближайшему к игроку
func (r *RandomItemRequired) fearPlayer(deltaMs float64) {
	r.lastDecisionMs = 0
	corners := r.safePoints()
	playerCenter := r.owner.Target().Body().Center()

	nearest := 0
	best := playerCenter.SquaredDistanceTo(corners[0])
	for i := 1; i < len(corners); i++ {
		if d := playerCenter.SquaredDistanceTo(corners[i]); d < best {
			best = d
			nearest = i
		}
	}
	step := r.deps.Config.AggressiveSpeed * deltaMs / 1000
	r.turn(r.fleeDirection(corners[len(corners)-1-nearest], playerCenter, step))
}

// fleeDirection выбирает шаг, который уводит от игрока и помещается в зону.
// Сначала оси к безопасному углу (большее смещение, при равенстве горизонталь),
// затем любая ось от игрока. Если шагнуть некуда - DirectionNone.
func (r *RandomItemRequired) fleeDirection(corner, playerCenter vec.Vec2Float, step float64) Direction {
	body := r.owner.Body()
	center := body.Center()
	toCorner := corner.Sub(center)
	toPlayer := playerCenter.Sub(center)

	type move struct {
		dir    Direction
		room   float64 // до края зоны в этом направлении
		corner float64 // смещение к углу вдоль направления
		away   float64 // > 0, если шаг удаляет от игрока
	}
	moves := [4]move{
		{DirectionLeft, body.Left() - r.zone.Left(), -toCorner.X, toPlayer.X},
		{DirectionRight, r.zone.Right() - body.Right(), toCorner.X, -toPlayer.X},
		{DirectionUp, body.Top() - r.zone.Top(), -toCorner.Y, toPlayer.Y},
		{DirectionDown, r.zone.Bottom() - body.Bottom(), toCorner.Y, -toPlayer.Y},
	}

	toSafe, toSafeBy := DirectionNone, 0.0
	fromPlayer, fromPlayerBy := DirectionNone, 0.0
	for _, m := range moves {
		if m.away <= 0 || m.room <= 0 || m.room < step {
			continue
		}
		if m.corner > 0 && m.corner > toSafeBy {
			toSafe, toSafeBy = m.dir, m.corner
		}
		if m.away > fromPlayerBy {
			fromPlayer, fromPlayerBy = m.dir, m.away
		}
	}
	if toSafe != DirectionNone {
		return toSafe
	}
	return fromPlayer
}

// safePoints - углы зоны: TL, TR, BL, BR.
// Индекс диагонально противоположного угла равен 3-i.
func (r *RandomItemRequired) safePoints() [4]vec.Vec2Float {
	z := r.zone
	return [4]vec.Vec2Float{
		{X: z.Left(), Y: z.Top()},
		{X: z.Right(), Y: z.Top()},
		{X: z.Left(), Y: z.Bottom()},
		{X: z.Right(), Y: z.Bottom()},
	}
}
