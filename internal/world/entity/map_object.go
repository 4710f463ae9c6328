package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/level"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
)

// MapObjectType - тип предмета из свойства type
type MapObjectType string

const (
	MapObjectLife        MapObjectType = "life"
	MapObjectCollectible MapObjectType = "collectible"
)

// LifeTexture - текстура иконки жизни
const LifeTexture = "icons/heart"

// MapObject - предмет карты без физического тела: срабатывает,
// когда тело игрока пересекает его прямоугольник
type MapObject struct {
	Base

	object level.Object
	player *Player
	zone   physics.Rectangle
	kind   MapObjectType

	onPlayer func()
}

func newMapObject(kind MapObjectType, o level.Object, player *Player, texture string, env *Env) (MapObject, error) {
	spr, err := env.newSprite(o.Name, texture)
	if err != nil {
		return MapObject{}, err
	}
	icon := vec.Vec2Float{X: env.Config.MapObjects.IconWidth, Y: env.Config.MapObjects.IconHeight}
	pos := o.Position().Sub(icon.Mul(0.5))
	spr.SetPosition(pos)

	return MapObject{
		Base:   newBase(EntityTypeMapObject, o.Name, nil, spr, env),
		object: o,
		player: player,
		zone:   physics.Rectangle{Position: pos, Size: icon},
		kind:   kind,
	}, nil
}

// Kind возвращает тип предмета
func (m *MapObject) Kind() MapObjectType { return m.kind }

// Zone возвращает прямоугольник срабатывания
func (m *MapObject) Zone() physics.Rectangle { return m.zone }

// Update проверяет пересечение с игроком
func (m *MapObject) Update(deltaMs float64) {
	if !m.alive || m.player == nil || m.onPlayer == nil {
		return
	}
	if m.zone.Intersects(m.player.Body().Rectangle) {
		m.onPlayer()
	}
}

// OnCollisionStart срабатывает при столкновении с игроком
func (m *MapObject) OnCollisionStart(other Object) {
	if m.alive && other != nil && other.Type() == EntityTypePlayer && m.onPlayer != nil {
		m.onPlayer()
	}
}

func (m *MapObject) destroy() {
	if m.alive {
		m.detach()
	}
}

// LifeMapObject добавляет жизнь, если у игрока не максимум
type LifeMapObject struct {
	MapObject
}

// NewLifeMapObject создаёт сердце
func NewLifeMapObject(o level.Object, player *Player, env *Env) (*LifeMapObject, error) {
	env = env.withDefaults()
	mo, err := newMapObject(MapObjectLife, o, player, LifeTexture, env)
	if err != nil {
		return nil, err
	}
	l := &LifeMapObject{MapObject: mo}
	l.onPlayer = func() {
		if l.player.AddLife() {
			l.Base.env.Logger.Debug("Жизнь подобрана: %s", l.name)
			l.destroy()
		}
	}
	return l, nil
}

// CollectibleMapObject показывает реплику, затем кладёт предмет в инвентарь
type CollectibleMapObject struct {
	MapObject

	itemName   string
	dialog     string
	collecting bool
}

// NewCollectibleMapObject создаёт предмет. Обязательные свойства: texture, dialog, itemName.
func NewCollectibleMapObject(o level.Object, player *Player, env *Env) (*CollectibleMapObject, error) {
	env = env.withDefaults()

	texture, err := o.Properties.Require(o.Name, "texture")
	if err != nil {
		return nil, err
	}
	dialogName, err := o.Properties.Require(o.Name, "dialog")
	if err != nil {
		return nil, err
	}
	itemName, err := o.Properties.Require(o.Name, "itemName")
	if err != nil {
		return nil, err
	}
	text, err := env.Dialogs.Text(dialogName)
	if err != nil {
		return nil, err
	}
	if env.HUD == nil {
		return nil, ErrNoHUD
	}

	mo, err := newMapObject(MapObjectCollectible, o, player, texture, env)
	if err != nil {
		return nil, err
	}
	c := &CollectibleMapObject{MapObject: mo, itemName: itemName, dialog: text}
	c.onPlayer = c.collect
	return c, nil
}

// ItemName возвращает имя предмета
func (c *CollectibleMapObject) ItemName() string { return c.itemName }

func (c *CollectibleMapObject) collect() {
	if c.collecting {
		return
	}
	c.collecting = true
	shown := c.env.HUD.Monolog().ShowTextToPlayer(c.dialog, func() {
		c.player.SetCanMove(true)
		c.player.AddCollectedObject(c.itemName)
		c.destroy()
	})
	if !shown {
		// диалог занят, попробуем на следующем тике
		c.collecting = false
		return
	}
	c.player.SetCanMove(false)
}

// NewMapObject строит предмет по свойству type
func NewMapObject(o level.Object, player *Player, env *Env) (Object, error) {
	kind, err := o.Properties.Require(o.Name, "type")
	if err != nil {
		return nil, err
	}
	switch MapObjectType(kind) {
	case MapObjectLife:
		return NewLifeMapObject(o, player, env)
	case MapObjectCollectible:
		return NewCollectibleMapObject(o, player, env)
	default:
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownMapObjectType, kind, o.Name)
	}
}
