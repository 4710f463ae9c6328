// Package level загружает описание уровня: тайлы, зоны, объекты и стены.
package level

import (
	"errors"
	"fmt"
	"os"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/physics"
	"github.com/annel0/tileworld/internal/vec"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidLevel    = errors.New("level: invalid level")
	ErrZoneNotFound    = errors.New("level: zone not found")
	ErrAmbiguousZone   = errors.New("level: ambiguous zone")
	ErrMissingProperty = errors.New("level: missing property")
	ErrInvalidProperty = errors.New("level: invalid property")
)

// SpawnZoneType - тип зоны появления игрока
const SpawnZoneType = "player-spawn"

// DefaultSpawn - точка появления, если зона не задана однозначно
var DefaultSpawn = vec.Vec2Float{X: 50, Y: 50}

// TileProperties - метаданные тайла из тайлсета
type TileProperties struct {
	Collide bool `yaml:"collide"`
}

// Tileset - набор тайлов; глобальный id тайла = FirstGID + локальный id
type Tileset struct {
	Name     string                 `yaml:"name"`
	FirstGID int                    `yaml:"first_gid"`
	Tiles    map[int]TileProperties `yaml:"tiles,omitempty"`
}

// Layer - слой тайлов, Data построчно, 0 - пустая клетка
type Layer struct {
	Name string `yaml:"name"`
	Data []int  `yaml:"data,flow"`
}

// Object - объект карты: зона, NPC или предмет
type Object struct {
	Name       string     `yaml:"name"`
	Type       string     `yaml:"type,omitempty"`
	X          float64    `yaml:"x"`
	Y          float64    `yaml:"y"`
	Width      float64    `yaml:"width,omitempty"`
	Height     float64    `yaml:"height,omitempty"`
	Properties Properties `yaml:"properties,omitempty"`
}

// Rect возвращает прямоугольник объекта
func (o Object) Rect() physics.Rectangle {
	return physics.NewRectangle(o.X, o.Y, o.Width, o.Height)
}

// Position возвращает позицию объекта
func (o Object) Position() vec.Vec2Float {
	return vec.Vec2Float{X: o.X, Y: o.Y}
}

// Wall - статический прямоугольник
type Wall struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Rect возвращает прямоугольник стены
func (w Wall) Rect() physics.Rectangle {
	return physics.NewRectangle(w.X, w.Y, w.Width, w.Height)
}

// InputEvent - нажатие или отпускание направления в момент AtMs (для headless-прогона)
type InputEvent struct {
	AtMs    float64 `yaml:"at_ms"`
	Press   string  `yaml:"press,omitempty"`
	Release string  `yaml:"release,omitempty"`
}

// Level - описание уровня
type Level struct {
	Name       string       `yaml:"name"`
	TileWidth  float64      `yaml:"tile_width"`
	TileHeight float64      `yaml:"tile_height"`
	Width      int          `yaml:"width"`  // в тайлах
	Height     int          `yaml:"height"` // в тайлах
	Tilesets   []Tileset    `yaml:"tilesets"`
	Layers     []Layer      `yaml:"layers"`
	Zones      []Object     `yaml:"zones,omitempty"`
	Pnjs       []Object     `yaml:"pnjs,omitempty"`
	Objects    []Object     `yaml:"objects,omitempty"`
	Walls      []Wall       `yaml:"walls,omitempty"`
	Input      []InputEvent `yaml:"input,omitempty"`
}

// Parse разбирает YAML уровня и проверяет его
func Parse(data []byte) (*Level, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Load читает уровень из файла
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return l, nil
}

// Encode сериализует уровень в YAML
func (l *Level) Encode() ([]byte, error) {
	return yaml.Marshal(l)
}

// Validate проверяет размеры и согласованность слоёв
func (l *Level) Validate() error {
	if l.TileWidth <= 0 || l.TileHeight <= 0 {
		return fmt.Errorf("%w: tile size %vx%v", ErrInvalidLevel, l.TileWidth, l.TileHeight)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: map size %dx%d", ErrInvalidLevel, l.Width, l.Height)
	}
	for _, ts := range l.Tilesets {
		if ts.FirstGID <= 0 {
			return fmt.Errorf("%w: tileset %q first_gid %d", ErrInvalidLevel, ts.Name, ts.FirstGID)
		}
	}
	for _, layer := range l.Layers {
		if len(layer.Data) != l.Width*l.Height {
			return fmt.Errorf("%w: layer %q has %d tiles, want %d",
				ErrInvalidLevel, layer.Name, len(layer.Data), l.Width*l.Height)
		}
	}
	for _, in := range l.Input {
		if (in.Press == "") == (in.Release == "") {
			return fmt.Errorf("%w: input at %vms needs exactly one of press/release", ErrInvalidLevel, in.AtMs)
		}
	}
	return nil
}

// PixelSize возвращает размер карты в пикселях
func (l *Level) PixelSize() vec.Vec2Float {
	return vec.Vec2Float{X: float64(l.Width) * l.TileWidth, Y: float64(l.Height) * l.TileHeight}
}

// tilesetFor находит тайлсет глобального id: с наибольшим FirstGID, не превышающим gid
func (l *Level) tilesetFor(gid int) (Tileset, bool) {
	var found Tileset
	ok := false
	for _, ts := range l.Tilesets {
		if ts.FirstGID <= gid && (!ok || ts.FirstGID > found.FirstGID) {
			found = ts
			ok = true
		}
	}
	return found, ok
}

// IsCollideTile сообщает, помечен ли тайл gid как непроходимый
func (l *Level) IsCollideTile(gid int) bool {
	if gid <= 0 {
		return false
	}
	ts, ok := l.tilesetFor(gid)
	if !ok {
		return false
	}
	return ts.Tiles[gid-ts.FirstGID].Collide
}

// BuildCollisionMap строит карту столкновений: каждая непустая клетка любого слоя,
// тайл которой помечен collide, становится сплошной
func (l *Level) BuildCollisionMap() (*physics.TileMap, error) {
	m, err := physics.NewTileMap(l.TileWidth, l.TileHeight, l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	for _, layer := range l.Layers {
		for i, gid := range layer.Data {
			if !l.IsCollideTile(gid) {
				continue
			}
			if err := m.SetCollide(i%l.Width, i/l.Width, true); err != nil {
				return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
			}
		}
	}
	return m, nil
}

// FindZone - необязательный поиск зоны: ok=false, если зоны нет.
// Несколько зон с одним именем - ошибка данных.
func (l *Level) FindZone(name string) (physics.Rectangle, bool, error) {
	var found *Object
	for i := range l.Zones {
		if l.Zones[i].Name != name {
			continue
		}
		if found != nil {
			return physics.Rectangle{}, false, fmt.Errorf("%w: %s", ErrAmbiguousZone, name)
		}
		found = &l.Zones[i]
	}
	if found == nil {
		return physics.Rectangle{}, false, nil
	}
	return found.Rect(), true, nil
}

// ZoneNamed возвращает единственную зону с именем name
func (l *Level) ZoneNamed(name string) (physics.Rectangle, error) {
	r, ok, err := l.FindZone(name)
	if err != nil {
		return physics.Rectangle{}, err
	}
	if !ok {
		return physics.Rectangle{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
	}
	return r, nil
}

// SpawnPoint возвращает позицию единственной зоны player-spawn или DefaultSpawn
func (l *Level) SpawnPoint(logger *logging.Logger) vec.Vec2Float {
	var spawns []Object
	for _, z := range l.Zones {
		if z.Type == SpawnZoneType || z.Properties["type"] == SpawnZoneType {
			spawns = append(spawns, z)
		}
	}
	if len(spawns) == 1 {
		return spawns[0].Position()
	}
	if logger == nil {
		logger = logging.GetComponentLogger("level")
	}
	logger.Warn("Cannot find a valid spawn point in level %q (%d candidates), using default", l.Name, len(spawns))
	return DefaultSpawn
}
