package physics

import (
	"fmt"

	"github.com/annel0/tileworld/internal/vec"
)

// TileMap - сетка коллизий карты, индексируется как collision[x][y].
// Заполняется один раз при загрузке уровня и дальше не меняется.
type TileMap struct {
	tileWidth  float64
	tileHeight float64
	width      int // ширина в тайлах
	height     int // высота в тайлах
	collision  [][]bool
}

// NewTileMap создаёт пустую (полностью проходимую) карту коллизий
func NewTileMap(tileWidth, tileHeight float64, widthInTiles, heightInTiles int) (*TileMap, error) {
	if tileWidth <= 0 || tileHeight <= 0 || widthInTiles <= 0 || heightInTiles <= 0 {
		return nil, fmt.Errorf("%w: tile %vx%v, map %dx%d", ErrInvalidTileMap,
			tileWidth, tileHeight, widthInTiles, heightInTiles)
	}

	collision := make([][]bool, widthInTiles)
	for x := range collision {
		collision[x] = make([]bool, heightInTiles)
	}

	return &TileMap{
		tileWidth:  tileWidth,
		tileHeight: tileHeight,
		width:      widthInTiles,
		height:     heightInTiles,
		collision:  collision,
	}, nil
}

// TileSize возвращает размер тайла в пикселях
func (m *TileMap) TileSize() vec.Vec2Float {
	return vec.Vec2Float{X: m.tileWidth, Y: m.tileHeight}
}

// SizeInTiles возвращает размеры карты в тайлах
func (m *TileMap) SizeInTiles() vec.Vec2 {
	return vec.Vec2{X: m.width, Y: m.height}
}

// PixelBounds возвращает прямоугольник карты в пикселях
func (m *TileMap) PixelBounds() Rectangle {
	return NewRectangle(0, 0, float64(m.width)*m.tileWidth, float64(m.height)*m.tileHeight)
}

// SetCollide помечает тайл как твёрдый или проходимый
func (m *TileMap) SetCollide(tileX, tileY int, solid bool) error {
	if !(vec.Vec2{X: tileX, Y: tileY}).InGrid(m.width, m.height) {
		return fmt.Errorf("%w: (%d,%d) in %dx%d", ErrTileOutOfRange, tileX, tileY, m.width, m.height)
	}
	m.collision[tileX][tileY] = solid
	return nil
}

// IsSolid сообщает, твёрдый ли тайл. Тайлы за пределами сетки считаются твёрдыми.
func (m *TileMap) IsSolid(tileX, tileY int) bool {
	if !(vec.Vec2{X: tileX, Y: tileY}).InGrid(m.width, m.height) {
		return true
	}
	return m.collision[tileX][tileY]
}

// SolidCount возвращает количество твёрдых тайлов
func (m *TileMap) SolidCount() int {
	count := 0
	for x := range m.collision {
		for y := range m.collision[x] {
			if m.collision[x][y] {
				count++
			}
		}
	}
	return count
}

// IsBodyInCollision проверяет, касается ли тело твёрдого тайла или выходит за карту
func (m *TileMap) IsBodyInCollision(body *Body) bool {
	return m.IsRectInCollision(body.Rectangle)
}

// IsRectInCollision проверяет прямоугольник против карты.
// Диапазон тайлов включает floor((pos+size)/tile): тело, выровненное по границе тайла,
// захватывает и соседний тайл, чтобы не срезать углы твёрдых тайлов.
func (m *TileMap) IsRectInCollision(r Rectangle) bool {
	if !m.rectInBounds(r) {
		return true
	}

	start := r.Position.Floor(m.tileWidth, m.tileHeight)
	end := r.Position.Add(r.Size).Floor(m.tileWidth, m.tileHeight)
	// тело вровень с правым или нижним краем карты не захватывает тайл за краем
	end.X = min(end.X, m.width-1)
	end.Y = min(end.Y, m.height-1)

	for x := start.X; x <= end.X; x++ {
		for y := start.Y; y <= end.Y; y++ {
			if m.collision[x][y] {
				return true
			}
		}
	}
	return false
}

// rectInBounds - защитный забор: занятые пиксели [Left, Right) x [Top, Bottom)
// должны лежать в [0, W) x [0, H)
func (m *TileMap) rectInBounds(r Rectangle) bool {
	bounds := m.PixelBounds()
	return r.Left() >= 0 && r.Top() >= 0 &&
		r.Right() <= bounds.Right() && r.Bottom() <= bounds.Bottom()
}
