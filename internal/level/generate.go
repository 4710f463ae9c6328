package level

import (
	"fmt"

	"github.com/annel0/tileworld/internal/util"
)

const (
	generatedGrass = 1 // gid проходимого тайла
	generatedRock  = 2 // gid непроходимого тайла
)

// GenerateOptions - параметры процедурного уровня
type GenerateOptions struct {
	Name      string
	Width     int     // в тайлах
	Height    int     // в тайлах
	TileSize  float64 // сторона тайла в пикселях
	Seed      int64
	Threshold float64 // шум выше порога - камень
	Scale     float64 // масштаб шума в тайлах
	ClearSize int     // сторона свободной площадки в центре, в тайлах
}

// DefaultGenerateOptions возвращает параметры по умолчанию
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Name:      "generated",
		Width:     40,
		Height:    30,
		TileSize:  32,
		Seed:      1,
		Threshold: 0.62,
		Scale:     6,
		ClearSize: 8,
	}
}

// Generate строит песочницу из шума Перлина: каменная рамка, камни по шуму,
// свободная площадка в центре с зоной появления игрока и блуждающим NPC
func Generate(opts GenerateOptions) (*Level, error) {
	if opts.Width < opts.ClearSize+2 || opts.Height < opts.ClearSize+2 || opts.ClearSize < 4 {
		return nil, fmt.Errorf("%w: %dx%d too small for clear area %d",
			ErrInvalidLevel, opts.Width, opts.Height, opts.ClearSize)
	}
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %v", ErrInvalidLevel, opts.TileSize)
	}

	noise := util.NewNoise(opts.Seed, opts.Scale)

	cx0 := (opts.Width - opts.ClearSize) / 2
	cy0 := (opts.Height - opts.ClearSize) / 2
	inClear := func(x, y int) bool {
		return x >= cx0 && x < cx0+opts.ClearSize && y >= cy0 && y < cy0+opts.ClearSize
	}

	data := make([]int, opts.Width*opts.Height)
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			gid := generatedGrass
			border := x == 0 || y == 0 || x == opts.Width-1 || y == opts.Height-1
			if border || (!inClear(x, y) && noise.Value2D(float64(x), float64(y)) > opts.Threshold) {
				gid = generatedRock
			}
			data[y*opts.Width+x] = gid
		}
	}

	ts := opts.TileSize
	clear := Object{
		Name:   "meadow",
		X:      float64(cx0) * ts,
		Y:      float64(cy0) * ts,
		Width:  float64(opts.ClearSize) * ts,
		Height: float64(opts.ClearSize) * ts,
	}
	spawn := Object{
		Name: "spawn",
		Type: SpawnZoneType,
		X:    clear.X + clear.Width/2,
		Y:    clear.Y + clear.Height/2,
	}

	l := &Level{
		Name:       opts.Name,
		TileWidth:  ts,
		TileHeight: ts,
		Width:      opts.Width,
		Height:     opts.Height,
		Tilesets: []Tileset{{
			Name:     "generated",
			FirstGID: generatedGrass,
			Tiles: map[int]TileProperties{
				generatedRock - generatedGrass: {Collide: true},
			},
		}},
		Layers: []Layer{{Name: "world-layer", Data: data}},
		Zones:  []Object{clear, spawn},
		Pnjs: []Object{{
			Name: "sheep",
			Type: "animal",
			X:    clear.X + ts,
			Y:    clear.Y + ts,
			Properties: Properties{
				"textureName": "sheep",
				"behaviour":   "random",
				"zone":        clear.Name,
				"talk":        "sheep",
			},
		}},
	}
	return l, nil
}
