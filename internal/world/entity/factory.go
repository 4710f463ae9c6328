package entity

import (
	"fmt"

	"github.com/annel0/tileworld/internal/level"
)

// Populate строит все объекты уровня: игрока, стены, NPC и предметы.
// Первая ошибка данных прерывает загрузку.
func Populate(env *Env, em *EntityManager) (*Player, error) {
	env = env.withDefaults()
	l := env.Level
	if l == nil {
		return nil, fmt.Errorf("%w: no level", level.ErrInvalidLevel)
	}

	player, err := NewPlayer(l.SpawnPoint(env.Logger), env)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	em.Add(player)

	for i, w := range l.Walls {
		wall, err := NewWall(i, w, env)
		if err != nil {
			return nil, err
		}
		em.Add(wall)
	}

	for _, o := range l.Pnjs {
		pnj, err := NewPnj(o, player, env)
		if err != nil {
			return nil, fmt.Errorf("pnj %s: %w", o.Name, err)
		}
		em.Add(pnj)
	}

	for _, o := range l.Objects {
		mo, err := NewMapObject(o, player, env)
		if err != nil {
			return nil, fmt.Errorf("map object %s: %w", o.Name, err)
		}
		em.Add(mo)
	}

	env.Logger.Info("Level %q populated: %d objects", l.Name, em.Len())
	return player, nil
}
