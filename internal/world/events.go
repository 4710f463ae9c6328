package world

import (
	"context"
	"strconv"

	"github.com/annel0/tileworld/internal/eventbus"
)

// Типы игровых событий, публикуемых миром в шину
const (
	EventWorldBuilt    = "world.built"
	EventGameOver      = "world.game_over"
	EventRestart       = "world.restart"
	EventLifeLost      = "player.life_lost"
	EventLifeGained    = "player.life_gained"
	EventItemCollected = "player.item_collected"
	EventEntityRemoved = "entity.removed"
)

const eventSource = "world"

// playerSnapshot - состояние игрока до тика, для вывода событий
type playerSnapshot struct {
	lives     int
	inventory int
}

func (w *World) snapshot() playerSnapshot {
	return playerSnapshot{lives: w.player.Lives(), inventory: len(w.player.Inventory())}
}

// emitPlayerChanges сравнивает состояние игрока с началом тика
func (w *World) emitPlayerChanges(before playerSnapshot) {
	lives := w.player.Lives()
	switch {
	case lives < before.lives:
		w.publish(EventLifeLost, 5, map[string]string{"lives": strconv.Itoa(lives)})
	case lives > before.lives:
		w.publish(EventLifeGained, 0, map[string]string{"lives": strconv.Itoa(lives)})
	}
	inventory := w.player.Inventory()
	for _, item := range inventory[before.inventory:] {
		w.publish(EventItemCollected, 0, map[string]string{"item": item})
	}
}

// publish отправляет событие, если шина подключена
func (w *World) publish(eventType string, priority int, fields map[string]string) {
	if w.opts.Bus == nil {
		return
	}
	ev := eventbus.NewEnvelope(eventSource, eventType, w.tick, fields)
	ev.Priority = priority
	if err := w.opts.Bus.Publish(context.Background(), ev); err != nil {
		w.logger.Debug("Событие %s не опубликовано: %v", eventType, err)
	}
}
