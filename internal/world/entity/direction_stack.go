package entity

import "github.com/annel0/tileworld/internal/behaviour"

// DirectionStack - стек запрошенных направлений: побеждает последнее нажатое и ещё удерживаемое
type DirectionStack struct {
	stack []behaviour.Direction
}

// NewDirectionStack создаёт пустой стек
func NewDirectionStack() *DirectionStack {
	return &DirectionStack{}
}

// Press добавляет направление; повторное нажатие поднимает его наверх
func (s *DirectionStack) Press(d behaviour.Direction) {
	if d == behaviour.DirectionNone {
		return
	}
	s.remove(d)
	s.stack = append(s.stack, d)
}

// Release убирает направление из стека
func (s *DirectionStack) Release(d behaviour.Direction) {
	s.remove(d)
}

// Current возвращает верх стека или DirectionNone
func (s *DirectionStack) Current() behaviour.Direction {
	if len(s.stack) == 0 {
		return behaviour.DirectionNone
	}
	return s.stack[len(s.stack)-1]
}

// Clear отпускает все направления
func (s *DirectionStack) Clear() {
	s.stack = s.stack[:0]
}

func (s *DirectionStack) remove(d behaviour.Direction) {
	for i, v := range s.stack {
		if v == d {
			s.stack = append(s.stack[:i], s.stack[i+1:]...)
			return
		}
	}
}
