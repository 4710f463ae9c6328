package entity

import (
	"github.com/google/uuid"
)

// EntityManager хранит объекты мира в порядке добавления.
// Доступ только из игрового тика, поэтому без блокировок.
type EntityManager struct {
	entities map[uuid.UUID]Object
	order    []Object
}

// NewEntityManager создаёт пустой менеджер
func NewEntityManager() *EntityManager {
	return &EntityManager{
		entities: make(map[uuid.UUID]Object),
	}
}

// Add добавляет объект; повторное добавление игнорируется
func (em *EntityManager) Add(o Object) {
	if _, exists := em.entities[o.ID()]; exists {
		return
	}
	em.entities[o.ID()] = o
	em.order = append(em.order, o)
}

// Remove удаляет объект по ID
func (em *EntityManager) Remove(id uuid.UUID) bool {
	if _, exists := em.entities[id]; !exists {
		return false
	}
	delete(em.entities, id)
	for i, o := range em.order {
		if o.ID() == id {
			em.order = append(em.order[:i], em.order[i+1:]...)
			break
		}
	}
	return true
}

// Get возвращает объект по ID
func (em *EntityManager) Get(id uuid.UUID) (Object, bool) {
	o, ok := em.entities[id]
	return o, ok
}

// Named возвращает первый объект с именем name
func (em *EntityManager) Named(name string) (Object, bool) {
	for _, o := range em.order {
		if o.Name() == name {
			return o, true
		}
	}
	return nil, false
}

// All возвращает объекты в порядке добавления
func (em *EntityManager) All() []Object {
	out := make([]Object, len(em.order))
	copy(out, em.order)
	return out
}

// OfType возвращает объекты указанного типа
func (em *EntityManager) OfType(t EntityType) []Object {
	var out []Object
	for _, o := range em.order {
		if o.Type() == t {
			out = append(out, o)
		}
	}
	return out
}

// Len возвращает число объектов
func (em *EntityManager) Len() int { return len(em.order) }

// UpdateEntities обновляет объекты и выбрасывает уничтоженные.
// Возвращает число удалённых.
func (em *EntityManager) UpdateEntities(deltaMs float64) int {
	for _, o := range em.All() {
		if o.Alive() {
			o.Update(deltaMs)
		}
	}
	return em.prune()
}

func (em *EntityManager) prune() int {
	removed := 0
	kept := em.order[:0]
	for _, o := range em.order {
		if o.Alive() {
			kept = append(kept, o)
			continue
		}
		delete(em.entities, o.ID())
		removed++
	}
	for i := len(kept); i < len(em.order); i++ {
		em.order[i] = nil
	}
	em.order = kept
	return removed
}
