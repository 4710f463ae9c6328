package sprite

import (
	"github.com/annel0/tileworld/internal/vec"
)

// HeadlessAnimation запоминает состояние проигрывания без отрисовки
type HeadlessAnimation struct {
	Name    string
	Plays   int
	playing bool
	owner   *Headless
}

// Play делает анимацию текущей у спрайта, остальные останавливаются
func (a *HeadlessAnimation) Play() {
	if a.owner != nil && a.owner.current != nil && a.owner.current != a {
		a.owner.current.playing = false
	}
	if a.owner != nil {
		a.owner.current = a
	}
	a.playing = true
	a.Plays++
}

func (a *HeadlessAnimation) Stop() { a.playing = false }

func (a *HeadlessAnimation) IsPlaying() bool { return a.playing }

// Headless - спрайт для симуляции без рендера и для тестов
type Headless struct {
	Texture    string
	Position   vec.Vec2Float
	Visible    bool
	animations map[string]*HeadlessAnimation
	current    *HeadlessAnimation
}

// NewHeadless создаёт спрайт с четырьмя анимациями ходьбы
func NewHeadless(texture string) *Headless {
	h := &Headless{
		Texture:    texture,
		Visible:    true,
		animations: make(map[string]*HeadlessAnimation),
	}
	for _, name := range []string{AnimUp, AnimDown, AnimLeft, AnimRight} {
		h.animations[name] = &HeadlessAnimation{Name: name, owner: h}
	}
	return h
}

// GetAnimation возвращает анимацию по имени
func (h *Headless) GetAnimation(name string) Animation {
	if a, ok := h.animations[name]; ok {
		return a
	}
	return nil
}

// Animation возвращает конкретную анимацию для проверок в тестах
func (h *Headless) Animation(name string) *HeadlessAnimation {
	return h.animations[name]
}

// Playing возвращает имя проигрываемой анимации или пустую строку
func (h *Headless) Playing() string {
	if h.current == nil || !h.current.playing {
		return ""
	}
	return h.current.Name
}

func (h *Headless) SetPosition(p vec.Vec2Float) { h.Position = p }

func (h *Headless) SetVisible(visible bool) { h.Visible = visible }

// HeadlessFactory создаёт Headless-спрайты
var HeadlessFactory = FactoryFunc(func(textureName string) (Sprite, error) {
	return NewHeadless(textureName), nil
})
