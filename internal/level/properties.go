package level

import (
	"fmt"
	"strconv"
)

// Properties - пользовательские свойства объекта карты
type Properties map[string]string

// Get возвращает свойство, если оно задано и не пусто
func (p Properties) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok && v != ""
}

// Require возвращает обязательное свойство объекта owner
func (p Properties) Require(owner, key string) (string, error) {
	v, ok := p.Get(key)
	if !ok {
		return "", fmt.Errorf("%w %s in %s", ErrMissingProperty, key, owner)
	}
	return v, nil
}

// Float возвращает числовое свойство или def, если оно не задано
func (p Properties) Float(owner, key string, def float64) (float64, error) {
	v, ok := p.Get(key)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %s=%q in %s", ErrInvalidProperty, key, v, owner)
	}
	return f, nil
}
