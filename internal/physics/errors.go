package physics

import "errors"

var (
	// ErrBodyNotRegistered возвращается при удалении тела, которого нет в мире
	ErrBodyNotRegistered = errors.New("physics: body is not registered")
	// ErrBodyAlreadyRegistered возвращается при повторной регистрации тела
	ErrBodyAlreadyRegistered = errors.New("physics: body is already registered")
	// ErrInvalidTileMap возвращается при неверных размерах карты коллизий
	ErrInvalidTileMap = errors.New("physics: invalid tile map dimensions")
	// ErrTileOutOfRange возвращается при обращении к тайлу за пределами сетки
	ErrTileOutOfRange = errors.New("physics: tile index out of range")
)
