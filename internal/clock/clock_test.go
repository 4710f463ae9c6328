package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSim_Advance(t *testing.T) {
	c := NewSim(100)
	assert.Equal(t, 100.0, c.NowMs())

	c.Advance(16.5)
	assert.Equal(t, 116.5, c.NowMs())

	c.Advance(-50)
	assert.Equal(t, 116.5, c.NowMs(), "Время не должно идти назад")
}

func TestReal_Monotonic(t *testing.T) {
	c := NewReal()
	a := c.NowMs()
	b := c.NowMs()
	assert.GreaterOrEqual(t, b, a)
}
