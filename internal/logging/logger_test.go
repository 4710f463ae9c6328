package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel(" WARNING "))
	assert.Equal(t, TRACE, ParseLevel("trace"))
	assert.Equal(t, INFO, ParseLevel("что-то"), "Неизвестный уровень должен давать INFO")
}

func TestLogger_WritesComponentField(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLoggerWithOptions("physics", Options{Level: DEBUG, Format: "json", Output: &buf})
	require.NoError(t, err)

	l.WithFields(logrus.Fields{"body": 3}).Debug("rollback")
	l.Trace("скрытое сообщение")

	out := buf.String()
	assert.Contains(t, out, `"component":"physics"`)
	assert.Contains(t, out, `"body":3`)
	assert.NotContains(t, out, "скрытое", "TRACE ниже DEBUG не должен выводиться")
}

func TestLoggerManager_ComponentLoggers(t *testing.T) {
	lm := &LoggerManager{loggers: make(map[string]*Logger)}

	a := lm.MustGetLogger("world")
	b := lm.MustGetLogger("world")
	assert.Same(t, a, b, "Повторный запрос должен возвращать тот же логгер")

	assert.NotSame(t, a, lm.MustGetLogger("behaviour"))
	assert.Len(t, lm.loggers, 2)

	assert.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.loggers)
	assert.NotSame(t, a, lm.MustGetLogger("world"), "После CloseAll логгер создаётся заново")
}

func TestLoggerManager_Defaults(t *testing.T) {
	var buf bytes.Buffer
	lm := &LoggerManager{loggers: make(map[string]*Logger)}
	lm.SetDefaults(Options{Level: WARN, Format: "json", Output: &buf})

	l := lm.MustGetLogger("physics")
	l.Info("не видно")
	l.Warn("видно")

	out := buf.String()
	assert.NotContains(t, out, "не видно")
	assert.Contains(t, out, `"msg":"видно"`)
	assert.Contains(t, out, `"component":"physics"`)
}
