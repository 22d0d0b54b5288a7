package log

import (
	"bytes"
	"testing"

	"github.com/neuronlabs/uni-logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuronlabs/tunables/errors"
)

func TestParseLevel(t *testing.T) {
	levels := map[string]unilogger.Level{
		"debug3":   LDEBUG3,
		"DEBUG2":   LDEBUG2,
		"debug":    LDEBUG,
		"info":     LINFO,
		"":         LINFO,
		"warning":  LWARNING,
		"error":    LERROR,
		"critical": LCRITICAL,
	}
	for name, expected := range levels {
		lvl, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, expected, lvl, name)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLevel))
}

func TestSetLevel(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()

	err := SetLevel(LUNKNOWN)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLevel))

	buf := &bytes.Buffer{}
	New(buf, "", 0)
	require.NoError(t, SetLevel(LDEBUG))
	assert.Equal(t, LDEBUG, Level())

	Infof("binding: %s", "/components/drive/speed")
	assert.Contains(t, buf.String(), "/components/drive/speed")
}

func TestModuleLogger(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()
	buf := &bytes.Buffer{}
	New(buf, "", 0)

	m := NewModuleLogger("test-module")
	m.Warningf("entry: %d dropped", 3)
	assert.Contains(t, buf.String(), "[test-module] entry: 3 dropped")
}

type leveledBasic struct {
	*unilogger.BasicLogger
	level unilogger.Level
}

func (l *leveledBasic) SetLevel(level unilogger.Level) {
	l.level = level
	l.BasicLogger.SetLevel(level)
}

func (l *leveledBasic) GetLevel() unilogger.Level {
	return l.level
}

type parentLogger struct {
	*unilogger.BasicLogger
	sub *leveledBasic
}

func (p *parentLogger) SubLogger() unilogger.LeveledLogger {
	return p.sub
}

func TestModuleSubLogger(t *testing.T) {
	defer func() {
		logger = nil
		currentLevel = LINFO
	}()
	parentBuf, subBuf := &bytes.Buffer{}, &bytes.Buffer{}
	sub := &leveledBasic{BasicLogger: unilogger.NewBasicLogger(subBuf, "", 0)}
	sub.SetLevel(LWARNING)
	SetLogger(&parentLogger{BasicLogger: unilogger.NewBasicLogger(parentBuf, "", 0), sub: sub})

	m := NewModuleLogger("sub-module")
	assert.Equal(t, LWARNING, m.Level())

	m.Infof("filtered by the sub logger")
	m.Warningf("queue: %d full", 1)
	assert.NotContains(t, subBuf.String(), "filtered")
	assert.Contains(t, subBuf.String(), "[sub-module] queue: 1 full")
	assert.NotContains(t, parentBuf.String(), "sub-module")
}
