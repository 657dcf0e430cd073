package logging

import (
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	testCases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"ERROR":   logrus.ErrorLevel,
		"info":    logrus.InfoLevel,
		" warn ":  logrus.WarnLevel,
		"trace":   logrus.TraceLevel,
		"fatal":   logrus.FatalLevel,
		"":        logrus.TraceLevel,
		"verbose": logrus.TraceLevel,
	}
	for in, want := range testCases {
		assert.Equal(t, want, GetLevel(in), in)
	}
}

func TestSentryHook(t *testing.T) {
	hook := NewSentryHook([]logrus.Level{logrus.ErrorLevel})
	assert.Equal(t, []logrus.Level{logrus.ErrorLevel}, hook.Levels())

	var captured []*logrus.Entry
	hook.capture = func(entry *logrus.Entry) {
		captured = append(captured, entry)
	}

	logger := logrus.New()
	logger.AddHook(hook)
	logger.SetOutput(nopWriter{})

	logger.Info("not forwarded")
	logger.WithError(errors.New("store down")).Error("save workouts")

	require.Len(t, captured, 1)
	assert.Equal(t, "save workouts", captured[0].Message)
	assert.EqualError(t, captured[0].Data[logrus.ErrorKey].(error), "store down")
}

func TestSentryLevel(t *testing.T) {
	assert.Equal(t, sentry.LevelFatal, sentryLevel(logrus.PanicLevel))
	assert.Equal(t, sentry.LevelError, sentryLevel(logrus.ErrorLevel))
	assert.Equal(t, sentry.LevelWarning, sentryLevel(logrus.WarnLevel))
	assert.Equal(t, sentry.LevelDebug, sentryLevel(logrus.TraceLevel))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
