package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer

	quiet := New(false, &buf)
	quiet.Debug("hidden")
	quiet.WithField("page", "/models").Info("rendered")

	assert.Equal(t, logrus.InfoLevel, quiet.GetLevel())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "rendered")
	assert.Contains(t, buf.String(), "page=/models")

	buf.Reset()
	verbose := New(true, &buf)
	verbose.Debug("shown")

	assert.Equal(t, logrus.DebugLevel, verbose.GetLevel())
	assert.Contains(t, buf.String(), "shown")
}
