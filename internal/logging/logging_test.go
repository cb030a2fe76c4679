package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.WithField("country", "France").Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "country=France")
}

func TestSetLevel(t *testing.T) {
	log := logrus.New()

	require.NoError(t, SetLevel(log, "DEBUG"))
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	require.NoError(t, SetLevel(log, ""))
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())

	assert.Error(t, SetLevel(log, "verbose"))
}
