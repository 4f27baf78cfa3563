package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	Reset()
	Configure(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(Reset)

	l := WithComponent("builder")
	l.Warn().Str("target", "intro").Msg("broken link")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "builder", entry["component"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "intro", entry["target"])
	assert.Equal(t, "broken link", entry["message"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Reset()
	Configure(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(Reset)

	l := Base()
	l.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	l.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConfigure_FirstCallWins(t *testing.T) {
	var first, second bytes.Buffer
	Reset()
	Configure(Config{Format: "json", Output: &first})
	Configure(Config{Format: "json", Output: &second})
	t.Cleanup(Reset)

	l := Base()
	l.Info().Msg("hello")
	assert.Contains(t, first.String(), "hello")
	assert.Empty(t, second.String())
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Reset()
	Configure(Config{Output: &buf})
	t.Cleanup(Reset)

	l := Base()
	l.Info().Str("pages", "3").Msg("build finished")
	out := buf.String()
	assert.Contains(t, out, "build finished")
	assert.Contains(t, out, "pages=")
	assert.NotContains(t, out, "{")
}
