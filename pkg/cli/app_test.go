package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/ticktick-cli/pkg/config"
)

func TestNewAppInvalidHostWarnsAndFallsBack(t *testing.T) {
	var stderr bytes.Buffer
	settings := &config.Settings{Host: "example.com"}

	app := NewApp(settings, &bytes.Buffer{}, &stderr)

	assert.Equal(t, "ticktick.com", app.Settings.Host)
	assert.Contains(t, stderr.String(), "Invalid host 'example.com'")
	assert.Contains(t, stderr.String(), "Using default (ticktick.com)")
}

func TestNewAppAcceptsSupportedHosts(t *testing.T) {
	for _, host := range []string{"ticktick.com", "dida365.com", ""} {
		var stderr bytes.Buffer
		app := NewApp(&config.Settings{Host: host}, &bytes.Buffer{}, &stderr)

		require.Empty(t, stderr.String(), "host %q should not warn", host)
		if host == "" {
			assert.Equal(t, "ticktick.com", app.Settings.Host)
		} else {
			assert.Equal(t, host, app.Settings.Host)
		}
	}
}

func TestSetHostReportsAcceptance(t *testing.T) {
	var stderr bytes.Buffer
	app := NewApp(&config.Settings{Host: "ticktick.com"}, &bytes.Buffer{}, &stderr)

	assert.True(t, app.setHost("dida365.com"))
	assert.Equal(t, "dida365.com", app.Settings.Host)

	assert.False(t, app.setHost("nope.example"))
	assert.Equal(t, "ticktick.com", app.Settings.Host)
	assert.Contains(t, stderr.String(), "Invalid host 'nope.example'")
}
