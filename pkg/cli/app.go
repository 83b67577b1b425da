package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/config"
	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

// App carries the per-invocation wiring: resolved settings, output
// streams, and the client factory. Tests swap Connect for a fake.
type App struct {
	Settings *config.Settings
	Stdout   io.Writer
	Stderr   io.Writer
	Connect  func(ctx context.Context) (Client, error)

	jsonOut bool
	tzFlag  string
}

// NewApp builds an App around the loaded settings with the real client
// factory.
func NewApp(settings *config.Settings, stdout, stderr io.Writer) *App {
	app := &App{
		Settings: settings,
		Stdout:   stdout,
		Stderr:   stderr,
	}
	app.setHost(settings.Host)
	app.Connect = func(ctx context.Context) (Client, error) {
		return ticktick.Dial(ctx, ticktick.Options{
			Host:        settings.Host,
			AccessToken: settings.AccessToken,
			Username:    settings.Username,
			Password:    settings.Password,
		})
	}
	return app
}

// setHost stores the normalized API host. An unsupported value warns on
// stderr and falls back to the default host. Reports whether the raw value
// was accepted as-is.
func (a *App) setHost(raw string) bool {
	host, ok := ticktick.NormalizeHost(raw)
	if !ok {
		fmt.Fprintf(a.Stderr, "Warning: Invalid host '%s'. Using default (%s). Valid: %s, %s\n",
			raw, host, ticktick.HostInternational, ticktick.HostChina)
	}
	a.Settings.Host = host
	return ok
}

// Env is the rendering context shared by all dispatchers.
type Env struct {
	Out              io.Writer
	JSON             bool
	Location         *time.Location
	TZName           string
	TaskTimeZone     string
	CurrentProjectID string
}

// env resolves the display timezone and bundles the output context. An
// unknown zone name is a validation failure.
func (a *App) env() (*Env, error) {
	tz, err := config.ResolveTimezone(a.tzFlag, a.Settings.Timezone)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	return &Env{
		Out:              a.Stdout,
		JSON:             a.jsonOut,
		Location:         tz.Location,
		TZName:           tz.DisplayName(),
		TaskTimeZone:     tz.Name,
		CurrentProjectID: a.Settings.CurrentProjectID,
	}, nil
}

// withClient acquires a connected client for the duration of one command.
func (a *App) withClient(ctx context.Context, fn func(Client) error) error {
	client, err := a.Connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}
