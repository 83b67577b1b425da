package config

import (
	"testing"
)

func TestApplyEnvOverridesFileValues(t *testing.T) {
	t.Setenv("TICKTICK_HOST", "dida365.com")
	t.Setenv("TICKTICK_ACCESS_TOKEN", "env-token")

	settings := &Settings{Host: "ticktick.com", AccessToken: "file-token"}
	applyEnv(settings)

	if settings.Host != "dida365.com" {
		t.Errorf("Expected host dida365.com, got %s", settings.Host)
	}
	if settings.AccessToken != "env-token" {
		t.Errorf("Expected env-token, got %s", settings.AccessToken)
	}
}

func TestApplyEnvIgnoresEmptyValues(t *testing.T) {
	t.Setenv("TICKTICK_HOST", "")

	settings := &Settings{Host: "ticktick.com"}
	applyEnv(settings)

	if settings.Host != "ticktick.com" {
		t.Errorf("Expected the default host to survive an empty env value, got %s", settings.Host)
	}
}

func TestApplyEnvReadsTZ(t *testing.T) {
	t.Setenv("TZ", "Asia/Tokyo")

	settings := &Settings{}
	applyEnv(settings)

	if settings.Timezone != "Asia/Tokyo" {
		t.Errorf("Expected Asia/Tokyo, got %s", settings.Timezone)
	}
}
