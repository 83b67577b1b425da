package config

import (
	"testing"
	"time"
)

func TestResolveTimezoneFlagWins(t *testing.T) {
	tz, err := ResolveTimezone("America/New_York", "Europe/Berlin")
	if err != nil {
		t.Fatalf("ResolveTimezone failed: %v", err)
	}
	if tz.Name != "America/New_York" {
		t.Errorf("Expected America/New_York, got %s", tz.Name)
	}
	if !tz.Configured {
		t.Error("Expected Configured=true for a flag-provided zone")
	}
	if tz.DisplayName() != "America/New_York" {
		t.Errorf("Expected DisplayName America/New_York, got %s", tz.DisplayName())
	}
}

func TestResolveTimezoneConfiguredFallback(t *testing.T) {
	tz, err := ResolveTimezone("", "Europe/Berlin")
	if err != nil {
		t.Fatalf("ResolveTimezone failed: %v", err)
	}
	if tz.Name != "Europe/Berlin" {
		t.Errorf("Expected Europe/Berlin, got %s", tz.Name)
	}
	if !tz.Configured {
		t.Error("Expected Configured=true for an environment-provided zone")
	}
}

func TestResolveTimezoneSystemFallback(t *testing.T) {
	tz, err := ResolveTimezone("", "")
	if err != nil {
		t.Fatalf("ResolveTimezone failed: %v", err)
	}
	if tz.Location == nil {
		t.Fatal("Expected a non-nil location")
	}
	if tz.Configured {
		t.Error("Expected Configured=false for the system zone")
	}
	if tz.DisplayName() != "local" {
		t.Errorf("Expected DisplayName 'local', got %s", tz.DisplayName())
	}
}

func TestResolveTimezoneInvalidName(t *testing.T) {
	_, err := ResolveTimezone("Mars/Olympus_Mons", "")
	if err == nil {
		t.Fatal("Expected an error for an unknown zone name")
	}
}

func TestResolveTimezoneLocalizesInstants(t *testing.T) {
	tz, err := ResolveTimezone("America/New_York", "")
	if err != nil {
		t.Fatalf("ResolveTimezone failed: %v", err)
	}
	utc := time.Date(2025, 2, 10, 5, 0, 0, 0, time.UTC)
	local := utc.In(tz.Location)
	if local.Hour() != 0 {
		t.Errorf("Expected midnight in New York for 05:00 UTC, got hour %d", local.Hour())
	}
}
