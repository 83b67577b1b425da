package ticktick

import (
	"encoding/json"
	"testing"
)

type completeStrategy struct{}

func (completeStrategy) Headers() map[string]string {
	return map[string]string{
		"User-Agent": "custom",
		"Origin":     "https://ticktick.com",
		"Referer":    "https://ticktick.com/",
	}
}

type bareStrategy struct{}

func (bareStrategy) Headers() map[string]string {
	return map[string]string{"User-Agent": "custom"}
}

func TestEnsureBrowserHeadersKeepsCompleteStrategy(t *testing.T) {
	original := completeStrategy{}
	got := EnsureBrowserHeaders(original, func() string { return "ticktick.com" }, "")
	if got != original {
		t.Error("A strategy already emitting Origin and Referer must be kept")
	}
}

func TestEnsureBrowserHeadersReplacesBareStrategy(t *testing.T) {
	got := EnsureBrowserHeaders(bareStrategy{}, func() string { return "dida365.com" }, "abc123abc123abc123abc123")
	headers := got.Headers()

	if headers["Origin"] != "https://dida365.com" {
		t.Errorf("Unexpected Origin: %s", headers["Origin"])
	}
	if headers["Referer"] != "https://dida365.com/" {
		t.Errorf("Unexpected Referer: %s", headers["Referer"])
	}
	if headers["User-Agent"] == "custom" {
		t.Error("Expected the browser profile to replace the bare strategy")
	}

	var device map[string]any
	if err := json.Unmarshal([]byte(headers["X-Device"]), &device); err != nil {
		t.Fatalf("X-Device is not JSON: %v", err)
	}
	if device["platform"] != "web" {
		t.Errorf("Unexpected device platform: %v", device["platform"])
	}
	if device["id"] != "abc123abc123abc123abc123" {
		t.Errorf("Expected the provided device ID, got %v", device["id"])
	}
}

func TestEnsureBrowserHeadersNilStrategy(t *testing.T) {
	got := EnsureBrowserHeaders(nil, func() string { return "ticktick.com" }, "")
	headers := got.Headers()
	if headers["Origin"] == "" || headers["Referer"] == "" {
		t.Error("Expected a full browser profile for a nil strategy")
	}
}

func TestNewDeviceID(t *testing.T) {
	id := NewDeviceID()
	if len(id) != 24 {
		t.Errorf("Expected a 24-character ID, got %d characters", len(id))
	}
	if id == NewDeviceID() {
		t.Error("Device IDs should not repeat")
	}
}
