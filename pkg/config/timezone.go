package config

import (
	"fmt"
	"time"
)

// Timezone is the resolved display zone. Name is the IANA name when one
// is known, empty otherwise. Configured reports whether the zone came
// from an explicit flag or environment setting rather than the system.
type Timezone struct {
	Location   *time.Location
	Name       string
	Configured bool
}

// ResolveTimezone picks the display timezone. Precedence: the explicit
// flag value, then the configured zone (TZ environment variable), then
// the system local zone, then UTC. The Name field, when set, is what gets
// written into task time_zone fields, so it is only populated with real
// IANA names.
func ResolveTimezone(flagValue, configured string) (*Timezone, error) {
	for _, candidate := range []string{flagValue, configured} {
		if candidate == "" {
			continue
		}
		loc, err := time.LoadLocation(candidate)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone '%s': use an IANA name like 'America/New_York'", candidate)
		}
		return &Timezone{Location: loc, Name: candidate, Configured: true}, nil
	}

	loc := time.Local
	if loc == nil {
		return &Timezone{Location: time.UTC, Name: "UTC"}, nil
	}
	name := loc.String()
	if name == "Local" {
		// The system zone has no usable IANA name.
		name = ""
	}
	return &Timezone{Location: loc, Name: name}, nil
}

// DisplayName is the label shown in filter summaries.
func (t *Timezone) DisplayName() string {
	if t.Configured {
		return t.Name
	}
	return "local"
}
