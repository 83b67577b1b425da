package ticktick

import (
	"context"
	"fmt"
	"time"
)

// GetProfile fetches the account profile.
func (c *Client) GetProfile(ctx context.Context) (map[string]any, error) {
	var profile map[string]any
	if err := c.getV2(ctx, "/user/profile", &profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetStatistics fetches the account's general statistics block (scores,
// completion counts, streaks).
func (c *Client) GetStatistics(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	if err := c.getV2(ctx, "/statistics/general", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetPreferences fetches the account's settings block.
func (c *Client) GetPreferences(ctx context.Context) (map[string]any, error) {
	var prefs map[string]any
	if err := c.getV2(ctx, "/user/preferences/settings?includeWeb=true", &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// GetFocusHeatmap returns per-day focus durations for the last `days` days.
func (c *Client) GetFocusHeatmap(ctx context.Context, days int) ([]FocusHeatmapEntry, error) {
	from, to := focusWindow(days)
	path := fmt.Sprintf("/pomodoros/statistics/heatmap/%s/%s", from, to)
	var raw []map[string]any
	if err := c.getV2(ctx, path, &raw); err != nil {
		return nil, err
	}
	entries := make([]FocusHeatmapEntry, 0, len(raw))
	for _, item := range raw {
		var entry FocusHeatmapEntry
		if day, ok := item["day"].(string); ok {
			entry.Day = day
		}
		if duration, ok := item["duration"].(float64); ok {
			entry.Duration = duration
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetFocusByTag returns focus durations aggregated by tag for the last
// `days` days.
func (c *Client) GetFocusByTag(ctx context.Context, days int) (map[string]float64, error) {
	from, to := focusWindow(days)
	path := fmt.Sprintf("/pomodoros/statistics/dist/%s/%s", from, to)
	var resp struct {
		TagDurations map[string]float64 `json:"tagDurations"`
	}
	if err := c.getV2(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.TagDurations == nil {
		resp.TagDurations = map[string]float64{}
	}
	return resp.TagDurations, nil
}

func focusWindow(days int) (from, to string) {
	const stamp = "20060102"
	now := time.Now()
	return now.AddDate(0, 0, -days).Format(stamp), now.Format(stamp)
}
