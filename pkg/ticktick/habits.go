package ticktick

import (
	"context"
	"fmt"
	"net/url"
)

// GetHabits lists the account's habits as opaque records.
func (c *Client) GetHabits(ctx context.Context) ([]Habit, error) {
	var habits []Habit
	if err := c.getV2(ctx, "/habits", &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// GetHabit fetches one habit by ID.
func (c *Client) GetHabit(ctx context.Context, habitID string) (Habit, error) {
	habits, err := c.GetHabits(ctx)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if habit.ID() == habitID {
			return habit, nil
		}
	}
	return nil, &APIError{Endpoint: "habits", Message: fmt.Sprintf("habit %s not found", habitID)}
}

// GetHabitSections lists the account's habit sections.
func (c *Client) GetHabitSections(ctx context.Context) ([]HabitSection, error) {
	var sections []HabitSection
	if err := c.getV2(ctx, "/habitSections", &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// GetHabitPreferences fetches the account's habit preference block.
func (c *Client) GetHabitPreferences(ctx context.Context) (map[string]any, error) {
	var prefs map[string]any
	if err := c.getV2(ctx, "/user/preferences/habit", &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// CreateHabit creates a habit from an opaque field map; unknown fields pass
// through to the API untouched.
func (c *Client) CreateHabit(ctx context.Context, spec Habit) (Habit, error) {
	body := map[string]any{
		"add":    []Habit{spec},
		"update": []any{},
		"delete": []any{},
	}
	var result BatchResult
	if err := c.postV2(ctx, "/habits/batch", body, &result); err != nil {
		return nil, err
	}
	habits, err := c.GetHabits(ctx)
	if err != nil {
		return nil, err
	}
	for _, habit := range habits {
		if _, ok := result.ID2Etag[habit.ID()]; ok {
			return habit, nil
		}
		if habit.Name() == spec.Name() {
			return habit, nil
		}
	}
	return nil, &APIError{Endpoint: "habits/batch", Message: "created habit not found"}
}

// UpdateHabit applies changed fields over the current habit record.
func (c *Client) UpdateHabit(ctx context.Context, habitID string, changes Habit) (Habit, error) {
	habit, err := c.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	for key, value := range changes {
		habit[key] = value
	}
	body := map[string]any{
		"add":    []any{},
		"update": []Habit{habit},
		"delete": []any{},
	}
	if err := c.postV2(ctx, "/habits/batch", body, nil); err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit deletes a habit and its check-in history.
func (c *Client) DeleteHabit(ctx context.Context, habitID string) error {
	body := map[string]any{
		"add":    []any{},
		"update": []any{},
		"delete": []string{habitID},
	}
	return c.postV2(ctx, "/habits/batch", body, nil)
}

// ArchiveHabit archives a habit; check-in history is kept.
func (c *Client) ArchiveHabit(ctx context.Context, habitID string) (Habit, error) {
	return c.UpdateHabit(ctx, habitID, Habit{"status": 1})
}

// UnarchiveHabit restores an archived habit.
func (c *Client) UnarchiveHabit(ctx context.Context, habitID string) (Habit, error) {
	return c.UpdateHabit(ctx, habitID, Habit{"status": 0})
}

// CheckinHabit records one habit check-in. checkinDate is YYYY-MM-DD;
// empty means today.
func (c *Client) CheckinHabit(ctx context.Context, habitID string, value float64, checkinDate string) (Habit, error) {
	if _, err := c.CheckinHabits(ctx, []CheckinSpec{{
		HabitID:     habitID,
		Value:       value,
		CheckinDate: checkinDate,
	}}); err != nil {
		return nil, err
	}
	return c.GetHabit(ctx, habitID)
}

// CheckinHabits records a batch of check-ins in one call and returns the
// per-habit result map.
func (c *Client) CheckinHabits(ctx context.Context, specs []CheckinSpec) (map[string]any, error) {
	adds := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		add := map[string]any{
			"habitId": spec.HabitID,
			"value":   spec.Value,
			"status":  2, // completed check-in
		}
		if spec.CheckinDate != "" {
			add["checkinStamp"] = spec.CheckinDate
		}
		adds = append(adds, add)
	}
	body := map[string]any{
		"add":    adds,
		"update": []any{},
		"delete": []any{},
	}
	var result map[string]any
	if err := c.postV2(ctx, "/habitCheckins/batch", body, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = map[string]any{}
		for _, spec := range specs {
			result[spec.HabitID] = "ok"
		}
	}
	return result, nil
}

// GetHabitCheckins queries check-ins for the given habits after a stamp
// (YYYYMMDD as an integer; 0 means everything). The result maps habit ID to
// its check-in records.
func (c *Client) GetHabitCheckins(ctx context.Context, habitIDs []string, afterStamp int) (map[string][]HabitCheckin, error) {
	query := url.Values{}
	for _, id := range habitIDs {
		query.Add("habitIds", id)
	}
	query.Set("afterStamp", fmt.Sprintf("%d", afterStamp))

	var resp struct {
		Checkins map[string][]HabitCheckin `json:"checkins"`
	}
	if err := c.getV2(ctx, "/habitCheckins?"+query.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Checkins == nil {
		resp.Checkins = map[string][]HabitCheckin{}
	}
	return resp.Checkins, nil
}
