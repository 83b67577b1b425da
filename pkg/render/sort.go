// Package render turns TickTick entities into the two output projections
// the CLI emits: canonical JSON and fixed-width text tables. Every list is
// sorted by a deterministic key before emission so the same remote state
// always renders in the same order.
package render

import (
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/ticktick-cli/pkg/ticktick"
)

type taskSortKey struct {
	noDue    bool
	due      time.Time
	priority int
	title    string
}

func taskKey(task *ticktick.Task) taskSortKey {
	key := taskSortKey{
		noDue:    true,
		priority: -task.Priority,
		title:    strings.ToLower(task.Title),
	}
	if task.DueDate != nil && !task.DueDate.IsZero() {
		key.noDue = false
		key.due = task.DueDate.Time
	}
	return key
}

func (a taskSortKey) less(b taskSortKey) bool {
	if a.noDue != b.noDue {
		return !a.noDue
	}
	if !a.due.Equal(b.due) {
		return a.due.Before(b.due)
	}
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.title < b.title
}

// SortTasks orders tasks by (has-no-due, due instant, priority descending,
// title case-insensitive). Due dates are compared as instants, so the order
// does not depend on the display zone; the location parameter is kept so
// call sites match the other list renderers. Sorts in place and returns the
// slice for chaining.
func SortTasks(tasks []ticktick.Task, _ *time.Location) []ticktick.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskKey(&tasks[i]).less(taskKey(&tasks[j]))
	})
	return tasks
}

// SortProjects orders projects by case-insensitive name.
func SortProjects(projects []ticktick.Project) []ticktick.Project {
	sort.SliceStable(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})
	return projects
}

// SortFolders orders folders by case-insensitive name.
func SortFolders(folders []ticktick.Folder) []ticktick.Folder {
	sort.SliceStable(folders, func(i, j int) bool {
		return strings.ToLower(folders[i].Name) < strings.ToLower(folders[j].Name)
	})
	return folders
}

// SortTags orders tags by case-insensitive name.
func SortTags(tags []ticktick.Tag) []ticktick.Tag {
	sort.SliceStable(tags, func(i, j int) bool {
		return strings.ToLower(tags[i].Name) < strings.ToLower(tags[j].Name)
	})
	return tags
}

// SortColumns orders kanban columns by their declared sort order.
func SortColumns(columns []ticktick.Column) []ticktick.Column {
	sort.SliceStable(columns, func(i, j int) bool {
		return columns[i].SortOrder < columns[j].SortOrder
	})
	return columns
}

// SortHabits orders habits by case-insensitive name.
func SortHabits(habits []ticktick.Habit) []ticktick.Habit {
	sort.SliceStable(habits, func(i, j int) bool {
		return strings.ToLower(habits[i].Name()) < strings.ToLower(habits[j].Name())
	})
	return habits
}
