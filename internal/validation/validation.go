package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

// Conflict represents a detected problem in stored events or tasks
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Event/task titles involved
	TimeRange   string   // Human-readable time range (if applicable)
	IDs         []string // IDs of the events or tasks involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type
func (vr *ValidationResult) Count(t constants.ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks a snapshot of events and tasks for data problems the
// scheduler would otherwise have to work around.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEvents checks events for conflicts
func (v *Validator) ValidateEvents(events []models.Event) ValidationResult {
	return v.ValidateEventsForDate(events, nil)
}

// ValidateEventsForDate checks events for conflicts. When date is set, the
// overlap check is limited to events touching that calendar day; structural
// checks always cover every event.
func (v *Validator) ValidateEventsForDate(events []models.Event, date *time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byID := make(map[string]models.Event, len(events))
	idCount := make(map[string]int, len(events))
	for _, e := range events {
		idCount[e.ID]++
		if _, ok := byID[e.ID]; !ok {
			byID[e.ID] = e
		}
	}

	ids := make([]string, 0, len(idCount))
	for id, n := range idCount {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		result.add(Conflict{
			Type:        constants.ConflictDuplicateEventID,
			Description: fmt.Sprintf("Event ID %q is used by %d events", id, idCount[id]),
			Items:       []string{byID[id].Title},
			IDs:         []string{id},
		})
	}

	for _, e := range events {
		if e.StartTime.IsZero() || e.EndTime.IsZero() || e.EndTime.Before(e.StartTime) {
			result.add(Conflict{
				Type: constants.ConflictInvalidInterval,
				Description: fmt.Sprintf("Event %q ends (%s) before it starts (%s)", e.Title,
					formatTimestamp(e.EndTime), formatTimestamp(e.StartTime)),
				Date:  dateOf(e.StartTime),
				Items: []string{e.Title},
				IDs:   []string{e.ID},
			})
		}

		switch e.DependencyType {
		case "", constants.DependencySequential, constants.DependencySameDay, constants.DependencyBeforeDeadline:
		default:
			result.add(Conflict{
				Type:        constants.ConflictInvalidDependency,
				Description: fmt.Sprintf("Event %q has unknown dependency type %q", e.Title, e.DependencyType),
				Items:       []string{e.Title},
				IDs:         []string{e.ID},
			})
		}

		for _, dep := range e.DependsOn {
			switch {
			case dep == e.ID:
				result.add(Conflict{
					Type:        constants.ConflictSelfDependency,
					Description: fmt.Sprintf("Event %q depends on itself", e.Title),
					Items:       []string{e.Title},
					IDs:         []string{e.ID},
				})
			case idCount[dep] == 0:
				result.add(Conflict{
					Type:        constants.ConflictMissingDependency,
					Description: fmt.Sprintf("Event %q depends on unknown event %q", e.Title, dep),
					Items:       []string{e.Title},
					IDs:         []string{e.ID, dep},
				})
			}
		}
	}

	for _, cycle := range findCycles(events) {
		titles := make([]string, len(cycle))
		for i, id := range cycle {
			titles[i] = byID[id].Title
		}
		result.add(Conflict{
			Type:        constants.ConflictDependencyCycle,
			Description: fmt.Sprintf("Dependency cycle: %s", strings.Join(titles, " -> ")),
			Items:       titles,
			IDs:         cycle,
		})
	}

	result.Conflicts = append(result.Conflicts, overlaps(events, date)...)
	return result
}

// overlaps reports every pair of events for the same user whose half-open
// intervals intersect.
func overlaps(events []models.Event, date *time.Time) []Conflict {
	var active []models.Event
	for _, e := range events {
		if e.IsDegenerate() {
			continue
		}
		if date != nil {
			dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
			if !e.Overlaps(dayStart, dayStart.AddDate(0, 0, 1)) {
				continue
			}
		}
		active = append(active, e)
	}

	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].StartTime.Equal(active[j].StartTime) {
			return active[i].StartTime.Before(active[j].StartTime)
		}
		return active[i].ID < active[j].ID
	})

	// O(n²) worst case; the inner loop stops at the first event starting after e ends
	var conflicts []Conflict
	for i := 0; i < len(active); i++ {
		e1 := active[i]
		for j := i + 1; j < len(active); j++ {
			e2 := active[j]
			if !e2.StartTime.Before(e1.EndTime) {
				break
			}
			if e1.UserID != e2.UserID {
				continue
			}
			start := e2.StartTime
			end := e1.EndTime
			if e2.EndTime.Before(end) {
				end = e2.EndTime
			}
			conflicts = append(conflicts, Conflict{
				Type: constants.ConflictOverlappingEvents,
				Description: fmt.Sprintf("Events %q and %q overlap (%s-%s)", e1.Title, e2.Title,
					start.Format(constants.TimeFormat), end.Format(constants.TimeFormat)),
				Date:      dateOf(start),
				Items:     []string{e1.Title, e2.Title},
				TimeRange: fmt.Sprintf("%s-%s", start.Format(constants.TimeFormat), end.Format(constants.TimeFormat)),
				IDs:       []string{e1.ID, e2.ID},
			})
		}
	}
	return conflicts
}

// findCycles returns each dependency cycle once, as the ids along the cycle
// starting from its smallest id. Unknown dependencies are ignored here.
func findCycles(events []models.Event) [][]string {
	graph := make(map[string][]string, len(events))
	for _, e := range events {
		for _, dep := range e.DependsOn {
			if dep != e.ID {
				graph[e.ID] = append(graph[e.ID], dep)
			}
		}
	}

	nodes := make([]string, 0, len(graph))
	for id := range graph {
		nodes = append(nodes, id)
		sort.Strings(graph[id])
	}
	sort.Strings(nodes)

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(graph))
	seen := make(map[string]bool)
	var cycles [][]string
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = inProgress
		stack = append(stack, id)
		for _, next := range graph[id] {
			switch state[next] {
			case unvisited:
				visit(next)
			case inProgress:
				cycle := cycleFrom(stack, next)
				key := strings.Join(cycle, ",")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, id := range nodes {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return cycles
}

// cycleFrom extracts the cycle that closes at id and rotates it so the
// smallest id comes first.
func cycleFrom(stack []string, id string) []string {
	i := len(stack) - 1
	for i >= 0 && stack[i] != id {
		i--
	}
	path := stack[i:]

	first := 0
	for k := range path {
		if path[k] < path[first] {
			first = k
		}
	}
	cycle := make([]string, 0, len(path))
	cycle = append(cycle, path[first:]...)
	return append(cycle, path[:first]...)
}

// ValidateTasks checks tasks for values the placer cannot work with
func (v *Validator) ValidateTasks(tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		var problems []string
		if seen[t.ID] {
			problems = append(problems, "duplicate id")
		}
		seen[t.ID] = true
		if t.EstimatedDurationMinutes < 0 {
			problems = append(problems, fmt.Sprintf("negative duration %d", t.EstimatedDurationMinutes))
		}
		if !models.ValidPriority(t.Priority) {
			problems = append(problems, fmt.Sprintf("unknown priority %q", t.Priority))
		}
		if t.EnergyLevelRequired != 0 && (t.EnergyLevelRequired < 1 || t.EnergyLevelRequired > 10) {
			problems = append(problems, fmt.Sprintf("energy level %d outside 1-10", t.EnergyLevelRequired))
		}
		if len(problems) == 0 {
			continue
		}
		result.add(Conflict{
			Type:        constants.ConflictInvalidTask,
			Description: fmt.Sprintf("Task %q: %s", t.Title, strings.Join(problems, "; ")),
			Items:       []string{t.Title},
			IDs:         []string{t.ID},
		})
	}
	return result
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "unset"
	}
	return t.Format(time.RFC3339)
}

func dateOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(constants.DateFormat)
}
