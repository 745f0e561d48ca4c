// Package aggregator condenses a workspace snapshot into headline stats and a
// bounded plain-text summary suitable for a model prompt.
package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"clickupai/common"
	"clickupai/domain"
	"clickupai/utils"
)

// MinMaxChars is the smallest accepted summary bound. Below it the header
// lines could not be kept whole.
const MinMaxChars = 200

const (
	maxStatusesShown  = 10
	maxAssigneesShown = 10
)

type Options struct {
	// MaxChars bounds the summary text, in runes.
	MaxChars      int
	MaxNameLength int
	TasksPerList  int
	// OmitTaskNames leaves task names out of the outline; lists are still
	// counted.
	OmitTaskNames bool
	// Now is the reference time for overdue tasks. Zero means time.Now().
	Now time.Time
}

func OptionsFromConfig(cfg common.SummaryConfig) Options {
	return Options{
		MaxChars:      cfg.MaxChars,
		MaxNameLength: cfg.MaxNameLength,
		TasksPerList:  cfg.TasksPerList,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxChars == 0 {
		o.MaxChars = common.DefaultSummaryMaxChars
	}
	if o.MaxNameLength == 0 {
		o.MaxNameLength = common.DefaultSummaryMaxNameLength
	}
	if o.TasksPerList == 0 {
		o.TasksPerList = common.DefaultSummaryTasksPerList
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

func (o Options) validate() error {
	if o.MaxChars < MinMaxChars {
		return fmt.Errorf("%w: summary bound %d is below the minimum of %d", domain.ErrInvalidInput, o.MaxChars, MinMaxChars)
	}
	if o.MaxNameLength < 1 || o.TasksPerList < 0 {
		return fmt.Errorf("%w: summary limits must be positive", domain.ErrInvalidInput)
	}
	return nil
}

type Summary struct {
	Stats domain.Stats `json:"stats"`
	Text  string       `json:"text"`
	// OmittedLists is the number of lists left out of the outline.
	OmittedLists int `json:"omittedLists,omitempty"`
}

// Summarize computes stats over ws and renders them, followed by an outline
// of spaces and lists, as text of at most opts.MaxChars runes. The result
// depends only on ws and opts.
func Summarize(ws domain.Workspace, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return Summary{}, err
	}
	if err := validateWorkspace(ws); err != nil {
		return Summary{}, err
	}

	stats := ComputeStats(ws, opts.Now)
	w := &boundedWriter{max: opts.MaxChars}

	w.add(CountLine(stats))
	w.addTruncated("Workspace: " + displayName(ws.Name, opts.MaxNameLength))
	w.addTruncated(progressLine(stats))
	if len(stats.StatusCounts) > 0 {
		w.addTruncated("Statuses: " + statusLine(stats.StatusCounts, opts.MaxNameLength))
	}
	if len(stats.Assignees) > 0 {
		w.addTruncated("Assignees: " + assigneeLine(stats.Assignees, opts.MaxNameLength))
	}

	omitted := w.addOutline(outline(ws, opts), stats.Lists)
	return Summary{Stats: stats, Text: w.String(), OmittedLists: omitted}, nil
}

func validateWorkspace(ws domain.Workspace) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
	}
	if ws.Id == "" {
		return invalid("workspace has no id")
	}
	for si, s := range ws.Spaces {
		if s.Id == "" {
			return invalid("space %d has no id", si)
		}
		for fi, f := range s.Folders {
			if f.Id == "" {
				return invalid("folder %d of space %s has no id", fi, s.Id)
			}
		}
		for _, l := range s.AllLists() {
			if l.Id == "" {
				return invalid("a list of space %s has no id", s.Id)
			}
			for ti, t := range l.Tasks {
				if t.Id == "" {
					return invalid("task %d of list %s has no id", ti, l.Id)
				}
			}
		}
	}
	return nil
}

// ComputeStats counts the workspace tree.
func ComputeStats(ws domain.Workspace, now time.Time) domain.Stats {
	stats := domain.Stats{Spaces: len(ws.Spaces)}
	statuses := map[string]int{}
	assignees := map[string]int{}

	for _, s := range ws.Spaces {
		stats.Folders += len(s.Folders)
		for _, l := range s.AllLists() {
			stats.Lists++
			for _, t := range l.Tasks {
				stats.Tasks++
				if t.IsCompleted() {
					stats.CompletedTasks++
				}
				if t.IsOverdue(now) {
					stats.OverdueTasks++
				}
				if t.IsHighPriority() {
					stats.HighPriorityTasks++
				}
				statuses[statusName(t)]++
				for _, a := range t.Assignees {
					assignees[a]++
				}
			}
		}
	}

	if stats.Tasks > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedTasks) * 100 / float64(stats.Tasks)))
	}
	stats.StatusCounts = make([]domain.StatusCount, 0, len(statuses))
	for name, n := range statuses {
		stats.StatusCounts = append(stats.StatusCounts, domain.StatusCount{Status: name, Count: n})
	}
	sortCounts(stats.StatusCounts)
	if len(assignees) > 0 {
		stats.Assignees = assignees
	}
	return stats
}

func statusName(t domain.Task) string {
	if s := strings.TrimSpace(t.Status); s != "" {
		return strings.ToLower(s)
	}
	return "(no status)"
}

// sortCounts orders by count descending, then name.
func sortCounts(counts []domain.StatusCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Status < counts[j].Status
	})
}

// CountLine renders e.g. "3 spaces, 2 folders, 4 lists, 5 tasks".
func CountLine(s domain.Stats) string {
	return strings.Join([]string{
		plural(s.Spaces, "space"),
		plural(s.Folders, "folder"),
		plural(s.Lists, "list"),
		plural(s.Tasks, "task"),
	}, ", ")
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func progressLine(s domain.Stats) string {
	return fmt.Sprintf("Completed: %d (%d%%), overdue: %d, high priority: %d",
		s.CompletedTasks, s.CompletionRate, s.OverdueTasks, s.HighPriorityTasks)
}

func statusLine(counts []domain.StatusCount, maxName int) string {
	return joinCounts(counts, maxStatusesShown, maxName)
}

func assigneeLine(assignees map[string]int, maxName int) string {
	counts := make([]domain.StatusCount, 0, len(assignees))
	for name, n := range assignees {
		counts = append(counts, domain.StatusCount{Status: name, Count: n})
	}
	sortCounts(counts)
	return joinCounts(counts, maxAssigneesShown, maxName)
}

func joinCounts(counts []domain.StatusCount, limit, maxName int) string {
	parts := make([]string, 0, min(len(counts), limit)+1)
	for i, c := range counts {
		if i == limit {
			parts = append(parts, fmt.Sprintf("+%d more", len(counts)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%s %d", displayName(c.Status, maxName), c.Count))
	}
	return strings.Join(parts, ", ")
}

func displayName(name string, maxLen int) string {
	name = utils.SingleLine(name)
	if name == "" {
		return "(unnamed)"
	}
	return utils.Truncate(name, maxLen)
}
