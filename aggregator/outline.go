package aggregator

import (
	"fmt"
	"strings"
	"time"

	"clickupai/domain"
	"clickupai/utils"
)

type outlineLine struct {
	text  string
	lists int // number of lists the line describes
}

func outline(ws domain.Workspace, opts Options) []outlineLine {
	var lines []outlineLine
	for _, s := range ws.Spaces {
		lines = append(lines, outlineLine{text: "Space: " + displayName(s.Name, opts.MaxNameLength)})
		for _, f := range s.Folders {
			for _, l := range f.Lists {
				prefix := displayName(f.Name, opts.MaxNameLength) + " / " + displayName(l.Name, opts.MaxNameLength)
				lines = append(lines, outlineLine{text: listLine(prefix, l, opts), lists: 1})
			}
		}
		for _, l := range s.Lists {
			lines = append(lines, outlineLine{text: listLine(displayName(l.Name, opts.MaxNameLength), l, opts), lists: 1})
		}
	}
	return lines
}

func listLine(name string, l domain.List, opts Options) string {
	line := fmt.Sprintf("- %s: %s", name, plural(len(l.Tasks), "task"))
	if opts.OmitTaskNames || opts.TasksPerList == 0 || len(l.Tasks) == 0 {
		return line
	}

	shown := min(len(l.Tasks), opts.TasksPerList)
	names := make([]string, 0, shown+1)
	for _, t := range l.Tasks[:shown] {
		names = append(names, taskLabel(t, opts.MaxNameLength, opts.Now))
	}
	if rest := len(l.Tasks) - shown; rest > 0 {
		names = append(names, fmt.Sprintf("+%d more", rest))
	}
	return line + " (" + strings.Join(names, "; ") + ")"
}

func taskLabel(t domain.Task, maxName int, now time.Time) string {
	var marks []string
	if t.IsHighPriority() {
		marks = append(marks, string(t.Priority))
	}
	if t.IsOverdue(now) {
		marks = append(marks, "overdue")
	}
	if t.IsCompleted() {
		marks = append(marks, "done")
	}
	label := displayName(t.Name, maxName)
	if len(marks) > 0 {
		label += " [" + strings.Join(marks, ", ") + "]"
	}
	return label
}

// boundedWriter accumulates newline-separated lines without exceeding max
// runes in total.
type boundedWriter struct {
	lines []string
	used  int
	max   int
}

func (w *boundedWriter) cost(line string) int {
	if len(w.lines) == 0 {
		return utils.RuneCount(line)
	}
	return utils.RuneCount(line) + 1
}

func (w *boundedWriter) remaining() int {
	return w.max - w.used
}

func (w *boundedWriter) add(line string) {
	w.used += w.cost(line)
	w.lines = append(w.lines, line)
}

// addTruncated adds line, shortened to the space left. Nothing is added
// when too little space is left for a meaningful fragment.
func (w *boundedWriter) addTruncated(line string) {
	room := w.remaining()
	if len(w.lines) > 0 {
		room--
	}
	if room < 8 {
		return
	}
	w.add(utils.Truncate(line, room))
}

// addOutline adds lines in order. If they do not all fit, it stops early
// and ends with a marker naming how many lists were left out. It returns
// that number.
func (w *boundedWriter) addOutline(lines []outlineLine, totalLists int) int {
	total := 0
	for _, l := range lines {
		total += w.cost(l.text)
	}
	if total <= w.remaining() {
		for _, l := range lines {
			w.add(l.text)
		}
		return 0
	}

	reserve := w.cost(omittedMarker(totalLists))
	emitted := 0
	for _, l := range lines {
		if w.cost(l.text)+reserve > w.remaining() {
			break
		}
		w.add(l.text)
		emitted += l.lists
	}
	omitted := totalLists - emitted
	if marker := omittedMarker(omitted); w.cost(marker) <= w.remaining() {
		w.add(marker)
	}
	return omitted
}

func omittedMarker(n int) string {
	if n == 0 {
		return "… (outline truncated)"
	}
	return fmt.Sprintf("… (%s omitted)", plural(n, "more list"))
}

func (w *boundedWriter) String() string {
	return strings.Join(w.lines, "\n")
}
