package common

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DailyRotatingWriter appends to <dir>/<prefix><date><suffix>, opening a new
// file when the date changes and keeping only the newest MaxFiles files with
// the same prefix and suffix.
type DailyRotatingWriter struct {
	mu          sync.Mutex
	dir         string
	prefix      string
	suffix      string
	maxFiles    int
	currentDate string
	file        *os.File
}

func NewDailyRotatingWriter(dir, prefix, suffix string, maxFiles int) (*DailyRotatingWriter, error) {
	w := &DailyRotatingWriter{
		dir:      dir,
		prefix:   prefix,
		suffix:   suffix,
		maxFiles: maxFiles,
	}
	if err := w.rotateIfNeeded(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *DailyRotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateIfNeeded(); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

func (w *DailyRotatingWriter) fileName(date string) string {
	return w.prefix + date + w.suffix
}

func (w *DailyRotatingWriter) rotateIfNeeded() error {
	today := time.Now().Format("2006-01-02")
	if w.currentDate == today && w.file != nil {
		return nil
	}

	if w.file != nil {
		w.file.Close()
	}

	file, err := os.OpenFile(
		filepath.Join(w.dir, w.fileName(today)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return err
	}

	w.file = file
	w.currentDate = today

	w.cleanup()

	return nil
}

func (w *DailyRotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}

var _ io.WriteCloser = (*DailyRotatingWriter)(nil)

// cleanup removes the oldest rotated files beyond maxFiles. File names embed
// the date, so lexical order is chronological order.
func (w *DailyRotatingWriter) cleanup() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, w.prefix) && strings.HasSuffix(name, w.suffix) {
			names = append(names, name)
		}
	}

	if len(names) <= w.maxFiles {
		return
	}

	sort.Strings(names)

	for i := 0; i < len(names)-w.maxFiles; i++ {
		os.Remove(filepath.Join(w.dir, names[i]))
	}
}
