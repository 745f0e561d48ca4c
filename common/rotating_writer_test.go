package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrefix = "clickupai-"
	testSuffix = ".log"
)

func todayFile() string {
	return testPrefix + time.Now().Format("2006-01-02") + testSuffix
}

func TestNewDailyRotatingWriter(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	writer, err := NewDailyRotatingWriter(tempDir, testPrefix, testSuffix, 7)
	require.NoError(t, err)
	defer writer.Close()

	assert.Equal(t, time.Now().Format("2006-01-02"), writer.currentDate)
	_, err = os.Stat(filepath.Join(tempDir, todayFile()))
	assert.NoError(t, err)
}

func TestNewDailyRotatingWriter_InvalidPath(t *testing.T) {
	t.Parallel()
	writer, err := NewDailyRotatingWriter("/nonexistent/path/that/should/not/exist", testPrefix, testSuffix, 7)
	assert.Error(t, err)
	assert.Nil(t, writer)
}

func TestDailyRotatingWriter_Write(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	writer, err := NewDailyRotatingWriter(tempDir, testPrefix, testSuffix, 7)
	require.NoError(t, err)
	defer writer.Close()

	data := []byte("analysis finished\n")
	n, err := writer.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(filepath.Join(tempDir, todayFile()))
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestDailyRotatingWriter_CloseTwice(t *testing.T) {
	t.Parallel()
	writer, err := NewDailyRotatingWriter(t.TempDir(), testPrefix, testSuffix, 7)
	require.NoError(t, err)

	assert.NoError(t, writer.Close())
	assert.Nil(t, writer.file)
	assert.NoError(t, writer.Close())
}

func TestDailyRotatingWriter_KeepsNewestFiles(t *testing.T) {
	t.Parallel()
	tempDir := t.TempDir()

	for i := 1; i <= 10; i++ {
		date := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, testPrefix+date+testSuffix), []byte("x"), 0644))
	}
	other := filepath.Join(tempDir, "unrelated.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	writer, err := NewDailyRotatingWriter(tempDir, testPrefix, testSuffix, 3)
	require.NoError(t, err)
	defer writer.Close()

	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	var rotated []string
	for _, e := range entries {
		if e.Name() != "unrelated.txt" {
			rotated = append(rotated, e.Name())
		}
	}
	assert.Len(t, rotated, 3)
	assert.Contains(t, rotated, todayFile())

	_, err = os.Stat(other)
	assert.NoError(t, err, "files without the prefix are left alone")
}
