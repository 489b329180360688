package catalog

import (
	"fmt"
	"os"
	"sync"
)

// FailureLog records pages the crawler could not fetch
type FailureLog interface {
	Record(url string, err error) error
}

// FileFailureLog appends one line per failed page to a text file
type FileFailureLog struct {
	path string
	mu   sync.Mutex
}

// NewFileFailureLog creates a failure log writing to path. The file is created on first write.
func NewFileFailureLog(path string) *FileFailureLog {
	return &FileFailureLog{path: path}
}

// Path returns the log file path
func (l *FileFailureLog) Path() string {
	return l.path
}

// Record appends "Failed to fetch: <url>"
func (l *FileFailureLog) Record(url string, _ error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open failure log: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := fmt.Fprintf(f, "Failed to fetch: %s\n", url); err != nil {
		return fmt.Errorf("write failure log: %w", err)
	}
	return nil
}

// MemoryFailureLog keeps failed URLs in memory
type MemoryFailureLog struct {
	mu   sync.Mutex
	urls []string
}

// Record stores the URL
func (l *MemoryFailureLog) Record(url string, _ error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, url)
	return nil
}

// URLs returns the recorded URLs in order
func (l *MemoryFailureLog) URLs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.urls))
	copy(out, l.urls)
	return out
}
