package repositories

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BradenHooton/decoyra/internal/models"
)

// EventStore is the append-only attack event log
type EventStore interface {
	Append(ctx context.Context, event models.Event) error
	ReadAll(ctx context.Context) ([]string, error)
}

// FileEventStore keeps the event log in a single append-only text file
type FileEventStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileEventStore creates a FileEventStore. The file is created on first append.
func NewFileEventStore(path string) *FileEventStore {
	return &FileEventStore{path: path}
}

// Path returns the location of the log file
func (s *FileEventStore) Path() string {
	return s.path
}

// Append encodes the event and writes it as one line
func (s *FileEventStore) Append(ctx context.Context, event models.Event) error {
	line, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}

	// single write so the line lands whole
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}

	return nil
}

// ReadAll returns every stored line in append order. A missing file is an
// empty log, not an error.
func (s *FileEventStore) ReadAll(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}
	defer f.Close()

	var lines []string
	// ReadString has no line length limit, unlike bufio.Scanner
	reader := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			lines = append(lines, line)
		}
		if err != nil {
			if err != io.EOF {
				return nil, fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
			}
			break
		}
	}

	return lines, nil
}

// HealthCheck reports whether the log could be appended to, without taking
// the append lock or creating the log. An existing file must open for
// writing; otherwise its directory must accept new files.
func (s *FileEventStore) HealthCheck(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", models.ErrEventStoreUnavailable, dir)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0)
	if err == nil {
		return f.Close()
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}

	// no log yet, so the first append will have to create one
	tmp, err := os.CreateTemp(dir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}
	_ = tmp.Close()
	if err := os.Remove(tmp.Name()); err != nil {
		return fmt.Errorf("%w: %w", models.ErrEventStoreUnavailable, err)
	}
	return nil
}

// MemoryEventStore holds encoded lines in memory. It goes through the same
// codec as FileEventStore.
type MemoryEventStore struct {
	mu    sync.RWMutex
	lines []string
}

// NewMemoryEventStore creates an empty MemoryEventStore
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

func (s *MemoryEventStore) Append(ctx context.Context, event models.Event) error {
	line, err := EncodeEvent(event)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

// AppendRaw stores a line as-is, bypassing the encoder
func (s *MemoryEventStore) AppendRaw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *MemoryEventStore) ReadAll(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out, nil
}
