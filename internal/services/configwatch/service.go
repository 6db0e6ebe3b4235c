// Package configwatch reloads the configuration when its .env file changes.
package configwatch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pan93412/Stats/internal/config"
	"github.com/pan93412/Stats/internal/logger"
)

// DebounceInterval collapses bursts of writes into one reload.
const DebounceInterval = 100 * time.Millisecond

// ErrNoFile is returned when there is no file to watch.
var ErrNoFile = errors.New("no config file to watch")

// Event represents a config watcher event.
type Event struct {
	Error  error
	Config *config.Config
	Type   EventType
}

// EventType defines the type of config watcher event.
type EventType int

const (
	// EventConfigChanged indicates that the file was reloaded successfully.
	EventConfigChanged EventType = iota
	// EventError indicates that watching or reloading failed.
	EventError
)

// Service watches a single .env file.
type Service struct {
	watcher       *fsnotify.Watcher
	reload        func(path string) (*config.Config, error)
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	filePath      string
	mu            sync.Mutex
	closeOnce     sync.Once
}

// New starts watching the file at path.
func New(path string) (*Service, error) {
	return newWithReload(path, config.Reload)
}

func newWithReload(path string, reload func(string) (*config.Config, error)) (*Service, error) {
	if path == "" {
		return nil, ErrNoFile
	}

	s := &Service{
		reload:    reload,
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
		filePath:  path,
	}

	if err := s.startWatcher(); err != nil {
		return nil, err
	}

	return s, nil
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the watched file.
func (s *Service) Path() string {
	return s.filePath
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory so editors that replace the file are caught
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				s.mu.Lock()
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(DebounceInterval, s.handleFileChange)
				s.mu.Unlock()
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the configuration after an external change.
func (s *Service) handleFileChange() {
	select {
	case <-s.stopChan:
		return
	default:
	}

	cfg, err := s.reload(s.filePath)
	if err != nil {
		logger.Warn("config reload failed", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	logger.Info("config reloaded", "path", s.filePath)
	s.sendEvent(Event{Type: EventConfigChanged, Config: cfg})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops watching.
func (s *Service) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		err = s.watcher.Close()
	})
	return err
}
