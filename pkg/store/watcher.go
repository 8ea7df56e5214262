package store

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/stefanpenner/cadence/pkg/task"
)

// DebounceInterval is how long the tasks directory must be quiet before a
// change is delivered.
const DebounceInterval = 200 * time.Millisecond

// Subscribe watches the tasks directory and calls fn with a fresh listing
// after every burst of changes. fn runs on the watcher's goroutine. The
// returned function stops the watch.
func (s *Store) Subscribe(fn func([]*task.Task, error)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.TasksDir()); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	var mu sync.Mutex
	var debounceTimer *time.Timer

	deliver := func() {
		select {
		case <-done:
			return
		default:
		}
		fn(s.List())
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Only care about task files
				if !strings.HasSuffix(event.Name, ".md") {
					continue
				}
				mu.Lock()
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(DebounceInterval, deliver)
				mu.Unlock()

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}

			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			watcher.Close()
			mu.Lock()
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			mu.Unlock()
		})
	}
	return stop, nil
}
