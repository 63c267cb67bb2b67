package camera

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes a hotplug notification.
type EventType int

const (
	// EventAttached fires when a capture device node appears.
	EventAttached EventType = iota

	// EventDetached fires when a capture device node goes away.
	EventDetached
)

// Event is emitted by Watch when the set of /dev/video* nodes changes.
type Event struct {
	Type EventType
	Path string
}

// Watch streams hotplug events until ctx is cancelled. Callers should drain
// the returned channel; events are dropped rather than blocking the watcher.
// The channel is closed once ctx is done or the watcher fails.
func Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("camera: create watcher: %w", err)
	}
	if err := watcher.Add("/dev"); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("camera: watch /dev: %w", err)
	}

	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer watcher.Close()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Drop rather than stall; the kiosk re-enumerates on the
				// next event anyway.
			}
		}

		// A single USB camera connect spews several node events; coalesce
		// each path to one notification per burst.
		throttle := newHotplugThrottle(250 * time.Millisecond)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isCaptureNode(evt.Name) {
					continue
				}
				switch {
				case evt.Op&fsnotify.Create == fsnotify.Create:
					throttle.Enqueue(Event{Type: EventAttached, Path: evt.Name}, send)
				case evt.Op&fsnotify.Remove == fsnotify.Remove:
					throttle.Enqueue(Event{Type: EventDetached, Path: evt.Name}, send)
				}
			}
		}
	}()

	return events, nil
}

func isCaptureNode(path string) bool {
	return strings.HasPrefix(filepath.Base(path), "video")
}

// hotplugThrottle coalesces bursts of node events so consumers see one
// notification per device per burst.
type hotplugThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[Event]struct{}
	delay   time.Duration
}

func newHotplugThrottle(delay time.Duration) *hotplugThrottle {
	return &hotplugThrottle{
		delay:   delay,
		pending: make(map[Event]struct{}),
	}
}

func (t *hotplugThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	t.pending[ev] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

func (t *hotplugThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[Event]struct{})
	t.timer = nil
	t.mu.Unlock()

	for ev := range pending {
		send(ev)
	}
}

func (t *hotplugThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
