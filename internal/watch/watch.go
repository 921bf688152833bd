// Package watch re-renders the summary when the repository changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/chmouel/gitsummary/internal/log"
	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the git directory must stay quiet before a change is
// reported.
const Debounce = 300 * time.Millisecond

// Files directly under the git directory that affect the summary.
var topLevelFiles = map[string]struct{}{
	"HEAD":        {},
	"index":       {},
	"packed-refs": {},
	"ORIG_HEAD":   {},
	"MERGE_HEAD":  {},
}

// Watcher reports debounced changes to a git directory.
type Watcher struct {
	gitDir   string
	roots    []string
	debounce time.Duration

	events chan struct{}
	done   chan struct{}
	once   sync.Once

	mu    sync.Mutex
	paths map[string]struct{}
	fs    *fsnotify.Watcher
}

// New starts watching gitDir, its refs/ and logs/ trees.
func New(gitDir string) (*Watcher, error) {
	return newWatcher(gitDir, Debounce)
}

func newWatcher(gitDir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		gitDir:   gitDir,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		paths:    make(map[string]struct{}),
		fs:       fw,
		roots: []string{
			filepath.Join(gitDir, "refs"),
			filepath.Join(gitDir, "logs"),
		},
	}
	w.addWatchDir(gitDir)
	for _, root := range w.roots {
		w.addWatchTree(root)
	}

	go w.run()
	return w, nil
}

// Events delivers one value per burst of relevant changes.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

// IsUnderRoot reports whether path is inside refs/ or logs/.
func (w *Watcher) IsUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Relevant reports whether an event may change the summary. Lock files come
// and go on every git command and are ignored.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasSuffix(event.Name, ".lock") {
		return false
	}
	if w.IsUnderRoot(event.Name) {
		return true
	}
	if filepath.Dir(event.Name) != w.gitDir {
		return false
	}
	_, ok := topLevelFiles[filepath.Base(event.Name)]
	return ok
}

func (w *Watcher) run() {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			if !w.Relevant(event) {
				continue
			}
			log.Printf("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.signal()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("watch: watcher error: %v", err)
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

func (w *Watcher) maybeWatchNewDir(path string) {
	if !w.IsUnderRoot(path) {
		return
	}
	w.addWatchTree(path)
}

func (w *Watcher) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.fs.Add(path); err != nil {
		log.Printf("watch: add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *Watcher) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}

// Loop calls refresh once, then again after every change to gitDir, until
// ctx is done. A refresh error stops the loop.
func Loop(ctx context.Context, gitDir string, refresh func(context.Context) error) error {
	w, err := New(gitDir)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	return loop(ctx, w.Events(), refresh)
}

func loop(ctx context.Context, events <-chan struct{}, refresh func(context.Context) error) error {
	if err := refresh(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-events:
			if err := refresh(ctx); err != nil {
				return err
			}
		}
	}
}
