package knowledge

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SeedWatcher re-seeds the store when files in the seeds directory change,
// so starter knowledge can be edited without a restart.
type SeedWatcher struct {
	store   *Store
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSeedWatcher creates a watcher over the seeds directory.
func NewSeedWatcher(store *Store, dir string) (*SeedWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &SeedWatcher{
		store:   store,
		dir:     dir,
		watcher: watcher,
		done:    make(chan struct{}),
	}, nil
}

// Start watches for seed file changes until Stop is called. Reloads are
// debounced so editors that write in bursts trigger a single re-seed.
func (w *SeedWatcher) Start(ctx context.Context) {
	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !strings.HasSuffix(event.Name, ".yaml") && !strings.HasSuffix(event.Name, ".yml") {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					log.Printf("🌱 [SEEDS] Change detected in %s, re-seeding...", w.dir)
					if _, err := w.store.LoadSeeds(ctx, w.dir); err != nil {
						log.Printf("⚠️  [SEEDS] Re-seed failed: %v", err)
					}
				})
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("⚠️  [SEEDS] Watcher error: %v", err)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop shuts the watcher down.
func (w *SeedWatcher) Stop() {
	close(w.done)
	w.watcher.Close()
}
