package gene

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"vls-mesh/internal/logging"
)

// DefaultSettle is how long a file must stay quiet before it is reported.
const DefaultSettle = 100 * time.Millisecond

// Watch calls fn for every .gene file under root that is created or written,
// until ctx is done. Directories created later are watched too. Bursts of
// events for one file are coalesced: fn runs once the file has been quiet
// for settle (DefaultSettle when zero). fn runs on the watch goroutine.
func Watch(ctx context.Context, root string, settle time.Duration, fn func(path string)) error {
	if settle <= 0 {
		settle = DefaultSettle
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("gene: watch %s: %w", root, err)
	}
	defer w.Close()

	if err := addTree(w, root); err != nil {
		return err
	}
	log := logging.Logger()
	log.Info("gene: watching", "root", root)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(tickInterval(settle))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						log.Warn("gene: watch new dir", "dir", ev.Name, "err", err)
					}
					continue
				}
			}
			if (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) && IsGene(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("gene: watcher error", "err", err)
		case now := <-ticker.C:
			for path, at := range pending {
				if now.Sub(at) >= settle {
					delete(pending, path)
					log.Debug("gene: changed", "path", path)
					fn(path)
				}
			}
		}
	}
}

// tickInterval is how often pending files are checked against settle.
func tickInterval(settle time.Duration) time.Duration {
	return max(settle/2, time.Millisecond)
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("gene: watch %s: %w", path, err)
			}
		}
		return nil
	})
}
