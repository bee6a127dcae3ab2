package driver

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"weave/internal/trace"
)

// DefaultDebounce coalesces the burst of events editors produce per save.
const DefaultDebounce = 100 * time.Millisecond

// Watch calls onChange with the subset of paths modified since the last
// call, until ctx is done. Parent directories are watched rather than the
// files, so files replaced by rename on save keep being tracked.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	wanted := make(map[string]string, len(paths)) // abs -> as given
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "-" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		wanted[abs] = p
		dir := filepath.Dir(abs)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		dirs[dir] = struct{}{}
	}

	tracer := trace.FromContext(ctx)
	pending := make(map[string]struct{})
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			orig, ok := wanted[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			pending[orig] = struct{}{}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			trace.Point(tracer, trace.ScopeDriver, "watch-error", err.Error(), 0)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			trace.Point(tracer, trace.ScopeDriver, "watch", strings.Join(changed, ","), 0)
			onChange(changed)
		}
	}
}
