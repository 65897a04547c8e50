package theme

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with a freshly loaded theme every time the file at path is
// written or replaced, until ctx is done. fn receives the load error instead
// when the new contents cannot be parsed; the caller keeps its previous theme
// in that case. Watch blocks and runs fn on the calling goroutine.
func Watch(ctx context.Context, path string, opts *Options, fn func(*Theme, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors often replace files instead of writing them, so watch the directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug().Str("theme", path).Str("op", ev.Op.String()).Msg("theme changed")
			fn(Load(path, opts))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Str("theme", path).Msg("watch error")
		}
	}
}
