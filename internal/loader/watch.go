package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/listmodel"
	"golang.org/x/time/rate"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Loop runs the list updates. Defaults to the list's loop.
	Loop *eventloop.Loop
	// Interval is the minimum delay between two reloads. Defaults to 200ms.
	Interval time.Duration
	// OnReload is called on the loop after each reload attempt.
	OnReload func(err error)
}

// Watch reloads l from path whenever the file changes until ctx is canceled.
//
// The file is read on a background goroutine and the list is only modified from
// tasks posted to the loop. Bursts of file events are coalesced into one reload
// per interval.
func Watch(ctx context.Context, path string, f Format, l *listmodel.RecordList, opts WatchOptions) error {
	loop := opts.Loop
	if loop == nil {
		loop = l.Loop()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Editors often replace the file, so the directory is watched.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !relevant(event) {
					continue
				}
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				drain(w.Events)
				records, err := ReadFile(abs, f)
				loop.Post(func() {
					if err == nil && !l.SetStorage(records) {
						err = fmt.Errorf("%s: list %s rejected the records", path, l.Name())
					}
					if err != nil {
						slog.Warn("Failed to reload", "path", path, "err", err)
					} else {
						slog.Debug("Reloaded", "path", path, "rows", l.Len())
					}
					if opts.OnReload != nil {
						opts.OnReload(err)
					}
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching file", "path", path, "err", err)
			}
		}
	}()
	return nil
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

// drain discards the events queued while waiting for the limiter.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
