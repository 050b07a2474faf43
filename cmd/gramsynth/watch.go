package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// watchAndRun runs once, then re-runs whenever a file matching one of
// the grammar patterns is written. Events are debounced so an editor
// writing a file in several chunks triggers one run. Returns when the
// context is canceled.
func watchAndRun(ctx context.Context, patterns []string, run func() error) error {
	if err := run(); err != nil {
		slog.Error("synthesis failed", slog.String("error", err.Error()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directories of the matched files; new files matching a
	// pattern are picked up too.
	dirs := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return err
		}
		for _, match := range matches {
			dirs[filepath.Dir(match)] = true
		}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	slog.Info("watching for grammar changes", slog.Int("dirs", len(dirs)))

	var debounce *time.Timer
	runs := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !matchesAny(patterns, event.Name) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", slog.String("error", err.Error()))
		case <-runs:
			slog.Info("grammar changed, re-synthesizing")
			if err := run(); err != nil {
				slog.Error("synthesis failed", slog.String("error", err.Error()))
			}
		}
	}
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), filepath.ToSlash(path)); err == nil && ok {
			return true
		}
	}
	return false
}
