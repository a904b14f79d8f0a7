package commands

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

// Watch calls onChange whenever the command-list file, the manifest or a
// loose script in root is created, written, removed or renamed. It blocks
// until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context, root, configFileName string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	listFile := listPath(root, configFileName)
	if err := watcher.Add(root); err != nil {
		return err
	}
	if dir := filepath.Dir(listFile); filepath.Clean(dir) != filepath.Clean(root) {
		// the list file may live in a directory that does not exist yet
		if err := watcher.Add(dir); err != nil {
			l.logger().Debug("not watching command list directory", "dir", dir, "err", err)
		}
	}

	manifest := l.Manifest
	if manifest == "" {
		manifest = DefaultManifest
	}
	ext := l.ScriptExt
	if ext == "" {
		ext = DefaultScriptExt
	}
	relevant := func(name string) bool {
		name = filepath.Clean(name)
		switch {
		case name == filepath.Clean(listFile):
			return true
		case name == filepath.Join(root, manifest):
			return true
		case l.ScanScripts && filepath.Dir(name) == filepath.Clean(root) && strings.EqualFold(filepath.Ext(name), ext):
			return true
		}
		return false
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !relevant(event.Name) {
				continue
			}
			l.logger().Debug("workspace source changed", "path", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// watcher errors are non-fatal; keep watching
			l.logger().Warn("watch error", "err", werr)
		}
	}
}
