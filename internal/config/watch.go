package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/movielog/movielog/internal/logger"
)

// WatchFile reloads the configuration whenever the config file changes on
// disk. It blocks until ctx is cancelled, so callers run it in a goroutine.
// Editors often replace files via rename, so the parent directory is watched
// rather than the file itself.
func (cm *ConfigManager) WatchFile(ctx context.Context, configPath string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(configPath)
	log := logger.Named("config")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Info("config file changed, reloading", "path", configPath)
			if err := cm.LoadConfig(configPath); err != nil {
				log.Error("config reload failed, keeping previous configuration", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "error", err)
		}
	}
}
