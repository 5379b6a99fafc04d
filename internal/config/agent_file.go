package config

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"whatsapp-autoreply/internal/validation"
	"whatsapp-autoreply/pkg/models"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// LoadAgentFile reads and validates a YAML agent config
func LoadAgentFile(path string) (models.AgentConfig, error) {
	var cfg models.AgentConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read agent file: %w", err)
	}
	// Editors truncate before writing; an empty file is never a valid config
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, fmt.Errorf("agent file %s is empty", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse agent file %s: %w", path, err)
	}
	if err := validation.AgentConfig(cfg); err != nil {
		return cfg, fmt.Errorf("agent file %s: %w", path, err)
	}
	return cfg, nil
}

// WatchAgentFile calls onChange with the freshly loaded config whenever the
// file is written or recreated. Invalid versions are logged and skipped.
// Call the returned stop function to clean up.
func WatchAgentFile(path string, onChange func(models.AgentConfig)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("agent file watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("agent file watcher add %s: %w", path, err)
	}

	target := filepath.Clean(path)
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					cfg, err := LoadAgentFile(path)
					if err != nil {
						log.Printf("Ignoring agent file change: %v", err)
						continue
					}
					onChange(cfg)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("Agent file watcher error: %v", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
