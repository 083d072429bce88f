// NetPilot Core
// Copyright (c) 2026 The NetPilot Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of NetPilot Core.
//
// NetPilot Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// NetPilot Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with NetPilot Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher reloads a config instance when its file changes on disk.
// Editors tend to fire several events per save, so reloads are debounced.
type Watcher struct {
	cfg      *Instance
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// StartWatcher begins watching the config file's directory. The directory is
// watched rather than the file itself so atomic rename-style saves are seen.
func StartWatcher(cfg *Instance) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(cfg.Path())); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		watcher:  fsw,
		stopChan: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.watchEvents()

	log.Debug().Msgf("watching config file: %s", cfg.Path())

	return w, nil
}

// Stop ends the watch. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		_ = w.watcher.Close()
		w.wg.Wait()
	})
}

func (w *Watcher) watchEvents() {
	defer w.wg.Done()

	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	reloadPending := false

	for {
		select {
		case <-w.stopChan:
			debounceTimer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.cfg.Path() {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			reloadPending = true
			debounceTimer.Reset(100 * time.Millisecond)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("fsnotify error")

		case <-debounceTimer.C:
			if !reloadPending {
				continue
			}
			reloadPending = false
			if err := w.cfg.Load(); err != nil {
				log.Warn().Err(err).Msg("config changed on disk but reload failed")
				continue
			}
			log.Info().Msg("config reloaded from disk")
		}
	}
}
