// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dispatch accepts a ProtocolEvent plus a stub id and runs the
// target stub's handler, per spec.md §4.6. Grounded on
// application/manager_application.py's dispatch path and libs/file_lib.py's
// DirChecker for change detection.
package dispatch

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/golang/glog"
	"go.uber.org/atomic"
)

// ChangeDetector watches a directory tree and reports whether anything
// under it has changed since the last check. file_lib.py's DirChecker polls
// mtimes on every dispatch call; this uses fsnotify to watch the tree
// continuously and latch a flag instead, since a filesystem watch is the
// idiomatic Go equivalent and avoids a full directory walk on every
// request.
type ChangeDetector struct {
	root    string
	watcher *fsnotify.Watcher
	changed atomic.Bool
	done    chan struct{}
}

// NewChangeDetector starts watching every directory under root.
func NewChangeDetector(root string) (*ChangeDetector, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	cd := &ChangeDetector{root: root, watcher: w, done: make(chan struct{})}
	if err := cd.watchRecursive(root); err != nil {
		w.Close()
		return nil, err
	}
	go cd.run()
	return cd, nil
}

func (cd *ChangeDetector) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return cd.watcher.Add(path)
		}
		return nil
	})
}

func (cd *ChangeDetector) run() {
	for {
		select {
		case ev, ok := <-cd.watcher.Events:
			if !ok {
				return
			}
			cd.changed.Store(true)
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					cd.watcher.Add(ev.Name)
				}
			}
		case err, ok := <-cd.watcher.Errors:
			if !ok {
				return
			}
			log.Warningf("dispatch: watch error on %s: %v", cd.root, err)
		case <-cd.done:
			return
		}
	}
}

// CheckAndReset reports whether the tree has changed since the previous
// call (or since NewChangeDetector, for the first call), clearing the flag.
func (cd *ChangeDetector) CheckAndReset() bool {
	return cd.changed.Swap(false)
}

// Close stops watching.
func (cd *ChangeDetector) Close() error {
	close(cd.done)
	return cd.watcher.Close()
}
