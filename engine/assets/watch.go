package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/emberengine/ember/engine/containers"
	"github.com/emberengine/ember/engine/core"
)

// Watcher observes an asset directory tree and buffers the paths of created
// or modified asset files. It never touches the loader itself: the frame
// loop drains Poll() and decides what to reload, so all loader mutation
// stays on the frame thread.
type Watcher struct {
	baseDir  string
	fsnotify *fsnotify.Watcher
	done     chan struct{}
	isClosed bool

	mutex   sync.Mutex
	changed *containers.RingQueue[string]
}

// Extensions the watcher reports on; everything else (editor swap files,
// directories and so on) is ignored.
var watchedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tga":  true,
	".fnt":  true,
	".toml": true,
	".spv":  true,
	".dat":  true,
}

func NewWatcher(baseDir string, queueSize int) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		baseDir:  baseDir,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		changed:  containers.NewRingQueue[string](queueSize),
	}

	go w.start()

	if err := w.watchRecursive(baseDir); err != nil {
		w.Close()
		return nil, err
	}

	return w, nil
}

func (w *Watcher) start() {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					w.watchRecursive(e.Name)
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.recordChange(e.Name)
			}

		case e, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (w *Watcher) watchRecursive(path string) error {
	if w.isClosed {
		return errors.New("watcher instance already closed")
	}
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		return nil
	})
}

func (w *Watcher) recordChange(path string) {
	if !watchedExtensions[strings.ToLower(filepath.Ext(path))] {
		return
	}

	// Report the path relative to the watched root so it matches the
	// source identifiers handed to the loader.
	if rel, err := filepath.Rel(w.baseDir, path); err == nil {
		path = filepath.ToSlash(rel)
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if err := w.changed.Enqueue(path); err != nil {
		core.LogWarn("asset change queue full, dropping '%s'", path)
	}
}

// Poll drains and returns the asset paths that changed since the last call.
// Meant to be called once per frame.
func (w *Watcher) Poll() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.changed.IsEmpty() {
		return nil
	}
	paths := make([]string, 0, w.changed.Len())
	for !w.changed.IsEmpty() {
		p, err := w.changed.Dequeue()
		if err != nil {
			break
		}
		paths = append(paths, p)
	}
	return paths
}

// Close stops the watch goroutine. Safe to call more than once.
func (w *Watcher) Close() {
	if w.isClosed {
		return
	}
	w.isClosed = true
	close(w.done)
}
