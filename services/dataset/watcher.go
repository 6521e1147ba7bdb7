package dataset

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Watcher invalidates a loader whenever its local dataset file changes.
type Watcher struct {
	loader *Loader
	path   string
	w      *fsnotify.Watcher
}

func NewWatcher(ctx context.Context, l *Loader) (*Watcher, error) {
	if l.source.CachePath() != "" {
		return nil, errors.New("only local datasets can be watched")
	}
	path, err := l.source.Path(ctx)
	if err != nil {
		return nil, err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create watcher")
	}
	// Watching the directory survives editors replacing the file.
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "failed to watch %v", path)
	}
	return &Watcher{
		loader: l,
		path:   path,
		w:      w,
	}, nil
}

func (s *Watcher) Serve() error {
	log.Infof("watching dataset %v", s.path)
	for {
		select {
		case ev, ok := <-s.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			log.Infof("dataset %v changed (%v), invalidating", s.path, ev.Op)
			if err := s.loader.Invalidate(); err != nil {
				log.WithError(err).Error("failed to invalidate dataset")
			}
		case err, ok := <-s.w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("dataset watcher error")
		}
	}
}

func (s *Watcher) Close() {
	_ = s.w.Close()
}
