package compiler

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/vertexgen/compiler/gen"
	"github.com/syssam/vertexgen/compiler/load"
)

// watchDelay coalesces the bursts of events editors produce on save.
const watchDelay = 100 * time.Millisecond

// Watch generates once and then again every time the catalogue or its
// schema changes, until ctx is done. A failing run is logged and leaves
// the last good output in place.
func Watch(ctx context.Context, catalogPath string, cfg *gen.Config, opts ...Option) error {
	o, err := newOptions(opts...)
	if err != nil {
		return err
	}
	schemaPath := o.schemaPath
	if schemaPath == "" {
		schemaPath = load.SchemaPath(catalogPath)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Directories are watched since editors replace files on save.
	watched := map[string]bool{
		filepath.Clean(catalogPath): true,
		filepath.Clean(schemaPath):  true,
	}
	for path := range watched {
		if err := w.Add(filepath.Dir(path)); err != nil {
			return err
		}
	}

	log := logger(cfg)
	run := func() {
		err := func() error {
			g, err := loadGraph(catalogPath, cfg, o)
			if err != nil {
				return err
			}
			return g.Gen(ctx)
		}()
		if err != nil {
			log.Error("generation failed, keeping previous output", "catalog", catalogPath, "error", err)
		}
		if o.notify != nil {
			o.notify(err)
		}
	}
	run()

	timer := time.NewTimer(watchDelay)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			log.Debug("catalogue changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(watchDelay)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer.C:
			run()
		}
	}
}
