package gen

import (
	"os"
	"path/filepath"
)

// WriteFiles replaces the output directory with the given files. The
// directory is owned by the generator: it is removed with everything in
// it and recreated before the files are written.
func WriteFiles(dir string, files []*File) error {
	if err := checkTarget(dir); err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return NewGenerationError("write", dir, "cannot clear output directory", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewGenerationError("write", dir, "cannot create output directory", err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return NewGenerationError("write", f.Name, "cannot write artifact", err)
		}
	}
	return nil
}

// checkTarget refuses output directories whose removal would take the
// working directory or a filesystem root with it.
func checkTarget(dir string) error {
	if dir == "" {
		return NewConfigError("Target", nil, "target directory cannot be empty")
	}
	clean := filepath.Clean(dir)
	if clean == "." || clean == ".." || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
		return NewConfigError("Target", dir, "refusing to clear this directory")
	}
	return nil
}
