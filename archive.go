package toolup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip extracts the zip archive at src into dir. Entries that would
// escape dir are rejected.
func ExtractZip(src, dir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(dir)
	for _, f := range r.File {
		dest := filepath.Join(root, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes destination: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0755); err != nil {
				return fmt.Errorf("create %s: %w", f.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("create parent of %s: %w", f.Name, err)
		}
		if err := extractZipFile(f, dest); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractZipFile(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

// PromoteRoot moves the contents of the single top-level directory inside
// stage into target. Release archives wrap their payload in one root folder;
// the wrapper itself never survives the move. If the staging area holds more
// than one directory, the first is taken; if it holds none, that's an error.
// The stage must live on the same volume as target so plain renames work.
func PromoteRoot(stage, target string) error {
	entries, err := os.ReadDir(stage)
	if err != nil {
		return fmt.Errorf("read staging directory: %w", err)
	}

	var root string
	for _, e := range entries {
		if e.IsDir() {
			root = filepath.Join(stage, e.Name())
			break
		}
	}
	if root == "" {
		return errors.New("archive has no top-level directory")
	}

	if err := EnsureDir(target); err != nil {
		return err
	}

	children, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read extracted directory: %w", err)
	}
	for _, c := range children {
		from := filepath.Join(root, c.Name())
		to := filepath.Join(target, c.Name())
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("move %s: %w", c.Name(), err)
		}
	}

	return nil
}
