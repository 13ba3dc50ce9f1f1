package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// WriteJSON encodes e as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(e *hierarchy.Enterprise, w io.Writer) error {
	if e == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil enterprise")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode enterprise")
	}
	return nil
}

// ExportJSON writes e to a JSON file at path. A directory path receives
// a file named by [ExportFilename] for the current day.
func ExportJSON(e *hierarchy.Enterprise, path string) (string, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		path = filepath.Join(path, ExportFilename(time.Now()))
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return path, WriteJSON(e, f)
}

// ExportFilename returns the download name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "enterprise_data_" + t.Format("2006-01-02") + ".json"
}
