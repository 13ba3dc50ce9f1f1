package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/assetcanvas/pkg/errors"
	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// ReadJSON decodes a JSON enterprise from r.
//
// ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_FORMAT)
//   - A node has an empty or duplicate id, or a negative size (see
//     [hierarchy.Validate])
//
// Parent back-references (regionId, plantId, ...) are rewritten to match
// the actual tree so that a hand-edited file cannot disagree with itself.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*hierarchy.Enterprise, error) {
	var e hierarchy.Enterprise
	dec := json.NewDecoder(r)
	if err := dec.Decode(&e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode enterprise")
	}
	hierarchy.Relink(&e)
	if err := hierarchy.Validate(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ImportJSON reads a JSON file at path and returns the decoded enterprise.
func ImportJSON(path string) (*hierarchy.Enterprise, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
