package hierarchy

import (
	_ "embed"
	"encoding/json"
)

// The built-in demo enterprise. Only the Americas region carries stored
// geometry; the rest is auto-laid out.
//
//go:embed sample.json
var sampleJSON []byte

// Sample returns a fresh copy of the built-in demo enterprise.
func Sample() *Enterprise {
	var e Enterprise
	if err := json.Unmarshal(sampleJSON, &e); err != nil {
		panic("hierarchy: embedded sample is invalid: " + err.Error())
	}
	return &e
}
