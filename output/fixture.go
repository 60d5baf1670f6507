package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// WriteFixture writes canonical payload bytes to a regression fixture file,
// creating parent directories as needed.
func WriteFixture(path string, payloadJSON []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, payloadJSON, 0o644)
}

// ReadFixture loads a regression fixture into a generic tree.
func ReadFixture(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// FixtureRoundTripMatches writes the payload, reads it back, re-serializes
// canonically and compares bytes. This is the determinism contract the
// fixtures rely on.
func FixtureRoundTripMatches(path string, payloadJSON []byte) (bool, error) {
	if err := WriteFixture(path, payloadJSON); err != nil {
		return false, err
	}
	tree, err := ReadFixture(path)
	if err != nil {
		return false, err
	}
	again, err := MarshalCanonical(tree)
	if err != nil {
		return false, err
	}
	return bytes.Equal(again, payloadJSON), nil
}
