package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

type script struct {
	name string
	body string
}

// lockfileRunners maps lock files to the package runner that wrote them,
// checked in order.
var lockfileRunners = []struct {
	file   string
	runner string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
}

// DetectRunner guesses the package runner of the workspace from its lock
// files, defaulting to npm.
func DetectRunner(root string) string {
	for _, lf := range lockfileRunners {
		if _, err := os.Stat(filepath.Join(root, lf.file)); err == nil {
			return lf.runner
		}
	}
	return "npm"
}

// readManifestScripts returns the string entries of the manifest's
// "scripts" table in document order. A missing table yields nil.
func readManifestScripts(path string) ([]script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	scripts, err := decodeScripts(data)
	if err == nil {
		return scripts, nil
	}
	if stripped := stripTrailingCommas(data); !bytes.Equal(stripped, data) {
		return decodeScripts(stripped)
	}
	return nil, err
}

func decodeScripts(data []byte) ([]script, error) {
	if !json.Valid(data) {
		return nil, errors.New("invalid JSON")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("manifest is not an object")
	}
	var scripts []script
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		if key != "scripts" {
			continue
		}
		scripts, err = orderedStrings(raw)
		if err != nil {
			return nil, err
		}
	}
	return scripts, nil
}

// orderedStrings decodes a JSON object keeping key order and dropping
// non-string values. A non-object value yields nil.
func orderedStrings(raw json.RawMessage) ([]script, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil
	}
	var out []script
	seen := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		var body string
		if json.Unmarshal(v, &body) != nil {
			continue
		}
		if i, dup := seen[name]; dup {
			out[i].body = body
			continue
		}
		seen[name] = len(out)
		out = append(out, script{name: name, body: body})
	}
	return out, nil
}
