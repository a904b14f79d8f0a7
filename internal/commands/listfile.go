package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrListShape reports a command-list file whose "commands" value is not an
// array.
var ErrListShape = errors.New(`"commands" must be an array`)

// listEntry is the on-disk shape of one command-list entry.
type listEntry struct {
	Name    string `json:"name"`
	Command string `json:"command"`
	Type    string `json:"type"`
	Group   string `json:"group,omitempty"`
	Cwd     string `json:"cwd,omitempty"`
}

var knownEntryKeys = map[string]bool{"name": true, "command": true, "type": true, "group": true, "cwd": true}

func (e listEntry) effectiveGroup() string {
	if e.Group == "" {
		return DefaultGroup
	}
	return e.Group
}

// record converts a list entry to a Record. ok is false when a required
// field is missing or the type is unknown.
func (e listEntry) record() (Record, bool) {
	if e.Name == "" || e.Command == "" || e.Type == "" {
		return Record{}, false
	}
	kind, err := ParseKind(e.Type)
	if err != nil {
		return Record{}, false
	}
	return Record{
		Name:    e.Name,
		Command: e.Command,
		Kind:    kind,
		Group:   e.effectiveGroup(),
		Cwd:     e.Cwd,
	}, true
}

func entryFromRecord(r Record) listEntry {
	group := r.Group
	if group == "" {
		group = DefaultGroup
	}
	return listEntry{Name: r.Name, Command: r.Command, Type: r.Kind.String(), Group: group, Cwd: r.Cwd}
}

// listDocument is a parsed command-list file. Entries are kept raw so that
// a rewrite does not disturb entries this package does not understand.
type listDocument struct {
	extra    map[string]json.RawMessage
	commands []json.RawMessage
	// shapeErr is set when "commands" was present but not an array. Loaders
	// report it; read-modify-write callers replace the value with an array.
	shapeErr error
}

func emptyDocument() *listDocument {
	return &listDocument{extra: map[string]json.RawMessage{}}
}

// entry decodes the i-th command. ok is false if it is not an object with
// string fields.
func (d *listDocument) entry(i int) (listEntry, bool) {
	var e listEntry
	if err := json.Unmarshal(d.commands[i], &e); err != nil {
		return listEntry{}, false
	}
	return e, true
}

// indexOf returns the position of the entry matching name and group, or -1.
func (d *listDocument) indexOf(name, group string) int {
	for i := range d.commands {
		e, ok := d.entry(i)
		if !ok {
			continue
		}
		if e.Name == name && e.effectiveGroup() == group {
			return i
		}
	}
	return -1
}

func (d *listDocument) append(r Record) error {
	raw, err := marshalNoEscape(entryFromRecord(r))
	if err != nil {
		return err
	}
	d.commands = append(d.commands, raw)
	return nil
}

// setGroup rewrites the group of the i-th entry, keeping any unknown keys.
func (d *listDocument) setGroup(i int, group string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.commands[i], &fields); err != nil {
		return err
	}
	for k := range fields {
		if !knownEntryKeys[k] {
			g, err := marshalNoEscape(group)
			if err != nil {
				return err
			}
			fields["group"] = g
			raw, err := marshalNoEscape(fields)
			if err != nil {
				return err
			}
			d.commands[i] = raw
			return nil
		}
	}
	e, ok := d.entry(i)
	if !ok {
		return fmt.Errorf("entry %d is not a command object", i)
	}
	e.Group = group
	raw, err := marshalNoEscape(e)
	if err != nil {
		return err
	}
	d.commands[i] = raw
	return nil
}

func (d *listDocument) marshal() ([]byte, error) {
	out := make(map[string]any, len(d.extra)+1)
	for k, v := range d.extra {
		out[k] = v
	}
	cmds := d.commands
	if cmds == nil {
		cmds = []json.RawMessage{}
	}
	out["commands"] = cmds

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// decodeDocument parses a command-list document strictly. A missing
// "commands" key yields no entries; a non-array value also yields none and
// sets shapeErr.
func decodeDocument(data []byte) (*listDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	if top == nil {
		return nil, errors.New("document is not an object")
	}
	doc := emptyDocument()
	for k, v := range top {
		if k == "commands" {
			var cmds []json.RawMessage
			if err := json.Unmarshal(v, &cmds); err != nil {
				doc.shapeErr = fmt.Errorf("%w, got %s", ErrListShape, jsonKind(v))
				continue
			}
			doc.commands = cmds
			continue
		}
		doc.extra[k] = v
	}
	return doc, nil
}

// jsonKind names the JSON type of a raw value for error messages.
func jsonKind(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "nothing"
	}
	switch v[0] {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// parseTolerant parses data, retrying once with trailing commas removed.
// recovered reports that the retry was needed and succeeded.
func parseTolerant(data []byte) (doc *listDocument, recovered bool, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	doc, err = decodeDocument(data)
	if err == nil {
		return doc, false, nil
	}
	stripped := stripTrailingCommas(data)
	if bytes.Equal(stripped, data) {
		return nil, false, err
	}
	doc, retryErr := decodeDocument(stripped)
	if retryErr != nil {
		return nil, false, retryErr
	}
	return doc, true, nil
}

// stripTrailingCommas removes commas that are directly followed (modulo
// whitespace) by a closing bracket or brace. String literals are left alone.
func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ',':
			j := i + 1
			for j < len(data) && isJSONSpace(data[j]) {
				j++
			}
			if j < len(data) && (data[j] == ']' || data[j] == '}') {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ListPath resolves the command-list file inside root. An absolute
// configFileName is used as is.
func ListPath(root, configFileName string) string { return listPath(root, configFileName) }

func listPath(root, configFileName string) string {
	if configFileName == "" {
		configFileName = DefaultConfigFile
	}
	if filepath.IsAbs(configFileName) {
		return configFileName
	}
	return filepath.Join(root, configFileName)
}

// readForUpdate loads the document for a read-modify-write. Missing,
// unreadable or invalid files yield ok == false.
func readForUpdate(path string) (doc *listDocument, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return emptyDocument(), false
	}
	doc, _, err = parseTolerant(data)
	if err != nil {
		return emptyDocument(), false
	}
	return doc, true
}

// writeDocument writes doc to path via a temp file and rename so readers
// never observe a partial file.
func writeDocument(path string, doc *listDocument) (err error) {
	data, err := doc.marshal()
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	mode := os.FileMode(0o644)
	if fi, statErr := os.Stat(path); statErr == nil {
		mode = fi.Mode().Perm()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(dir, ".commands-*.json.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
