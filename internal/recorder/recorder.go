// Package recorder turns typed or piped lines into command-list records.
package recorder

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/VoxDroid/cmdpal/internal/commands"
)

// nameSep separates an explicit name from its command: "Build: make all".
const nameSep = ": "

// RecordLines reads lines from r until EOF and returns one record per
// non-empty, non-comment line. A line of the form "name: command" sets the
// name explicitly; a bare command is named after its first two words.
// Ctrl+Z (or a typed "^Z") ends input, as Windows consoles send it for EOF.
func RecordLines(r io.Reader, group string, kind commands.Kind) ([]commands.Record, error) {
	s := bufio.NewScanner(r)
	var out []commands.Record
	for s.Scan() {
		line, eof := cutEOF(s.Text())
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			name, command := splitLine(line)
			if command != "" {
				out = append(out, commands.Record{Name: name, Command: command, Kind: kind, Group: group})
			}
		}
		if eof {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}
	return out, nil
}

func cutEOF(line string) (string, bool) {
	if i := strings.IndexByte(line, 0x1A); i >= 0 {
		return line[:i], true
	}
	if i := strings.Index(line, "^Z"); i >= 0 {
		return line[:i], true
	}
	return line, false
}

// splitLine separates "name: command". The name part may not contain shell
// syntax or flags. A bare command that itself contains ": " must be given
// an explicit name.
func splitLine(line string) (name, command string) {
	if before, after, ok := strings.Cut(line, nameSep); ok && plausibleName(before) {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return defaultName(line), line
}

func plausibleName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, "|&;<>$`\"'(){}[]=*?~/\\") {
		return false
	}
	words, err := shellquote.Split(s)
	if err != nil || len(words) == 0 {
		return false
	}
	// a name starting with a flag is really a command
	return !strings.HasPrefix(words[0], "-") && !strings.HasPrefix(words[len(words)-1], "-")
}

func defaultName(command string) string {
	words, err := shellquote.Split(command)
	if err != nil {
		words = strings.Fields(command)
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

// SaveRecorded adds records to the workspace's command-list file and returns
// how many were new.
func SaveRecorded(root string, records []commands.Record, configFileName string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	return commands.AddCommands(root, records, configFileName)
}
