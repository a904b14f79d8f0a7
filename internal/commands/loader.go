package commands

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Warning is a non-fatal problem with the command-list file. The file is
// still loaded when Recovered is set.
type Warning struct {
	Path      string
	Err       error
	Recovered bool
}

func (w Warning) Error() string {
	if w.Recovered {
		return "trailing comma in " + filepath.Base(w.Path)
	}
	if errors.Is(w.Err, ErrListShape) {
		return "invalid command list in " + filepath.Base(w.Path) + ": " + w.Err.Error()
	}
	return "invalid JSON in " + filepath.Base(w.Path) + ": " + w.Err.Error()
}

func (w Warning) Unwrap() error { return w.Err }

// Loader reads every command source of a workspace.
type Loader struct {
	// Manifest is the manifest file name inside the workspace root.
	Manifest string
	// Runner prefixes manifest scripts ("<runner> run <script>"). Empty or
	// "auto" selects it from the workspace lock files.
	Runner string
	// ScanScripts enables the loose script scan.
	ScanScripts bool
	// ScriptExt is the loose script extension, including the dot.
	ScriptExt string
	Logger    *slog.Logger
}

// DefaultLoader returns a Loader with the stock manifest, runner detection
// and the .ps1 scan enabled.
func DefaultLoader() *Loader {
	return &Loader{
		Manifest:    DefaultManifest,
		Runner:      "auto",
		ScanScripts: true,
		ScriptExt:   DefaultScriptExt,
	}
}

// LoadCommands loads the workspace with DefaultLoader.
func LoadCommands(root, configFileName string) ([]Group, []Warning) {
	return DefaultLoader().Load(root, configFileName)
}

// Load reads the command-list file, the manifest scripts and the loose
// scripts under root and returns them grouped and ordered. It never fails;
// problems with the command-list file are returned as warnings and every
// other source problem yields an empty contribution.
func (l *Loader) Load(root, configFileName string) ([]Group, []Warning) {
	var warnings []Warning

	records, w := l.loadListFile(listPath(root, configFileName))
	if w != nil {
		warnings = append(warnings, *w)
	}
	records = append(records, l.loadManifest(root)...)
	if l.ScanScripts {
		records = append(records, l.loadScripts(root)...)
	}
	return groupRecords(records), warnings
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

func (l *Loader) loadListFile(path string) ([]Record, *Warning) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger().Debug("command list unreadable", "path", path, "err", err)
		}
		return nil, nil
	}
	doc, recovered, err := parseTolerant(data)
	if err != nil {
		return nil, &Warning{Path: path, Err: err}
	}
	if doc.shapeErr != nil {
		return nil, &Warning{Path: path, Err: doc.shapeErr}
	}
	records := doc.records()
	if dropped := len(doc.commands) - len(records); dropped > 0 {
		l.logger().Debug("dropped incomplete command entries", "path", path, "count", dropped)
	}
	if recovered {
		return records, &Warning{Path: path, Recovered: true}
	}
	return records, nil
}

func (l *Loader) runner(root string) string {
	if l.Runner == "" || l.Runner == "auto" {
		return DetectRunner(root)
	}
	return l.Runner
}

func (l *Loader) loadManifest(root string) []Record {
	name := l.Manifest
	if name == "" {
		name = DefaultManifest
	}
	path := filepath.Join(root, name)
	scripts, err := readManifestScripts(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger().Debug("manifest ignored", "path", path, "err", err)
		}
		return nil
	}
	runner := l.runner(root)
	out := make([]Record, 0, len(scripts))
	for _, s := range scripts {
		out = append(out, Record{
			Name:    s.name,
			Command: runner + " run " + s.name,
			Kind:    PlainShell,
			Group:   ManifestGroup,
			Detail:  s.body,
		})
	}
	return out
}

func (l *Loader) loadScripts(root string) []Record {
	ext := l.ScriptExt
	if ext == "" {
		ext = DefaultScriptExt
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		l.logger().Debug("script scan skipped", "root", root, "err", err)
		return nil
	}
	var out []Record
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		name := e.Name()
		out = append(out, Record{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Command: scriptInvocation(name),
			Kind:    PowerShell,
			Group:   ScriptsGroup,
			Detail:  name,
		})
	}
	return out
}

// scriptInvocation returns the argument handed to "pwsh -Command" for a
// script in the workspace root. Names needing quotes are run through the
// call operator so pwsh executes the path instead of echoing it.
func scriptInvocation(fileName string) string {
	rel := "./" + fileName
	if shellquote.Join(rel) == rel {
		return rel
	}
	return shellquote.Join("& '" + strings.ReplaceAll(rel, "'", "''") + "'")
}

// groupRecords partitions records by group name. User groups come first in
// collation order, followed by the manifest group and the scripts group.
func groupRecords(records []Record) []Group {
	index := map[string]int{}
	var all []Group
	for _, r := range records {
		if i, ok := index[r.Group]; ok {
			all[i].Commands = append(all[i].Commands, r)
			continue
		}
		index[r.Group] = len(all)
		all = append(all, Group{Name: r.Group, Source: sourceFor(r.Group), Commands: []Record{r}})
	}

	groups := make([]Group, 0, len(all))
	var manifest, scripts *Group
	for i := range all {
		switch all[i].Source {
		case ManifestScripts:
			manifest = &all[i]
		case LooseScripts:
			scripts = &all[i]
		default:
			groups = append(groups, all[i])
		}
	}
	sortGroupNames(groups)
	if manifest != nil {
		groups = append(groups, *manifest)
	}
	if scripts != nil {
		groups = append(groups, *scripts)
	}
	return groups
}

func sortGroupNames(groups []Group) {
	col := collate.New(language.Und)
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Name, groups[j].Name
		if c := col.CompareString(a, b); c != 0 {
			return c < 0
		}
		return a < b
	})
}
