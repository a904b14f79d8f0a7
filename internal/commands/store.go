package commands

import "os"

// Every mutation below is a fresh read-modify-write of the whole file.
// Nothing serializes overlapping calls; the last writer wins.

// AddCommand appends r to the command-list file unless an entry with the
// same name and group already exists. An unreadable or invalid file is
// treated as an empty document. Only write failures are returned.
func AddCommand(root string, r Record, configFileName string) error {
	_, err := AddCommands(root, []Record{r}, configFileName)
	return err
}

// AddCommands appends every record that is not already present and writes
// the file once. It returns the number of records added.
func AddCommands(root string, records []Record, configFileName string) (int, error) {
	path := listPath(root, configFileName)
	doc, _ := readForUpdate(path)

	added := 0
	for _, r := range records {
		if r.Group == "" {
			r.Group = DefaultGroup
		}
		if doc.indexOf(r.Name, r.Group) >= 0 {
			continue
		}
		if err := doc.append(r); err != nil {
			return added, err
		}
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := writeDocument(path, doc); err != nil {
		return 0, err
	}
	return added, nil
}

// MoveCommand moves the entry (name, sourceGroup) to targetGroup. It returns
// false when no such entry exists, or when targetGroup already holds a
// command with the same name.
func MoveCommand(root, name, sourceGroup, targetGroup, configFileName string) (bool, error) {
	path := listPath(root, configFileName)
	doc, ok := readForUpdate(path)
	if !ok {
		return false, nil
	}
	if sourceGroup == "" {
		sourceGroup = DefaultGroup
	}
	if targetGroup == "" {
		targetGroup = DefaultGroup
	}
	i := doc.indexOf(name, sourceGroup)
	if i < 0 {
		return false, nil
	}
	if sourceGroup == targetGroup {
		return true, nil
	}
	if doc.indexOf(name, targetGroup) >= 0 {
		return false, nil
	}
	if err := doc.setGroup(i, targetGroup); err != nil {
		return false, err
	}
	if err := writeDocument(path, doc); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveGroup deletes every entry whose group is groupName and returns how
// many were removed. The file is only rewritten when the count is non-zero.
func RemoveGroup(root, groupName, configFileName string) (int, error) {
	path := listPath(root, configFileName)
	doc, ok := readForUpdate(path)
	if !ok {
		return 0, nil
	}

	kept := doc.commands[:0:0]
	removed := 0
	for i, raw := range doc.commands {
		if e, ok := doc.entry(i); ok && e.effectiveGroup() == groupName {
			removed++
			continue
		}
		kept = append(kept, raw)
	}
	if removed == 0 {
		return 0, nil
	}
	doc.commands = kept
	if err := writeDocument(path, doc); err != nil {
		return 0, err
	}
	return removed, nil
}

// ListFileRecords returns the valid records of the command-list file in
// file order. It is used by export and by collaborators that need to know
// what is user-editable.
func ListFileRecords(root, configFileName string) []Record {
	doc, ok := readForUpdate(listPath(root, configFileName))
	if !ok {
		return nil
	}
	return doc.records()
}

func (d *listDocument) records() []Record {
	out := make([]Record, 0, len(d.commands))
	for i := range d.commands {
		e, ok := d.entry(i)
		if !ok {
			continue
		}
		if r, ok := e.record(); ok {
			out = append(out, r)
		}
	}
	return out
}

// ReadListFile parses the command-list file at path. Unlike the loaders it
// reports a missing or invalid file as an error.
func ReadListFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, _, err := parseTolerant(data)
	if err != nil {
		return nil, &Warning{Path: path, Err: err}
	}
	if doc.shapeErr != nil {
		return nil, &Warning{Path: path, Err: doc.shapeErr}
	}
	return doc.records(), nil
}

// WriteListFile writes records to path as a new command-list file,
// replacing whatever was there.
func WriteListFile(path string, records []Record) error {
	doc := emptyDocument()
	for _, r := range records {
		if err := doc.append(r); err != nil {
			return err
		}
	}
	return writeDocument(path, doc)
}
