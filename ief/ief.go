// Package ief reads, edits and writes Flood Modeller event files (.ief):
// line-oriented flag=value text grouped under bracketed section headers.
// A parsed document preserves its source layout, so reading a file and
// writing it straight back reproduces it byte for byte; edits touch only
// the lines they concern.
package ief

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/People-Places-Solutions/floodmodeller-api-go/backup"
	"github.com/People-Places-Solutions/floodmodeller-api-go/fmfile"
	"github.com/People-Places-Solutions/floodmodeller-api-go/scalar"
	"github.com/People-Places-Solutions/floodmodeller-api-go/validation"
)

const (
	// Filetype names the format in error messages.
	Filetype = "IEF"
	// Suffix is the file extension event files must carry.
	Suffix = ".ief"
)

// Document is an event file held in memory. Attribute names are
// case-insensitive: Get("Title") and Get("TITLE") address the same slot,
// and the slot keeps the spelling it was created with.
type Document struct {
	path     string
	attrs    *attrMap
	tokens   []token
	profiles []FlowTimeProfile
	layout   fmfile.Layout

	blankLineBetweenGroups bool
	spacedAssignment       bool

	backupFile *backup.File
}

// New returns a blank document carrying the minimal template: a title,
// datafile and results slot, and a steady run starting at zero with
// initial conditions from the datafile.
func New() *Document {
	d := &Document{
		attrs:  newAttrMap(),
		layout: fmfile.DefaultLayout(),
	}
	d.tokens = []token{
		groupHeaderToken(groupEventHeader),
		propertyToken("Title"),
		propertyToken("Datafile"),
		propertyToken("Results"),
		groupHeaderToken(groupEventDetails),
		propertyToken("RunType"),
		propertyToken("Start"),
		propertyToken("ICsFrom"),
	}
	d.attrs.setParsed("Title", `""`)
	d.attrs.setParsed("Datafile", `""`)
	d.attrs.setParsed("Results", `""`)
	d.attrs.setParsed("RunType", "Steady")
	d.attrs.setParsed("Start", "0")
	d.attrs.setParsed("ICsFrom", "1")
	return d
}

// Read loads an event file from disk. The file is snapshotted into the
// backup store before anything else touches it; backup trouble is logged,
// never fatal.
func Read(path string) (*Document, error) {
	if err := fmfile.CheckPath(path, Suffix, Filetype); err != nil {
		return nil, fmfile.Wrap(err, "read", Filetype, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmfile.Wrap(err, "read", Filetype, path)
	}
	backupFile := snapshotOnRead(abs)

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmfile.Wrap(err, "read", Filetype, abs)
	}
	d, err := parseBytes(data, abs)
	if err != nil {
		return nil, fmfile.Wrap(err, "read", Filetype, abs)
	}
	d.backupFile = backupFile
	return d, nil
}

func snapshotOnRead(abs string) *backup.File {
	store, err := backup.Open("")
	if err != nil {
		slog.Warn("backup store unavailable", "error", err)
		return nil
	}
	file, err := store.File(abs)
	if err != nil {
		slog.Warn("cannot register file for backup", "path", abs, "error", err)
		return nil
	}
	if err := file.Backup(); err != nil {
		slog.Warn("backup failed", "path", abs, "error", err)
	}
	return file
}

// Filepath is the absolute path the document was read from or last saved
// to; empty for an in-memory document.
func (d *Document) Filepath() string {
	return d.path
}

// BackupFile exposes the backup-store handle for the source file, or nil
// for in-memory documents (or when the store was unavailable at read
// time).
func (d *Document) BackupFile() *backup.File {
	return d.backupFile
}

// Get returns the attribute stored under name, any case.
func (d *Document) Get(name string) (any, bool) {
	return d.attrs.get(name)
}

// GetString returns the attribute as its rendered text form: the
// preserved source token when the value is untouched, otherwise the
// canonical formatting of the current value. Slots holding structured
// values (the EventData store) have no single-line text form and report
// false.
func (d *Document) GetString(name string) (string, bool) {
	value, raw, ok := d.attrs.lookup(name)
	if !ok {
		return "", false
	}
	if raw != "" {
		return raw, true
	}
	switch value.(type) {
	case string, int64, float64, bool:
		return scalar.Format(value), true
	}
	return "", false
}

// Set assigns an attribute. New names only appear in the output if the
// flag registry knows them; unknown names are kept in memory and logged
// at write time.
func (d *Document) Set(name string, value any) {
	if strings.EqualFold(name, eventDataFlag) {
		// Keep the reserved slot under its canonical spelling no matter
		// what case the caller used.
		d.attrs.rename(name, eventDataFlag)
		d.attrs.set(eventDataFlag, value)
		return
	}
	d.attrs.set(name, value)
}

// Delete removes an attribute; its line disappears from the next write.
func (d *Document) Delete(name string) bool {
	return d.attrs.delete(name)
}

// Attrs returns the attribute names in document order.
func (d *Document) Attrs() []string {
	return d.attrs.names()
}

// EventData returns the document's repeated-key store, creating an empty
// one on first use. Entries added to it become EventData lines on the
// next write, each preceded by a comment carrying its title.
func (d *Document) EventData() *EventStore {
	if store := d.eventStore(); store != nil {
		return store
	}
	store := NewEventStore()
	d.attrs.set(eventDataFlag, store)
	return store
}

// FlowTimeProfiles returns the live sub-record list. Mutating the
// returned slice's elements edits the document.
func (d *Document) FlowTimeProfiles() []FlowTimeProfile {
	return d.profiles
}

// AddFlowTimeProfile appends a sub-record. The count flags and the
// numbered lines are derived from the list at write time.
func (d *Document) AddFlowTimeProfile(p FlowTimeProfile) {
	d.profiles = append(d.profiles, p)
}

// SetFlowTimeProfiles replaces the sub-record list. An empty list removes
// the whole "[Flow Time Profiles]" block from the output.
func (d *Document) SetFlowTimeProfiles(profiles []FlowTimeProfile) {
	d.profiles = profiles
}

// Write renders the document to text: derived structures are resynced,
// every attribute with a declared rule is validated, and only then is the
// output produced. A validation error names every failing attribute and
// nothing is rendered.
func (d *Document) Write() (string, error) {
	text, err := d.write()
	if err != nil {
		return "", fmfile.Wrap(err, "write", Filetype, d.path)
	}
	return text, nil
}

func (d *Document) write() (string, error) {
	if err := d.reconcile(); err != nil {
		return "", err
	}
	if err := d.validate(); err != nil {
		return "", err
	}
	return d.render()
}

// Update writes the document back to the file it came from.
func (d *Document) Update() error {
	if d.path == "" {
		return fmfile.Wrap(newError(KindConfiguration,
			"document has no filepath; use Save first"), "update", Filetype, "")
	}
	text, err := d.write()
	if err != nil {
		return fmfile.Wrap(err, "update", Filetype, d.path)
	}
	if err := fmfile.WriteFile(d.path, text); err != nil {
		return fmfile.Wrap(err, "update", Filetype, d.path)
	}
	return nil
}

// Save writes the document to a new location and rebinds it there, so
// later relative CSV references and Update calls use the new path.
func (d *Document) Save(path string) error {
	if !strings.EqualFold(filepath.Ext(path), Suffix) {
		return fmfile.Wrap(newError(KindConfiguration,
			"save path must carry the "+Suffix+" suffix"), "save", Filetype, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmfile.Wrap(err, "save", Filetype, path)
	}
	prev := d.path
	d.path = abs
	text, err := d.write()
	if err != nil {
		d.path = prev
		return fmfile.Wrap(err, "save", Filetype, abs)
	}
	if err := fmfile.WriteFile(abs, text); err != nil {
		d.path = prev
		return fmfile.Wrap(err, "save", Filetype, abs)
	}
	return nil
}

// validate snapshots the attribute map plus the sub-record list and runs
// the declared rule table over it.
func (d *Document) validate() error {
	var attrs []validation.Attr
	for _, name := range d.attrs.names() {
		value, _ := d.attrs.get(name)
		if store, ok := value.(*EventStore); ok {
			value = store.AsMap()
		}
		attrs = append(attrs, validation.Attr{Name: name, Value: value})
	}
	if len(d.profiles) > 0 {
		attrs = append(attrs, validation.Attr{
			Name:  "FlowTimeProfiles",
			Value: profileMaps(d.profiles),
		})
	}
	context := d.path
	if context == "" {
		context = "in-memory " + Filetype + " document"
	}
	if err := validation.Validate(context, attrs, validation.EventParameters); err != nil {
		return wrapError(KindValidation, err.Error(), err)
	}
	return nil
}

func profileMaps(profiles []FlowTimeProfile) []map[string]any {
	out := make([]map[string]any, len(profiles))
	for i, p := range profiles {
		out[i] = map[string]any{
			"labels":       p.Labels,
			"columns":      p.Columns,
			"start_row":    int64(p.StartRow),
			"csv_filepath": p.CSVFilepath,
			"file_type":    p.FileType,
		}
	}
	return out
}

// Diff reports every difference between two documents' contents: their
// attributes, repeated-key stores and sub-record lists. Filepaths and
// layout are not content and are not compared.
func (d *Document) Diff(other *Document) []Difference {
	var diffs []Difference

	seen := map[string]bool{}
	for _, name := range d.attrs.names() {
		key := strings.ToLower(name)
		seen[key] = true
		a, _ := d.attrs.get(name)
		b, ok := other.attrs.get(name)
		if !ok {
			diffs = append(diffs, Difference{Name: name, Reason: "missing from other"})
			continue
		}
		if !valuesEqual(a, b) {
			diffs = append(diffs, Difference{Name: name, Reason: "values differ"})
		}
	}
	for _, name := range other.attrs.names() {
		if !seen[strings.ToLower(name)] {
			diffs = append(diffs, Difference{Name: name, Reason: "missing from this document"})
		}
	}

	if len(d.profiles) != len(other.profiles) {
		diffs = append(diffs, Difference{
			Name:   "FlowTimeProfiles",
			Reason: "profile counts differ",
		})
		return diffs
	}
	for i := range d.profiles {
		if !d.profiles[i].Equal(&other.profiles[i]) {
			diffs = append(diffs, Difference{
				Name:   "FlowTimeProfiles",
				Reason: "profiles differ",
			})
			break
		}
	}
	return diffs
}

// Equal reports whether two documents carry the same content.
func (d *Document) Equal(other *Document) bool {
	return len(d.Diff(other)) == 0
}

// Difference is one divergence found by Diff.
type Difference struct {
	Name   string
	Reason string
}

func valuesEqual(a, b any) bool {
	as, aok := a.(*EventStore)
	bs, bok := b.(*EventStore)
	if aok || bok {
		if !aok || !bok {
			return false
		}
		if as.Len() != bs.Len() {
			return false
		}
		for i := 0; i < as.Len(); i++ {
			if as.At(i) != bs.At(i) {
				return false
			}
		}
		return true
	}
	return sameScalar(a, b)
}
