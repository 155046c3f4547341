// Package backup keeps conditional copies of every model file opened
// through the API, so an edit session can always be rolled back to the
// bytes that were on disk when the file was first read.
//
// Backups live in a single directory under the OS temp dir. Each file is
// identified by a CID of its absolute path (the same file name may be
// mirrored across project trees), each backup copy is timestamped, and a
// new copy is only taken when the file content differs from the newest
// existing backup. A CSV index logs every copy taken.
package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/People-Places-Solutions/floodmodeller-api-go/cidutil"
)

const (
	dirName   = "floodmodeller_api_backup"
	indexName = "file-backups.csv"
	stampFmt  = "2006-01-02-15-04-05"
)

var stampPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}`)

// Store is one backup directory plus its CSV index.
type Store struct {
	dir       string
	indexPath string
}

// Open initialises (creating if needed) the backup store under root. An
// empty root selects the OS temp dir, which is where the API keeps its
// backups by default.
func Open(root string) (*Store, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("init backup directory: %w", err)
	}
	s := &Store{dir: dir, indexPath: filepath.Join(dir, indexName)}
	if _, err := os.Stat(s.indexPath); os.IsNotExist(err) {
		if err := os.WriteFile(s.indexPath, []byte("path,file_id,dttm\n"), 0o644); err != nil {
			return nil, fmt.Errorf("init backup index: %w", err)
		}
		slog.Info("initialised backup directory", "dir", dir)
	}
	return s, nil
}

// Dir returns the directory backups are written to.
func (s *Store) Dir() string {
	return s.dir
}

// File binds a source file to the store. The file must exist.
func (s *Store) File(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	return &File{
		store: s,
		path:  abs,
		id:    cidutil.PathID(abs),
		ext:   filepath.Ext(abs),
	}, nil
}

// File is one tracked source file and its backup history.
type File struct {
	store *Store
	path  string
	id    string
	ext   string
}

// ID is the file's stable identifier, a CID of its absolute path.
func (f *File) ID() string {
	return f.id
}

// Path is the absolute path of the tracked source file.
func (f *File) Path() string {
	return f.path
}

// Backup copies the file into the store unless the newest existing backup
// already holds identical content.
func (f *File) Backup() error {
	backups, err := f.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) > 0 {
		current, err := cidutil.FileSum(f.path)
		if err != nil {
			return err
		}
		newest, err := cidutil.FileSum(backups[0].Path)
		if err == nil && newest == current {
			return nil
		}
	}
	return f.makeBackup()
}

func (f *File) makeBackup() error {
	stamp := time.Now().Format(stampFmt)
	name := f.id + "_" + stamp + f.ext
	target := filepath.Join(f.store.dir, name)
	// Two distinct versions within the same second must not overwrite each
	// other; a numeric suffix keeps them ordered after the bare name.
	for n := 1; ; n++ {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			break
		}
		target = filepath.Join(f.store.dir, fmt.Sprintf("%s_%s_%d%s", f.id, stamp, n, f.ext))
	}
	if err := copyFile(f.path, target); err != nil {
		return err
	}
	idx, err := os.OpenFile(f.store.indexPath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer idx.Close()
	// The index is re-read with encoding/csv, so rows must be quoted the
	// same way; source paths may contain commas.
	w := csv.NewWriter(idx)
	if err := w.Write([]string{f.path, f.id, stamp}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Snapshot is one backed-up version of a file.
type Snapshot struct {
	FileID string
	Path   string
	Taken  time.Time
}

// Restore copies the snapshot's bytes to the given location.
func (s Snapshot) Restore(to string) error {
	return copyFile(s.Path, to)
}

// ListBackups returns the file's backups, newest first.
func (f *File) ListBackups() ([]Snapshot, error) {
	matches, err := filepath.Glob(filepath.Join(f.store.dir, f.id+"_*"))
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	snapshots := make([]Snapshot, 0, len(matches))
	for _, m := range matches {
		taken, err := parseStamp(m)
		if err != nil {
			slog.Warn("skipping unparseable backup file", "path", m, "error", err)
			continue
		}
		snapshots = append(snapshots, Snapshot{FileID: f.id, Path: m, Taken: taken})
	}
	return snapshots, nil
}

// Clear removes the file's backups and drops its rows from the index.
func (f *File) Clear() error {
	matches, err := filepath.Glob(filepath.Join(f.store.dir, f.id+"_*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return err
		}
	}
	return f.store.dropIndexRows(f.id)
}

func (s *Store) dropIndexRows(fileID string) error {
	src, err := os.Open(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	var kept [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(record) >= 2 && record[1] == fileID {
			continue
		}
		kept = append(kept, record)
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(kept); err != nil {
		return err
	}
	w.Flush()
	return os.WriteFile(s.indexPath, []byte(b.String()), 0o644)
}

func parseStamp(path string) (time.Time, error) {
	match := stampPattern.FindString(filepath.Base(path))
	if match == "" {
		return time.Time{}, fmt.Errorf("no timestamp in backup name %q", filepath.Base(path))
	}
	return time.Parse(stampFmt, match)
}

func copyFile(from, to string) error {
	data, err := os.ReadFile(from)
	if err != nil {
		return err
	}
	return os.WriteFile(to, data, 0o644)
}
