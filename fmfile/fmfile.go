// Package fmfile holds the plumbing shared by every Flood Modeller file
// type: open-time path checks, the line codec that learns the source
// file's newline convention, relative path resolution against a file's own
// directory, and the APIError wrapper that stamps failures with the
// operation, filetype and filepath they belong to.
package fmfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// APIError wraps any failure raised while operating on a file with enough
// context to report it to a user: the operation that was attempted
// ("read", "write", "save", ...), the filetype and the filepath.
//
// Match with errors.As; the underlying cause is available via Unwrap.
type APIError struct {
	When     string
	Filetype string
	Filepath string
	Err      error
}

func (e *APIError) Error() string {
	path := e.Filepath
	if path == "" {
		path = "<in_memory>"
	}
	return fmt.Sprintf(
		"api error: problem encountered when trying to %s %s file %s: %v",
		e.When, e.Filetype, path, e.Err,
	)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap attaches operation context to err. A nil err stays nil.
func Wrap(err error, when, filetype, filepath string) error {
	if err == nil {
		return nil
	}
	return &APIError{When: when, Filetype: filetype, Filepath: filepath, Err: err}
}

// CheckPath verifies that path carries the expected suffix for filetype and
// points at an existing file. Suffix comparison is case-insensitive.
func CheckPath(path, suffix, filetype string) error {
	if !strings.EqualFold(filepath.Ext(path), suffix) {
		return fmt.Errorf(
			"given filepath does not point to a %s file, expected suffix %q", filetype, suffix)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s file does not exist: %w", filetype, err)
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("given filepath points to a directory, not a %s file", filetype)
	}
	return nil
}

// Layout records the byte-level conventions of a source file that are not
// part of its line contents: the newline sequence and whether the file
// ended with one. A freshly constructed document uses the defaults.
type Layout struct {
	Newline      string
	FinalNewline bool
}

// DefaultLayout is the convention used for documents built from scratch.
func DefaultLayout() Layout {
	return Layout{Newline: "\n", FinalNewline: true}
}

// SplitLines decomposes raw file bytes into lines with their terminators
// stripped, and reports the layout they were written with. A single CRLF
// anywhere marks the whole file as CRLF-terminated, matching how the
// engine writes these files.
func SplitLines(data []byte) ([]string, Layout) {
	layout := DefaultLayout()
	text := string(data)
	if strings.Contains(text, "\r\n") {
		layout.Newline = "\r\n"
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}
	layout.FinalNewline = strings.HasSuffix(text, "\n")
	if layout.FinalNewline {
		text = strings.TrimSuffix(text, "\n")
	}
	return strings.Split(text, "\n"), layout
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string, layout Layout) string {
	nl := layout.Newline
	if nl == "" {
		nl = "\n"
	}
	out := strings.Join(lines, nl)
	if layout.FinalNewline {
		out += nl
	}
	return out
}

// Resolve interprets p relative to the directory of owner, the file that
// referenced it. Absolute paths and references from in-memory documents
// (empty owner) pass through unchanged apart from cleaning.
func Resolve(owner, p string) string {
	if p == "" {
		return p
	}
	if filepath.IsAbs(p) || owner == "" {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(owner), p))
}

// WriteFile writes rendered document text, creating the parent directory
// if it does not yet exist.
func WriteFile(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
