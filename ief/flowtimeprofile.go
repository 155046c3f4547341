package ief

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/People-Places-Solutions/floodmodeller-api-go/fmfile"
)

const (
	flowTimeProfilePrefix = "FlowTimeProfile"
	noOfProfilesFlag      = "NoOfFlowTimeProfiles"
	noOfSeriesFlag        = "NoOfFlowTimeSeries"
)

// FlowTimeProfile is one flow/time profile declaration: a single
// comma-separated line nested in an event file that points the engine at a
// column range of an external CSV file.
type FlowTimeProfile struct {
	Labels      []string
	Columns     []int // 1-based column indices into the CSV
	StartRow    int
	CSVFilepath string
	FileType    string
	Profile     string
	Comment     string

	// csvfile is the filepath resolved against the owning document's
	// directory. Derived; excluded from equality.
	csvfile string
}

// ParseFlowTimeProfile decodes one raw profile line. A comma inside double
// quotes does not split fields. owner is the filepath of the document the
// line belongs to, used to resolve the CSV reference; it may be empty.
func ParseFlowTimeProfile(raw, owner string) (FlowTimeProfile, error) {
	fields := splitQuoted(raw)
	if len(fields) < 5 {
		return FlowTimeProfile{}, newError(KindFormat,
			fmt.Sprintf("flow time profile needs at least 5 fields, got %d: %q", len(fields), raw))
	}

	var p FlowTimeProfile
	p.Labels = strings.Fields(fields[0])
	for _, col := range strings.Fields(fields[1]) {
		n, err := strconv.Atoi(col)
		if err != nil {
			return FlowTimeProfile{}, wrapError(KindFormat,
				fmt.Sprintf("flow time profile column index %q is not an integer", col), err)
		}
		p.Columns = append(p.Columns, n)
	}
	start, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return FlowTimeProfile{}, wrapError(KindFormat,
			fmt.Sprintf("flow time profile start row %q is not an integer", fields[2]), err)
	}
	p.StartRow = start
	p.CSVFilepath = trimQuotes(fields[3])
	p.FileType = fields[4]
	if len(fields) > 5 {
		p.Profile = fields[5]
	}
	if len(fields) > 6 {
		p.Comment = strings.Join(fields[6:], ",")
	}
	p.resolveAgainst(owner)
	return p, nil
}

// String re-serializes the profile to its single-line form. Fields that
// contain a comma are quoted; empty trailing profile and comment fields
// are omitted so short source lines round-trip without dangling commas.
func (p *FlowTimeProfile) String() string {
	fields := []string{
		strings.Join(p.Labels, " "),
		joinInts(p.Columns),
		strconv.Itoa(p.StartRow),
		p.CSVFilepath,
		p.FileType,
	}
	if p.Profile != "" || p.Comment != "" {
		fields = append(fields, p.Profile)
	}
	if p.Comment != "" {
		fields = append(fields, p.Comment)
	}
	for i, f := range fields {
		fields[i] = quoteIfComma(f)
	}
	return strings.Join(fields, ",")
}

// Equal compares field by field, ignoring the resolved CSV path.
func (p *FlowTimeProfile) Equal(other *FlowTimeProfile) bool {
	if len(p.Labels) != len(other.Labels) || len(p.Columns) != len(other.Columns) {
		return false
	}
	for i := range p.Labels {
		if p.Labels[i] != other.Labels[i] {
			return false
		}
	}
	for i := range p.Columns {
		if p.Columns[i] != other.Columns[i] {
			return false
		}
	}
	return p.StartRow == other.StartRow &&
		p.CSVFilepath == other.CSVFilepath &&
		p.FileType == other.FileType &&
		p.Profile == other.Profile &&
		p.Comment == other.Comment
}

// CountSeries reports how many data series the profile contributes. For
// the "fm1" file type the referenced CSV supplies every series it holds,
// so the file's header row has to be consulted: two leading rows are
// skipped and the header's field count minus the leading time column is
// returned. Any other type contributes one series per declared column.
//
// The CSV is opened transiently; the handle never outlives the call.
func (p *FlowTimeProfile) CountSeries() (int, error) {
	if !strings.EqualFold(p.FileType, "fm1") {
		return len(p.Columns), nil
	}
	path := p.csvfile
	if path == "" {
		path = fmfile.Resolve("", p.CSVFilepath)
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, wrapError(KindResource,
			fmt.Sprintf("cannot open flow time profile csv %q", path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	for i := 0; i < 2; i++ {
		if _, err := r.Read(); err != nil {
			return 0, wrapError(KindResource,
				fmt.Sprintf("flow time profile csv %q has no header", path), err)
		}
	}
	header, err := r.Read()
	if err == io.EOF {
		return 0, newError(KindResource,
			fmt.Sprintf("flow time profile csv %q has no header", path))
	}
	if err != nil {
		return 0, wrapError(KindResource,
			fmt.Sprintf("cannot read flow time profile csv %q", path), err)
	}
	if len(header) < 1 {
		return 0, nil
	}
	return len(header) - 1, nil
}

func (p *FlowTimeProfile) resolveAgainst(owner string) {
	if p.CSVFilepath == "" {
		p.csvfile = ""
		return
	}
	p.csvfile = fmfile.Resolve(owner, p.CSVFilepath)
}

// splitQuoted splits on commas, treating a double-quoted run as a single
// unit. Quotes are kept in the field text; only fields where the quoting
// is structural (the CSV filepath) strip them afterwards.
func splitQuoted(raw string) []string {
	var fields []string
	var b strings.Builder
	inQuote := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == ',' && !inQuote:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	fields = append(fields, b.String())
	return fields
}

func trimQuotes(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// quoteIfComma wraps a comma-bearing field in double quotes. A field that
// already carries its own outer quotes is left alone rather than double
// quoting it.
func quoteIfComma(field string) string {
	if !strings.Contains(field, ",") {
		return field
	}
	if strings.HasPrefix(field, `"`) && strings.HasSuffix(field, `"`) {
		return field
	}
	return `"` + field + `"`
}

func joinInts(ints []int) string {
	parts := make([]string, len(ints))
	for i, n := range ints {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}
