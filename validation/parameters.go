package validation

// EventParameters is the rule table for event-file (IEF) attributes,
// keyed by uppercase flag name. Flags without an entry are unchecked.
var EventParameters = map[string]Rule{
	"TITLE": StringLength{Max: 128},
	"RUNTYPE": ValueMatch{
		Options: []any{"Steady", "Unsteady", "Tidal"},
	},
	"START":          TypeMatch{Types: []Type{Int, Float}},
	"FINISH":         TypeMatch{Types: []Type{Int, Float}},
	"TIMESTEP":       TypeMatch{Types: []Type{Int, Float}},
	"SAVEINTERVAL":   TypeMatch{Types: []Type{Int, Float}},
	"OUTPUTINTERVAL": TypeMatch{Types: []Type{Int, Float}},
	"MAXITR":         TypeMatch{Types: []Type{Int}},
	"ICSFROM":        ValueMatch{Options: []any{int64(1), int64(2)}},
	"SLOT":           ValueRange{Min: 1, Max: 10},
	"THETA":          ValueRange{Min: 0.5, Max: 1},
	"LAUNCHDOUBLEPRECISIONVERSION": ValueMatch{
		Options: []any{int64(0), int64(1)},
	},
	"QUITATFAILEDICS": ValueMatch{Options: []any{int64(0), int64(1)}},
	"2DFILE":          SuffixMatch{Options: []string{".xml"}},
	"TIMEUNIT": TypeOrValueMatch{
		Types: []Type{Int, Float},
		Options: []any{
			"SECONDS", "MINUTES", "HOURS", "DAYS", "WEEKS",
			"FORTNIGHTS", "MONTHS", "QUARTERS", "YEARS", "DECADES",
		},
	},
	"NOOFFLOWTIMEPROFILES": TypeMatch{Types: []Type{Int}},
	"NOOFFLOWTIMESERIES":   TypeMatch{Types: []Type{Int}},
	"EVENTDATA": DictMatch{
		Each: TypeMatch{Types: []Type{String}},
	},
	"FLOWTIMEPROFILES": ListDictMatch{
		Required: map[string]Rule{
			"csv_filepath": TypeMatch{Types: []Type{String}},
			"file_type":    TypeMatch{Types: []Type{String}},
			"start_row":    TypeMatch{Types: []Type{Int}},
			"labels":       StringListLength{Max: 12},
		},
	},
}
