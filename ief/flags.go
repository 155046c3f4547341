package ief

import "strings"

// Group names as they appear in bracketed section headers.
const (
	groupEventHeader      = "ISIS Event Header"
	groupEventDetails     = "ISIS Event Details"
	groupBoundaryAdjust   = "Boundary Adjustments"
	groupOutputOccasional = "ISIS Output Occasional"
	groupFlowTimeProfiles = "Flow Time Profiles"
)

// flagGroups is the registry of legal event-file flags, keyed by uppercase
// flag name, mapping each to the group header it is written under. An
// attribute whose name is absent here is kept in memory but omitted from
// serialization with a warning.
var flagGroups = map[string]string{
	// [ISIS Event Header]
	"TITLE":             groupEventHeader,
	"PATH":              groupEventHeader,
	"DATAFILE":          groupEventHeader,
	"RESULTS":           groupEventHeader,
	"INITIALCONDITIONS": groupEventHeader,

	// [ISIS Event Details]
	"RUNTYPE":                      groupEventDetails,
	"START":                        groupEventDetails,
	"FINISH":                       groupEventDetails,
	"TIMESTEP":                     groupEventDetails,
	"SAVEINTERVAL":                 groupEventDetails,
	"OUTPUTINTERVAL":               groupEventDetails,
	"TIMEUNIT":                     groupEventDetails,
	"ICSFROM":                      groupEventDetails,
	"EVENTDATA":                    groupEventDetails,
	"ICSUPPLEMENTARYFILE":          groupEventDetails,
	"QUITATFAILEDICS":              groupEventDetails,
	"RULESATFAILEDICS":             groupEventDetails,
	"WARMUPTIME":                   groupEventDetails,
	"MAXITR":                       groupEventDetails,
	"MINITR":                       groupEventDetails,
	"THETA":                        groupEventDetails,
	"ALPHA":                        groupEventDetails,
	"SLOT":                         groupEventDetails,
	"LAUNCHDOUBLEPRECISIONVERSION": groupEventDetails,
	"2DFILE":                       groupEventDetails,
	"2DFLOW":                       groupEventDetails,
	"2DOPTIONS":                    groupEventDetails,
	"2DTIMESTEP":                   groupEventDetails,
	"2DDOUBLEPRECISION":            groupEventDetails,
	"FLOWSCALING":                  groupEventDetails,
	"ADDITIONALPARAMETERS":         groupEventDetails,

	// [Boundary Adjustments]
	"BOUNDARYMODE":  groupBoundaryAdjust,
	"GLOBALSCALING": groupBoundaryAdjust,
	"RAINFALLONLY":  groupBoundaryAdjust,

	// [ISIS Output Occasional]
	"OCCASIONALSTART":  groupOutputOccasional,
	"OCCASIONALFINISH": groupOutputOccasional,
	"OCCASIONALFREQ":   groupOutputOccasional,

	// [Flow Time Profiles]
	"NOOFFLOWTIMEPROFILES": groupFlowTimeProfiles,
	"NOOFFLOWTIMESERIES":   groupFlowTimeProfiles,
	"FLOWTIMEPROFILE":      groupFlowTimeProfiles,
}

// flagGroup resolves the owning group for a flag name, handling the
// numbered FlowTimeProfile flags that cannot appear literally in the table.
func flagGroup(name string) (string, bool) {
	if isFlowTimeProfile(name) {
		return groupFlowTimeProfiles, true
	}
	group, ok := flagGroups[strings.ToUpper(name)]
	return group, ok
}
