package cleanup

import "strings"

// Plan is the set of actions derived from a trigger label.
type Plan struct {
	SweepSystemTemp        bool
	SweepUserProfiles      bool
	ThoroughProfileSweep   bool
	EmptyDiscardArea       bool
	SweepBrowserCachesOnly bool
}

// fullPlan runs for manual triggers and any label not in the table.
var fullPlan = Plan{
	SweepSystemTemp:      true,
	SweepUserProfiles:    true,
	ThoroughProfileSweep: true,
	EmptyDiscardArea:     true,
}

var plans = map[string]Plan{
	"system startup": {
		SweepSystemTemp:   true,
		SweepUserProfiles: true,
		EmptyDiscardArea:  true,
	},
	"user logon": {
		SweepUserProfiles: true,
		EmptyDiscardArea:  true,
	},
	"user logoff": {
		SweepUserProfiles:    true,
		ThoroughProfileSweep: true,
		EmptyDiscardArea:     true,
	},
	"resume from sleep": {
		SweepSystemTemp: true,
	},
	"system shutdown": {
		SweepBrowserCachesOnly: true,
	},
}

// PlanFor maps a trigger label to its plan. Matching is case-insensitive;
// unknown labels get the full plan.
func PlanFor(trigger string) Plan {
	if p, ok := plans[strings.ToLower(strings.TrimSpace(trigger))]; ok {
		return p
	}
	return fullPlan
}

// FullPlan returns the plan used for manual and unrecognized triggers.
func FullPlan() Plan {
	return fullPlan
}

func (p Plan) String() string {
	var parts []string
	if p.SweepSystemTemp {
		parts = append(parts, "system-temp")
	}
	if p.SweepUserProfiles {
		if p.ThoroughProfileSweep {
			parts = append(parts, "profiles(thorough)")
		} else {
			parts = append(parts, "profiles")
		}
	}
	if p.SweepBrowserCachesOnly {
		parts = append(parts, "browser-caches")
	}
	if p.EmptyDiscardArea {
		parts = append(parts, "recycle-bin")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " -> ")
}
