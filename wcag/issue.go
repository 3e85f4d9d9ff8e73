// Package wcag implements the accessibility compliance engine and the
// heuristic suggestion scanner. Both emit graded issues tagged with WCAG
// criteria; the engine additionally derives an achieved conformance level.
package wcag

import "encoding/json"

// Severity grades an issue. Only errors block a report.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Level is a WCAG conformance level.
type Level int

const (
	LevelA Level = iota
	LevelAA
	LevelAAA
)

func (l Level) String() string {
	switch l {
	case LevelA:
		return "A"
	case LevelAA:
		return "AA"
	default:
		return "AAA"
	}
}

func (l Level) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// Issue is a single compliance finding. Immutable once created.
type Issue struct {
	Severity   Severity       `json:"severity"`
	Rule       string         `json:"rule_id"`
	WCAG       string         `json:"wcag,omitempty"`
	Level      Level          `json:"level"`
	Selector   string         `json:"selector,omitempty"`
	Message    string         `json:"message"`
	Suggestion string         `json:"suggestion,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// Report is the derived outcome of a compliance check. Passes holds
// exactly when ErrorCount is zero; AchievedLevel is nil when even level A
// is not met.
type Report struct {
	Passes        bool    `json:"passes"`
	Issues        []Issue `json:"issues"`
	ErrorCount    int     `json:"error_count"`
	WarningCount  int     `json:"warning_count"`
	InfoCount     int     `json:"info_count"`
	AchievedLevel *Level  `json:"achieved_level"`
}

// buildReport derives counts, pass flag and the achieved conformance level
// from a list of issues. The level derivation is a lattice walk over
// error-severity issues, mirroring WCAG's nested conformance: an error
// tagged A fails everything, an AA error caps the result at A, an AAA
// error caps it at AA.
func buildReport(issues []Issue) Report {
	rpt := Report{Issues: issues}
	if rpt.Issues == nil {
		rpt.Issues = make([]Issue, 0)
	}

	failedA, failedAA, failedAAA := false, false, false
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			rpt.ErrorCount++
			switch issue.Level {
			case LevelA:
				failedA = true
			case LevelAA:
				failedAA = true
			case LevelAAA:
				failedAAA = true
			}
		case SeverityWarning:
			rpt.WarningCount++
		case SeverityInfo:
			rpt.InfoCount++
		}
	}

	rpt.Passes = rpt.ErrorCount == 0

	switch {
	case failedA:
		rpt.AchievedLevel = nil
	case failedAA:
		rpt.AchievedLevel = levelPtr(LevelA)
	case failedAAA:
		rpt.AchievedLevel = levelPtr(LevelAA)
	default:
		rpt.AchievedLevel = levelPtr(LevelAAA)
	}
	return rpt
}

func levelPtr(l Level) *Level {
	return &l
}
