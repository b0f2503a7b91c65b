package xbrl

import "strings"

// PeriodRole classifies which reporting period a context id refers to.
// Ids that match none of the known TDnet naming patterns yield a role
// carrying the original id verbatim.
type PeriodRole string

const (
	PeriodCurrent        PeriodRole = "current"
	PeriodCurrentInstant PeriodRole = "current_instant"
	PeriodPrior          PeriodRole = "prior"
	PeriodPriorInstant   PeriodRole = "prior_instant"
	PeriodPriorQuarter   PeriodRole = "prior_quarter"
	PeriodForecast       PeriodRole = "forecast"
)

var periodLabels = map[PeriodRole]string{
	PeriodCurrent:        "当期",
	PeriodCurrentInstant: "当期末",
	PeriodPrior:          "前期",
	PeriodPriorInstant:   "前期末",
	PeriodPriorQuarter:   "前四半期",
	PeriodForecast:       "予想",
}

// Known reports whether the role is one of the classified periods rather
// than a passthrough context id.
func (r PeriodRole) Known() bool {
	_, ok := periodLabels[r]
	return ok
}

// Label returns the Japanese display name for classified roles and the
// raw context id for everything else.
func (r PeriodRole) Label() string {
	if l, ok := periodLabels[r]; ok {
		return l
	}
	return string(r)
}

// Current reports whether the role belongs to the current reporting period.
func (r PeriodRole) Current() bool {
	return r == PeriodCurrent || r == PeriodCurrentInstant
}

// Prior reports whether the role belongs to the prior reporting period.
func (r PeriodRole) Prior() bool {
	return r == PeriodPrior || r == PeriodPriorInstant || r == PeriodPriorQuarter
}

// Classify maps a context id to its period role using ordered,
// case-insensitive substring rules. Rule order matters: a leading "prior"
// wins over an embedded quarter marker, so PriorQuarterDuration reads as
// the prior year while NonConsolidatedPriorQuarterInstant reaches the
// quarter rule.
//
// Typical TDnet context ids:
//
//	CurrentYearDuration                                          → current
//	PriorYearInstant                                             → prior_instant
//	CurrentAccumulatedQ3Duration_ConsolidatedMember_ResultMember → current
//	NextAccumulatedFYDuration_ConsolidatedMember_ForecastMember  → forecast
func Classify(contextRef string) PeriodRole {
	cr := strings.ToLower(contextRef)

	if strings.Contains(cr, "forecast") || strings.Contains(cr, "nextaccumulated") {
		return PeriodForecast
	}

	if strings.HasPrefix(cr, "prior") || strings.Contains(cr, "prioryear") ||
		strings.Contains(cr, "prior1year") || strings.Contains(cr, "prioraccumulated") {
		if strings.Contains(cr, "instant") {
			return PeriodPriorInstant
		}
		return PeriodPrior
	}

	if strings.Contains(cr, "priorquarter") || strings.Contains(cr, "prior1quarter") {
		return PeriodPriorQuarter
	}

	if strings.HasPrefix(cr, "current") || strings.Contains(cr, "currentyear") ||
		strings.Contains(cr, "currentaccumulated") {
		if strings.Contains(cr, "instant") {
			return PeriodCurrentInstant
		}
		return PeriodCurrent
	}

	if strings.Contains(cr, "prior") {
		if strings.Contains(cr, "instant") {
			return PeriodPriorInstant
		}
		return PeriodPrior
	}
	if strings.Contains(cr, "current") {
		if strings.Contains(cr, "instant") {
			return PeriodCurrentInstant
		}
		return PeriodCurrent
	}

	return PeriodRole(contextRef)
}
