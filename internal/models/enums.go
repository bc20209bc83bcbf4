package models

import "strings"

// LeadStatus is the lead lifecycle state machine:
//
//	New → Qualified → Converted
//	                → Lost
//
// New and Qualified are working states; Converted and Lost are terminal.
// The schema stores the status as text with a CHECK list; the ORDER of
// transitions lives here, because a CHECK constraint can validate a value
// but not a move between values.
type LeadStatus string

const (
	LeadNew       LeadStatus = "New"
	LeadQualified LeadStatus = "Qualified"
	LeadConverted LeadStatus = "Converted"
	LeadLost      LeadStatus = "Lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s LeadStatus) Terminal() bool {
	return s == LeadConverted || s == LeadLost
}

// CanTransition reports whether s → to is a legal move.
// The only legal moves are New→Qualified and Qualified→{Converted, Lost}.
func (s LeadStatus) CanTransition(to LeadStatus) bool {
	switch s {
	case LeadNew:
		return to == LeadQualified
	case LeadQualified:
		return to == LeadConverted || to == LeadLost
	}
	return false
}

// Stage is the ordered pipeline position of an opportunity.
type Stage string

const (
	StageDiscovery   Stage = "Discovery"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageClosedWon   Stage = "Closed Won"
	StageClosedLost  Stage = "Closed Lost"
)

func (s Stage) Valid() bool {
	switch s {
	case StageDiscovery, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// Closed reports whether the deal is resolved (won or lost).
// The revenue forecast drops closed deals from the open pipeline, and it
// matches on the "Closed" prefix — keep this predicate and the view's
// `stage NOT LIKE 'Closed%'` filter saying the same thing.
func (s Stage) Closed() bool {
	return strings.HasPrefix(string(s), "Closed")
}

// ForecastCategory classifies an opportunity for weighted-revenue rollups.
// It is an input from the rep, not derived from stage.
type ForecastCategory string

const (
	ForecastPipeline ForecastCategory = "Pipeline"
	ForecastBestCase ForecastCategory = "Best Case"
	ForecastCommit   ForecastCategory = "Commit"
	ForecastClosed   ForecastCategory = "Closed"
	ForecastOmitted  ForecastCategory = "Omitted"
)

// RelatedType tags the target table of a polymorphic activity reference.
type RelatedType string

const (
	RelatedLead        RelatedType = "Lead"
	RelatedAccount     RelatedType = "Account"
	RelatedOpportunity RelatedType = "Opportunity"
)

func (t RelatedType) Valid() bool {
	switch t {
	case RelatedLead, RelatedAccount, RelatedOpportunity:
		return true
	}
	return false
}

// ActivityType is the kind of logged interaction.
type ActivityType string

const (
	ActivityCall    ActivityType = "Call"
	ActivityEmail   ActivityType = "Email"
	ActivityMeeting ActivityType = "Meeting"
	ActivityTask    ActivityType = "Task"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityTask:
		return true
	}
	return false
}

// ActivityStatus is the completion state of an activity.
type ActivityStatus string

const (
	ActivityOpen      ActivityStatus = "Open"
	ActivityCompleted ActivityStatus = "Completed"
	ActivityCanceled  ActivityStatus = "Canceled"
)
