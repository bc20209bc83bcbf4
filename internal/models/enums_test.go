package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadStatusCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from LeadStatus
		to   LeadStatus
		want bool
	}{
		{"new to qualified", LeadNew, LeadQualified, true},
		{"qualified to converted", LeadQualified, LeadConverted, true},
		{"qualified to lost", LeadQualified, LeadLost, true},
		{"new to converted skips qualification", LeadNew, LeadConverted, false},
		{"new to lost skips qualification", LeadNew, LeadLost, false},
		{"converted is terminal", LeadConverted, LeadQualified, false},
		{"lost is terminal", LeadLost, LeadQualified, false},
		{"lost cannot convert", LeadLost, LeadConverted, false},
		{"no self transition", LeadQualified, LeadQualified, false},
		{"qualified cannot regress", LeadQualified, LeadNew, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestLeadStatusTerminal(t *testing.T) {
	assert.False(t, LeadNew.Terminal())
	assert.False(t, LeadQualified.Terminal())
	assert.True(t, LeadConverted.Terminal())
	assert.True(t, LeadLost.Terminal())
}

func TestLeadStatusValid(t *testing.T) {
	for _, s := range []LeadStatus{LeadNew, LeadQualified, LeadConverted, LeadLost} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, LeadStatus("Recycled").Valid())
	assert.False(t, LeadStatus("").Valid())
}

func TestStageClosed(t *testing.T) {
	assert.True(t, StageClosedWon.Closed())
	assert.True(t, StageClosedLost.Closed())
	assert.False(t, StageDiscovery.Closed())
	assert.False(t, StageProposal.Closed())
	assert.False(t, StageNegotiation.Closed())
}

func TestStageValid(t *testing.T) {
	for _, s := range []Stage{StageDiscovery, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, Stage("Hopeful").Valid())
}

func TestRelatedTypeValid(t *testing.T) {
	for _, rt := range []RelatedType{RelatedLead, RelatedAccount, RelatedOpportunity} {
		assert.True(t, rt.Valid(), string(rt))
	}
	// Contacts are deliberately not an activity target.
	assert.False(t, RelatedType("Contact").Valid())
	assert.False(t, RelatedType("lead").Valid(), "tags are case-sensitive")
}

func TestActivityTypeValid(t *testing.T) {
	for _, at := range []ActivityType{ActivityCall, ActivityEmail, ActivityMeeting, ActivityTask} {
		assert.True(t, at.Valid(), string(at))
	}
	assert.False(t, ActivityType("Carrier Pigeon").Valid())
}
