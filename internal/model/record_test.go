package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		ok    bool
	}{
		{"spam", CategorySpam, true},
		{"urgent", CategoryUrgent, true},
		{"informational", CategoryInformational, true},
		{"needs_review", CategoryNeedsReview, true},
		{"new", CategoryUnclassified, false},
		{"error", CategoryUnclassified, false},
		{"Urgent", CategoryUnclassified, false},
		{"", CategoryUnclassified, false},
		{"promotional", CategoryUnclassified, false},
	}

	for _, tt := range tests {
		got, ok := ParseCategory(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.input)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusProcessed.Terminal())
	assert.True(t, StatusApprovedForSending.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestNewRecordInitialState(t *testing.T) {
	rec := NewRecord("42", "Hello", "a@example.com", "<p>Hi</p>", "Hi")

	assert.Equal(t, "42", rec.ID)
	assert.Equal(t, CategoryUnclassified, rec.Category)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Nil(t, rec.FinalResponse)
	assert.False(t, rec.RequiresReview)
}

func TestApproveSetsFinalResponse(t *testing.T) {
	rec := NewRecord("1", "s", "a@example.com", "b", "b")
	rec.Draft = "draft text"

	rec.Approve(rec.Draft)

	require.NotNil(t, rec.FinalResponse)
	assert.Equal(t, "draft text", *rec.FinalResponse)
	assert.Equal(t, StatusApprovedForSending, rec.Status)
}

func TestRejectClearsFinalResponse(t *testing.T) {
	rec := NewRecord("1", "s", "a@example.com", "b", "b")
	rec.Draft = "draft text"
	rec.Approve(rec.Draft)

	rec.Reject()

	assert.Nil(t, rec.FinalResponse)
	assert.Equal(t, StatusRejected, rec.Status)
}
