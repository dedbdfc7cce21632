package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTicketRequest_Patch(t *testing.T) {
	cases := []struct {
		name         string
		body         string
		wantAssignee bool
		wantUserID   *string
	}{
		{name: "absent assignee", body: `{"title":"new"}`},
		{name: "null assignee", body: `{"assignee_id":null}`, wantAssignee: true},
		{name: "set assignee", body: `{"assignee_id":"u-1"}`, wantAssignee: true, wantUserID: strPtr("u-1")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req UpdateTicketRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))

			patch := req.Patch()
			if !tc.wantAssignee {
				assert.Nil(t, patch.Assignee)
				return
			}
			require.NotNil(t, patch.Assignee)
			assert.Equal(t, tc.wantUserID, patch.Assignee.UserID)
		})
	}
}

func TestUpdateTicketRequest_RejectsNonStringAssignee(t *testing.T) {
	var req UpdateTicketRequest
	assert.Error(t, json.Unmarshal([]byte(`{"assignee_id":42}`), &req))
}

func TestUpdateTicketRequest_EmptyBodyIsEmptyPatch(t *testing.T) {
	var req UpdateTicketRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.Patch().Empty())
}

func strPtr(s string) *string { return &s }
