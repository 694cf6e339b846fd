package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/investmatch/admin-backend/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "report update",
			payload: `{"type":"report_update","payload":{"id":"` + id.String() + `","status":"resolved"}}`,
		},
		{
			name:    "new report",
			payload: `{"type":"new_report","payload":{"id":"` + id.String() + `","status":"pending"}}`,
		},
		{
			name:    "unknown type",
			payload: `{"type":"report_deleted","payload":{}}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			payload: `{"type":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, ev.Report.ID)
		})
	}
}

func TestParseEventRoundTripsPublishedPayload(t *testing.T) {
	report := moderation.Event{
		Type: moderation.EventNewReport,
	}
	report.Report.ID = uuid.New()
	report.Report.Status = moderation.StatusPending
	report.Report.Reason = "spam"

	// Publish marshals with the same struct tags ParseEvent reads.
	data, err := json.Marshal(report)
	require.NoError(t, err)

	ev, err := ParseEvent(data)
	require.NoError(t, err)
	assert.Equal(t, report.Type, ev.Type)
	assert.Equal(t, report.Report.ID, ev.Report.ID)
	assert.Equal(t, "spam", ev.Report.Reason)
}
