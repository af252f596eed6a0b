package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTab(t *testing.T) {
	tests := []struct {
		input   string
		want    Tab
		wantErr bool
	}{
		{"dashboard", TabDashboard, false},
		{"reports", TabReports, false},
		{"alerts", TabAlerts, false},
		{"Reports", "", true},
		{"", "", true},
		{"settings", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTab(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnknownTab))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTabs_RailOrder(t *testing.T) {
	assert.Equal(t, []Tab{TabDashboard, TabReports, TabAlerts}, Tabs())
	assert.Equal(t, "KRI Dashboard", TabDashboard.Title())
	assert.Equal(t, "Audit Reports", TabReports.Title())
	assert.Equal(t, "Active Alerts", TabAlerts.Title())
}

func TestParsePosture(t *testing.T) {
	assert.Equal(t, PostureNormal, ParsePosture(""))
	assert.Equal(t, PostureNormal, ParsePosture(" normal "))
	assert.Equal(t, RiskPosture("ELEVATED"), ParsePosture("elevated"))
}

func TestConnectionStatus_Badge(t *testing.T) {
	assert.Equal(t, "SYSTEM ONLINE", StatusOnline.Badge())
	assert.Equal(t, "CONNECTING", StatusConnecting.Badge())
	assert.Equal(t, "SYSTEM OFFLINE", StatusOffline.Badge())
	assert.Equal(t, "SYSTEM OFFLINE", ConnectionStatus("").Badge())
}

func TestDefaultScorecards(t *testing.T) {
	records := DefaultScorecards()
	require.Len(t, records, 2)

	assert.Equal(t, "ACCESS-01", records[0].ControlID)
	assert.Equal(t, "98.5%", records[0].Value)
	assert.False(t, records[0].Critical())

	assert.Equal(t, "DATA-DL-03", records[1].ControlID)
	assert.Equal(t, "C-", records[1].Grade)
	assert.True(t, records[1].Critical())
}

func TestFindScorecard(t *testing.T) {
	records := DefaultScorecards()

	rec, ok := FindScorecard(records, "DATA-DL-03")
	require.True(t, ok)
	assert.Equal(t, "45.2%", rec.Value)

	_, ok = FindScorecard(records, "data-dl-03")
	assert.False(t, ok, "lookup is exact")

	_, ok = FindScorecard(nil, "ACCESS-01")
	assert.False(t, ok)
}

func TestCloneScorecards(t *testing.T) {
	assert.Nil(t, CloneScorecards(nil))

	records := DefaultScorecards()
	clone := CloneScorecards(records)
	clone[0].Grade = "F"
	assert.Equal(t, "A+", records[0].Grade)
}
