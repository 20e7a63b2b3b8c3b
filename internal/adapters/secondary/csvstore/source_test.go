package csvstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/desk-metrics/internal/config"
)

func testRules() *config.Reporting {
	return &config.Reporting{
		DefaultRegion: "Other",
		Regions: []config.RegionRule{
			{Name: "East Region", Locations: []string{"Hoboken"}},
			{Name: "IDC", Keywords: []string{"bengaluru"}},
		},
		ExcludeLocations: []string{"Test Lab"},
	}
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestSource(t *testing.T, incidentsCSV, consultationsCSV string) *Source {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSource(
		writeCSV(t, "incidents.csv", incidentsCSV),
		writeCSV(t, "consultations.csv", consultationsCSV),
		testRules(),
		logger,
	)
}

const incidentsHeader = "Number,Created,Opened,Resolved,Closed,Location,Assignment group,Resolved by,Reopen count,Reassignment count,Made SLA\n"

const consultationsHeader = "ID,Created,Modified,Location,Technician Name,Issue,Consultation Defined,Consult Complete,INC #\n"

func TestLoadIncidents(t *testing.T) {
	t.Run("parses full row", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader+
			"INC001,2025-02-04 09:15:00,2025-02-04 09:20:00,2025-02-04 11:15:00,2025-02-05 11:15:00,Hoboken,Tech Spot Hoboken,Ada Park (a0p01xy),0,1,true\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		require.Len(t, incidents, 1)

		inc := incidents[0]
		assert.Equal(t, "INC001", inc.Number)
		assert.Equal(t, time.Date(2025, 2, 4, 9, 15, 0, 0, time.UTC), inc.CreatedAt)
		require.NotNil(t, inc.ResolvedAt)
		assert.Equal(t, time.Date(2025, 2, 4, 11, 15, 0, 0, time.UTC), *inc.ResolvedAt)
		assert.Equal(t, "East Region", inc.Region)
		require.NotNil(t, inc.ReopenCount)
		assert.Equal(t, 0, *inc.ReopenCount)
		require.NotNil(t, inc.MadeSLA)
		assert.True(t, *inc.MadeSLA)
	})

	t.Run("blank optionals become nil", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader+
			"INC002,2025-02-05 10:00:00,,,,Sunnyvale,Tech Spot Sunnyvale,,,,\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		require.Len(t, incidents, 1)

		inc := incidents[0]
		assert.Nil(t, inc.ResolvedAt)
		assert.Nil(t, inc.ReopenCount)
		assert.Nil(t, inc.MadeSLA)
		assert.Equal(t, "Other", inc.Region)
	})

	t.Run("unreadable creation time skips the row", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader+
			"INC003,not-a-date,,,,Hoboken,,,,,\n"+
			"INC004,2025-02-06 08:00:00,,,,Hoboken,,,,,\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		require.Len(t, incidents, 1)
		assert.Equal(t, "INC004", incidents[0].Number)
	})

	t.Run("excluded location dropped", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader+
			"INC005,2025-02-06 08:00:00,,,,Test Lab,,,,,\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		assert.Empty(t, incidents)
	})

	t.Run("alternate date layouts", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader+
			"INC006,02/04/2025 09:15,,,,Hoboken,,,,,\n"+
			"INC007,2025-02-04,,,,Hoboken,,,,,\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		require.Len(t, incidents, 2)
		assert.Equal(t, time.Date(2025, 2, 4, 9, 15, 0, 0, time.UTC), incidents[0].CreatedAt)
		assert.Equal(t, time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC), incidents[1].CreatedAt)
	})

	t.Run("columns resolved by header name", func(t *testing.T) {
		// Same columns in a different order.
		src := newTestSource(t,
			"Created,Number,Location\n2025-02-04 09:00:00,INC008,Bengaluru EGL\n",
			consultationsHeader)

		incidents, err := src.LoadIncidents(context.Background())
		require.NoError(t, err)
		require.Len(t, incidents, 1)
		assert.Equal(t, "INC008", incidents[0].Number)
		assert.Equal(t, "IDC", incidents[0].Region)
	})

	t.Run("missing file", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		src := NewSource("/nonexistent/incidents.csv", "/nonexistent/consultations.csv", testRules(), logger)

		_, err := src.LoadIncidents(context.Background())
		assert.Error(t, err)
	})
}

func TestLoadConsultations(t *testing.T) {
	t.Run("parses full row", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader,
			consultationsHeader+
				"C1,2025-02-04 10:00:00,2025-02-04 10:30:00,Hoboken,Ada Park,Password Reset,Software,Yes,INC001\n"+
				"C2,2025-02-05 10:00:00,,Sunnyvale,Mei Chen,VPN,Software,No,\n")

		consultations, err := src.LoadConsultations(context.Background())
		require.NoError(t, err)
		require.Len(t, consultations, 2)

		c := consultations[0]
		assert.Equal(t, "C1", c.ID)
		assert.Equal(t, "East Region", c.Region)
		assert.Equal(t, "Password Reset", c.Issue)
		assert.Equal(t, "Software", c.Type)
		assert.True(t, c.Completed)
		assert.Equal(t, "INC001", c.IncidentNumber)

		assert.False(t, consultations[1].Completed)
		assert.False(t, consultations[1].HasIncident())
	})

	t.Run("cancelled context stops the load", func(t *testing.T) {
		src := newTestSource(t, incidentsHeader, consultationsHeader+
			"C3,2025-02-04 10:00:00,,Hoboken,Ada Park,VPN,Software,Yes,\n")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.LoadConsultations(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
