package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/desk-metrics/internal/config"
)

func seedDataset(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := testPool.Exec(ctx, `TRUNCATE incidents, consultations`)
	require.NoError(t, err)

	created := time.Date(2025, 2, 4, 9, 0, 0, 0, time.UTC)
	resolved := created.Add(2 * time.Hour)

	_, err = testPool.Exec(ctx, `
		INSERT INTO incidents (number, created_at, resolved_at, location, assignment_group, resolved_by, reopen_count, made_sla)
		VALUES
			('INC001', $1, $2, 'Hoboken', 'Tech Spot Hoboken', 'Ada Park', 0, TRUE),
			('INC002', $1, NULL, 'Sunnyvale', 'Tech Spot Sunnyvale', '', NULL, NULL),
			('INC003', $1, $2, 'Test Lab', 'Tech Spot Lab', '', 0, TRUE)`,
		created, resolved)
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `
		INSERT INTO consultations (id, created_at, location, technician, issue, consult_type, completed, incident_number)
		VALUES
			('C1', $1, 'Hoboken', 'Ada Park', 'Password Reset', 'Software', TRUE, 'INC001'),
			('C2', $1, 'Test Lab', 'Mei Chen', 'VPN', 'Software', FALSE, '')`,
		created)
	require.NoError(t, err)
}

func testRules() *config.Reporting {
	return &config.Reporting{
		DefaultRegion: "Other",
		Regions: []config.RegionRule{
			{Name: "East Region", Locations: []string{"Hoboken"}},
		},
		ExcludeLocations: []string{"Test Lab"},
	}
}

func TestSourceLoadIncidents(t *testing.T) {
	seedDataset(t)
	src := NewSource(testPool, testRules())

	incidents, err := src.LoadIncidents(context.Background())
	require.NoError(t, err)

	// INC003 is in an excluded location.
	require.Len(t, incidents, 2)

	inc := incidents[0]
	assert.Equal(t, "INC001", inc.Number)
	assert.Equal(t, "East Region", inc.Region)
	require.NotNil(t, inc.ResolvedAt)
	require.NotNil(t, inc.ReopenCount)
	assert.Equal(t, 0, *inc.ReopenCount)
	require.NotNil(t, inc.MadeSLA)
	assert.True(t, *inc.MadeSLA)

	open := incidents[1]
	assert.Equal(t, "Other", open.Region)
	assert.Nil(t, open.ResolvedAt)
	assert.Nil(t, open.ReopenCount)
	assert.Nil(t, open.MadeSLA)
}

func TestSourceLoadConsultations(t *testing.T) {
	seedDataset(t)
	src := NewSource(testPool, testRules())

	consultations, err := src.LoadConsultations(context.Background())
	require.NoError(t, err)

	require.Len(t, consultations, 1)
	c := consultations[0]
	assert.Equal(t, "C1", c.ID)
	assert.Equal(t, "East Region", c.Region)
	assert.True(t, c.Completed)
	assert.Equal(t, "INC001", c.IncidentNumber)
}
