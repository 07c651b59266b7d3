package syncx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-maturity/internal/db"
)

func TestEventRepoRecordAndList(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test?mode=memory&cache=shared")
	require.NoError(t, err)
	defer dbh.Close()

	repo := NewEventRepo(dbh, "")
	require.NoError(t, repo.Record(ctx, TypeAssessmentSaved, "u1", map[string]int{"answered": 5}))
	require.NoError(t, repo.Record(ctx, TypeAssessmentReset, "u1", nil))
	require.NoError(t, repo.Record(ctx, TypeAssessmentSaved, "u2", nil))

	events, err := repo.List(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, TypeAssessmentReset, events[0].Type)
	assert.Equal(t, TypeAssessmentSaved, events[1].Type)
	assert.JSONEq(t, `{"answered":5}`, events[1].DataJSON)
	assert.Equal(t, "local", events[1].SiteID)

	events, err = repo.List(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	events, err = repo.List(ctx, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
