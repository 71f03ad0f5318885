package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectCityCountryAndTop(mock sqlmock.Sqlmock, date string) {
	mock.ExpectQuery(`(?s)SELECT.*c\.city.*GROUP BY c\.city, c\.country.*LIMIT 100`).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"city", "country", "comment_count", "total_score"}).
			AddRow("Paris", "France", 4, 11))
	mock.ExpectQuery(`(?s)SELECT.*GROUP BY c\.country.*LIMIT 50`).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"country", "comment_count", "total_score"}).
			AddRow("France", 9, 17))
	mock.ExpectQuery(`(?s)SELECT.*ORDER BY score DESC.*LIMIT 50`).
		WithArgs(date).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "likes", "dislikes", "score", "pin_name", "lng", "lat", "city", "country"}).
			AddRow("c1", "great spot", 7, 2, 5, "Fountain", 2.1, 48.8, "Paris", "France"))
}

func TestGenerateHeatmapForExplicitDay(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewHeatmapService(gdb)

	mock.ExpectQuery(`(?s)SELECT.*FROM pins p.*HAVING COUNT\(c\.id\) > 0.*LIMIT 200`).
		WithArgs("2024-06-01").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "lng", "lat", "city", "country", "comment_count", "total_score", "top_comment_score",
		}).AddRow("p1", "Fountain", 2.1, 48.8, "Paris", "France", 3, 8, 6))
	expectCityCountryAndTop(mock, "2024-06-01")

	hm, err := svc.Generate(context.Background(), "2024-06-01", nil, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", hm.Date)
	require.Len(t, hm.Pins, 1)
	assert.Equal(t, 3, hm.Pins[0].CommentCount)
	assert.Equal(t, 8, hm.Pins[0].TotalScore)
	assert.Equal(t, 6, hm.Pins[0].TopCommentScore)
	require.Len(t, hm.Cities, 1)
	assert.Equal(t, "Paris", hm.Cities[0].City)
	require.Len(t, hm.Countries, 1)
	assert.Equal(t, "France", hm.Countries[0].Country)
	require.Len(t, hm.TopComments, 1)
	assert.Equal(t, 5, hm.TopComments[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateHeatmapBoundsRestrictOnlyPinRollup(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewHeatmapService(gdb)

	mock.ExpectQuery(`(?s)SELECT.*FROM pins p.*ST_Within.*ST_MakeEnvelope.*LIMIT 200`).
		WithArgs("2024-06-01", 2.0, 48.0, 3.0, 49.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	expectCityCountryAndTop(mock, "2024-06-01")

	bounds := &Bounds{MinLat: 48.0, MaxLat: 49.0, MinLng: 2.0, MaxLng: 3.0}
	hm, err := svc.Generate(context.Background(), "2024-06-01", bounds, time.UTC)
	require.NoError(t, err)

	// A bounded request still aggregates cities/countries globally, and a
	// pin with no comments that day simply does not appear.
	assert.Empty(t, hm.Pins)
	assert.Len(t, hm.Cities, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateHeatmapDefaultsToTodayInZone(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewHeatmapService(gdb)

	today := time.Now().UTC().Format("2006-01-02")
	mock.ExpectQuery(`(?s)SELECT.*FROM pins p.*LIMIT 200`).
		WithArgs(today).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	expectCityCountryAndTop(mock, today)

	hm, err := svc.Generate(context.Background(), "", nil, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, today, hm.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}
