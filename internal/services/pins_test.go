package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindrop/internal/apperr"
)

func TestSearchOrdersByDistanceAndCapsRadius(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewPinService(gdb)

	rows := sqlmock.NewRows([]string{
		"id", "name", "lng", "lat", "google_place_id", "city", "country", "created_at", "distance",
	}).
		AddRow("p1", "Fountain", 2.1, 48.8, nil, "Paris", "France", time.Now(), 12.5).
		AddRow("p2", "Bridge", 2.2, 48.9, nil, "Paris", "France", time.Now(), 430.0)

	mock.ExpectQuery(`(?s)SELECT.*ST_Distance.*FROM pins.*ORDER BY distance.*LIMIT 100`).
		WithArgs(2.0, 48.0, 2.0, 48.0, 50000.0).
		WillReturnRows(rows)

	// Radius far above the cap collapses to 50 km.
	pins, err := svc.Search(context.Background(), 48.0, 2.0, 999999)
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, "Fountain", pins[0].Name)
	assert.InDelta(t, 12.5, pins[0].Distance, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchDefaultsRadiusAndEmptyResult(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewPinService(gdb)

	mock.ExpectQuery(`(?s)SELECT.*FROM pins.*LIMIT 100`).
		WithArgs(2.0, 48.0, 2.0, 48.0, 1000.0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	pins, err := svc.Search(context.Background(), 48.0, 2.0, 0)
	require.NoError(t, err)
	assert.NotNil(t, pins)
	assert.Empty(t, pins)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePinConflictsWithNeighbor(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewPinService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT id, name FROM pins.*ST_DWithin`).
		WithArgs(2.0, 48.0, float64(MinPinDistanceMeters)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Old Fountain"))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), "u1", "New Fountain", 48.0, 2.0, nil, nil, "France")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 409, ae.Status)
	assert.Contains(t, ae.Message, "Old Fountain")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePinInsertsWhenSpotIsFree(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewPinService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT id, name FROM pins.*ST_DWithin`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectExec(`INSERT INTO "pins"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	city := "Paris"
	pin, err := svc.Create(context.Background(), "u1", "New Fountain", 48.0, 2.0, nil, &city, "France")
	require.NoError(t, err)
	assert.Equal(t, "New Fountain", pin.Name)
	assert.NotEmpty(t, pin.ID)
	require.NotNil(t, pin.Country)
	assert.Equal(t, "France", *pin.Country)
	assert.NoError(t, mock.ExpectationsWereMet())
}
