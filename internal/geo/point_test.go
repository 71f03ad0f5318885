package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointScanEWKBLittleEndian(t *testing.T) {
	// SELECT 'SRID=4326;POINT(2.294481 48.85837)'::geography
	var p Point
	err := p.Scan([]byte("0101000020E6100000D658C2DA185B02400BEF7211DF6D4840"))
	require.NoError(t, err)
	assert.InDelta(t, 2.294481, p.Lng, 1e-9)
	assert.InDelta(t, 48.85837, p.Lat, 1e-9)
}

func TestPointScanEWKBBigEndian(t *testing.T) {
	var p Point
	err := p.Scan("0020000001000010E6BFC05BC01A36E2EB4049C0F27BB2FEC5")
	require.NoError(t, err)
	assert.InDelta(t, -0.1278, p.Lng, 1e-9)
	assert.InDelta(t, 51.5074, p.Lat, 1e-9)
}

func TestPointScanWKBWithoutSRID(t *testing.T) {
	var p Point
	err := p.Scan([]byte("010100000095D4096822766140C74B378941D84140"))
	require.NoError(t, err)
	assert.InDelta(t, 139.6917, p.Lng, 1e-9)
	assert.InDelta(t, 35.6895, p.Lat, 1e-9)
}

func TestPointScanRejectsNonPoint(t *testing.T) {
	// LINESTRING type id 2
	var p Point
	err := p.Scan([]byte("010200000000000000000000000000000000000000"))
	assert.Error(t, err)
}

func TestPointScanNil(t *testing.T) {
	var p Point
	require.NoError(t, p.Scan(nil))
	assert.Zero(t, p.Lat)
	assert.Zero(t, p.Lng)
}

func TestPointScanGarbage(t *testing.T) {
	var p Point
	assert.Error(t, p.Scan([]byte("zz")))
	assert.Error(t, p.Scan(42))
}

func TestPointGormValue(t *testing.T) {
	expr := Point{Lat: 48.85837, Lng: 2.294481}.GormValue(t.Context(), nil)
	assert.Equal(t, "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography", expr.SQL)
	require.Len(t, expr.Vars, 2)
	assert.Equal(t, 2.294481, expr.Vars[0])
	assert.Equal(t, 48.85837, expr.Vars[1])
}
