package geo

import (
	"context"
	"fmt"

	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Point is a WGS84 coordinate stored as a PostGIS geography(Point,4326)
// column. Postgres hands the column back as hex-encoded EWKB, which Scan
// decodes; writes go through ST_MakePoint so the server owns the encoding.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (Point) GormDataType() string {
	return "geography(Point,4326)"
}

func (p Point) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return clause.Expr{
		SQL:  "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography",
		Vars: []interface{}{p.Lng, p.Lat},
	}
}

// Scan decodes hex-encoded (E)WKB as produced by PostGIS for geography
// columns. Only point geometries are accepted.
func (p *Point) Scan(value interface{}) error {
	var encoded []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		encoded = v
	case string:
		encoded = []byte(v)
	default:
		return fmt.Errorf("geo: cannot scan %T into Point", value)
	}

	g, err := ewkbhex.Decode(string(encoded))
	if err != nil {
		// Some drivers deliver raw WKB bytes instead of hex text.
		g, err = ewkb.Unmarshal(encoded)
	}
	if err != nil {
		return fmt.Errorf("geo: %w", err)
	}

	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("geo: unexpected geometry %T", g)
	}
	p.Lng = pt.X()
	p.Lat = pt.Y()
	return nil
}

var _ schema.GormDataTypeInterface = Point{}
