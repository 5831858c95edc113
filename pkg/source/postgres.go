package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// PostgresSource reads POIs from a table with the columns
//
//	id text, type text, x float8, y float8, x_off float8, y_off float8,
//	img text, items jsonb, placements jsonb, points bigint, req text
//
// items and placements hold the same JSON arrays as the JSON format.
// Rows are read in id order.
type PostgresSource struct {
	DSN   string
	Table string
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// selectQuery builds the SELECT for table, quoting each identifier part.
func selectQuery(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid table name %q", table)
	}
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return fmt.Sprintf(
		"SELECT id, type, x, y, x_off, y_off, img, items, placements, points, req FROM %s ORDER BY id",
		strings.Join(parts, ".")), nil
}

// Load opens a connection, reads the table and closes the connection.
func (s *PostgresSource) Load(ctx context.Context) ([]poi.POI, error) {
	query, err := selectQuery(s.Table)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", s.DSN)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "open %s", Redact(s.DSN))
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "query %s", s.Table)
	}
	defer rows.Close()

	var pois []poi.POI
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "scan %s row %d", s.Table, len(pois)+1)
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "read %s", s.Table)
	}
	return pois, nil
}

// Remote is true for PostgreSQL.
func (s *PostgresSource) Remote() bool { return true }

type scanner interface {
	Scan(dest ...any) error
}

// scanPOI maps one row. NULL offsets, points and text read as zero values.
func scanPOI(row scanner) (poi.POI, error) {
	var (
		p                 poi.POI
		kind              string
		xOff, yOff        sql.NullFloat64
		items, placements []byte
		points            sql.NullInt64
		req               sql.NullString
	)
	if err := row.Scan(&p.ID, &kind, &p.X, &p.Y, &xOff, &yOff, &p.Icon, &items, &placements, &points, &req); err != nil {
		return p, err
	}
	p.Kind = poi.Kind(kind)
	p.OffsetX = xOff.Float64
	p.OffsetY = yOff.Float64
	p.Points = points.Int64
	p.Requirement = req.String
	if len(items) > 0 {
		if err := json.Unmarshal(items, &p.Items); err != nil {
			return p, fmt.Errorf("items: %w", err)
		}
	}
	if len(placements) > 0 {
		if err := json.Unmarshal(placements, &p.Placements); err != nil {
			return p, fmt.Errorf("placements: %w", err)
		}
	}
	return p, nil
}
