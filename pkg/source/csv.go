package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/poimap/pkg/errors"
	"github.com/matzehuels/poimap/pkg/poi"
)

// CSV column names. Matching is case-insensitive and column order is free.
const (
	colID         = "id"
	colType       = "type"
	colX          = "x"
	colY          = "y"
	colOffsetX    = "x_off"
	colOffsetY    = "y_off"
	colIcon       = "img"
	colItems      = "items"
	colPoints     = "points"
	colReq        = "req"
	colPlacements = "placements"
)

var requiredColumns = []string{colID, colType, colX, colY, colIcon}

// ReadCSV reads a spreadsheet export with one POI per row.
//
// The items cell lists stacks as Type:count:label separated by ';'.
// The placements cell lists Type:amount@x:y separated by ';'.
// Blank rows are skipped.
func ReadCSV(r io.Reader) ([]poi.POI, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	idx := make(map[string]int, len(recs[0]))
	for i, h := range recs[0] {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "csv: missing column %q", c)
		}
	}

	var pois []poi.POI
	for n, row := range recs[1:] {
		line := n + 2
		if blank(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		p, err := parseRow(cell)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		pois = append(pois, p)
	}
	return pois, nil
}

func parseRow(cell func(string) string) (poi.POI, error) {
	p := poi.POI{
		ID:          cell(colID),
		Kind:        poi.Kind(strings.ToUpper(cell(colType))),
		Icon:        cell(colIcon),
		Requirement: cell(colReq),
	}
	var err error
	if p.X, err = parseFloat(colX, cell(colX), true); err != nil {
		return p, err
	}
	if p.Y, err = parseFloat(colY, cell(colY), true); err != nil {
		return p, err
	}
	if p.OffsetX, err = parseFloat(colOffsetX, cell(colOffsetX), false); err != nil {
		return p, err
	}
	if p.OffsetY, err = parseFloat(colOffsetY, cell(colOffsetY), false); err != nil {
		return p, err
	}
	if v := cell(colPoints); v != "" {
		if p.Points, err = strconv.ParseInt(v, 10, 64); err != nil {
			return p, fmt.Errorf("points: %w", err)
		}
	}
	if p.Items, err = ParseItems(cell(colItems)); err != nil {
		return p, err
	}
	if p.Placements, err = ParsePlacements(cell(colPlacements)); err != nil {
		return p, err
	}
	return p, nil
}

// ParseItems parses "Type:count:label;Type:count". A missing count means 1.
func ParseItems(s string) ([]poi.ItemStack, error) {
	var items []poi.ItemStack
	for _, entry := range splitEntries(s) {
		parts := strings.SplitN(entry, ":", 3)
		it := poi.ItemStack{Type: strings.TrimSpace(parts[0]), Count: 1}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, fmt.Errorf("items %q: count: %w", entry, err)
			}
			it.Count = n
		}
		if len(parts) > 2 {
			it.Label = strings.TrimSpace(parts[2])
		}
		items = append(items, it)
	}
	return items, nil
}

// ParsePlacements parses "Type:amount@x:y;Type@x:y". A missing amount means 1.
func ParsePlacements(s string) ([]poi.ItemPlacement, error) {
	var out []poi.ItemPlacement
	for _, entry := range splitEntries(s) {
		head, coords, ok := strings.Cut(entry, "@")
		if !ok {
			return nil, fmt.Errorf("placements %q: missing @x:y", entry)
		}
		typ, amount, _ := strings.Cut(head, ":")
		pl := poi.ItemPlacement{Type: strings.TrimSpace(typ), Amount: 1}
		if amount = strings.TrimSpace(amount); amount != "" {
			n, err := strconv.Atoi(amount)
			if err != nil {
				return nil, fmt.Errorf("placements %q: amount: %w", entry, err)
			}
			pl.Amount = n
		}
		xs, ys, ok := strings.Cut(coords, ":")
		if !ok {
			return nil, fmt.Errorf("placements %q: want x:y after @", entry)
		}
		var err error
		if pl.X, err = parseFloat("x", xs, true); err != nil {
			return nil, fmt.Errorf("placements %q: %w", entry, err)
		}
		if pl.Y, err = parseFloat("y", ys, true); err != nil {
			return nil, fmt.Errorf("placements %q: %w", entry, err)
		}
		out = append(out, pl)
	}
	return out, nil
}

// FormatItems is the inverse of ParseItems.
func FormatItems(items []poi.ItemStack) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.Type + ":" + strconv.Itoa(it.Count)
		if it.Label != "" {
			parts[i] += ":" + it.Label
		}
	}
	return strings.Join(parts, ";")
}

func splitEntries(s string) []string {
	var out []string
	for _, e := range strings.Split(s, ";") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func parseFloat(name, v string, required bool) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		if required {
			return 0, fmt.Errorf("%s: empty", name)
		}
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
