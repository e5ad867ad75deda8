// Package loader reads the day's dataset: the location table with its
// lower-triangular distance rows, and the item manifest. Both files are
// plain CSV without headers; lines starting with # are comments.
//
// locations.csv: one row per location, index order. Fields are
// address,city,zip followed by the distances to every earlier location
// and the zero self-distance, so row i carries i+1 distance fields.
// Row 0 is the hub.
//
// items.csv: id,address,city,zip,deadline,weight,status,restriction and
// any further fields are ids the item must ship together with. The
// address must match a location exactly.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/parcelsim/core/model"
	"github.com/kilianp07/parcelsim/internal/hashtable"
)

type addrKey struct {
	address, city, zip string
}

// Dataset is a fully loaded and cross-checked day.
type Dataset struct {
	Locations []*model.Location
	Items     []*model.Item

	byAddress map[addrKey]*model.Location
}

// Load reads and cross-checks both dataset files.
func Load(locationsPath, itemsPath string) (*Dataset, error) {
	locs, byAddr, err := loadLocations(locationsPath)
	if err != nil {
		return nil, err
	}
	items, err := loadItems(itemsPath, byAddr)
	if err != nil {
		return nil, err
	}
	return &Dataset{Locations: locs, Items: items, byAddress: byAddr}, nil
}

// Hub returns the dataset's hub location, index 0 by convention.
func (d *Dataset) Hub() *model.Location {
	return d.Locations[0]
}

// LocationByAddress resolves an exact address match.
func (d *Dataset) LocationByAddress(address, city, zip string) (*model.Location, error) {
	loc, ok := d.byAddress[addrKey{strings.TrimSpace(address), strings.TrimSpace(city), strings.TrimSpace(zip)}]
	if !ok {
		return nil, fmt.Errorf("no location at %q, %s %s", address, city, zip)
	}
	return loc, nil
}

func loadLocations(path string) ([]*model.Location, map[addrKey]*model.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open locations: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	var rows [][]float64
	var metas []addrKey
	i := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("locations %s: %w", path, err)
		}
		if len(rec) != 3+i+1 {
			return nil, nil, fmt.Errorf("locations %s row %d: expected %d fields, got %d", path, i+1, 3+i+1, len(rec))
		}
		for j := range rec {
			rec[j] = strings.TrimSpace(rec[j])
		}
		dists := make([]float64, i+1)
		for j, s := range rec[3:] {
			d, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("locations %s row %d: distance %q: %w", path, i+1, s, err)
			}
			dists[j] = d
		}
		rows = append(rows, dists)
		metas = append(metas, addrKey{rec[0], rec[1], rec[2]})
		i++
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("locations %s: empty table", path)
	}

	table, err := model.NewDistanceTable(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("locations %s: %w", path, err)
	}
	locs := make([]*model.Location, len(rows))
	byAddr := make(map[addrKey]*model.Location, len(rows))
	for idx, meta := range metas {
		if _, dup := byAddr[meta]; dup {
			return nil, nil, fmt.Errorf("locations %s: duplicate address %q, %s %s", path, meta.address, meta.city, meta.zip)
		}
		loc := model.NewLocation(idx, meta.address, meta.city, meta.zip, table)
		locs[idx] = loc
		byAddr[meta] = loc
	}
	return locs, byAddr, nil
}

func loadItems(path string, byAddr map[addrKey]*model.Location) ([]*model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	var items []*model.Item
	seen := hashtable.New[*model.Item]()
	row := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("items %s: %w", path, err)
		}
		row++
		it, err := parseItem(rec, byAddr)
		if err != nil {
			return nil, fmt.Errorf("items %s row %d: %w", path, row, err)
		}
		if seen.Contains(it.ID) {
			return nil, fmt.Errorf("items %s row %d: duplicate item id %d", path, row, it.ID)
		}
		seen.Put(it.ID, it)
		items = append(items, it)
	}
	for _, it := range items {
		for _, ref := range it.DeliverWith {
			if !seen.Contains(ref) {
				return nil, fmt.Errorf("items %s: item %d ships with unknown item %d", path, it.ID, ref)
			}
		}
	}
	return items, nil
}

func parseItem(rec []string, byAddr map[addrKey]*model.Location) (*model.Item, error) {
	if len(rec) < 8 {
		return nil, fmt.Errorf("expected at least 8 fields, got %d", len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return nil, fmt.Errorf("item id %q: %w", rec[0], err)
	}
	if id <= 0 {
		return nil, fmt.Errorf("item id must be positive, got %d", id)
	}
	loc, ok := byAddr[addrKey{rec[1], rec[2], rec[3]}]
	if !ok {
		return nil, fmt.Errorf("unknown address %q, %s %s", rec[1], rec[2], rec[3])
	}
	deadline, err := model.ParseDeadline(rec[4])
	if err != nil {
		return nil, err
	}
	weight, err := strconv.Atoi(rec[5])
	if err != nil {
		return nil, fmt.Errorf("weight %q: %w", rec[5], err)
	}
	status, err := parseStatus(rec[6])
	if err != nil {
		return nil, err
	}
	restricted := 0
	if rec[7] != "" {
		restricted, err = strconv.Atoi(rec[7])
		if err != nil {
			return nil, fmt.Errorf("restriction %q: %w", rec[7], err)
		}
		if restricted < 0 {
			return nil, fmt.Errorf("restriction must be a vehicle id or 0, got %d", restricted)
		}
	}
	var group []int
	for _, s := range rec[8:] {
		ref, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("ships-with id %q: %w", s, err)
		}
		group = append(group, ref)
	}
	return &model.Item{
		ID:           id,
		Weight:       weight,
		Location:     loc,
		Deadline:     deadline,
		Status:       status,
		RestrictedTo: restricted,
		DeliverWith:  group,
	}, nil
}

func parseStatus(s string) (model.Status, error) {
	switch {
	case s == "" || strings.EqualFold(s, "At hub"):
		return model.AtHub(), nil
	case strings.EqualFold(s, "Delayed"):
		return model.Delayed(), nil
	case strings.EqualFold(s, "Undeliverable"):
		return model.Undeliverable(), nil
	}
	return model.Status{}, fmt.Errorf("unknown status %q", s)
}
