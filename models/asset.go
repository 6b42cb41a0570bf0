package models

import (
	"timetracker/store"
)

// Asset is a kind of deliverable counted in production entries.
type Asset struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	DateAdded string `json:"date_added"`
}

func AssetFromRecord(r store.Record) Asset {
	return Asset{ID: atoi(r["id"]), Name: r["name"], DateAdded: r["date_added"]}
}

func (a Asset) Record() store.Record {
	return store.Record{"id": itoa(a.ID), "name": a.Name, "date_added": a.DateAdded}
}

func AssetsFromRecords(records []store.Record) []Asset {
	out := make([]Asset, 0, len(records))
	for _, r := range records {
		out = append(out, AssetFromRecord(r))
	}
	return out
}
