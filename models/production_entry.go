package models

import (
	"timetracker/store"
)

// ProductionEntry is an amount of one asset produced for one client on one day.
type ProductionEntry struct {
	UserID   int    `json:"user_id"`
	ClientID int    `json:"client_id"`
	Date     string `json:"date"`
	AssetID  int    `json:"asset_id"`
	Amount   int    `json:"amount"`
}

func ProductionEntryFromRecord(r store.Record) ProductionEntry {
	return ProductionEntry{
		UserID:   atoi(r["user_id"]),
		ClientID: atoi(r["client_id"]),
		Date:     day(r["date"]),
		AssetID:  atoi(r["asset_id"]),
		Amount:   atoi(r["amount"]),
	}
}

func (e ProductionEntry) Record() store.Record {
	return store.Record{
		"user_id":   itoa(e.UserID),
		"client_id": itoa(e.ClientID),
		"date":      e.Date,
		"asset_id":  itoa(e.AssetID),
		"amount":    itoa(e.Amount),
	}
}

func ProductionEntriesFromRecords(records []store.Record) []ProductionEntry {
	out := make([]ProductionEntry, 0, len(records))
	for _, r := range records {
		out = append(out, ProductionEntryFromRecord(r))
	}
	return out
}

func ProductionEntriesToRecords(entries []ProductionEntry) []store.Record {
	out := make([]store.Record, len(entries))
	for i, e := range entries {
		out[i] = e.Record()
	}
	return out
}
