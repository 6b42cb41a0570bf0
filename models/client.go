package models

import (
	"timetracker/store"
)

// Client is a customer that hours and production are booked against.
type Client struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	DateAdded string `json:"date_added"`
}

func ClientFromRecord(r store.Record) Client {
	return Client{ID: atoi(r["id"]), Name: r["name"], DateAdded: r["date_added"]}
}

func (c Client) Record() store.Record {
	return store.Record{"id": itoa(c.ID), "name": c.Name, "date_added": c.DateAdded}
}

func ClientsFromRecords(records []store.Record) []Client {
	out := make([]Client, 0, len(records))
	for _, r := range records {
		out = append(out, ClientFromRecord(r))
	}
	return out
}
