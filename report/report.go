/*
Package report aggregates time and production entries into read-only views.

Everything here is a pure function of its inputs: callers load the tables,
pass them in, and render the result.
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"timetracker/models"
)

// Unknown is shown for references to deleted users, clients or assets.
const Unknown = "Unknown"

type Input struct {
	// Start and End bound the inclusive ISO date range.
	Start string
	End   string
	Actor models.User
	// SelectedClient names the client of the per-client asset view. Empty
	// selects nothing.
	SelectedClient string

	Users      []models.User
	Clients    []models.Client
	Assets     []models.Asset
	Time       []models.TimeEntry
	Production []models.ProductionEntry
}

type AssetAmount struct {
	Asset  string `json:"asset"`
	Amount int    `json:"amount"`
}

type Summary struct {
	Start          string        `json:"start"`
	End            string        `json:"end"`
	ByEmployee     Pivot         `json:"by_employee"`
	ByClient       Pivot         `json:"by_client"`
	Assets         []AssetAmount `json:"assets"`
	SelectedClient string        `json:"selected_client,omitempty"`
	ClientAssets   []AssetAmount `json:"client_assets"`
}

type names struct {
	users   map[int]string
	clients map[int]string
	assets  map[int]string
}

func newNames(users []models.User, clients []models.Client, assets []models.Asset) names {
	n := names{
		users:   make(map[int]string, len(users)),
		clients: make(map[int]string, len(clients)),
		assets:  make(map[int]string, len(assets)),
	}
	for _, u := range users {
		n.users[u.ID] = u.DisplayName()
	}
	for _, c := range clients {
		n.clients[c.ID] = c.Name
	}
	for _, a := range assets {
		n.assets[a.ID] = a.Name
	}
	return n
}

func lookup(m map[int]string, id int) string {
	if name, ok := m[id]; ok && name != "" {
		return name
	}
	return Unknown
}

func inRange(date, start, end string) bool {
	return date >= start && date <= end
}

// Build produces every workload view for in. Non-admin actors only see their
// own entries.
func Build(in Input) Summary {
	n := newNames(in.Users, in.Clients, in.Assets)
	visible := func(userID int) bool {
		return in.Actor.CanViewAllEntries() || userID == in.Actor.ID
	}

	var byEmployee, byClient []cell
	for _, e := range in.Time {
		if !visible(e.UserID) || !inRange(e.Date, in.Start, in.End) {
			continue
		}
		byEmployee = append(byEmployee, cell{row: lookup(n.users, e.UserID), col: e.Date, value: e.Hours})
		byClient = append(byClient, cell{row: lookup(n.clients, e.ClientID), col: e.Date, value: e.Hours})
	}

	selectedID, selected := 0, false
	for _, c := range in.Clients {
		if in.SelectedClient != "" && c.Name == in.SelectedClient {
			selectedID, selected = c.ID, true
			break
		}
	}

	assets := map[string]int{}
	clientAssets := map[string]int{}
	for _, p := range in.Production {
		if !visible(p.UserID) || !inRange(p.Date, in.Start, in.End) {
			continue
		}
		name := lookup(n.assets, p.AssetID)
		assets[name] += p.Amount
		if selected && p.ClientID == selectedID {
			clientAssets[name] += p.Amount
		}
	}

	return Summary{
		Start:          in.Start,
		End:            in.End,
		ByEmployee:     buildPivot("Employee", byEmployee, nil),
		ByClient:       buildPivot("Client", byClient, nil),
		Assets:         sortedAmounts(assets),
		SelectedClient: in.SelectedClient,
		ClientAssets:   sortedAmounts(clientAssets),
	}
}

func sortedAmounts(m map[string]int) []AssetAmount {
	out := make([]AssetAmount, 0, len(m))
	for name, amount := range m {
		out = append(out, AssetAmount{Asset: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

// Detail is the client × day view of one submitted week.
func Detail(weekDates []string, entries []models.TimeEntry, clients []models.Client) Pivot {
	n := newNames(nil, clients, nil)
	cells := make([]cell, 0, len(entries))
	for _, e := range entries {
		cells = append(cells, cell{row: lookup(n.clients, e.ClientID), col: e.Date, value: e.Hours})
	}
	return buildPivot("Client", cells, append([]string{}, weekDates...))
}

// TotalHours sums the hours of entries.
func TotalHours(entries []models.TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}
