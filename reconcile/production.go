package reconcile

import (
	"strings"

	"timetracker/models"
)

// ProductionCandidate is one row of the production list. Client and asset
// may be given by id or by name; the id wins when both are set. Rows that
// are blank or do not resolve are dropped by Normalize, not rejected.
type ProductionCandidate struct {
	Date       string `json:"date"`
	ClientID   int    `json:"client_id"`
	ClientName string `json:"client"`
	AssetID    int    `json:"asset_id"`
	AssetName  string `json:"asset"`
	Amount     int    `json:"amount"`
}

// ProductionKind scopes production by (user, date within the week). The
// table has no week_start column, so any row dated inside the week belongs
// to the scope regardless of how it got there.
type ProductionKind struct {
	clientIDs  map[int]bool
	clientName map[string]int
	assetIDs   map[int]bool
	assetName  map[string]int
}

func NewProductionKind(clients []models.Client, assets []models.Asset) ProductionKind {
	k := ProductionKind{
		clientIDs:  make(map[int]bool, len(clients)),
		clientName: make(map[string]int, len(clients)),
		assetIDs:   make(map[int]bool, len(assets)),
		assetName:  make(map[string]int, len(assets)),
	}
	for _, c := range clients {
		k.clientIDs[c.ID] = true
		if _, dup := k.clientName[nameKey(c.Name)]; !dup {
			k.clientName[nameKey(c.Name)] = c.ID
		}
	}
	for _, a := range assets {
		k.assetIDs[a.ID] = true
		if _, dup := k.assetName[nameKey(a.Name)]; !dup {
			k.assetName[nameKey(a.Name)] = a.ID
		}
	}
	return k
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (ProductionKind) Name() string { return "production" }

func (ProductionKind) InScope(scope Scope) func(models.ProductionEntry) bool {
	return func(e models.ProductionEntry) bool {
		return e.UserID == scope.UserID && scope.HasDate(e.Date)
	}
}

func resolve(id int, name string, ids map[int]bool, names map[string]int) (int, bool) {
	if id > 0 {
		return id, ids[id]
	}
	if name == "" {
		return 0, false
	}
	found, ok := names[nameKey(name)]
	return found, ok
}

func (k ProductionKind) Normalize(scope Scope, candidates []ProductionCandidate) []models.ProductionEntry {
	var out []models.ProductionEntry
	for _, c := range candidates {
		if c.Amount < 1 || !scope.HasDate(c.Date) {
			continue
		}
		clientID, ok := resolve(c.ClientID, c.ClientName, k.clientIDs, k.clientName)
		if !ok {
			continue
		}
		assetID, ok := resolve(c.AssetID, c.AssetName, k.assetIDs, k.assetName)
		if !ok {
			continue
		}
		out = append(out, models.ProductionEntry{
			UserID:   scope.UserID,
			ClientID: clientID,
			Date:     c.Date,
			AssetID:  assetID,
			Amount:   c.Amount,
		})
	}
	return out
}
