package store

// Table names a tab of the tabular store.
type Table string

const (
	Users             Table = "Users"
	Clients           Table = "Clients"
	Assets            Table = "Assets"
	TimeEntries       Table = "TimeEntries"
	ProductionEntries Table = "ProductionEntries"
	SubmittedWeeks    Table = "SubmittedWeeks"
)

// Schema is the declared, ordered column list of a table.
type Schema struct {
	Columns []string
}

var schemas = map[Table]Schema{
	Users:             {Columns: []string{"id", "name", "username", "password", "role", "date_added"}},
	Clients:           {Columns: []string{"id", "name", "date_added"}},
	Assets:            {Columns: []string{"id", "name", "date_added"}},
	TimeEntries:       {Columns: []string{"user_id", "client_id", "date", "hours", "week_start"}},
	ProductionEntries: {Columns: []string{"user_id", "client_id", "date", "asset_id", "amount"}},
	SubmittedWeeks:    {Columns: []string{"user_id", "week_start", "status", "submitted_at"}},
}

// Numeric columns are coerced to numbers on load, whatever table they appear in.
var numericColumns = map[string]bool{
	"id":        true,
	"user_id":   true,
	"client_id": true,
	"asset_id":  true,
	"hours":     true,
	"amount":    true,
}

// AllTables lists the required tables in creation order.
func AllTables() []Table {
	return []Table{Users, Clients, Assets, TimeEntries, ProductionEntries, SubmittedWeeks}
}

// SchemaOf returns the declared schema of t. Unknown tables have no columns.
func SchemaOf(t Table) Schema {
	s := schemas[t]
	return Schema{Columns: append([]string(nil), s.Columns...)}
}

// IsNumeric reports whether column is coerced to a number on load.
func IsNumeric(column string) bool {
	return numericColumns[column]
}
