package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetracker/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixture() Input {
	return Input{
		Start: "2024-06-01",
		End:   "2024-06-30",
		Actor: models.User{ID: 1, Role: models.RoleAdmin},
		Users: []models.User{
			{ID: 1, Name: "Ada", Role: models.RoleAdmin},
			{ID: 7, Name: "Zed", Role: models.RoleEmployee},
		},
		Clients: []models.Client{{ID: 2, Name: "Acme"}, {ID: 3, Name: "Globex"}},
		Assets:  []models.Asset{{ID: 1, Name: "Video"}, {ID: 2, Name: "Banner"}},
		Time: []models.TimeEntry{
			{UserID: 7, ClientID: 2, Date: "2024-06-04", Hours: d("4")},
			{UserID: 1, ClientID: 3, Date: "2024-06-03", Hours: d("2")},
			{UserID: 7, ClientID: 3, Date: "2024-06-04", Hours: d("1.5")},
			{UserID: 7, ClientID: 9, Date: "2024-06-05", Hours: d("1")},
			{UserID: 7, ClientID: 2, Date: "2024-07-01", Hours: d("8")},
		},
		Production: []models.ProductionEntry{
			{UserID: 7, ClientID: 2, Date: "2024-06-04", AssetID: 1, Amount: 2},
			{UserID: 1, ClientID: 3, Date: "2024-06-05", AssetID: 1, Amount: 1},
			{UserID: 7, ClientID: 2, Date: "2024-06-06", AssetID: 2, Amount: 5},
			{UserID: 7, ClientID: 2, Date: "2024-05-31", AssetID: 2, Amount: 9},
		},
	}
}

func TestBuild_ByEmployee(t *testing.T) {
	s := Build(fixture())

	p := s.ByEmployee
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, p.Columns)
	require.Len(t, p.Rows, 2)
	assert.Equal(t, "Zed", p.Rows[0].Name, "first seen row comes first")
	assert.Equal(t, "Ada", p.Rows[1].Name)

	assert.True(t, p.Value("Zed", "2024-06-03").IsZero(), "missing cell is zero")
	assert.True(t, p.Value("Zed", "2024-06-04").Equal(d("5.5")))
	assert.True(t, p.Rows[0].Total.Equal(d("6.5")))
	assert.True(t, p.Total.Equal(d("8.5")))
}

func TestBuild_ByClientShowsUnknownForDanglingReference(t *testing.T) {
	p := Build(fixture()).ByClient
	var names []string
	for _, r := range p.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Acme", "Globex", Unknown}, names)
	assert.True(t, p.Value("Globex", "2024-06-03").Equal(d("2")))
}

func TestBuild_AssetSums(t *testing.T) {
	in := fixture()
	in.SelectedClient = "Acme"
	s := Build(in)

	assert.Equal(t, []AssetAmount{{"Banner", 5}, {"Video", 3}}, s.Assets)
	assert.Equal(t, []AssetAmount{{"Banner", 5}, {"Video", 2}}, s.ClientAssets)
}

func TestBuild_EmployeeSeesOwnRowsOnly(t *testing.T) {
	in := fixture()
	in.Actor = models.User{ID: 7, Role: models.RoleEmployee}
	s := Build(in)

	require.Len(t, s.ByEmployee.Rows, 1)
	assert.Equal(t, "Zed", s.ByEmployee.Rows[0].Name)
	assert.Equal(t, []AssetAmount{{"Banner", 5}, {"Video", 2}}, s.Assets)
}

func TestBuild_EmptyRange(t *testing.T) {
	in := fixture()
	in.Start, in.End = "2023-01-01", "2023-01-31"
	s := Build(in)
	assert.True(t, s.ByEmployee.Empty())
	assert.Empty(t, s.Assets)
	assert.True(t, s.ByEmployee.Total.IsZero())
}

func TestDetail_UsesWeekColumns(t *testing.T) {
	dates := []string{"2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07", "2024-06-08", "2024-06-09"}
	p := Detail(dates, []models.TimeEntry{
		{UserID: 7, ClientID: 2, Date: "2024-06-03", Hours: d("4")},
		{UserID: 7, ClientID: 2, Date: "2024-06-05", Hours: d("2")},
	}, []models.Client{{ID: 2, Name: "Acme"}})

	assert.Len(t, p.Columns, 7)
	require.Len(t, p.Rows, 1)
	assert.Len(t, p.Rows[0].Values, 7)
	assert.True(t, p.Rows[0].Total.Equal(d("6")))
}

func TestPivotDataset(t *testing.T) {
	ds := Build(fixture()).ByClient.Dataset()
	assert.Equal(t, []string{"Client", "2024-06-03", "2024-06-04", "2024-06-05", "Total"}, ds.Headers)
	assert.Equal(t, []string{"Acme", "0", "4", "0", "4"}, ds.Rows[0])
	assert.Equal(t, []string{"Total", "2", "5.5", "1", "8.5"}, ds.Rows[len(ds.Rows)-1])
}

func TestSummaryDatasets(t *testing.T) {
	in := fixture()
	assert.Len(t, Build(in).Datasets(), 3)
	in.SelectedClient = "Acme"
	sets := Build(in).Datasets()
	require.Len(t, sets, 4)
	assert.Equal(t, "Assets for Acme", sets[3].Title)
}
