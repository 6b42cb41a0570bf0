package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Dataset {
	return Dataset{
		Title:   "Hours by client",
		Headers: []string{"Client", "2024-06-03", "Total"},
		Rows:    [][]string{{"Acme", "4", "4"}, {"Total"}},
	}
}

func TestCSVExporter_SingleDataset(t *testing.T) {
	out, err := NewCSVExporter().Render(sample())
	require.NoError(t, err)
	assert.Equal(t, "Client,2024-06-03,Total\nAcme,4,4\nTotal,,\n", string(out))
}

func TestCSVExporter_MultipleDatasetsAreTitled(t *testing.T) {
	assets := Dataset{Title: "Assets", Headers: []string{"Asset", "Amount"}, Rows: [][]string{{"Video", "2"}}}
	out, err := NewCSVExporter().Render(sample(), assets)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Hours by client\nClient,2024-06-03,Total\n")
	assert.Contains(t, string(out), "\nAssets\nAsset,Amount\nVideo,2\n")
}

func TestCSVExporter_RequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Title: "empty"})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render()
	assert.Error(t, err)
}

func TestPDFExporter_Render(t *testing.T) {
	out, err := NewPDFExporter().Render("Workload 2024-06", sample(), Dataset{Headers: []string{"Asset", "Amount"}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidths(t *testing.T) {
	assert.Equal(t, []float64{pageWidth}, columnWidths(1))
	w := columnWidths(40)
	assert.Equal(t, firstColumn, w[0])
	assert.LessOrEqual(t, sum(w), pageWidth+0.001)
}
