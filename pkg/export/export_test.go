package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Subject averages",
		Headers: []string{"subject", "avgPercent"},
		Rows: []map[string]string{
			{"subject": "Math", "avgPercent": "72.5"},
			{"subject": "Physics, Applied", "avgPercent": "64"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "subject,avgPercent\nMath,72.5\n\"Physics, Applied\",64\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterEmptyRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = nil
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf", r.Extension())

	r, err = ForFormat(FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", r.ContentType())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
