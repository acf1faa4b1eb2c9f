package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryPDFRender(t *testing.T) {
	var buf bytes.Buffer
	err := NewSummaryPDF().Render(&buf, "Admission Application", []Field{
		{Label: "Applicant Name", Value: "Asha Rao"},
		{Label: "Previous School", Value: ""},
		{Label: "Class Applied For", Value: "Grade 3"},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestSummaryPDFRequiresFields(t *testing.T) {
	var buf bytes.Buffer
	err := NewSummaryPDF().Render(&buf, "Empty", nil)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestCSVRenderKeepsHeaderOrder(t *testing.T) {
	payload, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"ID", "Name"},
		Rows: []map[string]string{
			{"ID": "adm-1", "Name": "Asha Rao"},
			{"ID": "adm-2"},
		},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"ID", "Name"}, records[0])
	assert.Equal(t, []string{"adm-1", "Asha Rao"}, records[1])
	assert.Equal(t, []string{"adm-2", ""}, records[2])
}
