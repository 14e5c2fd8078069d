package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WebLink-Company/mi-comida/internal/stats"
)

func TestWriteRollupCSV(t *testing.T) {
	bundle := stats.ZeroBundle()
	bundle.OrdersToday = 3
	bundle.CompaniesWithOrdersToday = 2
	bundle.TopOrderedMeal = stats.TopMeal{Name: "Bandeja Paisa", Count: 2}
	bundle.PendingOrders = 1
	bundle.MonthlyOrders = 40
	bundle.MonthlyRevenue = 1234.5
	bundle.Companies = []stats.CompanyRollup{
		{CompanyID: uuid.New(), Name: "Acme", OrderCount: 25, DistinctUserCount: 9, DispatchedCount: 20, PendingCount: 5},
		{CompanyID: uuid.New(), Name: "Globex", OrderCount: 15, DistinctUserCount: 6, DispatchedCount: 15, PendingCount: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRollupCSV(&buf, bundle))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Metric", "Value"}, records[0])
	assert.Equal(t, []string{"Orders Today", "3"}, records[1])
	assert.Equal(t, []string{"Top Ordered Meal", "Bandeja Paisa"}, records[3])
	assert.Equal(t, []string{"Revenue In Range", "1,234.5"}, records[6])

	// The blank separator line is skipped by csv.Reader.
	assert.Equal(t, []string{"Company", "Orders", "Distinct Users", "Dispatched", "Pending"}, records[7])
	assert.Equal(t, []string{"Acme", "25", "9", "20", "5"}, records[8])
	assert.Equal(t, []string{"Globex", "15", "6", "15", "0"}, records[9])
}

func TestWriteRollupCSVNoCompanies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRollupCSV(&buf, stats.ZeroBundle()))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 7, "headline only, no company table")
	assert.Equal(t, []string{"Top Ordered Meal", "no data"}, records[3])
}
