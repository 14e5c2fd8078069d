// Package export serialises dashboard metrics for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/WebLink-Company/mi-comida/internal/stats"
)

var printer = message.NewPrinter(language.English)

// WriteRollupCSV emits the per-company rollup plus the headline figures as
// CSV. Revenue keeps its unrounded value; only grouping separators are
// applied for readability.
func WriteRollupCSV(w io.Writer, bundle stats.MetricsBundle) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	headline := [][]string{
		{"Orders Today", strconv.Itoa(bundle.OrdersToday)},
		{"Companies With Orders Today", strconv.Itoa(bundle.CompaniesWithOrdersToday)},
		{"Top Ordered Meal", bundle.TopOrderedMeal.Name},
		{"Pending Orders", strconv.Itoa(bundle.PendingOrders)},
		{"Orders In Range", strconv.Itoa(bundle.MonthlyOrders)},
		{"Revenue In Range", printer.Sprintf("%v", bundle.MonthlyRevenue)},
	}
	for _, record := range headline {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if len(bundle.Companies) > 0 {
		if err := writer.Write([]string{""}); err != nil {
			return err
		}
		if err := writer.Write([]string{"Company", "Orders", "Distinct Users", "Dispatched", "Pending"}); err != nil {
			return err
		}
		for _, rollup := range bundle.Companies {
			if err := writer.Write([]string{
				rollup.Name,
				strconv.Itoa(rollup.OrderCount),
				strconv.Itoa(rollup.DistinctUserCount),
				strconv.Itoa(rollup.DispatchedCount),
				strconv.Itoa(rollup.PendingCount),
			}); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
