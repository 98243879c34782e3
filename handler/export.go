package handler

import (
	"database/sql"
	"fmt"
	"math"
	"net/http"

	mid "github.com/swastikanata/ecommerce-dashboard/middleware"
	H "github.com/swastikanata/ecommerce-dashboard/histogram"
	M "github.com/swastikanata/ecommerce-dashboard/model"
	U "github.com/swastikanata/ecommerce-dashboard/util"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	ContentTypeXLSX    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExportFileName     = "ecommerce_dashboard.xlsx"
	exportColumnWidth  = 18
	SheetKeyMetrics    = "Key Metrics"
	SheetRecency       = "Recency"
	SheetFrequency     = "Frequency"
	SheetMonetary      = "Monetary"
	SheetMonetaryStats = "Monetary Summary"
	SheetDeliveryTime  = "Delivery Time"
	SheetReviewScores  = "Review Score"
	defaultSheetName   = "Sheet1"
	nullCellValue      = ""
	exportHeaderRowNum = 1
)

type exportSheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

func nullFloatCell(v sql.NullFloat64) interface{} {
	if !v.Valid {
		return nullCellValue
	}
	return v.Float64
}

func nullIntCell(v sql.NullInt64) interface{} {
	if !v.Valid {
		return nullCellValue
	}
	return v.Int64
}

func distributionRows(d M.Distribution) [][]interface{} {
	rows := make([][]interface{}, 0, len(d.Rows))
	for _, row := range d.Rows {
		rows = append(rows, []interface{}{row.Category, row.Count})
	}
	return rows
}

// monetaryStatsRows summarizes customer spend. No spend values gives no rows.
func monetaryStatsRows(values []float64) [][]interface{} {
	stats := H.NewNumericHistogram(values)
	if stats.Count() == 0 {
		return nil
	}
	return [][]interface{}{
		{"customers", int(stats.Count())},
		{"mean", stats.Mean()},
		{"variance", stats.Variance()},
		{"std_dev", math.Sqrt(stats.Variance())},
		{"min", stats.Min},
		{"max", stats.Max},
	}
}

func exportSheets(report *M.Report) []exportSheet {
	keyMetrics := exportSheet{name: SheetKeyMetrics, header: []interface{}{"month", "revenue", "orders"}}
	for _, row := range report.KeyMetrics {
		keyMetrics.rows = append(keyMetrics.rows,
			[]interface{}{row.Month, nullFloatCell(row.Revenue), nullIntCell(row.Orders)})
	}

	monetary := exportSheet{name: SheetMonetary, header: []interface{}{"spend"}}
	for _, spend := range report.Monetary {
		monetary.rows = append(monetary.rows, []interface{}{spend})
	}

	delivery := exportSheet{name: SheetDeliveryTime,
		header: []interface{}{"month", "estimated_days", "actual_days", "orders"}}
	for _, row := range report.DeliveryByMonth {
		delivery.rows = append(delivery.rows, []interface{}{row.Label(),
			nullFloatCell(row.EstimatedDays), nullFloatCell(row.ActualDays), row.Orders})
	}

	review := exportSheet{name: SheetReviewScores, header: []interface{}{"review_score", "actual_days"}}
	for _, group := range report.DeliveryByReview {
		for _, days := range group.ActualDays {
			review.rows = append(review.rows, []interface{}{group.Score, days})
		}
	}

	return []exportSheet{
		keyMetrics,
		{name: SheetRecency, header: []interface{}{"last_purchase", "customers"}, rows: distributionRows(report.Recency)},
		{name: SheetFrequency, header: []interface{}{"orders", "customers"}, rows: distributionRows(report.Frequency)},
		monetary,
		{name: SheetMonetaryStats, header: []interface{}{"statistic", "value"}, rows: monetaryStatsRows(report.Monetary)},
		delivery,
		review,
	}
}

// BuildWorkbook writes every derived table of the report to its own sheet, header
// on the first row.
func BuildWorkbook(report *M.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sheet := range exportSheets(report) {
		if i == 0 {
			f.SetSheetName(defaultSheetName, sheet.name)
		} else {
			f.NewSheet(sheet.name)
		}

		lastCol, err := excelize.ColumnNumberToName(len(sheet.header))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid header on sheet %s", sheet.name)
		}
		if err := f.SetColWidth(sheet.name, "A", lastCol, exportColumnWidth); err != nil {
			return nil, errors.Wrapf(err, "failed to set column width on sheet %s", sheet.name)
		}

		rows := append([][]interface{}{sheet.header}, sheet.rows...)
		for rowIndex := range rows {
			cell, err := excelize.CoordinatesToCellName(1, exportHeaderRowNum+rowIndex)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.name, cell, &rows[rowIndex]); err != nil {
				return nil, errors.Wrapf(err, "failed to write row %d on sheet %s", rowIndex+1, sheet.name)
			}
		}
	}
	f.SetActiveSheet(0)

	return f, nil
}

func ExportWorkbookHandler(c *gin.Context) {
	report, ok := getReport(c)
	if !ok {
		return
	}

	logCtx := log.WithField("RequestId", U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID))
	f, err := BuildWorkbook(report)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build export workbook.")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export."})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ExportFileName))
	c.Header("Content-Type", ContentTypeXLSX)
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		logCtx.WithError(err).Error("Failed to write export workbook.")
	}
}
