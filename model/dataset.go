package model

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/swastikanata/ecommerce-dashboard/filestore"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Column names of the extracts, as written by the notebook that produced them.
const (
	ColumnPurchaseMonth  = "Bulan Pembelian"
	ColumnRevenue        = "Total Harga Pesanan"
	ColumnOrderCount     = "Banyak Pesanan"
	ColumnCustomerID     = "ID Pelanggan"
	ColumnLastPurchase   = "Pembelian Terakhir"
	ColumnCustomerSpend  = "Total Harga Pesanan (R$)"
	ColumnOrderID        = "ID Pesanan"
	ColumnEstimatedDays  = "Perkiraan Waktu Sampai (Hari)"
	ColumnActualDays     = "Waktu Sampai (Hari)"
	ColumnReviewScore    = "Skor Review"
	ColumnCustomerCount  = "Banyak Pelanggan"
	MonthDisplayLayout   = "2006-01"
	MinReviewScore       = 1
	MaxReviewScore       = 5
	utf8ByteOrderMarkStr = "\ufeff"
)

var (
	KeyMetricsColumns      = []string{ColumnPurchaseMonth, ColumnRevenue, ColumnOrderCount}
	CustomerSummaryColumns = []string{ColumnCustomerID, ColumnLastPurchase, ColumnOrderCount, ColumnCustomerSpend}
	OrderSummaryColumns    = []string{ColumnOrderID, ColumnPurchaseMonth, ColumnEstimatedDays, ColumnActualDays, ColumnReviewScore}
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidValue  = errors.New("invalid value")
)

var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01",
	"Jan 2006",
	"January 2006",
}

// KeyMetric is one pre-aggregated month. Month keeps the label as it appears in the extract.
type KeyMetric struct {
	Month   string
	Revenue sql.NullFloat64
	Orders  sql.NullInt64
}

type Customer struct {
	ID string
	// Raw recency label, see ParseRecencyBucket.
	LastPurchase string
	Orders       sql.NullInt64
	Spend        sql.NullFloat64
}

type Order struct {
	ID            string
	PurchaseMonth sql.NullTime
	EstimatedDays sql.NullFloat64
	ActualDays    sql.NullFloat64
	ReviewScore   sql.NullInt64
}

// Datasets holds the three tables for the life of the process.
// Nothing writes to it after LoadDatasets returns.
type Datasets struct {
	KeyMetrics []KeyMetric
	Customers  []Customer
	Orders     []Order
}

// LoadError is the only fatal error of the pipeline: a dataset could not be read
// or does not match its schema.
type LoadError struct {
	Dataset string
	File    string
	// 1-based data row (header excluded), 0 when the error is not row specific.
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to load %s", e.Dataset)
	if e.File != "" {
		fmt.Fprintf(&b, " from %s", e.File)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %s", e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *LoadError) Cause() error {
	return e.Err
}

// LoadDatasets reads the three extracts from the file manager.
func LoadDatasets(fm filestore.FileManager) (*Datasets, error) {
	datasets := &Datasets{}

	err := loadDataset(fm, filestore.DatasetKeyMetrics, func(r io.Reader) (int, error) {
		rows, err := LoadKeyMetrics(r)
		datasets.KeyMetrics = rows
		return len(rows), err
	})
	if err != nil {
		return nil, err
	}

	err = loadDataset(fm, filestore.DatasetCustomerSummary, func(r io.Reader) (int, error) {
		rows, err := LoadCustomerSummary(r)
		datasets.Customers = rows
		return len(rows), err
	})
	if err != nil {
		return nil, err
	}

	err = loadDataset(fm, filestore.DatasetOrderSummary, func(r io.Reader) (int, error) {
		rows, err := LoadOrderSummary(r)
		datasets.Orders = rows
		return len(rows), err
	})
	if err != nil {
		return nil, err
	}

	return datasets, nil
}

func loadDataset(fm filestore.FileManager, dataset string, parse func(io.Reader) (int, error)) error {
	path, fileName := fm.GetDatasetFilePathAndName(dataset)
	logCtx := log.WithFields(log.Fields{
		"dataset": dataset,
		"bucket":  fm.GetBucketName(),
		"path":    path,
		"file":    fileName,
	})

	if fileName == "" {
		return &LoadError{Dataset: dataset, Err: errors.New("no file configured")}
	}

	reader, err := fm.Get(path, fileName)
	if err != nil {
		logCtx.WithError(err).Error("Failed to open dataset file.")
		return &LoadError{Dataset: dataset, File: fileName, Err: errors.Wrap(err, "open")}
	}
	defer reader.Close()

	count, err := parse(reader)
	if err != nil {
		if loadErr, ok := err.(*LoadError); ok {
			loadErr.File = fileName
		}
		logCtx.WithError(err).Error("Failed to parse dataset file.")
		return err
	}

	logCtx.WithField("rows", count).Info("Dataset loaded.")
	return nil
}

func LoadKeyMetrics(r io.Reader) ([]KeyMetric, error) {
	table, err := readTable(r, filestore.DatasetKeyMetrics, KeyMetricsColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]KeyMetric, 0, len(table.records))
	for i := range table.records {
		var row KeyMetric
		row.Month = table.valueAt(i, ColumnPurchaseMonth)
		if row.Revenue, err = table.floatAt(i, ColumnRevenue); err != nil {
			return nil, err
		}
		if row.Orders, err = table.intAt(i, ColumnOrderCount); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func LoadCustomerSummary(r io.Reader) ([]Customer, error) {
	table, err := readTable(r, filestore.DatasetCustomerSummary, CustomerSummaryColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]Customer, 0, len(table.records))
	for i := range table.records {
		var row Customer
		row.ID = table.valueAt(i, ColumnCustomerID)
		row.LastPurchase = table.valueAt(i, ColumnLastPurchase)
		if row.Orders, err = table.intAt(i, ColumnOrderCount); err != nil {
			return nil, err
		}
		if row.Spend, err = table.floatAt(i, ColumnCustomerSpend); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func LoadOrderSummary(r io.Reader) ([]Order, error) {
	table, err := readTable(r, filestore.DatasetOrderSummary, OrderSummaryColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]Order, 0, len(table.records))
	for i := range table.records {
		var row Order
		row.ID = table.valueAt(i, ColumnOrderID)
		if row.PurchaseMonth, err = table.monthAt(i, ColumnPurchaseMonth); err != nil {
			return nil, err
		}
		if row.EstimatedDays, err = table.floatAt(i, ColumnEstimatedDays); err != nil {
			return nil, err
		}
		if row.ActualDays, err = table.floatAt(i, ColumnActualDays); err != nil {
			return nil, err
		}
		if row.ReviewScore, err = table.intAt(i, ColumnReviewScore); err != nil {
			return nil, err
		}
		if row.ReviewScore.Valid &&
			(row.ReviewScore.Int64 < MinReviewScore || row.ReviewScore.Int64 > MaxReviewScore) {
			return nil, table.errorAt(i, ColumnReviewScore,
				errors.Wrapf(ErrInvalidValue, "review score %d outside %d..%d",
					row.ReviewScore.Int64, MinReviewScore, MaxReviewScore))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type csvTable struct {
	dataset string
	columns map[string]int
	records [][]string
}

func readTable(r io.Reader, dataset string, required []string) (*csvTable, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		loadErr := &LoadError{Dataset: dataset, Err: errors.Wrap(err, "malformed csv")}
		if parseErr, ok := err.(*csv.ParseError); ok && parseErr.Line > 1 {
			loadErr.Row = parseErr.Line - 1
		}
		return nil, loadErr
	}
	if len(records) == 0 {
		return nil, &LoadError{Dataset: dataset, Err: errors.New("empty file, header row expected")}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8ByteOrderMarkStr)
		}
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, exists := columns[name]; !exists {
			return nil, &LoadError{Dataset: dataset, Column: name, Err: ErrMissingColumn}
		}
	}

	return &csvTable{dataset: dataset, columns: columns, records: records[1:]}, nil
}

func (t *csvTable) errorAt(row int, column string, err error) *LoadError {
	return &LoadError{Dataset: t.dataset, Row: row + 1, Column: column, Err: err}
}

func (t *csvTable) valueAt(row int, column string) string {
	return strings.TrimSpace(t.records[row][t.columns[column]])
}

func (t *csvTable) floatAt(row int, column string) (sql.NullFloat64, error) {
	raw := t.valueAt(row, column)
	if IsNullValue(raw) {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return sql.NullFloat64{}, t.errorAt(row, column, errors.Wrapf(ErrInvalidValue, "%q is not a finite number", raw))
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func (t *csvTable) intAt(row int, column string) (sql.NullInt64, error) {
	raw := t.valueAt(row, column)
	if IsNullValue(raw) {
		return sql.NullInt64{}, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return sql.NullInt64{Int64: i, Valid: true}, nil
	}
	// Integer columns holding NaN are written as floats, e.g. "5.0".
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.Trunc(f) != f {
		return sql.NullInt64{}, t.errorAt(row, column, errors.Wrapf(ErrInvalidValue, "%q is not an integer", raw))
	}
	return sql.NullInt64{Int64: int64(f), Valid: true}, nil
}

func (t *csvTable) monthAt(row int, column string) (sql.NullTime, error) {
	raw := t.valueAt(row, column)
	if IsNullValue(raw) {
		return sql.NullTime{}, nil
	}
	month, err := ParseMonth(raw)
	if err != nil {
		return sql.NullTime{}, t.errorAt(row, column, err)
	}
	return sql.NullTime{Time: month, Valid: true}, nil
}

var nullTokens = []string{"nan", "nat", "null", "none"}

// IsNullValue reports whether a csv cell denotes a missing value. Tokens match in any case.
func IsNullValue(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	for _, token := range nullTokens {
		if strings.EqualFold(raw, token) {
			return true
		}
	}
	return false
}

// ParseMonth parses a month or date label and returns the first instant of its month in UTC.
func ParseMonth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return now.New(t.UTC()).BeginningOfMonth(), nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidValue, "%q is not a month", raw)
}

// FormatMonth is the display label of a month key.
func FormatMonth(month time.Time) string {
	return month.Format(MonthDisplayLayout)
}
