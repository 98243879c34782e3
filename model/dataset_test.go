package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/swastikanata/ecommerce-dashboard/filestore"
	"github.com/swastikanata/ecommerce-dashboard/services/disk"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyMetricsCSV = `Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan
2017-01,1000.5,10
2017-02,1500,12
2017-03,,
`
	customerSummaryCSV = `ID Pelanggan,Pembelian Terakhir,Banyak Pesanan,Total Harga Pesanan (R$)
c1,<=1 day,1,10.5
c2,<= 1 week,2,20
c3,>1 year,5,300
c4,,1,NaN
c5,<=1 day,3.0,42
`
	orderSummaryCSV = `ID Pesanan,Bulan Pembelian,Perkiraan Waktu Sampai (Hari),Waktu Sampai (Hari),Skor Review
o1,2017-01-05,20,10,5
o2,2017-01-20 10:00:00,30,,4
o3,2017-02,25,15,5
o4,NaT,10,10,1
`
)

func TestLoadKeyMetrics(t *testing.T) {
	rows, err := LoadKeyMetrics(strings.NewReader(keyMetricsCSV))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "2017-01", rows[0].Month)
	assert.Equal(t, 1000.5, rows[0].Revenue.Float64)
	assert.True(t, rows[0].Revenue.Valid)
	assert.Equal(t, int64(12), rows[1].Orders.Int64)
	assert.False(t, rows[2].Revenue.Valid)
	assert.False(t, rows[2].Orders.Valid)
}

func TestLoadCustomerSummary(t *testing.T) {
	rows, err := LoadCustomerSummary(strings.NewReader(customerSummaryCSV))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, "c2", rows[1].ID)
	assert.Equal(t, "<= 1 week", rows[1].LastPurchase)
	assert.Equal(t, "", rows[3].LastPurchase)
	assert.False(t, rows[3].Spend.Valid)
	assert.Equal(t, int64(3), rows[4].Orders.Int64)
}

func TestLoadOrderSummary(t *testing.T) {
	rows, err := LoadOrderSummary(strings.NewReader(orderSummaryCSV))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	jan, err := ParseMonth("2017-01")
	require.NoError(t, err)
	assert.True(t, rows[0].PurchaseMonth.Time.Equal(jan))
	assert.True(t, rows[1].PurchaseMonth.Time.Equal(jan))
	assert.False(t, rows[1].ActualDays.Valid)
	assert.False(t, rows[3].PurchaseMonth.Valid)
	assert.Equal(t, int64(1), rows[3].ReviewScore.Int64)
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingColumn", func(t *testing.T) {
		_, err := LoadKeyMetrics(strings.NewReader("Bulan Pembelian,Banyak Pesanan\n2017-01,10\n"))
		require.Error(t, err)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ColumnRevenue, loadErr.Column)
		assert.Equal(t, filestore.DatasetKeyMetrics, loadErr.Dataset)
		assert.Equal(t, ErrMissingColumn, errors.Cause(err))
	})

	t.Run("NonNumericValue", func(t *testing.T) {
		_, err := LoadKeyMetrics(strings.NewReader("Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan\n2017-01,abc,10\n"))
		require.Error(t, err)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, 1, loadErr.Row)
		assert.Equal(t, ColumnRevenue, loadErr.Column)
		assert.True(t, errors.Is(err, ErrInvalidValue))
	})

	t.Run("NonFiniteValue", func(t *testing.T) {
		for _, raw := range []string{"inf", "+Inf", "-inf", "Infinity", "1e400"} {
			_, err := LoadKeyMetrics(strings.NewReader(
				"Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan\n2017-01," + raw + ",10\n"))
			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), raw)
			assert.Equal(t, ColumnRevenue, loadErr.Column, raw)
			assert.True(t, errors.Is(err, ErrInvalidValue), raw)
		}

		_, err := LoadOrderSummary(strings.NewReader(
			"ID Pesanan,Bulan Pembelian,Perkiraan Waktu Sampai (Hari),Waktu Sampai (Hari),Skor Review\no1,2017-01,1,Inf,3\n"))
		assert.True(t, errors.Is(err, ErrInvalidValue))
	})

	t.Run("FractionalOrderCount", func(t *testing.T) {
		_, err := LoadCustomerSummary(strings.NewReader(
			"ID Pelanggan,Pembelian Terakhir,Banyak Pesanan,Total Harga Pesanan (R$)\nc1,<=1 day,1.5,10\n"))
		assert.True(t, errors.Is(err, ErrInvalidValue))
	})

	t.Run("ReviewScoreOutOfRange", func(t *testing.T) {
		_, err := LoadOrderSummary(strings.NewReader(
			"ID Pesanan,Bulan Pembelian,Perkiraan Waktu Sampai (Hari),Waktu Sampai (Hari),Skor Review\no1,2017-01,1,1,9\n"))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, ColumnReviewScore, loadErr.Column)
	})

	t.Run("BadMonth", func(t *testing.T) {
		_, err := LoadOrderSummary(strings.NewReader(
			"ID Pesanan,Bulan Pembelian,Perkiraan Waktu Sampai (Hari),Waktu Sampai (Hari),Skor Review\no1,someday,1,1,3\n"))
		assert.True(t, errors.Is(err, ErrInvalidValue))
	})

	t.Run("MalformedCSV", func(t *testing.T) {
		_, err := LoadKeyMetrics(strings.NewReader("Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan\n2017-01,1,2,3\n"))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, 1, loadErr.Row)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		_, err := LoadKeyMetrics(strings.NewReader(""))
		var loadErr *LoadError
		assert.True(t, errors.As(err, &loadErr))
	})
}

func TestLoadHeaderOnly(t *testing.T) {
	rows, err := LoadKeyMetrics(strings.NewReader("Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan\n"))
	assert.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadToleratesBOMAndExtraColumns(t *testing.T) {
	rows, err := LoadKeyMetrics(strings.NewReader(
		"\ufeffBulan Pembelian,Extra,Total Harga Pesanan,Banyak Pesanan\n2017-01,x,5,1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5.0, rows[0].Revenue.Float64)
}

func writeDatasetFiles(t *testing.T, dir string, skip string) {
	files := map[string]string{
		filestore.DatasetKeyMetrics:      keyMetricsCSV,
		filestore.DatasetCustomerSummary: customerSummaryCSV,
		filestore.DatasetOrderSummary:    orderSummaryCSV,
	}
	for dataset, content := range files {
		if dataset == skip {
			continue
		}
		path := filepath.Join(dir, filestore.DefaultFileNames()[dataset])
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestLoadDatasets(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		dir := t.TempDir()
		writeDatasetFiles(t, dir, "")

		datasets, err := LoadDatasets(disk.New(dir, filestore.DefaultFileNames()))
		require.NoError(t, err)
		assert.Len(t, datasets.KeyMetrics, 3)
		assert.Len(t, datasets.Customers, 5)
		assert.Len(t, datasets.Orders, 4)
	})

	t.Run("MissingFile", func(t *testing.T) {
		dir := t.TempDir()
		writeDatasetFiles(t, dir, filestore.DatasetOrderSummary)

		datasets, err := LoadDatasets(disk.New(dir, filestore.DefaultFileNames()))
		assert.Nil(t, datasets)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, filestore.DatasetOrderSummary, loadErr.Dataset)
		assert.Equal(t, filestore.DefaultFileNames()[filestore.DatasetOrderSummary], loadErr.File)
		assert.True(t, os.IsNotExist(errors.Cause(loadErr.Err)))
	})

	t.Run("FileSetOnParseError", func(t *testing.T) {
		dir := t.TempDir()
		writeDatasetFiles(t, dir, filestore.DatasetKeyMetrics)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "key_metrics.csv"), []byte("foo\n1\n"), 0644))

		_, err := LoadDatasets(disk.New(dir, filestore.DefaultFileNames()))
		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, "key_metrics.csv", loadErr.File)
		assert.Contains(t, err.Error(), "key_metrics.csv")
	})
}

func TestParseMonth(t *testing.T) {
	for _, raw := range []string{"2017-03", "2017-03-31", "2017-03-15 08:00:00", "2017-03-02T10:00:00Z", "Mar 2017"} {
		month, err := ParseMonth(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "2017-03", FormatMonth(month), raw)
		assert.Equal(t, 1, month.Day(), raw)
		assert.Equal(t, 0, month.Hour(), raw)
	}

	_, err := ParseMonth("March")
	assert.Error(t, err)
}

func TestIsNullValue(t *testing.T) {
	for _, raw := range []string{"", " ", "NaN", "nan", "NAN", "Nan", "NaT", "NULL", "null", "None", "NONE"} {
		assert.True(t, IsNullValue(raw), raw)
	}
	assert.False(t, IsNullValue("0"))
	assert.False(t, IsNullValue("inf"))
}

func TestLoadKeyMetricsNullTokensAnyCase(t *testing.T) {
	rows, err := LoadKeyMetrics(strings.NewReader(
		"Bulan Pembelian,Total Harga Pesanan,Banyak Pesanan\n2017-01,NAN,10\n2017-02,1500,Nan\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.False(t, rows[0].Revenue.Valid)
	assert.False(t, rows[1].Orders.Valid)

	metrics := ComputeMetrics(rows)
	assert.Equal(t, 1500.0, metrics.TotalRevenue)
	assert.Equal(t, int64(10), metrics.TotalOrders)
	_, err = json.Marshal(NewReport(&Datasets{KeyMetrics: rows}).Charts())
	assert.NoError(t, err)
}
