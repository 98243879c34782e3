package model

import (
	"database/sql"
	"sort"
	"time"
)

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Distribution is a count per category in display order. Categories without rows are
// omitted. Excluded counts rows dropped for a null or unknown grouping value.
type Distribution struct {
	Rows     []CategoryCount `json:"rows"`
	Excluded int             `json:"excluded"`
}

func (d Distribution) Total() int {
	total := 0
	for _, row := range d.Rows {
		total += row.Count
	}
	return total
}

type MonthlyDeliveryTime struct {
	Month         time.Time
	EstimatedDays sql.NullFloat64
	ActualDays    sql.NullFloat64
	// Orders with a month and at least one delivery time.
	Orders int
}

func (m MonthlyDeliveryTime) Label() string {
	return FormatMonth(m.Month)
}

type ReviewDeliveryTime struct {
	Score      int64
	ActualDays []float64
}

type Metrics struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
}

// MonthlyRevenueAndOrders returns the key metrics unchanged, in input order.
func MonthlyRevenueAndOrders(rows []KeyMetric) []KeyMetric {
	result := make([]KeyMetric, len(rows))
	copy(result, rows)
	return result
}

func TotalRevenue(rows []KeyMetric) float64 {
	total := 0.0
	for _, row := range rows {
		if row.Revenue.Valid {
			total += row.Revenue.Float64
		}
	}
	return total
}

func TotalOrders(rows []KeyMetric) int64 {
	var total int64
	for _, row := range rows {
		if row.Orders.Valid {
			total += row.Orders.Int64
		}
	}
	return total
}

func ComputeMetrics(rows []KeyMetric) Metrics {
	return Metrics{TotalRevenue: TotalRevenue(rows), TotalOrders: TotalOrders(rows)}
}

// RecencyDistribution counts customers per recency bucket in RecencyBuckets order.
// Customers with an empty or unknown bucket are excluded.
func RecencyDistribution(rows []Customer) Distribution {
	counts := make(map[RecencyBucket]int, len(RecencyBuckets))
	excluded := 0
	for _, row := range rows {
		bucket, ok := ParseRecencyBucket(row.LastPurchase)
		if !ok {
			excluded++
			continue
		}
		counts[bucket]++
	}

	distribution := Distribution{Rows: make([]CategoryCount, 0, len(counts)), Excluded: excluded}
	for _, bucket := range RecencyBuckets {
		if count := counts[bucket]; count > 0 {
			distribution.Rows = append(distribution.Rows, CategoryCount{Category: string(bucket), Count: count})
		}
	}
	return distribution
}

// FrequencyDistribution counts customers per order count category.
func FrequencyDistribution(rows []Customer) Distribution {
	counts := make(map[FrequencyCategory]int, len(FrequencyCategories))
	excluded := 0
	for _, row := range rows {
		if !row.Orders.Valid {
			excluded++
			continue
		}
		counts[FrequencyCategoryOf(row.Orders.Int64)]++
	}

	distribution := Distribution{Rows: make([]CategoryCount, 0, len(counts)), Excluded: excluded}
	for _, category := range FrequencyCategories {
		if count := counts[category]; count > 0 {
			distribution.Rows = append(distribution.Rows, CategoryCount{Category: string(category), Count: count})
		}
	}
	return distribution
}

// MonetaryDistribution returns the non-null spend values unbinned, in input order.
func MonetaryDistribution(rows []Customer) []float64 {
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		if row.Spend.Valid {
			values = append(values, row.Spend.Float64)
		}
	}
	return values
}

type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v sql.NullFloat64) {
	if v.Valid {
		m.sum += v.Float64
		m.count++
	}
}

func (m meanAccumulator) mean() sql.NullFloat64 {
	if m.count == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: m.sum / float64(m.count), Valid: true}
}

// DeliveryTimeByMonth computes mean estimated and mean actual delivery days per purchase
// month, each over its non-null values, ordered chronologically.
func DeliveryTimeByMonth(rows []Order) []MonthlyDeliveryTime {
	type monthAccumulator struct {
		month     time.Time
		estimated meanAccumulator
		actual    meanAccumulator
		orders    int
	}

	months := make(map[int64]*monthAccumulator)
	for _, row := range rows {
		if !row.PurchaseMonth.Valid || (!row.EstimatedDays.Valid && !row.ActualDays.Valid) {
			continue
		}
		key := row.PurchaseMonth.Time.Unix()
		acc, exists := months[key]
		if !exists {
			acc = &monthAccumulator{month: row.PurchaseMonth.Time.UTC()}
			months[key] = acc
		}
		acc.estimated.add(row.EstimatedDays)
		acc.actual.add(row.ActualDays)
		acc.orders++
	}

	result := make([]MonthlyDeliveryTime, 0, len(months))
	for _, acc := range months {
		result = append(result, MonthlyDeliveryTime{
			Month:         acc.month,
			EstimatedDays: acc.estimated.mean(),
			ActualDays:    acc.actual.mean(),
			Orders:        acc.orders,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})
	return result
}

// DeliveryTimeByReview groups the actual delivery days of orders by review score,
// keeping every value for the box plot. Scores come out ascending.
func DeliveryTimeByReview(rows []Order) []ReviewDeliveryTime {
	groups := make(map[int64][]float64)
	for _, row := range rows {
		if !row.ReviewScore.Valid || !row.ActualDays.Valid {
			continue
		}
		groups[row.ReviewScore.Int64] = append(groups[row.ReviewScore.Int64], row.ActualDays.Float64)
	}

	result := make([]ReviewDeliveryTime, 0, len(groups))
	for score, values := range groups {
		result = append(result, ReviewDeliveryTime{Score: score, ActualDays: values})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Score < result[j].Score
	})
	return result
}
