package model

import (
	"strings"
)

type RecencyBucket string

const (
	RecencyWithinDay      RecencyBucket = "<=1 day"
	RecencyWithinWeek     RecencyBucket = "<=1 week"
	RecencyWithinMonth    RecencyBucket = "<=1 month"
	RecencyWithinSixMonth RecencyBucket = "<=6 months"
	RecencyWithinYear     RecencyBucket = "<=1 year"
	RecencyOverYear       RecencyBucket = ">1 year"
)

// RecencyBuckets is the display order of the recency distribution. Aggregation and the
// bar chart both follow it; it is not derived from the data.
var RecencyBuckets = [...]RecencyBucket{
	RecencyWithinDay,
	RecencyWithinWeek,
	RecencyWithinMonth,
	RecencyWithinSixMonth,
	RecencyWithinYear,
	RecencyOverYear,
}

type FrequencyCategory string

const (
	FrequencyOnce        FrequencyCategory = "1"
	FrequencyTwice       FrequencyCategory = "2"
	FrequencyThreeOrMore FrequencyCategory = ">=3"
)

var FrequencyCategories = [...]FrequencyCategory{
	FrequencyOnce,
	FrequencyTwice,
	FrequencyThreeOrMore,
}

// RecencyBucketLabels returns the bucket order as plain strings.
func RecencyBucketLabels() []string {
	labels := make([]string, 0, len(RecencyBuckets))
	for _, bucket := range RecencyBuckets {
		labels = append(labels, string(bucket))
	}
	return labels
}

func compactLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), ""))
}

// ParseRecencyBucket maps a raw label to its bucket. Whitespace and case are ignored,
// so "<= 1 day" is RecencyWithinDay. Unknown labels return false.
func ParseRecencyBucket(label string) (RecencyBucket, bool) {
	compact := compactLabel(label)
	if compact == "" {
		return "", false
	}
	for _, bucket := range RecencyBuckets {
		if compactLabel(string(bucket)) == compact {
			return bucket, true
		}
	}
	return "", false
}

// FrequencyCategoryOf puts exactly one and two orders in their own category and
// everything else in FrequencyThreeOrMore.
func FrequencyCategoryOf(orders int64) FrequencyCategory {
	switch orders {
	case 1:
		return FrequencyOnce
	case 2:
		return FrequencyTwice
	default:
		return FrequencyThreeOrMore
	}
}
