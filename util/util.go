package util

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const CurrencySymbolBRL = "R$"

func GetUUID() string {
	return uuid.New().String()
}

func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// FloatRoundOffWithPrecision Rounds of a float64 value to given precision. Ex: 2.667 with precision 2 -> 2.67.
func FloatRoundOffWithPrecision(value float64, precision int) (float64, error) {
	valueString := fmt.Sprintf("%0.*f", precision, value)
	roundOffValue, err := strconv.ParseFloat(valueString, 64)
	if err != nil {
		log.WithFields(log.Fields{"value": value,
			"precision": precision}).Error("error while rounding off float value")
		return roundOffValue, err
	}
	return roundOffValue, nil
}

// FormatCurrency formats an amount in reais with thousands separators and at most
// two decimals. Ex: 13591643.701 -> "R$ 13,591,643.7".
func FormatCurrency(value float64) string {
	rounded, err := FloatRoundOffWithPrecision(value, 2)
	if err != nil {
		rounded = value
	}
	return CurrencySymbolBRL + " " + humanize.Commaf(rounded)
}

// FormatCount Ex: 99441 -> "99441".
func FormatCount(value int64) string {
	return strconv.FormatInt(value, 10)
}
