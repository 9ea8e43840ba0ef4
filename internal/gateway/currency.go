package gateway

import (
	"strconv"
	"strings"

	"gpwebpay-gateway/pkg/errors"

	"github.com/shopspring/decimal"
)

// currencyCodes maps the three-letter currency codes GP webpay accepts to
// their ISO 4217 numeric codes. Anything else is rejected.
var currencyCodes = map[string]string{
	"CZK": "203",
	"EUR": "978",
	"USD": "840",
	"GBP": "826",
	"PLN": "985",
	"HUF": "348",
	"LVL": "428",
}

// CurrencyNumericCode resolves a three-letter currency code to its ISO
// numeric code. Unknown codes return a 30002 domain error.
func CurrencyNumericCode(code string) (string, error) {
	numeric, ok := currencyCodes[strings.ToUpper(code)]
	if !ok {
		return "", errors.NewDomainError(30002, "unsupported currency", code)
	}
	return numeric, nil
}

// MinorUnits converts a decimal amount in currency units to the integer
// minor-unit amount the gateway expects: multiply by 100 and truncate.
func MinorUnits(total decimal.Decimal) string {
	return strconv.FormatInt(total.Mul(decimal.NewFromInt(100)).IntPart(), 10)
}
