package value

import "strconv"

// Currency is a Steam numeric currency code.
type Currency int

//nolint:gochecknoglobals
var currencyNames = map[Currency]string{
	1: "USD",
	2: "GBP",
	3: "EUR",
	5: "RUB",
	7: "BRL",
}

func (c Currency) String() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}

	return "currency-" + strconv.Itoa(int(c))
}

func (c Currency) Code() int {
	return int(c)
}
