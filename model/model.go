// Package model holds the records returned by the accounting API.
//
// Records reference each other by canonical URL ("https://.../contacts/12").
// Every record exposes its own URL through Identity and the URL it holds for
// a named relation through Ref, which is all the enrich package needs to
// join collections in memory. Amounts, quantities and dates stay in the
// API's string form and are parsed where they are used.
package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Relation names understood by Ref.
const (
	RelContact = "contact"
	RelProject = "project"
	RelTask    = "task"
	RelUser    = "user"
)

// ParseAmount parses a decimal string as sent by the API. An empty string is
// zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
