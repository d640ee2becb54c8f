// Package randompkg provides functionality for generating random application common items.
package randompkg

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Int generates a random integer between min and max.
func Int(min, max int32) int32 {
	return min + rand.Int31n(max-min+1)
}

// Float generates a random decimal number between min and max rounded.
func Float(min, max float64) float64 {
	return math.Floor((min+rand.Float64()*(max-min))*10_000) / 10_000
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// CustomerID generates a random customer id.
func CustomerID() string {
	return fmt.Sprintf("cus_%s", String(10))
}

// Actor generates a random operator id.
func Actor() string {
	return fmt.Sprintf("op_%s", String(6))
}

// MoneyAmountBetween generates a random amount of money between min and max.
func MoneyAmountBetween(min, max float64) string {
	return decimal.NewFromFloat(Float(min, max)).StringFixed(2)
}
