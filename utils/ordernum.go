package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// OrderNumberLength is the fixed width of a generated order number.
const OrderNumberLength = 9

// GenerateOrderNumber produces a 9-digit human-facing order number:
// one digit for the current year mod 10, five zero-padded random digits,
// and three zero-padded random digits. The generator itself guarantees no
// uniqueness; the order store's unique constraint does, and the coordinator
// regenerates on collision.
func GenerateOrderNumber() string {
	year := time.Now().Year() % 10
	random := rand.Intn(100000)
	sequence := rand.Intn(1000)
	return fmt.Sprintf("%d%05d%03d", year, random, sequence)
}
