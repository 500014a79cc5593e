package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	yearDigit := fmt.Sprintf("%d", time.Now().Year()%10)

	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()

		assert.Len(t, number, OrderNumberLength)
		assert.Regexp(t, `^[0-9]{9}$`, number)
		assert.Equal(t, yearDigit, number[:1])
	}
}
