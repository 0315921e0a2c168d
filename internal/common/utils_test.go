package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearRange(t *testing.T) {
	assert.Equal(t, []int{2021, 2022, 2023}, YearRange(2021, 2023))
	assert.Equal(t, []int{2024}, YearRange(2024, 2024))
	assert.Empty(t, YearRange(2025, 2024))
}

func TestYesterdayCrossesYearBoundary(t *testing.T) {
	now := time.Date(2024, time.January, 1, 8, 30, 0, 0, time.UTC)

	y := Yesterday(now)

	assert.Equal(t, "2023-12-31", FormatDate(y))
	assert.Equal(t, 0, y.Hour())
}
