package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthOf(t *testing.T) {
	ts := time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Month("2024-03"), MonthOf(ts))
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Month
		wantErr bool
	}{
		{"plain month", "2024-03", "2024-03", false},
		{"full date prefix", "2024-03-15", "2024-03", false},
		{"timestamp prefix", "2024-12-01T10:00:00Z", "2024-12", false},
		{"too short", "2024", "", true},
		{"garbage", "not-a-m", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthOrdering(t *testing.T) {
	assert.True(t, Month("2024-09").Before("2024-10"))
	assert.True(t, Month("2024-12").Before("2025-01"))
	assert.False(t, Month("2025-01").Before("2024-12"))
}

func TestMonthTime(t *testing.T) {
	got := Month("2024-06").Time()
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestGrainViolationf(t *testing.T) {
	err := GrainViolationf("bronze_customer", 3)
	require.ErrorIs(t, err, ErrGrainViolation)
	assert.Contains(t, err.Error(), "bronze_customer")
}

func TestCustomerMonthClone(t *testing.T) {
	cm := CustomerMonth{
		CustomerID: "C001",
		Month:      "2024-01",
		Margins:    &MarginBreakdown{TotalMargin: 10},
	}
	clone := cm.Clone()
	clone.Margins.TotalMargin = 99

	assert.Equal(t, 10.0, cm.Margins.TotalMargin)
}
