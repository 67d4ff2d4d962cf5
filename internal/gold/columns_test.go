package gold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spanishgas/churnpipe/internal/contracts"
)

func TestAvailableColumnsReflectsRun(t *testing.T) {
	rows := []contracts.GoldRow{
		{
			CustomerID: "C1",
			LifecycleFeatures: contracts.LifecycleFeatures{
				TenureMonths: contracts.F64(24),
			},
		},
		{
			CustomerID: "C2",
			BehavioralFeatures: contracts.BehavioralFeatures{
				CustomerIntent: contracts.Str(contracts.IntentGeneral),
			},
		},
	}

	available := AvailableColumns(rows)
	assert.Contains(t, available, "tenure_months")
	assert.Contains(t, available, "customer_intent")
	assert.NotContains(t, available, "sentiment_label")
	assert.NotContains(t, available, "total_margin")
}

func TestMissingFeatures(t *testing.T) {
	rows := []contracts.GoldRow{
		{
			CustomerID: "C1",
			LifecycleFeatures: contracts.LifecycleFeatures{
				TenureMonths: contracts.F64(12),
			},
		},
	}

	missing := MissingFeatures(rows, []string{"tenure_months", "sentiment_label", "total_margin"})
	assert.Equal(t, []string{"sentiment_label", "total_margin"}, missing)
}

func TestFeatureColumnsCoverEveryTier(t *testing.T) {
	names := FeatureColumns()
	for _, want := range []string{
		"tenure_months", "total_elec_kwh", "margin_trend_3m",
		"customer_intent", "sentiment_label", "intent_x_renewal_bucket",
	} {
		assert.Contains(t, names, want)
	}
}

func TestApplyModelFillsClosesStructuralNulls(t *testing.T) {
	rows := []contracts.GoldRow{
		{
			CustomerID: "active",
			BehavioralFeatures: contracts.BehavioralFeatures{
				CustomerIntent:         contracts.Str(contracts.IntentComplaint),
				LastInteractionDaysAgo: contracts.I64(12),
				HasComplaint:           contracts.I64(1),
			},
		},
		{CustomerID: "quiet"},
	}

	ApplyModelFills(rows)

	quiet := rows[1]
	require.NotNil(t, quiet.CustomerIntent)
	assert.Equal(t, NoInteractionIntent, *quiet.CustomerIntent)
	require.NotNil(t, quiet.LastInteractionDaysAgo)
	assert.Equal(t, int64(RecencySentinelDays), *quiet.LastInteractionDaysAgo)
	assert.Equal(t, int64(0), *quiet.HasComplaint)

	// The enriched row keeps its real values.
	assert.Equal(t, contracts.IntentComplaint, *rows[0].CustomerIntent)
	assert.Equal(t, int64(12), *rows[0].LastInteractionDaysAgo)
}

func TestApplyModelFillsSkipsAbsentColumns(t *testing.T) {
	rows := []contracts.GoldRow{
		{CustomerID: "C1"},
		{CustomerID: "C2"},
	}

	ApplyModelFills(rows)

	// Nothing in the run produced these columns, so fills must not invent them.
	assert.Nil(t, rows[0].CustomerIntent)
	assert.Nil(t, rows[0].LastInteractionDaysAgo)
	assert.Nil(t, rows[0].HasComplaint)
}
