package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardSet(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := RuleSetByName("standard")
	require.NoError(t, err)
	return rs
}

func ownershipSet(t *testing.T) *RuleSet {
	t.Helper()
	rs, err := RuleSetByName("ownership")
	require.NoError(t, err)
	return rs
}

func TestDeriveTargets(t *testing.T) {
	targets := DeriveTargets(10, LabelFlat)
	assert.Equal(t, 8.5, targets.Sell)
	assert.Equal(t, 7.5, targets.Buy)

	// A falling market demands an extra discount on the buy side only.
	targets = DeriveTargets(10, LabelDown)
	assert.Equal(t, 8.5, targets.Sell)
	assert.Equal(t, 6.75, targets.Buy)

	// Rounded to 2 decimals.
	targets = DeriveTargets(3.33, LabelUp)
	assert.Equal(t, 2.5, targets.Buy)
	assert.Equal(t, 2.83, targets.Sell)
}

func TestStandardFirstMatchWins(t *testing.T) {
	rs := standardSet(t)

	// clean 18 against reference 20 satisfies both the deep-discount
	// buy (rule 2) and the at-reference safe buy (rule 4); the earlier
	// rule must win.
	action, _, ok := rs.Evaluate(Input{CleanPrice: 18, ReferenceValue: 20, Trend: LabelFlat})
	require.True(t, ok)
	assert.Equal(t, ActionBuyNow, action)
}

func TestStandardPriceFloor(t *testing.T) {
	rs := standardSet(t)

	// Too cheap to be actionable, whatever the other inputs say.
	inputs := []Input{
		{CleanPrice: 0.50, ReferenceValue: 100, HighDemand: true},
		{CleanPrice: 0.79, ReferenceValue: 20, Trend: LabelUp},
		{CleanPrice: 0.10, ReferenceValue: 1.5},
	}
	for _, in := range inputs {
		_, _, ok := rs.Evaluate(in)
		assert.False(t, ok)
	}

	// At the floor the set is live again.
	_, _, ok := rs.Evaluate(Input{CleanPrice: 0.80, ReferenceValue: 20})
	assert.True(t, ok)
}

func TestStandardRuleTable(t *testing.T) {
	rs := standardSet(t)

	tests := []struct {
		name string
		in   Input
		want Action
		none bool
	}{
		{"buy_now_mid_ref", Input{CleanPrice: 9.5, ReferenceValue: 10}, ActionBuyNow, false},
		{"safe_buy_at_reference", Input{CleanPrice: 7, ReferenceValue: 7}, ActionSafeBuy, false},
		{"safe_buy_under_reference", Input{CleanPrice: 4.5, ReferenceValue: 5}, ActionSafeBuy, false},
		{"bundle_cheap_high_demand", Input{CleanPrice: 2.40, ReferenceValue: 1, HighDemand: true}, ActionBundleBuy, false},
		{"bundle_band_high_demand", Input{CleanPrice: 3.40, ReferenceValue: 4.5, HighDemand: true}, ActionBundleBuy, false},
		{"bundle_floor", Input{CleanPrice: 1.20, ReferenceValue: 1.30}, ActionBundleBuy, false},
		{"watch_high_demand", Input{CleanPrice: 6.5, ReferenceValue: 6.5, HighDemand: true}, ActionWatch, false},
		{"watch_only", Input{CleanPrice: 8, ReferenceValue: 6, HighDemand: true}, ActionWatch, false},
		{"no_match", Input{CleanPrice: 9, ReferenceValue: 6}, "", true},
		{"no_match_low_demand", Input{CleanPrice: 3, ReferenceValue: 3.5}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, _, ok := rs.Evaluate(tt.in)
			if tt.none {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, action)
		})
	}
}

func TestOwnershipSellSide(t *testing.T) {
	rs := ownershipSet(t)

	tests := []struct {
		name string
		in   Input
		want Action
	}{
		{"job_lot", Input{CleanPrice: 3, ReferenceValue: 1.5, Ownership: OwnershipOwned}, ActionJobLot},
		{"bundle", Input{CleanPrice: 6, ReferenceValue: 5, Ownership: OwnershipOwned}, ActionBundle},
		{"list_now", Input{CleanPrice: 12, ReferenceValue: 9, Ownership: OwnershipOwned}, ActionListNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, _, ok := rs.Evaluate(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, action)
		})
	}

	// Owned, reference above the list floor, but the street price still
	// sits under the reference-derived sell target of 7.65: hold.
	_, targets, ok := rs.Evaluate(Input{CleanPrice: 6, ReferenceValue: 9, Ownership: OwnershipOwned})
	assert.False(t, ok)
	assert.Equal(t, 5.1, targets.Sell, "returned targets derive from the clean price")
}

func TestOwnershipBuySide(t *testing.T) {
	rs := ownershipSet(t)

	// Reference 12 / FLAT gives a buy target of 9.00, so the buy window
	// tops out at 9.45 and the watch window at 11.25.
	action, _, ok := rs.Evaluate(Input{CleanPrice: 7.80, ReferenceValue: 12, Ownership: OwnershipWanted})
	require.True(t, ok)
	assert.Equal(t, ActionBuyNow, action)

	action, _, ok = rs.Evaluate(Input{CleanPrice: 10, ReferenceValue: 12, Ownership: OwnershipWanted})
	require.True(t, ok)
	assert.Equal(t, ActionWatch, action)

	_, _, ok = rs.Evaluate(Input{CleanPrice: 12, ReferenceValue: 9, Ownership: OwnershipNone})
	assert.False(t, ok, "clean far above the watch window")
}

func TestRuleSetByNameUnknown(t *testing.T) {
	_, err := RuleSetByName("v7")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRuleSet)
}

func TestRuleSetDefaultName(t *testing.T) {
	rs, err := RuleSetByName("")
	require.NoError(t, err)
	assert.Equal(t, "standard", rs.Name)
}
