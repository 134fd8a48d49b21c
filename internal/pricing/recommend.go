package pricing

import (
	"errors"
	"fmt"
)

// Action is a suggested next step for one item.
type Action string

const (
	ActionBuyNow    Action = "BUY_NOW"
	ActionSafeBuy   Action = "SAFE_BUY"
	ActionBundleBuy Action = "BUNDLE_BUY"
	ActionWatch     Action = "WATCH"
	ActionListNow   Action = "LIST_NOW"
	ActionBundle    Action = "BUNDLE"
	ActionJobLot    Action = "JOB_LOT"
)

// Ownership is the user's relationship to an item.
type Ownership string

const (
	OwnershipOwned  Ownership = "OWNED"
	OwnershipWanted Ownership = "WANTED"
	OwnershipNone   Ownership = "NONE"
)

// ErrUnknownRuleSet is returned for rule-set names that no preset
// defines. It must surface before any batch runs.
var ErrUnknownRuleSet = errors.New("pricing: unknown rule set")

// Input is everything a rule may consult for one item.
type Input struct {
	CleanPrice     float64
	ReferenceValue float64
	Trend          Label
	HighDemand     bool
	Ownership      Ownership
}

// Targets are the derived buy/sell price points: sell at a discount to
// the clean market price, buy below market with an extra discount
// demanded in a falling market.
type Targets struct {
	Buy  float64
	Sell float64
}

// DeriveTargets computes the target prices for a clean price and trend,
// rounded to 2 decimals.
func DeriveTargets(cleanPrice float64, trend Label) Targets {
	buyFactor := 0.75
	if trend == LabelDown {
		buyFactor *= 0.9
	}
	return Targets{
		Buy:  Round2(cleanPrice * buyFactor),
		Sell: Round2(cleanPrice * 0.85),
	}
}

// Rule is one entry in an ordered rule list. An empty Action means the
// rule terminates evaluation with no recommendation (e.g. a price
// floor).
type Rule struct {
	Name    string
	Matches func(in Input, t Targets) bool
	Action  Action
}

// RuleSet is a named, ordered rule list evaluated first-match-wins.
// Every numeric breakpoint lives in the threshold structs below, not in
// control flow, so observed calibration variants are presets of the same
// engine rather than separate code paths.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// Evaluate runs the rules in order against one item and returns the
// first matching action. ok is false when no rule matches or a
// terminating rule (empty action) fires.
func (rs *RuleSet) Evaluate(in Input) (action Action, targets Targets, ok bool) {
	targets = DeriveTargets(in.CleanPrice, in.Trend)
	for _, rule := range rs.Rules {
		if rule.Matches(in, targets) {
			if rule.Action == "" {
				return "", targets, false
			}
			return rule.Action, targets, true
		}
	}
	return "", targets, false
}

// RuleSetByName resolves a configured rule-set name to its preset.
func RuleSetByName(name string) (*RuleSet, error) {
	switch name {
	case "", "standard":
		return newStandardRuleSet(defaultStandardThresholds), nil
	case "ownership":
		return newOwnershipRuleSet(defaultOwnershipThresholds), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRuleSet, name)
	}
}

// StandardThresholds names every breakpoint of the buy-side rule set.
type StandardThresholds struct {
	// MinActionablePrice floors the whole set: anything cleaner-priced
	// below it is too cheap to act on.
	MinActionablePrice float64

	BuyNowHighRef      float64 // reference floor for the 10% discount buy
	BuyNowHighDiscount float64
	BuyNowMidRef       float64 // reference floor for the 5% discount buy
	BuyNowMidDiscount  float64

	SafeBuyHighRef     float64 // clean at or below reference
	SafeBuyLowRef      float64 // clean at 10% under reference
	SafeBuyLowDiscount float64

	BundleLowRefCeil    float64 // cheap hot cards worth bundling
	BundleMaxClean      float64
	BundleBandRefMin    float64
	BundleBandRefCeil   float64
	BundleCheapRefMin   float64
	BundleCheapMaxClean float64

	WatchRefMin  float64
	WatchRefCeil float64
}

var defaultStandardThresholds = StandardThresholds{
	MinActionablePrice: 0.80,

	BuyNowHighRef:      20,
	BuyNowHighDiscount: 0.90,
	BuyNowMidRef:       10,
	BuyNowMidDiscount:  0.95,

	SafeBuyHighRef:     7,
	SafeBuyLowRef:      5,
	SafeBuyLowDiscount: 0.90,

	BundleLowRefCeil:    5,
	BundleMaxClean:      2.50,
	BundleBandRefMin:    2,
	BundleBandRefCeil:   5,
	BundleCheapRefMin:   1.25,
	BundleCheapMaxClean: 1.25,

	WatchRefMin:  4,
	WatchRefCeil: 7,
}

// newStandardRuleSet builds the buy-side rule list. Ordering is part of
// the contract: an item matching several rules gets the earliest one.
func newStandardRuleSet(th StandardThresholds) *RuleSet {
	return &RuleSet{
		Name: "standard",
		Rules: []Rule{
			{
				Name: "price_floor",
				Matches: func(in Input, _ Targets) bool {
					return in.CleanPrice < th.MinActionablePrice
				},
			},
			{
				Name: "buy_now_deep_discount",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.BuyNowHighRef &&
						in.CleanPrice <= in.ReferenceValue*th.BuyNowHighDiscount
				},
				Action: ActionBuyNow,
			},
			{
				Name: "buy_now_discount",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.BuyNowMidRef &&
						in.CleanPrice <= in.ReferenceValue*th.BuyNowMidDiscount
				},
				Action: ActionBuyNow,
			},
			{
				Name: "safe_buy_at_reference",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.SafeBuyHighRef &&
						in.CleanPrice <= in.ReferenceValue
				},
				Action: ActionSafeBuy,
			},
			{
				Name: "safe_buy_under_reference",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.SafeBuyLowRef &&
						in.CleanPrice <= in.ReferenceValue*th.SafeBuyLowDiscount
				},
				Action: ActionSafeBuy,
			},
			{
				Name: "bundle_cheap_high_demand",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue < th.BundleLowRefCeil &&
						in.CleanPrice < th.BundleMaxClean && in.HighDemand
				},
				Action: ActionBundleBuy,
			},
			{
				Name: "bundle_band_high_demand",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.BundleBandRefMin &&
						in.ReferenceValue < th.BundleBandRefCeil &&
						in.HighDemand && in.CleanPrice < in.ReferenceValue
				},
				Action: ActionBundleBuy,
			},
			{
				Name: "bundle_floor",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.BundleCheapRefMin &&
						in.CleanPrice <= th.BundleCheapMaxClean
				},
				Action: ActionBundleBuy,
			},
			{
				Name: "watch_high_demand",
				Matches: func(in Input, _ Targets) bool {
					return in.ReferenceValue >= th.WatchRefMin &&
						in.ReferenceValue < th.WatchRefCeil && in.HighDemand
				},
				Action: ActionWatch,
			},
		},
	}
}

// OwnershipThresholds names the breakpoints of the ownership-aware set.
type OwnershipThresholds struct {
	JobLotRefCeil float64 // owned items below this go in a job lot
	BundleRefCeil float64 // owned items below this go in bundles
	ListRefMin    float64 // owned items listed individually from here

	BuyNowBuffer float64 // tolerance over target buy for an instant buy
	WatchBuffer  float64 // tolerance over target buy worth monitoring
}

var defaultOwnershipThresholds = OwnershipThresholds{
	JobLotRefCeil: 2,
	BundleRefCeil: 7,
	ListRefMin:    7,

	BuyNowBuffer: 1.05,
	WatchBuffer:  1.25,
}

// newOwnershipRuleSet branches on ownership status: sell-side actions
// for owned items, buy-side for wanted and unlisted ones. The price
// comparisons run against targets derived from the reference value, so
// "buy" means the street price sits under what the item is worth, and
// "list" means the street price has risen past the sell target.
func newOwnershipRuleSet(th OwnershipThresholds) *RuleSet {
	owned := func(in Input) bool { return in.Ownership == OwnershipOwned }
	refTargets := func(in Input) Targets { return DeriveTargets(in.ReferenceValue, in.Trend) }
	return &RuleSet{
		Name: "ownership",
		Rules: []Rule{
			{
				Name: "owned_job_lot",
				Matches: func(in Input, _ Targets) bool {
					return owned(in) && in.ReferenceValue < th.JobLotRefCeil
				},
				Action: ActionJobLot,
			},
			{
				Name: "owned_bundle",
				Matches: func(in Input, _ Targets) bool {
					return owned(in) && in.ReferenceValue < th.BundleRefCeil
				},
				Action: ActionBundle,
			},
			{
				Name: "owned_list_now",
				Matches: func(in Input, _ Targets) bool {
					return owned(in) && in.ReferenceValue >= th.ListRefMin &&
						in.CleanPrice >= refTargets(in).Sell
				},
				Action: ActionListNow,
			},
			{
				Name: "unowned_buy_now",
				Matches: func(in Input, _ Targets) bool {
					return !owned(in) && in.CleanPrice <= refTargets(in).Buy*th.BuyNowBuffer
				},
				Action: ActionBuyNow,
			},
			{
				Name: "unowned_watch",
				Matches: func(in Input, _ Targets) bool {
					return !owned(in) && in.CleanPrice <= refTargets(in).Buy*th.WatchBuffer
				},
				Action: ActionWatch,
			},
		},
	}
}
