package catalog

import "fmt"

// ResolvePrice returns the price of planID for bracket in pence.
// Unknown plans and brackets resolve to 0 so the page always renders;
// callers that need to detect bad input use Lookup.
func (c *Catalog) ResolvePrice(planID string, bracket Bracket) int64 {
	price, err := c.Lookup(planID, bracket)
	if err != nil {
		return 0
	}
	return price
}

// Lookup is the strict form of ResolvePrice.
func (c *Catalog) Lookup(planID string, bracket Bracket) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
	}
	i, ok := c.index[planID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlan, planID)
	}
	if !bracket.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownBracket, bracket)
	}
	return c.plans[i].Pricing[bracket], nil
}

// PriceRange returns the lowest and highest price across all plans and brackets.
func (c *Catalog) PriceRange() (low, high int64) {
	if c == nil || len(c.plans) == 0 {
		return 0, 0
	}
	first := true
	for _, p := range c.plans {
		for _, b := range brackets {
			v := p.Pricing[b]
			if first || v < low {
				low = v
			}
			if first || v > high {
				high = v
			}
			first = false
		}
	}
	return low, high
}

// PriceRange returns the plan's cheapest and dearest bracket prices.
func (p Plan) PriceRange() (low, high int64) {
	for i, b := range brackets {
		v := p.Pricing[b]
		if i == 0 || v < low {
			low = v
		}
		if i == 0 || v > high {
			high = v
		}
	}
	return low, high
}
