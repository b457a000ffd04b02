package domain

import "github.com/shopspring/decimal"

// DefaultTaxRate is the sales tax applied to a cart total.
var DefaultTaxRate = decimal.RequireFromString("0.0825")

// SurchargeTable maps menu item id -> food item id -> price delta.
// Food items missing from a menu item's row carry no surcharge.
type SurchargeTable map[int]map[int]decimal.Decimal

// Lookup returns the surcharge for attaching foodItemID to menuItemID, or zero.
func (t SurchargeTable) Lookup(menuItemID, foodItemID int) decimal.Decimal {
	row, ok := t[menuItemID]
	if !ok {
		return decimal.Zero
	}
	delta, ok := row[foodItemID]
	if !ok {
		return decimal.Zero
	}
	return delta
}

// Set registers delta for every (menu, food) pair given.
func (t SurchargeTable) Set(menuItemIDs, foodItemIDs []int, delta decimal.Decimal) {
	for _, m := range menuItemIDs {
		row, ok := t[m]
		if !ok {
			row = make(map[int]decimal.Decimal, len(foodItemIDs))
			t[m] = row
		}
		for _, f := range foodItemIDs {
			row[f] = delta
		}
	}
}

// PremiumAddonIDs are the food items that cost extra on some menu items.
var PremiumAddonIDs = []int{8, 9}

// DefaultSurchargeTable reproduces the house pricing for premium add-ons.
func DefaultSurchargeTable() SurchargeTable {
	t := SurchargeTable{}
	t.Set([]int{1, 2, 3, 8}, PremiumAddonIDs, decimal.RequireFromString("1.50"))
	t.Set([]int{5}, PremiumAddonIDs, decimal.RequireFromString("4.50"))
	t.Set([]int{4}, PremiumAddonIDs, decimal.RequireFromString("1.00"))
	return t
}

// Tax computes total * rate exactly. Rounding to cents is left to presentation.
func Tax(total, rate decimal.Decimal) decimal.Decimal {
	return total.Mul(rate)
}
