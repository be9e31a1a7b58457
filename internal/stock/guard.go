// Package stock holds the advisory inventory check applied to cart mutations.
package stock

import (
	"fmt"
	"math"

	"storefront/internal/model"
)

// CheckAddition rejects an increment that would push the cart quantity for a
// product past its total stock. The check is advisory: nothing is reserved,
// and two carts may both pass for the last unit.
func CheckAddition(currentQuantityInCart, requestedIncrement, totalStock int) error {
	if requestedIncrement > totalStock-currentQuantityInCart {
		return model.NewDomainError(
			model.ErrCodeStockExceeded,
			fmt.Sprintf("Only %d quantity can be added for this item", max(totalStock-currentQuantityInCart, 0)),
		)
	}
	return nil
}

// Clamp returns the largest increment that CheckAddition would accept, capped
// at requestedIncrement. The result is never negative.
func Clamp(currentQuantityInCart, requestedIncrement, totalStock int) int {
	available := totalStock - currentQuantityInCart
	if available < 0 {
		return 0
	}
	return max(min(requestedIncrement, available), 0)
}

// AddSaturating sums two non-negative quantities, stopping at math.MaxInt.
func AddSaturating(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
