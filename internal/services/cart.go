package services

import (
	"sort"
	"strconv"
)

// Cart maps a product id, as a decimal string, to the wanted quantity.
// It lives in the session only and is never written to the database.
type Cart map[string]int

// Add accumulates qty onto the product's existing line.
func (c Cart) Add(productID uint, qty int) {
	c[cartKey(productID)] += qty
}

// Remove drops the product's line. Removing an absent product is a no-op.
func (c Cart) Remove(productID string) {
	delete(c, productID)
}

// Clear empties the cart in place.
func (c Cart) Clear() {
	for k := range c {
		delete(c, k)
	}
}

// Len is the number of distinct products in the cart.
func (c Cart) Len() int { return len(c) }

// ProductIDs returns the parseable product ids in ascending order.
// Keys that are not valid ids are ignored.
func (c Cart) ProductIDs() []uint {
	ids := make([]uint, 0, len(c))
	for k, qty := range c {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil || id == 0 || qty < 1 {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Quantity returns the quantity held for the product, or 0.
func (c Cart) Quantity(productID uint) int {
	return c[cartKey(productID)]
}

func cartKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
