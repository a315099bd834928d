// Package models defines the core data types for the shopping cart.
package models

import (
	"strconv"
	"strings"
)

// ItemSeparator separates item names in the argument of an add command.
const ItemSeparator = ", "

// RecordExt is the file extension of a persisted cart record.
const RecordExt = ".db"

// Cart is an ordered list of item names. Duplicates are allowed and order is
// insertion order.
type Cart []string

// Clone returns an independent copy of the cart. A nil or empty cart yields an
// empty, non-nil slice.
func (c Cart) Clone() []string {
	out := make([]string, len(c))
	copy(out, c)
	return out
}

// SplitItems splits the argument of an add command into item names.
// Items are not trimmed. Trailing empty items are dropped, so "milk, " is
// just "milk" and ", " is nothing, but an empty string yields a single
// empty item.
func SplitItems(text string) []string {
	if text == "" {
		return []string{""}
	}
	items := strings.Split(text, ItemSeparator)
	for len(items) > 0 && items[len(items)-1] == "" {
		items = items[:len(items)-1]
	}
	return items
}

// NumberLines prefixes each entry with its 1-based position.
func NumberLines(entries []string) []string {
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		out = append(out, strconv.Itoa(i+1)+". "+e)
	}
	return out
}
