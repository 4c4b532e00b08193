package enums

import "fmt"

// CartSearchSort is the whitelisted sort column for cart line searches.
type CartSearchSort string

const (
	CartSearchSortCustomerName  CartSearchSort = "customer_name"
	CartSearchSortItemSKU       CartSearchSort = "item_sku"
	CartSearchSortLineItemTotal CartSearchSort = "line_item_total"
	CartSearchSortTimestamp     CartSearchSort = "timestamp"
)

var validCartSearchSorts = []CartSearchSort{
	CartSearchSortCustomerName,
	CartSearchSortItemSKU,
	CartSearchSortLineItemTotal,
	CartSearchSortTimestamp,
}

// IsValid reports whether the value is a known sort column.
func (s CartSearchSort) IsValid() bool {
	for _, candidate := range validCartSearchSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCartSearchSort converts raw input into a CartSearchSort; empty maps to timestamp.
func ParseCartSearchSort(value string) (CartSearchSort, error) {
	if value == "" {
		return CartSearchSortTimestamp, nil
	}
	for _, candidate := range validCartSearchSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort column %q", value)
}

// SortOrder is asc or desc.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder converts raw input into a SortOrder; empty maps to desc.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(value) {
	case "":
		return SortOrderDesc, nil
	case SortOrderAsc, SortOrderDesc:
		return SortOrder(value), nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
