package enums

import "fmt"

// LiquidColor is the ledger sub type for liquid entries, in ratio slot order.
type LiquidColor string

const (
	LiquidColorRed   LiquidColor = "red_ml"
	LiquidColorGreen LiquidColor = "green_ml"
	LiquidColorBlue  LiquidColor = "blue_ml"
	LiquidColorDark  LiquidColor = "dark_ml"
)

// LiquidColors lists colors in the order used by every 4-slot ratio.
var LiquidColors = [4]LiquidColor{
	LiquidColorRed,
	LiquidColorGreen,
	LiquidColorBlue,
	LiquidColorDark,
}

// String implements fmt.Stringer.
func (c LiquidColor) String() string {
	return string(c)
}

// Index returns the ratio slot of the color, or -1 when unknown.
func (c LiquidColor) Index() int {
	for i, candidate := range LiquidColors {
		if candidate == c {
			return i
		}
	}
	return -1
}

// IsValid reports whether the value is a known LiquidColor.
func (c LiquidColor) IsValid() bool {
	return c.Index() >= 0
}

// ParseLiquidColor converts raw input into a LiquidColor.
func ParseLiquidColor(value string) (LiquidColor, error) {
	c := LiquidColor(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid liquid color %q", value)
	}
	return c, nil
}
