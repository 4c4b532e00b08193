package types

import "github.com/angelmondragon/potionshop-backend/pkg/enums"

// RatioTotal is the sum every potion ratio must reach.
const RatioTotal = 100

// PotionType is a red/green/blue/dark mix expressed in whole percents.
type PotionType [4]int

func (p PotionType) Sum() int {
	return p[0] + p[1] + p[2] + p[3]
}

// NonZero counts the colors the mix actually uses.
func (p PotionType) NonZero() int {
	n := 0
	for _, v := range p {
		if v != 0 {
			n++
		}
	}
	return n
}

func (p PotionType) IsZero() bool {
	return p == PotionType{}
}

// Valid reports whether every slot is within 0..100 and the slots sum to 100.
func (p PotionType) Valid() bool {
	for _, v := range p {
		if v < 0 || v > RatioTotal {
			return false
		}
	}
	return p.Sum() == RatioTotal
}

// LiquidLevels holds millilitres per color in ratio slot order.
type LiquidLevels [4]int

func (l LiquidLevels) Total() int {
	return l[0] + l[1] + l[2] + l[3]
}

// Of returns the level of a single color.
func (l LiquidLevels) Of(c enums.LiquidColor) int {
	idx := c.Index()
	if idx < 0 {
		return 0
	}
	return l[idx]
}

// Barrel is one wholesale catalog line or delivered barrel batch.
type Barrel struct {
	SKU         string     `json:"sku"`
	MLPerBarrel int        `json:"ml_per_barrel"`
	PotionType  [4]float64 `json:"potion_type"`
	Price       int        `json:"price"`
	Quantity    int        `json:"quantity"`
}

// BarrelOrder is a proposed wholesale purchase.
type BarrelOrder struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// PotionMix is a quantity of one potion ratio, used for bottling plans and deliveries.
type PotionMix struct {
	PotionType PotionType `json:"potion_type"`
	Quantity   int        `json:"quantity"`
}
