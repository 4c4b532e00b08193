package enums

import "testing"

func TestParseLedgerCategory(t *testing.T) {
	for _, raw := range []string{"gold", "liquid", "potion"} {
		got, err := ParseLedgerCategory(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got.String() != raw {
			t.Fatalf("expected %q got %q", raw, got)
		}
	}
	if _, err := ParseLedgerCategory("silver"); err == nil {
		t.Fatal("expected error for unknown category")
	}
	if LedgerCategoryGold.RequiresSubType() {
		t.Fatal("gold entries carry no sub type")
	}
	if !LedgerCategoryPotion.RequiresSubType() {
		t.Fatal("potion entries need a sku sub type")
	}
}

func TestLiquidColorIndexMatchesRatioSlots(t *testing.T) {
	want := map[LiquidColor]int{
		LiquidColorRed:   0,
		LiquidColorGreen: 1,
		LiquidColorBlue:  2,
		LiquidColorDark:  3,
	}
	for color, idx := range want {
		if color.Index() != idx {
			t.Fatalf("%s expected index %d got %d", color, idx, color.Index())
		}
	}
	if LiquidColor("purple_ml").IsValid() {
		t.Fatal("unknown color reported valid")
	}
}

func TestLedgerSourceValues(t *testing.T) {
	if _, err := ParseLedgerSource("capacity-upgrade"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if LedgerSource("wholesale").IsValid() {
		t.Fatal("unknown source reported valid")
	}
}

func TestCartSearchDefaults(t *testing.T) {
	col, err := ParseCartSearchSort("")
	if err != nil || col != CartSearchSortTimestamp {
		t.Fatalf("expected timestamp default, got %q err=%v", col, err)
	}
	if _, err := ParseCartSearchSort("price; drop table carts"); err == nil {
		t.Fatal("expected error for unknown sort column")
	}
	order, err := ParseSortOrder("")
	if err != nil || order != SortOrderDesc {
		t.Fatalf("expected desc default, got %q err=%v", order, err)
	}
	if _, err := ParseSortOrder("sideways"); err == nil {
		t.Fatal("expected error for unknown sort order")
	}
}
