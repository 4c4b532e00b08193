package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -3: DefaultLimit, 10: 10, MaxLimit + 1: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("LimitWithBuffer = %d", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	offset, err := ParseToken(EncodeToken(150))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if offset != 150 {
		t.Fatalf("expected 150, got %d", offset)
	}
	if offset, err := ParseToken(""); err != nil || offset != 0 {
		t.Fatalf("empty token should map to 0, got %d %v", offset, err)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"!!!", EncodeToken(-1), "b2Zmc2V0fGFiYw"} {
		if _, err := ParseToken(token); err == nil {
			t.Fatalf("expected error for %q", token)
		}
	}
}

func TestPageFinish(t *testing.T) {
	page, err := Resolve(Params{Limit: 50})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if n := page.Finish(51); n != 50 {
		t.Fatalf("expected trimmed count 50, got %d", n)
	}
	if page.Previous != "" || page.Next != EncodeToken(50) {
		t.Fatalf("unexpected tokens %+v", page)
	}

	second, err := Resolve(Params{Limit: 50, Token: page.Next})
	if err != nil {
		t.Fatalf("resolve next: %v", err)
	}
	if n := second.Finish(3); n != 3 {
		t.Fatalf("expected 3 rows, got %d", n)
	}
	if second.Previous != EncodeToken(0) || second.Next != "" {
		t.Fatalf("unexpected tokens %+v", second)
	}
}
