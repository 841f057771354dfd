package req

import (
	"strings"
	"testing"
)

type payload struct {
	Amount int `json:"amount"`
}

func TestDecode(t *testing.T) {
	p, err := Decode[payload](strings.NewReader(`{"amount": 40}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Amount != 40 {
		t.Fatalf("amount=%d want=40", p.Amount)
	}

	bad := []string{
		`{"amount": 40, "extra": 1}`,
		`{"amount": "forty"}`,
		`{"amount": 1}{"amount": 2}`,
		``,
	}
	for _, body := range bad {
		if _, err := Decode[payload](strings.NewReader(body)); err == nil {
			t.Fatalf("Decode(%q) expected error", body)
		}
	}
}
