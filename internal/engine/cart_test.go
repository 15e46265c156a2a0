package engine

import (
	"testing"

	"github.com/google/uuid"

	"dinehall-order-service/internal/catalog"
)

var (
	padThaiID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	waterID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	springID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func padThai() catalog.Snapshot {
	return catalog.Snapshot{MenuItemID: padThaiID, Name: "Pad Thai", UnitPrice: 45000, IsActive: true}
}

func water() catalog.Snapshot {
	return catalog.Snapshot{MenuItemID: waterID, Name: "Water", UnitPrice: 5000, IsActive: true}
}

func TestCartAddMergesLines(t *testing.T) {
	cart := NewCart()
	cart.Add(padThai())
	cart.Add(padThai())
	cart.Add(water())

	lines := cart.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].MenuItemID != padThaiID || lines[0].Quantity != 2 {
		t.Fatalf("expected pad thai x2 first, got %s x%d", lines[0].Name, lines[0].Quantity)
	}
	if lines[1].MenuItemID != waterID || lines[1].Quantity != 1 {
		t.Fatalf("expected water x1 second, got %s x%d", lines[1].Name, lines[1].Quantity)
	}
}

func TestCartSetQuantity(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int
		wantLines int
		wantQty   int
	}{
		{name: "positive updates line", quantity: 5, wantLines: 1, wantQty: 5},
		{name: "zero removes line", quantity: 0, wantLines: 0},
		{name: "negative removes line", quantity: -3, wantLines: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cart := NewCart()
			cart.Add(padThai())
			cart.SetQuantity(padThaiID, tc.quantity)

			lines := cart.Lines()
			if len(lines) != tc.wantLines {
				t.Fatalf("expected %d lines, got %d", tc.wantLines, len(lines))
			}
			if tc.wantLines > 0 && lines[0].Quantity != tc.wantQty {
				t.Fatalf("expected quantity %d, got %d", tc.wantQty, lines[0].Quantity)
			}
		})
	}
}

func TestCartMissingLineOpsAreNoOps(t *testing.T) {
	cart := NewCart()
	cart.Add(water())

	cart.SetQuantity(springID, 4)
	cart.Remove(springID)

	lines := cart.Lines()
	if len(lines) != 1 || lines[0].MenuItemID != waterID {
		t.Fatalf("unrelated ops must not touch existing lines: %+v", lines)
	}
}

func TestCartTotal(t *testing.T) {
	cart := NewCart()
	if got := cart.Total(); got != 0 {
		t.Fatalf("empty cart total = %v, want 0", got)
	}

	cart.Add(padThai())
	cart.Add(padThai())
	cart.Add(water())
	if got := cart.Total(); got != 95000 {
		t.Fatalf("total = %v, want 95000", got)
	}

	cart.Remove(waterID)
	if got := cart.Total(); got != 90000 {
		t.Fatalf("total after remove = %v, want 90000", got)
	}
}

func TestCartTotalMatchesSurvivingLines(t *testing.T) {
	cart := NewCart()
	cart.Add(padThai())
	cart.SetQuantity(padThaiID, 3)
	cart.Add(water())
	cart.SetQuantity(waterID, 0)
	cart.AddLine(CartLine{MenuItemID: springID, Name: "Spring Rolls", UnitPrice: 20000, Quantity: 2})
	cart.Remove(uuid.New())

	var want float64
	for _, line := range cart.Lines() {
		if line.Quantity <= 0 {
			t.Fatalf("line %s has non-positive quantity %d", line.Name, line.Quantity)
		}
		want += line.UnitPrice * float64(line.Quantity)
	}
	if got := cart.Total(); got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	cart.Add(padThai())
	cart.Clear()

	if !cart.Empty() {
		t.Fatal("cart should be empty after clear")
	}
	if got := cart.Total(); got != 0 {
		t.Fatalf("cleared cart total = %v, want 0", got)
	}
}

func TestCartAddLineIgnoresNonPositiveQuantity(t *testing.T) {
	cart := NewCart()
	cart.AddLine(CartLine{MenuItemID: padThaiID, Name: "Pad Thai", UnitPrice: 45000, Quantity: 0})
	if !cart.Empty() {
		t.Fatal("zero-quantity line must not be stored")
	}
}
