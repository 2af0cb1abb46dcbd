package cart

import (
	"errors"
	"testing"
)

func TestNewLineValidation(t *testing.T) {
	if _, err := NewLine("l1", "rice", 0, 550); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewLine("l1", "rice", -2, 550); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := NewLine("l1", "rice", 1, -1); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}

func TestLineTotal(t *testing.T) {
	line, err := NewLine("l1", "rice", 3, 550)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := line.TotalCents(); got != 1650 {
		t.Fatalf("expected 1650, got %d", got)
	}
}

func TestCartAccumulates(t *testing.T) {
	c := New()
	if c.Len() != 0 || c.TotalCents() != 0 {
		t.Fatalf("new cart not empty")
	}

	l1, _ := NewLine("l1", "rice", 3, 500)
	l2, _ := NewLine("l2", "oil", 2, 600)
	c.Add(l1)
	c.Add(l2)

	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
	if got := c.TotalCents(); got != 2700 {
		t.Fatalf("expected 2700, got %d", got)
	}
}

func TestCartIgnoresNilLine(t *testing.T) {
	c := New()
	c.Add(nil)
	if c.Len() != 0 {
		t.Fatalf("nil line was appended")
	}
}

func TestCartLinesIsACopy(t *testing.T) {
	c := New()
	l1, _ := NewLine("l1", "rice", 1, 500)
	c.Add(l1)

	lines := c.Lines()
	lines[0] = nil
	if got := c.Lines(); got[0] == nil {
		t.Fatalf("Lines exposed internal slice")
	}
}
