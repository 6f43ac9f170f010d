// Package cart holds the order-in-progress state for each POS terminal.
// All mutations are total: operating on a line that is not in the cart is
// a no-op, so callers never have to pre-check membership.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one menu item in the cart. UnitPrice is captured at the moment
// the item is added; a later price change on the menu does not reprice
// lines already in a cart.
type Line struct {
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int32           `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

type TableRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Promotion is a threshold discount as the console models it: exactly one
// discount kind applies, never both.
type Promotion struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	MinSubtotal   decimal.Decimal `json:"min_subtotal"`
	DiscountType  string          `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// MenuItemRef is the slice of a menu item the cart needs when adding a line.
type MenuItemRef struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
}

// State is everything a terminal is composing before checkout. Line order
// is insertion order and is preserved across mutations.
type State struct {
	Lines     []Line     `json:"lines"`
	Table     *TableRef  `json:"table,omitempty"`
	Promotion *Promotion `json:"promotion,omitempty"`
}

// AddItem appends a new line with quantity 1, or bumps the quantity when
// the item is already in the cart.
func (s *State) AddItem(item MenuItemRef) {
	for i := range s.Lines {
		if s.Lines[i].MenuItemID == item.ID {
			s.Lines[i].Quantity++
			return
		}
	}
	s.Lines = append(s.Lines, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice,
		Quantity:   1,
	})
}

func (s *State) RemoveItem(menuItemID uuid.UUID) {
	for i := range s.Lines {
		if s.Lines[i].MenuItemID == menuItemID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

func (s *State) IncreaseQuantity(menuItemID uuid.UUID) {
	for i := range s.Lines {
		if s.Lines[i].MenuItemID == menuItemID {
			s.Lines[i].Quantity++
			return
		}
	}
}

// DecreaseQuantity lowers a line's quantity by one and drops the line
// entirely when it reaches zero.
func (s *State) DecreaseQuantity(menuItemID uuid.UUID) {
	for i := range s.Lines {
		if s.Lines[i].MenuItemID == menuItemID {
			s.Lines[i].Quantity--
			if s.Lines[i].Quantity <= 0 {
				s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			}
			return
		}
	}
}

func (s *State) UpdateItemNote(menuItemID uuid.UUID, note string) {
	for i := range s.Lines {
		if s.Lines[i].MenuItemID == menuItemID {
			s.Lines[i].Note = note
			return
		}
	}
}

// SetTable assigns the dine-in table. nil means takeaway.
func (s *State) SetTable(table *TableRef) {
	s.Table = table
}

// SetPromotion records the cashier's selected promotion. Whether it
// actually applies is decided against the subtotal at pricing time, not
// here.
func (s *State) SetPromotion(p *Promotion) {
	s.Promotion = p
}

func (s *State) Clear() {
	s.Lines = nil
	s.Table = nil
	s.Promotion = nil
}

func (s *State) IsEmpty() bool {
	return len(s.Lines) == 0
}

func (s *State) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range s.Lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}

func (s *State) TotalQuantity() int32 {
	var n int32
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

// clone deep-copies the state so store readers never alias stored slices.
func (s *State) clone() State {
	out := State{}
	if len(s.Lines) > 0 {
		out.Lines = make([]Line, len(s.Lines))
		copy(out.Lines, s.Lines)
	}
	if s.Table != nil {
		t := *s.Table
		out.Table = &t
	}
	if s.Promotion != nil {
		p := *s.Promotion
		out.Promotion = &p
	}
	return out
}
