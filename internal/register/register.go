package register

import (
	"sync"

	"github.com/fjod/repair_pos/internal/domain"
)

// Register owns the state of one till: whether it is open, the balance
// accumulated since opening, and the cart for the in-progress sale. All
// mutation goes through its methods; nothing else writes these fields.
type Register struct {
	mu               sync.Mutex
	open             bool
	balance          float64
	lines            []domain.CartLine
	checkoutInFlight bool
}

func New() *Register {
	return &Register{}
}

// Open starts a session with a zero balance. The register must be closed.
func (r *Register) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.open {
		return ErrRegisterOpen
	}
	r.open = true
	r.balance = 0
	return nil
}

// Close ends the session, zeroing the balance and discarding the cart.
// The operator must confirm; confirm=false leaves everything untouched.
func (r *Register) Close(confirm bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return ErrRegisterClosed
	}
	if !confirm {
		return nil
	}
	r.open = false
	r.balance = 0
	r.lines = nil
	return nil
}

// Status returns whether the register is open and its current balance.
func (r *Register) Status() (bool, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open, r.balance
}

// AddItem puts one unit of the product in the cart, or bumps the quantity
// of an existing line by one. The product argument is the caller's current
// catalog snapshot; its stock bounds the cart quantity.
func (r *Register) AddItem(p domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return ErrRegisterClosed
	}
	if p.Quantity <= 0 {
		return ErrOutOfStock
	}

	for i := range r.lines {
		if r.lines[i].Product.ID == p.ID {
			if err := checkStockLimit(p, r.lines[i].Quantity+1); err != nil {
				return err
			}
			r.lines[i].Quantity++
			return nil
		}
	}

	r.lines = append(r.lines, domain.CartLine{Product: p, Quantity: 1})
	return nil
}

// SetQuantity overwrites a line's quantity. The product argument is the
// caller's current catalog snapshot; its stock bounds the new quantity, not
// the snapshot captured when the line was added. Zero removes the line and
// consults only the product id. Lines for products not in the cart are not
// created; the call is a no-op then.
func (r *Register) SetQuantity(p domain.Product, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.open {
		return ErrRegisterClosed
	}
	if quantity == 0 {
		r.removeLine(p.ID)
		return nil
	}

	for i := range r.lines {
		if r.lines[i].Product.ID == p.ID {
			if err := checkStockLimit(p, quantity); err != nil {
				return err
			}
			r.lines[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// RemoveItem deletes the line for the product if present.
func (r *Register) RemoveItem(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLine(productID)
}

func (r *Register) removeLine(productID int64) {
	for i := range r.lines {
		if r.lines[i].Product.ID == productID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return
		}
	}
}

// Lines returns a copy of the current cart.
func (r *Register) Lines() []domain.CartLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyLines(r.lines)
}

// Total sums unit price times quantity over the cart, from the snapshotted
// prices on the lines.
func (r *Register) Total() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total float64
	for _, l := range r.lines {
		total += l.Subtotal()
	}
	return total
}

// Clear empties the cart without touching the session.
func (r *Register) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

// checkStockLimit is the single stock-bound check used by AddItem and
// SetQuantity, so both reject with the same rule against the snapshot the
// caller just resolved.
func checkStockLimit(p domain.Product, want int) error {
	if want > p.Quantity {
		return ErrStockExceeded
	}
	return nil
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}

// beginCheckout validates the session and cart, marks a checkout in flight
// and returns a snapshot of the lines. endCheckout must follow.
func (r *Register) beginCheckout() ([]domain.CartLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.checkoutInFlight {
		return nil, ErrCheckoutInProgress
	}
	if !r.open {
		return nil, ErrRegisterClosed
	}
	if len(r.lines) == 0 {
		return nil, ErrEmptyCart
	}
	r.checkoutInFlight = true
	return copyLines(r.lines), nil
}

// endCheckout releases the in-flight guard. A committed checkout credits
// the balance with the sale total and empties the cart; a failed one leaves
// both untouched.
func (r *Register) endCheckout(committed bool, total float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.checkoutInFlight = false
	if committed {
		r.balance += total
		r.lines = nil
	}
}
