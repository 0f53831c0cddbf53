package register

import "errors"

// Errors returned by register operations. These are all local pre-flight
// failures; nothing has been sent to the catalog service when one of them
// is returned.
var (
	ErrRegisterClosed     = errors.New("cash register is closed")
	ErrRegisterOpen       = errors.New("cash register is already open")
	ErrEmptyCart          = errors.New("cart is empty, nothing to sell")
	ErrOutOfStock         = errors.New("product is out of stock")
	ErrStockExceeded      = errors.New("requested quantity exceeds available stock")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress")
)
