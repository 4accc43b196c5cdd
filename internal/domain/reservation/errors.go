package reservation

import "errors"

var (
	ErrAlreadyReserved = errors.New("this trip is already reserved")
	ErrNotReserved     = errors.New("this trip is not reserved")
	ErrCancelForbidden = errors.New("only the owner or the passenger can cancel this reservation")
)
