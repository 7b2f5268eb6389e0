package feeprom

import (
	"errors"
	"fmt"
)

// ErrBadAddress is returned when a caller supplies an address at or
// beyond the store's density. The cache and flash are left untouched.
var ErrBadAddress = errors.New("feeprom: address out of range")

// ErrFlashBusy is returned when a write, erase, or compaction reenters
// while a previous flash operation on this Store has not finished
// unlocking. Spec model is single-threaded/cooperative with no
// cancellation, so this only fires on programmer error — a caller that
// reenters from within its own Programmer callback.
var ErrFlashBusy = errors.New("feeprom: flash controller busy")

// FlashFault wraps a non-address flash programming failure, reported by
// the Programmer's ProgramStatus.
type FlashFault struct {
	Status ProgramStatus
}

func (f *FlashFault) Error() string {
	return fmt.Sprintf("feeprom: flash program failed (%s)", f.Status)
}

func statusErr(status ProgramStatus) error {
	switch status {
	case ProgramComplete:
		return nil
	case ProgramBadAddress:
		return ErrBadAddress
	default:
		return &FlashFault{Status: status}
	}
}

// firstErr returns the first non-nil error in errs, or nil. This is the
// "prefer the first non-success" collapse policy spec'd for multi-step
// operations such as unaligned word writes and block writes.
func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
