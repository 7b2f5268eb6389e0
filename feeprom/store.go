package feeprom

import (
	"fmt"
	"io"

	"golang.org/x/sync/semaphore"
)

// Store is a single emulated EEPROM: a Layout bound to a Programmer, a
// RAM cache, and the log cursor. The scheduling model is single-threaded
// and cooperative — callers are responsible for serializing access
// relative to other flash-touching work — but Store still brackets every
// flash program/erase sequence with Unlock/Lock via a weighted
// semaphore of weight 1, so a caller that accidentally reenters (for
// example from inside its own Programmer.ErasePage callback) gets
// ErrFlashBusy instead of corrupting the in-flight operation.
type Store struct {
	layout *Layout
	prog   Programmer
	cache  *cache
	cursor uint32 // next free half-word offset within the log region

	tracer   Tracer
	watchdog WatchdogFunc

	sem *semaphore.Weighted
}

// Option configures optional Store behaviour.
type Option func(*Store)

// WithTracer routes replay diagnostics to t instead of discarding them.
// Layout diagnostics go to the Tracer passed to NewLayout, not to this one.
func WithTracer(t Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// WithWatchdog installs a callback invoked periodically during replay
// and page erase, so an external hardware watchdog doesn't trip during
// the only two long-running operations this module has.
func WithWatchdog(fn WatchdogFunc) Option {
	return func(s *Store) { s.watchdog = fn }
}

// New builds a Store over layout and prog. Call Init before any read or
// write.
func New(layout *Layout, prog Programmer, opts ...Option) *Store {
	s := &Store{
		layout:   layout,
		prog:     prog,
		cache:    newCache(layout.Density),
		tracer:   NopTracer,
		watchdog: nopWatchdog,
		sem:      semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Density returns the logical EEPROM size this Store exposes.
func (s *Store) Density() uint32 { return s.layout.Density }

// withLock brackets fn with the Programmer's Unlock/Lock pair, guarded
// by a weight-1 semaphore standing in for "the flash controller is a
// process-wide shared resource" (spec §5).
func (s *Store) withLock(fn func() error) error {
	if !s.sem.TryAcquire(1) {
		return ErrFlashBusy
	}
	defer s.sem.Release(1)

	s.prog.Unlock()
	defer s.prog.Lock()
	return fn()
}

func (s *Store) programHalfWord(addr uint32, value uint16) (status ProgramStatus, err error) {
	err = s.withLock(func() error {
		status = s.prog.ProgramHalfWord(addr, value)
		return nil
	})
	return status, err
}

// DumpHex writes the cache as a 16-byte-per-row hex dump, collapsing
// repeated all-zero rows to a single "*" line the way the original
// source's print_eeprom does, so a long run of unused keymap slots
// doesn't flood a terminal.
func (s *Store) DumpHex(w io.Writer) error {
	density := s.layout.Density
	collapsed := false
	for row := uint32(0); row < density; row += 16 {
		end := row + 16
		if end > density {
			end = density
		}
		empty := true
		for i := row; i < end; i++ {
			if s.cache.byte(i) != 0 {
				empty = false
				break
			}
		}
		if empty && end-row == 16 && row+16 < density {
			if collapsed {
				continue
			}
			collapsed = true
			if _, err := fmt.Fprintln(w, "*"); err != nil {
				return err
			}
			continue
		}
		collapsed = false

		if _, err := fmt.Fprintf(w, "%04x ", row); err != nil {
			return err
		}
		for i := row; i < end; i++ {
			sep := " "
			if (i-row)%8 == 0 && i != row {
				sep = "  "
			}
			if _, err := fmt.Fprintf(w, "%s%02x", sep, s.cache.byte(i)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
