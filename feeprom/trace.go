package feeprom

// Tracer receives diagnostic messages: decode anomalies during replay,
// skipped reserved/incomplete log entries, and layout warnings. It is
// deliberately a narrow, injectable interface rather than a package-level
// logger — the same shape as MachineBus's lock-free callback fields in
// the teacher codebase this module is grounded on — so the core stays
// testable off-device and callers can wire it to whatever logging
// facility their firmware already uses.
type Tracer interface {
	Tracef(format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Tracef(string, ...any) {}

// NopTracer discards every message. It is the default when no Tracer is
// supplied via WithTracer.
var NopTracer Tracer = nopTracer{}

// WatchdogFunc is invoked periodically during long-running operations
// (log replay, page erase during compaction) so a caller-owned watchdog
// timer doesn't trip. The default is a no-op; Init and compaction still
// complete correctly without one, but an external watchdog may fire.
type WatchdogFunc func()

func nopWatchdog() {}
