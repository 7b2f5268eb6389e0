// Package backend provides feeprom.Programmer implementations for
// testing and host-side tooling: Mock, an in-memory flash model that
// enforces the monotonic 1->0 programming rule and supports fault
// injection, and File, which backs the same contract with a real file
// mapped into the process the way the original firmware maps its flash
// region at XIP_BASE.
package backend
