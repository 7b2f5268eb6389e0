package backend

import (
	"encoding/binary"

	"github.com/nvmsim/feeprom"
)

// Mock is an in-memory feeprom.Programmer. It enforces the one
// hardware invariant feeprom's algorithms depend on — a program can
// only clear bits, never set them — so a bug that tries to write a 1
// over a 0 is caught immediately instead of silently "working" the way
// a naive byte slice would let it.
//
// FailAfter, when >= 0, makes the FailAfter'th ProgramHalfWord call
// (0-indexed, counted since the Mock was created) and every later call
// return ProgramError without mutating memory, modelling a flash part
// that wears out or glitches mid-write. Set it to -1 (the default
// NewMock sets) to disable fault injection.
type Mock struct {
	mem        []byte
	pageSize   uint32
	locked     bool
	FailAfter  int
	programs   int
	ErasePages int
}

// NewMock allocates a Mock covering size bytes, erased (all 0xFF) from
// the start, with fault injection disabled.
func NewMock(size, pageSize uint32) *Mock {
	m := &Mock{
		mem:       make([]byte, size),
		pageSize:  pageSize,
		locked:    true,
		FailAfter: -1,
	}
	for i := range m.mem {
		m.mem[i] = 0xFF
	}
	return m
}

func (m *Mock) Unlock() { m.locked = false }
func (m *Mock) Lock()   { m.locked = true }

func (m *Mock) ErasePage(addr uint32) error {
	m.ErasePages++
	end := addr + m.pageSize
	if end > uint32(len(m.mem)) {
		end = uint32(len(m.mem))
	}
	for i := addr; i < end; i++ {
		m.mem[i] = 0xFF
	}
	return nil
}

func (m *Mock) ProgramHalfWord(addr uint32, value uint16) feeprom.ProgramStatus {
	if addr+2 > uint32(len(m.mem)) {
		return feeprom.ProgramBadAddress
	}
	n := m.programs
	m.programs++
	if m.FailAfter >= 0 && n >= m.FailAfter {
		return feeprom.ProgramError
	}

	old := binary.LittleEndian.Uint16(m.mem[addr : addr+2])
	if value & ^old != 0 {
		// Attempted to set a bit flash had already cleared: not
		// physically possible, and feeprom's algorithms never need to.
		return feeprom.ProgramError
	}
	binary.LittleEndian.PutUint16(m.mem[addr:addr+2], value)
	return feeprom.ProgramComplete
}

func (m *Mock) ReadHalfWord(addr uint32) uint16 {
	if addr+2 > uint32(len(m.mem)) {
		return feeprom.EmptyWord
	}
	return binary.LittleEndian.Uint16(m.mem[addr : addr+2])
}
