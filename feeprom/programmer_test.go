package feeprom

import "encoding/binary"

// testProg is a minimal in-memory Programmer for exercising Store
// without pulling in package backend, which imports feeprom itself and
// would otherwise create an import cycle from an internal test file.
type testProg struct {
	mem       []byte
	pageSize  uint32
	failAfter int
	programs  int
}

func newTestProg(size, pageSize uint32) *testProg {
	p := &testProg{mem: make([]byte, size), pageSize: pageSize, failAfter: -1}
	for i := range p.mem {
		p.mem[i] = 0xFF
	}
	return p
}

func (p *testProg) Unlock() {}
func (p *testProg) Lock()   {}

func (p *testProg) ErasePage(addr uint32) error {
	end := addr + p.pageSize
	if end > uint32(len(p.mem)) {
		end = uint32(len(p.mem))
	}
	for i := addr; i < end; i++ {
		p.mem[i] = 0xFF
	}
	return nil
}

func (p *testProg) ProgramHalfWord(addr uint32, value uint16) ProgramStatus {
	n := p.programs
	p.programs++
	if p.failAfter >= 0 && n >= p.failAfter {
		return ProgramError
	}
	old := binary.LittleEndian.Uint16(p.mem[addr : addr+2])
	if value & ^old != 0 {
		return ProgramError
	}
	binary.LittleEndian.PutUint16(p.mem[addr:addr+2], value)
	return ProgramComplete
}

func (p *testProg) ReadHalfWord(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(p.mem[addr : addr+2])
}

func newTestStore(t interface{ Fatalf(string, ...any) }, density, logSize, pageSize uint32) (*Store, *testProg) {
	cfg := Config{PageSize: pageSize, PageCount: (density + logSize) / pageSize, DensityBytes: density, LogBytes: logSize}
	layout, err := NewLayout(cfg, NopTracer)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	prog := newTestProg(layout.PageCount*layout.PageSize, pageSize)
	store := New(layout, prog)
	if _, err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store, prog
}
