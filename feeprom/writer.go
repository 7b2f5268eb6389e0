package feeprom

// WriteByte writes value to addr. The cache is updated first; if the
// cache already holds value, no flash program happens at all (the
// short-circuit spec'd for idempotent writes and for the direct path's
// exit-when-inverse-is-0xFFFF branch).
func (s *Store) WriteByte(addr uint32, value uint8) error {
	if addr >= s.layout.Density {
		return ErrBadAddress
	}
	if s.cache.byte(addr) == value {
		return nil
	}
	s.cache.setByte(addr, value)

	wordAddr := addr &^ 1
	handled, err := s.writeDirect(wordAddr)
	if err != nil || handled {
		return err
	}
	if addr < byteRange {
		return s.writeLogByteEntry(addr)
	}
	return s.writeLogWordEntry(wordAddr)
}

// WriteWord writes value to addr. An odd addr delegates to two byte
// writes (the low byte at addr, the high byte at addr+1); this is
// exactly the original's behaviour and is safe here because we always
// split DataWord ourselves rather than relying on a caller-supplied
// byte order.
func (s *Store) WriteWord(addr uint32, value uint16) error {
	if addr >= s.layout.Density {
		return ErrBadAddress
	}
	if addr%2 != 0 {
		lo := s.WriteByte(addr, uint8(value))
		hi := s.WriteByte(addr+1, uint8(value>>8))
		return firstErr([]error{lo, hi})
	}

	old := s.cache.word(addr)
	if old == value {
		return nil
	}
	s.cache.setWord(addr, value)

	handled, err := s.writeDirect(addr)
	if err != nil || handled {
		return err
	}

	if addr < byteRange {
		var lo, hi error
		if uint8(old) != uint8(value) {
			lo = s.writeLogByteEntry(addr)
		}
		if uint8(old>>8) != uint8(value>>8) {
			hi = s.writeLogByteEntry(addr + 1)
		}
		return firstErr([]error{lo, hi})
	}
	return s.writeLogWordEntry(addr)
}

// writeDirect attempts to program the snapshot word at wordAddr directly,
// which is only possible while that word is still unprogrammed (all
// ones since the last erase). handled reports whether the direct path
// was available at all, regardless of whether a program was actually
// needed.
func (s *Store) writeDirect(wordAddr uint32) (handled bool, err error) {
	if s.prog.ReadHalfWord(s.layout.SnapshotBase+wordAddr) != EmptyWord {
		return false, nil
	}
	value := ^s.cache.word(wordAddr)
	if value == EmptyWord {
		// Logical value is 0; an erased word already reads as that.
		return true, nil
	}
	status, err := s.programHalfWord(s.layout.SnapshotBase+wordAddr, value)
	if err != nil {
		return true, err
	}
	return true, statusErr(status)
}

// writeLogByteEntry appends a 2-byte byte-entry for one of the low 128
// addresses.
func (s *Store) writeLogByteEntry(addr uint32) error {
	if s.cursor+2 > s.layout.LogSize {
		return s.compact()
	}
	raw := encodeByteEntry(addr, s.cache.byte(addr))
	status, err := s.programHalfWord(s.layout.LogBase+s.cursor, raw)
	s.cursor += 2
	if err != nil {
		return err
	}
	return statusErr(status)
}

// writeLogWordEntry appends a word-zero/word-one (2 bytes) or word-next
// (4 bytes) entry for a word-aligned address >= byteRange.
func (s *Store) writeLogWordEntry(addr uint32) error {
	value := s.cache.word(addr)
	first, second, hasSecond := encodeWordEntry(addr, value)

	size := uint32(2)
	if hasSecond {
		size = 4
	}
	if s.cursor+size > s.layout.LogSize {
		return s.compact()
	}

	status1, err := s.programHalfWord(s.layout.LogBase+s.cursor, first)
	s.cursor += 2
	if err != nil {
		return err
	}
	if !hasSecond {
		return statusErr(status1)
	}

	status2, err := s.programHalfWord(s.layout.LogBase+s.cursor, second)
	s.cursor += 2
	if err != nil {
		return err
	}
	if status2 != ProgramComplete {
		return statusErr(status2)
	}
	return statusErr(status1)
}
