package feeprom

// Init (re)populates the RAM cache from flash and returns the usable
// density. It must be called once before any read or write.
//
// Replay is two passes: invert every snapshot word into the cache, then
// walk the log from the first slot after the magic header, applying each
// entry until the first unprogrammed (0xFFFF) half-word. Addresses
// decoded outside [0, Density) are traced and skipped; the cache is left
// untouched for them.
func (s *Store) Init() (uint32, error) {
	for addr := uint32(0); addr < s.layout.Density; addr += 2 {
		raw := s.prog.ReadHalfWord(s.layout.SnapshotBase + addr)
		s.cache.setWord(addr, ^raw)
	}

	magic := readUint32(s.prog, s.layout.LogBase)
	if magic != MagicDWord {
		if err := s.clear(); err != nil {
			return 0, err
		}
		// Both regions are now erased, which reads as all-zero; drop
		// whatever the snapshot pass loaded so the cache matches.
		for i := range s.cache.data {
			s.cache.data[i] = 0
		}
		return s.layout.Density, nil
	}

	cursor := magicHeaderBytes
replay:
	for cursor < s.layout.LogSize {
		s.watchdog()

		raw := s.prog.ReadHalfWord(s.layout.LogBase + cursor)
		if raw == EmptyWord {
			break
		}
		cursor += 2

		entry := decodeEntry(raw)
		switch entry.kind {
		case entryReserved:
			s.tracer.Tracef("replay: reserved encoding at log offset 0x%X", cursor-2)
			continue replay
		case entryWordNext:
			if cursor+2 > s.layout.LogSize {
				// No room left for the trailing value half-word: the
				// region ends mid-entry. Stop replay here, same as
				// running off the end of the log.
				break replay
			}
			next := s.prog.ReadHalfWord(s.layout.LogBase + cursor)
			cursor += 2
			resolved, ok := resolveWordNext(entry, next)
			if !ok {
				s.tracer.Tracef("replay: incomplete word-next entry at log offset 0x%X", cursor-4)
				continue replay
			}
			entry = resolved
		}

		s.applyEntry(entry)
	}
	s.cursor = cursor

	return s.layout.Density, nil
}

// applyEntry writes a decoded log entry into the cache, tracing and
// skipping addresses outside [0, Density).
func (s *Store) applyEntry(e logEntry) {
	switch e.kind {
	case entryByte:
		if e.addr >= s.layout.Density {
			s.tracer.Tracef("replay: byte entry address 0x%X out of range", e.addr)
			return
		}
		s.cache.setByte(e.addr, e.byteValue)
	case entryWordDirect, entryWordNext:
		if e.addr >= s.layout.Density {
			s.tracer.Tracef("replay: word entry address 0x%X out of range", e.addr)
			return
		}
		s.cache.setWord(e.addr, e.wordValue)
	}
}
