package feeprom

// clear erases both regions and writes the magic header, resetting the
// cursor to the first log slot. It does not touch the cache — callers
// reset it separately (Init zeroes it after calling clear; a bare Erase
// reloads it by calling Init again afterwards).
func (s *Store) clear() error {
	return s.withLock(func() error {
		return s.lowLevelClear()
	})
}

// lowLevelClear assumes the caller already holds the flash lock.
func (s *Store) lowLevelClear() error {
	base := s.layout.SnapshotBase
	for page := uint32(0); page < s.layout.pageCount(); page++ {
		s.watchdog()
		if err := s.prog.ErasePage(base + page*s.layout.PageSize); err != nil {
			return err
		}
	}

	magicLo := uint16(MagicDWord)
	magicHi := uint16(MagicDWord >> 16)
	if status := s.prog.ProgramHalfWord(s.layout.LogBase, magicLo); status != ProgramComplete {
		return statusErr(status)
	}
	if status := s.prog.ProgramHalfWord(s.layout.LogBase+2, magicHi); status != ProgramComplete {
		return statusErr(status)
	}
	s.cursor = magicHeaderBytes
	return nil
}

// Erase wipes the store back to all-zero and reloads the cache. This is
// the public reset entry point; compact (the writer's log-full fallback)
// shares lowLevelClear but additionally re-persists the current cache
// instead of leaving it zeroed.
func (s *Store) Erase() error {
	if err := s.clear(); err != nil {
		return err
	}
	_, err := s.Init()
	return err
}

// compact folds the log back into the snapshot: erase everything, then
// program the inverse of every non-zero cache word into the snapshot.
// Zero words are left unprogrammed (erased flash already reads as
// logical zero). It is cache-first, flash-second — the cache is never
// invalidated by a compaction, successful or not.
func (s *Store) compact() error {
	return s.withLock(func() error {
		if err := s.lowLevelClear(); err != nil {
			return err
		}

		var first error
		for addr := uint32(0); addr < s.layout.Density; addr += 2 {
			value := s.cache.word(addr)
			if value == 0 {
				continue
			}
			status := s.prog.ProgramHalfWord(s.layout.SnapshotBase+addr, ^value)
			if err := statusErr(status); err != nil && first == nil {
				first = err
			}
		}
		return first
	})
}
