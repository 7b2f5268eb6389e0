package feeprom

import "testing"

func TestWriteByteThenReadBack(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	if err := store.WriteByte(5, 0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	v := store.ReadByte(5)
	if v != 0x42 {
		t.Fatalf("ReadByte = 0x%X, want 0x42", v)
	}
}

func TestWriteByteIdempotentSkipsProgram(t *testing.T) {
	store, prog := newTestStore(t, 256, 256, 64)
	if err := store.WriteByte(5, 0x42); err != nil {
		t.Fatalf("WriteByte: %v", err)
	}
	before := prog.programs
	if err := store.WriteByte(5, 0x42); err != nil {
		t.Fatalf("WriteByte (repeat): %v", err)
	}
	if prog.programs != before {
		t.Fatalf("repeat write of the same value reprogrammed flash: %d -> %d", before, prog.programs)
	}
}

func TestWriteWordLowAndHighAddress(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	if err := store.WriteWord(0x20, 0xBEEF); err != nil {
		t.Fatalf("WriteWord low: %v", err)
	}
	if err := store.WriteWord(0xA0, 0xCAFE); err != nil {
		t.Fatalf("WriteWord high: %v", err)
	}
	lo := store.ReadWord(0x20)
	if lo != 0xBEEF {
		t.Fatalf("ReadWord(0x20) = 0x%X", lo)
	}
	hi := store.ReadWord(0xA0)
	if hi != 0xCAFE {
		t.Fatalf("ReadWord(0xA0) = 0x%X", hi)
	}
}

func TestWriteWordZeroAndOneUseDirectEncoding(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	// Program the snapshot word first so the 1 and 0 writes below go to
	// the log, where each must take a single half-word entry.
	if err := store.WriteWord(0xA0, 0x1234); err != nil {
		t.Fatalf("seed WriteWord: %v", err)
	}
	for _, value := range []uint16{1, 0} {
		cursorBefore := store.cursor
		if err := store.WriteWord(0xA0, value); err != nil {
			t.Fatalf("WriteWord(%d): %v", value, err)
		}
		if store.cursor-cursorBefore != 2 {
			t.Fatalf("WriteWord(%d) appended %d log bytes, want 2", value, store.cursor-cursorBefore)
		}
		v := store.ReadWord(0xA0)
		if v != value {
			t.Fatalf("ReadWord = %d, want %d", v, value)
		}
	}
}

func TestWriteWordUnalignedSplitsIntoBytes(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	if err := store.WriteWord(0x21, 0xBEEF); err != nil {
		t.Fatalf("WriteWord unaligned: %v", err)
	}
	lo := store.ReadByte(0x21)
	if lo != 0xEF {
		t.Fatalf("low byte = 0x%X", lo)
	}
	hi := store.ReadByte(0x22)
	if hi != 0xBE {
		t.Fatalf("high byte = 0x%X", hi)
	}
}

func TestWriteByteOutOfRange(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	if err := store.WriteByte(256, 1); err != ErrBadAddress {
		t.Fatalf("WriteByte out of range: got %v, want ErrBadAddress", err)
	}
}

func TestDirectWriteUsedBeforeLogAppend(t *testing.T) {
	store, prog := newTestStore(t, 256, 256, 64)
	erasesBefore := 0
	_ = erasesBefore
	if err := store.WriteWord(0xA0, 0x1234); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	snapWord := prog.ReadHalfWord(store.layout.SnapshotBase + 0xA0)
	if snapWord != ^uint16(0x1234) {
		t.Fatalf("expected direct snapshot write to hold inverted value, got 0x%X", snapWord)
	}
}

func TestLogAppendFallsBackOnceSnapshotWordProgrammed(t *testing.T) {
	store, _ := newTestStore(t, 256, 256, 64)
	if err := store.WriteWord(0xA0, 0x1234); err != nil {
		t.Fatalf("first WriteWord: %v", err)
	}
	cursorBefore := store.cursor
	if err := store.WriteWord(0xA0, 0x5678); err != nil {
		t.Fatalf("second WriteWord: %v", err)
	}
	if store.cursor == cursorBefore {
		t.Fatal("expected the second write to the same word to append a log entry")
	}
	v := store.ReadWord(0xA0)
	if v != 0x5678 {
		t.Fatalf("ReadWord after log append = 0x%X", v)
	}
}

func TestWriteTriggersCompactionWhenLogFull(t *testing.T) {
	store, _ := newTestStore(t, 256, 64, 64)
	// Force the snapshot word to already be programmed so every write
	// after the first goes to the log, then exhaust the tiny log.
	if err := store.WriteWord(0xA0, 1); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	var lastErr error
	for i := 0; i < 64; i++ {
		lastErr = store.WriteWord(0xA0, uint16(2+i%3))
	}
	if lastErr != nil {
		t.Fatalf("writes should succeed across a compaction: %v", lastErr)
	}
	v := store.ReadWord(0xA0)
	if v == 0 {
		t.Fatal("expected a non-zero value to survive compaction")
	}
}
