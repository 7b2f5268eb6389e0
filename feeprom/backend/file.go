package backend

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/nvmsim/feeprom"
)

// File is a feeprom.Programmer backed by a regular file, mapped into
// the process with mmap the way the original firmware maps its flash
// region at a fixed XIP address: reads go straight through the mapping,
// and programs are written through it too, then the dirty pages are
// flushed with msync so state survives a process restart.
type File struct {
	f        *os.File
	data     []byte
	pageSize uint32
}

// OpenFile opens (creating if necessary) path, grows it to size bytes if
// it is smaller, and mmaps it read-write. A freshly created file reads
// as erased (every byte 0xFF), matching how unprogrammed NOR flash
// reads. pageSize must match the feeprom.Config.PageSize the caller
// will use, so ErasePage erases exactly one page per call.
func OpenFile(path string, size, pageSize uint32) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if uint32(info.Size()) < size {
		if err := initializeErased(f, info.Size(), size); err != nil {
			f.Close()
			return nil, err
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("backend: mmap %s: %w", path, err)
	}

	return &File{f: f, data: data, pageSize: pageSize}, nil
}

func initializeErased(f *os.File, from int64, to uint32) error {
	fill := make([]byte, 4096)
	for i := range fill {
		fill[i] = 0xFF
	}
	if err := f.Truncate(int64(to)); err != nil {
		return err
	}
	for off := from; off < int64(to); {
		n := int64(len(fill))
		if off+n > int64(to) {
			n = int64(to) - off
		}
		if _, err := f.WriteAt(fill[:n], off); err != nil {
			return err
		}
		off += n
	}
	return nil
}

// Close unmaps and closes the backing file.
func (b *File) Close() error {
	if err := unix.Munmap(b.data); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}

func (b *File) Unlock() {}
func (b *File) Lock()   {}

func (b *File) ErasePage(addr uint32) error {
	end := addr + b.pageSize
	if end > uint32(len(b.data)) {
		end = uint32(len(b.data))
	}
	for i := addr; i < end; i++ {
		b.data[i] = 0xFF
	}
	return unix.Msync(b.data[addr:end], unix.MS_SYNC)
}

func (b *File) ProgramHalfWord(addr uint32, value uint16) feeprom.ProgramStatus {
	if addr+2 > uint32(len(b.data)) {
		return feeprom.ProgramBadAddress
	}
	old := binary.LittleEndian.Uint16(b.data[addr : addr+2])
	if value & ^old != 0 {
		return feeprom.ProgramError
	}
	binary.LittleEndian.PutUint16(b.data[addr:addr+2], value)
	if err := unix.Msync(b.data[addr:addr+2], unix.MS_SYNC); err != nil {
		return feeprom.ProgramError
	}
	return feeprom.ProgramComplete
}

func (b *File) ReadHalfWord(addr uint32) uint16 {
	if addr+2 > uint32(len(b.data)) {
		return feeprom.EmptyWord
	}
	return binary.LittleEndian.Uint16(b.data[addr : addr+2])
}
