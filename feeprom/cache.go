package feeprom

import "encoding/binary"

// cache is the in-RAM mirror of the logical EEPROM contents. It is the
// single source of truth for reads after Init; every write updates it
// before any flash program happens.
//
// The on-flash format is little-endian and the original source aliases
// the same memory as both a byte array and a half-word array. Go has no
// safe way to do that, so cache exposes only byte access plus explicit
// little-endian word helpers, as suggested in the design notes.
type cache struct {
	data []byte
}

func newCache(size uint32) *cache {
	return &cache{data: make([]byte, size)}
}

func (c *cache) len() uint32 { return uint32(len(c.data)) }

func (c *cache) byte(addr uint32) uint8 { return c.data[addr] }

func (c *cache) setByte(addr uint32, v uint8) { c.data[addr] = v }

func (c *cache) word(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(c.data[addr : addr+2])
}

func (c *cache) setWord(addr uint32, v uint16) {
	binary.LittleEndian.PutUint16(c.data[addr:addr+2], v)
}
