//go:build amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm

// feeprom's on-flash format is defined as little-endian regardless of
// host architecture (every multi-byte access goes through
// encoding/binary.LittleEndian), so this build tag is a belt-and-braces
// compatibility check rather than a functional requirement: the sibling
// file endian_unsupported.go fails the build on anything not listed
// here, so a silently byte-swapped image can never ship.

package feeprom
