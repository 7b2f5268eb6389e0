//go:build !(amd64 || arm64 || 386 || arm || riscv64 || loong64 || mipsle || mips64le || ppc64le || wasm)

package feeprom

var _ = "feeprom has not been validated on this architecture" + 1
