package installer

import (
	"fmt"
	"strings"
)

// Architecture is a dpkg architecture name
type Architecture string

const (
	ArchAmd64    Architecture = "amd64"    // x86_64
	ArchI386     Architecture = "i386"     // x86 32-bit
	ArchX32      Architecture = "x32"      // x86_64 with 32-bit pointers
	ArchArm64    Architecture = "arm64"    // ARM 64-bit
	ArchArmhf    Architecture = "armhf"    // ARM hard float
	ArchArmel    Architecture = "armel"    // ARM soft float
	ArchPowerPC  Architecture = "powerpc"  // PowerPC 32-bit
	ArchPpc64    Architecture = "ppc64"    // PowerPC 64-bit big endian
	ArchPpc64el  Architecture = "ppc64el"  // PowerPC 64-bit little endian
	ArchS390x    Architecture = "s390x"    // IBM S/390
	ArchRiscv64  Architecture = "riscv64"  // RISC-V 64-bit
	ArchLoong64  Architecture = "loong64"  // LoongArch 64-bit
	ArchMips64el Architecture = "mips64el" // MIPS 64-bit little endian
	ArchMipsel   Architecture = "mipsel"   // MIPS 32-bit little endian
	ArchSparc64  Architecture = "sparc64"  // SPARC 64-bit
	ArchAlpha    Architecture = "alpha"
	ArchHppa     Architecture = "hppa"
	ArchIa64     Architecture = "ia64"
	ArchM68k     Architecture = "m68k"
	ArchSh4      Architecture = "sh4"
)

// AllArchitectures contains the Linux architectures of the Debian archive and
// its ports
var AllArchitectures = []Architecture{
	ArchAmd64,
	ArchI386,
	ArchX32,
	ArchArm64,
	ArchArmhf,
	ArchArmel,
	ArchPowerPC,
	ArchPpc64,
	ArchPpc64el,
	ArchS390x,
	ArchRiscv64,
	ArchLoong64,
	ArchMips64el,
	ArchMipsel,
	ArchSparc64,
	ArchAlpha,
	ArchHppa,
	ArchIa64,
	ArchM68k,
	ArchSh4,
}

// aliases maps toolchain and kernel spellings to dpkg names.
var aliases = map[string]Architecture{
	"x86_64":      ArchAmd64,
	"x86-64":      ArchAmd64,
	"i686":        ArchI386,
	"i586":        ArchI386,
	"386":         ArchI386,
	"aarch64":     ArchArm64,
	"armv7":       ArchArmhf,
	"armv7l":      ArchArmhf,
	"thumbv7neon": ArchArmhf,
	"arm":         ArchArmhf,
	"armv5te":     ArchArmel,
	"powerpc64le": ArchPpc64el,
	"ppc64le":     ArchPpc64el,
	"powerpc64":   ArchPpc64,
	"riscv64gc":   ArchRiscv64,
	"loongarch64": ArchLoong64,
	"sparcv9":     ArchSparc64,
}

// ParseArchitecture returns the dpkg name for s. Known dpkg names, the names
// used by uname and rustc target triples such as aarch64-unknown-linux-gnu
// are normalized. Any other well-formed name is returned unchanged for dpkg
// to judge.
func ParseArchitecture(s string) (Architecture, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !wellFormed(s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownArch, s)
	}
	if a, ok := lookupArchitecture(s); ok {
		return a, nil
	}

	// Target triple: the machine is the first component, the ABI the last.
	if parts := strings.Split(s, "-"); len(parts) >= 3 {
		machine, abi := parts[0], parts[len(parts)-1]
		if strings.HasPrefix(machine, "arm") && !strings.HasSuffix(abi, "hf") {
			return ArchArmel, nil
		}
		if machine == "x86_64" && strings.HasSuffix(abi, "x32") {
			return ArchX32, nil
		}
		if a, ok := lookupArchitecture(machine); ok {
			return a, nil
		}
	}
	return Architecture(s), nil
}

func lookupArchitecture(s string) (Architecture, bool) {
	if a := Architecture(s); a.IsValid() {
		return a, true
	}
	a, ok := aliases[s]
	return a, ok
}

// wellFormed reports whether s could be an architecture name: non-empty and
// made of letters, digits, '-' and '_' only.
func wellFormed(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// String returns the string representation of the architecture
func (a Architecture) String() string {
	return string(a)
}

// IsValid checks if the architecture is a known dpkg name
func (a Architecture) IsValid() bool {
	for _, valid := range AllArchitectures {
		if a == valid {
			return true
		}
	}
	return false
}
