// Package platform defines the platform registry used by conditional
// compilation directives.
//
// Each platform name maps to a bit mask. The mask packs several axes:
//
//	bit  0-1   framework version (VUE2, VUE3)
//	bit  2     web (H5)
//	bit  3-6   app (APP-PLUS, APP-NVUE, APP-ANDROID, APP-IOS)
//	bit  7-15  mini-program vendors (MP-WEIXIN ... MP-360)
//	bit  16-18 quick-app webview variants
//	bit  19    UNI-APP-X
//
// Target names set both framework-version bits, and the version names set
// every target bit, so intersecting masks narrows one axis without
// disturbing the other.
package platform

import (
	"fmt"
	"sort"
	"strings"
)

// Mask is a bit set of platforms.
type Mask uint32

// Width is the number of bits used by a Mask.
const Width = 20

// Single-bit masks, one per leaf platform.
const (
	BitVue2 Mask = 1 << iota
	BitVue3
	BitH5
	BitAppPlus
	BitAppNvue
	BitAppAndroid
	BitAppIOS
	BitMPWeixin
	BitMPAlipay
	BitMPBaidu
	BitMPToutiao
	BitMPLark
	BitMPQQ
	BitMPKuaishou
	BitMPJD
	BitMP360
	BitQuickappWebview
	BitQuickappWebviewUnion
	BitQuickappWebviewHuawei
	BitUniAppX
)

// Family masks.
const (
	// All is the unrestricted context: every bit set.
	All Mask = 1<<Width - 1

	// AllVue covers the framework-version axis.
	AllVue Mask = BitVue2 | BitVue3

	// AllTarget covers every target bit.
	AllTarget Mask = All &^ AllVue

	allApp      = BitAppPlus | BitAppNvue | BitAppAndroid | BitAppIOS
	allMP       = BitMPWeixin | BitMPAlipay | BitMPBaidu | BitMPToutiao | BitMPLark | BitMPQQ | BitMPKuaishou | BitMPJD | BitMP360
	allQuickapp = BitQuickappWebview | BitQuickappWebviewUnion | BitQuickappWebviewHuawei
)

// Registered names for the family masks and the framework versions.
const (
	NameAll       = "ALL"
	NameAllVue    = "ALL_VUE"
	NameAllTarget = "ALL_TARGET"
	NameVue2      = "VUE2"
	NameVue3      = "VUE3"
)

// registry maps directive names to masks. It is never mutated.
//
//nolint:gochecknoglobals // Read-only lookup table.
var registry = map[string]Mask{
	NameAll: All,

	NameAllVue: AllVue,
	NameVue2:   AllTarget | BitVue2,
	NameVue3:   AllTarget | BitVue3,

	NameAllTarget: AllTarget,

	"H5":  BitH5 | AllVue,
	"WEB": BitH5 | AllVue,

	"APP":           allApp | AllVue,
	"APP-PLUS":      BitAppPlus | AllVue,
	"APP-PLUS-NVUE": BitAppNvue | AllVue,
	"APP-NVUE":      BitAppNvue | AllVue,
	"APP-ANDROID":   BitAppAndroid | AllVue,
	"APP-IOS":       BitAppIOS | AllVue,

	"MP":          allMP | AllVue,
	"MP-WEIXIN":   BitMPWeixin | AllVue,
	"MP-ALIPAY":   BitMPAlipay | AllVue,
	"MP-BAIDU":    BitMPBaidu | AllVue,
	"MP-TOUTIAO":  BitMPToutiao | AllVue,
	"MP-LARK":     BitMPLark | AllVue,
	"MP-QQ":       BitMPQQ | AllVue,
	"MP-KUAISHOU": BitMPKuaishou | AllVue,
	"MP-JD":       BitMPJD | AllVue,
	"MP-360":      BitMP360 | AllVue,

	"QUICKAPP-WEBVIEW":        BitQuickappWebview | AllVue,
	"QUICKAPP-WEBVIEW-UNION":  BitQuickappWebviewUnion | AllVue,
	"QUICKAPP-WEBVIEW-HUAWEI": BitQuickappWebviewHuawei | AllVue,

	// Shares the MP-360 bit in the published platform table.
	"UNI-APP-X": BitUniAppX | BitMP360 | AllVue,
}

// leafNames names each bit, in bit order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var leafNames = [Width]string{
	"VUE2", "VUE3", "H5",
	"APP-PLUS", "APP-NVUE", "APP-ANDROID", "APP-IOS",
	"MP-WEIXIN", "MP-ALIPAY", "MP-BAIDU", "MP-TOUTIAO", "MP-LARK",
	"MP-QQ", "MP-KUAISHOU", "MP-JD", "MP-360",
	"QUICKAPP-WEBVIEW", "QUICKAPP-WEBVIEW-UNION", "QUICKAPP-WEBVIEW-HUAWEI",
	"UNI-APP-X",
}

// Lookup returns the mask registered for name. Names are case-sensitive.
func Lookup(name string) (Mask, bool) {
	mask, ok := registry[name]
	return mask, ok
}

// MaskOf returns the mask registered for name, or zero for unknown names.
func MaskOf(name string) Mask {
	return registry[name]
}

// IsVersion reports whether name constrains the framework-version axis.
func IsVersion(name string) bool {
	return name == NameVue2 || name == NameVue3
}

// Names returns every registered name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Axis returns a short label for the axis a registered name constrains.
func Axis(name string) string {
	mask, ok := registry[name]
	if !ok {
		return ""
	}
	targets := mask & AllTarget
	switch {
	case mask == All:
		return "all"
	case IsVersion(name) || name == NameAllVue:
		return "version"
	case targets == AllTarget:
		return "target"
	case targets == BitH5:
		return "web"
	case targets&^allApp == 0:
		return "app"
	case targets&^allMP == 0:
		return "mini-program"
	case targets&^allQuickapp == 0:
		return "quickapp"
	default:
		return "target"
	}
}

// Has reports whether every bit of other is set in m.
func (m Mask) Has(other Mask) bool {
	return m&other == other
}

// Overlaps reports whether m and other share any bit.
func (m Mask) Overlaps(other Mask) bool {
	return m&other != 0
}

// Versions returns the framework-version part of m.
func (m Mask) Versions() Mask {
	return m & AllVue
}

// Targets returns the target part of m.
func (m Mask) Targets() Mask {
	return m & AllTarget
}

// Satisfiable reports whether some concrete platform lies in m. A platform
// needs a bit on both the version and the target axis.
func (m Mask) Satisfiable() bool {
	return m.Versions() != 0 && m.Targets() != 0
}

// Leaves returns the names of the bits set in m, in bit order.
func (m Mask) Leaves() []string {
	var names []string
	for bit := range Width {
		if m&(1<<bit) != 0 {
			names = append(names, leafNames[bit])
		}
	}
	return names
}

// String formats m as a zero-padded binary number.
func (m Mask) String() string {
	return fmt.Sprintf("%0*b", Width, uint32(m))
}

// Describe returns a compact, human-readable summary of m.
func (m Mask) Describe() string {
	switch {
	case m == All:
		return NameAll
	case m == 0:
		return "none"
	}

	var parts []string
	switch v := m.Versions(); v {
	case AllVue:
	case 0:
		parts = append(parts, "no version")
	default:
		parts = append(parts, strings.Join(v.Leaves(), "|"))
	}
	switch t := m.Targets(); t {
	case AllTarget:
		parts = append(parts, "all targets")
	case 0:
		parts = append(parts, "no target")
	default:
		parts = append(parts, strings.Join(t.Leaves(), "|"))
	}
	return strings.Join(parts, " ")
}
