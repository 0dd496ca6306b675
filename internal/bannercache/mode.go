package bannercache

import (
	"fmt"
	"strings"
)

// Mode selects how banners are cached.
type Mode int

const (
	// ModeOff disables the cache; banners are always read at full size.
	ModeOff Mode = iota
	// ModeLowResPreload converts every banner at startup and keeps the
	// low-resolution copies resident.
	ModeLowResPreload
	// ModeLowResLoadOnDemand converts banners at startup but only loads them
	// while a Demand scope is open.
	ModeLowResLoadOnDemand
	// ModeFull keeps full-size banners and bypasses the low-resolution cache.
	ModeFull
)

// ParseMode parses a mode name as used in configuration.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "":
		return ModeOff, nil
	case "preload", "low-res-preload":
		return ModeLowResPreload, nil
	case "ondemand", "on-demand", "low-res-load-on-demand":
		return ModeLowResLoadOnDemand, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeOff, fmt.Errorf("unknown banner cache mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeLowResPreload:
		return "preload"
	case ModeLowResLoadOnDemand:
		return "ondemand"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// LowRes reports whether the mode uses the low-resolution cache.
func (m Mode) LowRes() bool {
	return m == ModeLowResPreload || m == ModeLowResLoadOnDemand
}

// Preferences are the user settings the cache reads on every call.
type Preferences interface {
	Mode() Mode
	// FastLoad trusts existing cache files without fingerprinting sources.
	FastLoad() bool
	// PalettedCache stores banners as 8-bit indexed images.
	PalettedCache() bool
}

// StaticPreferences is a fixed Preferences value.
type StaticPreferences struct {
	CacheMode Mode
	Fast      bool
	Paletted  bool
}

func (p StaticPreferences) Mode() Mode          { return p.CacheMode }
func (p StaticPreferences) FastLoad() bool      { return p.Fast }
func (p StaticPreferences) PalettedCache() bool { return p.Paletted }
