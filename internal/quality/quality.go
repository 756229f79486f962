// Package quality resolves the device quality tier from host capability
// signals. The tier is decided once at startup and never changes.
package quality

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

type Tier int

const (
	Minimal Tier = iota
	Low
	High
)

// Tiers lists every tier in table order.
var Tiers = []Tier{Minimal, Low, High}

// LowMemoryGB is the reported device memory at or below which the low tier is used.
const LowMemoryGB = 4

var mobilePattern = regexp.MustCompile(`(?i)Mobi|Android`)

func (t Tier) String() string {
	switch t {
	case Minimal:
		return "minimal"
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

func (t Tier) Valid() bool { return t >= Minimal && t <= High }

// Clamp maps an out-of-range tier onto the nearest valid one.
func (t Tier) Clamp() Tier { return min(max(t, Minimal), High) }

// ParseTier maps a tier name onto a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "low":
		return Low, nil
	case "high":
		return High, nil
	}
	return 0, fmt.Errorf("quality: unknown tier %q (want minimal, low or high)", s)
}

func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Signals are the host capability hints. The zero value means no signal
// fired: a desktop with unknown memory and motion allowed.
type Signals struct {
	UserAgent     string
	DeviceMemory  float64 // GB, 0 when unknown
	ReducedMotion bool
}

func (s Signals) Mobile() bool {
	return s.UserAgent != "" && mobilePattern.MatchString(s.UserAgent)
}

func (s Signals) LowMemory() bool {
	return s.DeviceMemory > 0 && s.DeviceMemory <= LowMemoryGB
}

// Select resolves the tier. Reduced motion wins over everything, then
// mobile or low memory, otherwise high.
func Select(s Signals) Tier {
	if s.ReducedMotion {
		return Minimal
	}
	if s.Mobile() || s.LowMemory() {
		return Low
	}
	return High
}

const (
	EnvUserAgent     = "TERRAINBG_USER_AGENT"
	EnvDeviceMemory  = "TERRAINBG_DEVICE_MEMORY"
	EnvReducedMotion = "TERRAINBG_REDUCED_MOTION"
)

// Detect gathers signals from the environment. Explicit env overrides take
// precedence over what the machine reports; anything unreadable is left unset.
func Detect() Signals {
	s := Signals{
		UserAgent:    os.Getenv(EnvUserAgent),
		DeviceMemory: systemMemoryGB(),
	}
	if s.UserAgent == "" && (runtime.GOOS == "android" || runtime.GOOS == "ios") {
		s.UserAgent = "Mobile " + runtime.GOOS
	}
	if v := os.Getenv(EnvDeviceMemory); v != "" {
		if gb, err := strconv.ParseFloat(v, 64); err == nil {
			s.DeviceMemory = gb
		}
	}
	if v := os.Getenv(EnvReducedMotion); v != "" {
		s.ReducedMotion, _ = strconv.ParseBool(v)
	}
	return s
}

func systemMemoryGB() float64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()
	return parseMemInfo(bufio.NewScanner(f))
}

func parseMemInfo(sc *bufio.Scanner) float64 {
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0
		}
		return kb / (1024 * 1024)
	}
	return 0
}
