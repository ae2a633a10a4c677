package radio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrRateOutOfRange = errors.New("sample rate out of range")
var ErrFrequencyOutOfRange = errors.New("frequency out of range")
var ErrUnknownDriver = errors.New("unknown radio driver")
var ErrClosed = errors.New("device closed")

// Device is a sample source that can be retuned while streaming.
type Device interface {
	// ReadBlock fills p with raw u8 I/Q bytes, returning how many were read.
	ReadBlock(p []byte) (int, error)
	SetCenterFreq(hz uint32) error
	SetSampleRate(hz uint32) error
	// SetGain sets the tuner gain in tenths of dB. Zero selects automatic gain.
	SetGain(tenthsDB int32) error
	Close() error
}

// Settings is the tuning state of a device.
type Settings struct {
	CenterHz     uint32 `json:"center_hz"`
	SampleRate   uint32 `json:"sample_rate"`
	GainTenthsDB int32  `json:"gain_tenths_db"`
}

func (s Settings) String() string {
	gain := "auto"
	if s.GainTenthsDB != 0 {
		gain = fmt.Sprintf("%.1fdB", float64(s.GainTenthsDB)/10)
	}
	return fmt.Sprintf("%dHz@%dsps gain=%s", s.CenterHz, s.SampleRate, gain)
}

// Params selects which device a driver opens.
type Params struct {
	Index int
	// Source is driver specific: an rtl_tcp host:port or a capture file path.
	Source string
}

// Info describes a device found by a driver.
type Info struct {
	Driver string `json:"driver"`
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Serial string `json:"serial,omitempty"`
}

type Driver struct {
	Open func(ctx context.Context, p Params) (Device, error)
	// List is optional.
	List func(ctx context.Context) ([]Info, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a driver available by name. Hardware drivers call it from init.
func Register(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d.Open == nil {
		panic("radio: Register driver " + name + " without Open")
	}
	drivers[name] = d
}

func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	ret := make([]string, 0, len(drivers))
	for name := range drivers {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func Open(ctx context.Context, name string, p Params) (Device, error) {
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownDriver, name, Drivers())
	}
	return d.Open(ctx, p)
}

func List(ctx context.Context) (ret []Info, err error) {
	for _, name := range Drivers() {
		driversMu.RLock()
		d := drivers[name]
		driversMu.RUnlock()
		if d.List == nil {
			continue
		}
		infos, err := d.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ret = append(ret, infos...)
	}
	return ret, nil
}

// Apply tunes frequency, then sample rate, then gain, stopping at the first error.
func Apply(d Device, s Settings) error {
	if err := d.SetCenterFreq(s.CenterHz); err != nil {
		return fmt.Errorf("set frequency %d: %w", s.CenterHz, err)
	}
	if err := d.SetSampleRate(s.SampleRate); err != nil {
		return fmt.Errorf("set sample rate %d: %w", s.SampleRate, err)
	}
	if err := d.SetGain(s.GainTenthsDB); err != nil {
		return fmt.Errorf("set gain %d: %w", s.GainTenthsDB, err)
	}
	return nil
}

var minFreqHz = uint32(25000000)
var maxFreqHz = uint32(1750000000)

func isValidFreq(hz uint32) bool { return hz >= minFreqHz && hz <= maxFreqHz }

// isValidRate follows the RTL2832 resampler limits.
func isValidRate(rate uint32) bool {
	return !((rate <= 225000) || (rate > 3200000) ||
		((rate > 300000) && (rate <= 900000)))
}
