package sdrudp

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"

	"github.com/chzchzchz/rtludp/radio"
)

const (
	DefaultSampleRate   = 2048000
	DefaultFrequency    = 100000000
	DefaultPort         = 1234
	DefaultDestIP       = "127.0.0.1"
	DefaultDriver       = "rtlsdr"
	DefaultBlockSize    = 16384
	DefaultPollInterval = 250 * time.Millisecond

	// MaxBlockSize is the largest UDP payload over IPv4.
	MaxBlockSize = 65507
)

var ErrBadConfig = errors.New("bad config")

// Config is everything the server needs to start.
type Config struct {
	// ID names this instance in logs and status; random when empty.
	ID          string
	Driver      string
	DeviceIndex int
	// Source is passed to the driver, see radio.Params.
	Source string

	Frequency  uint32
	SampleRate uint32
	// Gain in tenths of dB, 0 for automatic.
	Gain int32

	// Port is the data socket port; the control socket binds Port+1.
	Port int
	// Destination is ip[:port]; the port defaults to Port.
	Destination string

	BlockSize int
	// PollInterval bounds each control receive so shutdown is noticed.
	PollInterval time.Duration

	// HTTPAddr serves read-only status when set.
	HTTPAddr string
}

func DefaultConfig() Config {
	return Config{
		Driver:       DefaultDriver,
		Frequency:    DefaultFrequency,
		SampleRate:   DefaultSampleRate,
		Port:         DefaultPort,
		BlockSize:    DefaultBlockSize,
		PollInterval: DefaultPollInterval,
	}
}

func (c Config) ControlPort() int { return c.Port + 1 }

func (c Config) Settings() radio.Settings {
	return radio.Settings{CenterHz: c.Frequency, SampleRate: c.SampleRate, GainTenthsDB: c.Gain}
}

// WithID returns the config with a random ID filled in if it has none.
func (c Config) WithID() Config {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

// DestinationAddr resolves the stream destination.
func (c Config) DestinationAddr() (*net.UDPAddr, error) {
	dest := c.Destination
	if dest == "" {
		dest = DefaultDestIP
	}
	host, port, err := net.SplitHostPort(dest)
	if err != nil {
		host, port = dest, strconv.Itoa(c.Port)
	}
	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(host, port))
	if err != nil {
		return nil, fmt.Errorf("%w: destination %q: %v", ErrBadConfig, dest, err)
	}
	return addr, nil
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65534 {
		return fmt.Errorf("%w: port %d must leave room for control port %d", ErrBadConfig, c.Port, c.Port+1)
	}
	if c.BlockSize < 1 || c.BlockSize > MaxBlockSize {
		return fmt.Errorf("%w: block size %d not in [1, %d]", ErrBadConfig, c.BlockSize, MaxBlockSize)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrBadConfig)
	}
	if c.SampleRate == 0 {
		return fmt.Errorf("%w: sample rate must be set", ErrBadConfig)
	}
	_, err := c.DestinationAddr()
	return err
}

// ParseGainDB converts a gain in dB to tenths of dB.
func ParseGainDB(db float64) int32 { return int32(math.Round(db * 10)) }

// ParseHz accepts float notation such as 915e6.
func ParseHz(hz float64) (uint32, error) {
	if hz < 0 || hz > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %g Hz out of range", ErrBadConfig, hz)
	}
	return uint32(hz), nil
}

// LoadConfigFile overlays the keys present in an INI file's default section
// onto c. Keys are named after the serve flags.
func LoadConfigFile(path string, c *Config) error {
	f, err := ini.Load(path)
	if err != nil {
		return err
	}
	sec := f.Section("")
	str := func(key string, dst *string) {
		if sec.HasKey(key) {
			*dst = sec.Key(key).String()
		}
	}
	integer := func(key string, dst *int) error {
		if !sec.HasKey(key) {
			return nil
		}
		v, err := sec.Key(key).Int()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadConfig, key, err)
		}
		*dst = v
		return nil
	}
	hz := func(key string, dst *uint32) error {
		if !sec.HasKey(key) {
			return nil
		}
		v, err := sec.Key(key).Float64()
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrBadConfig, key, err)
		}
		*dst, err = ParseHz(v)
		return err
	}

	str("id", &c.ID)
	str("driver", &c.Driver)
	str("source", &c.Source)
	str("dest", &c.Destination)
	str("http", &c.HTTPAddr)
	if err := integer("device", &c.DeviceIndex); err != nil {
		return err
	}
	if err := integer("port", &c.Port); err != nil {
		return err
	}
	if err := integer("block-size", &c.BlockSize); err != nil {
		return err
	}
	if err := hz("frequency", &c.Frequency); err != nil {
		return err
	}
	if err := hz("sample-rate", &c.SampleRate); err != nil {
		return err
	}
	if sec.HasKey("gain") {
		db, err := sec.Key("gain").Float64()
		if err != nil {
			return fmt.Errorf("%w: gain: %v", ErrBadConfig, err)
		}
		c.Gain = ParseGainDB(db)
	}
	if sec.HasKey("poll") {
		d, err := sec.Key("poll").Duration()
		if err != nil {
			return fmt.Errorf("%w: poll: %v", ErrBadConfig, err)
		}
		c.PollInterval = d
	}
	return nil
}
