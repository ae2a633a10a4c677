package radio

import "sync"

// LockedDevice serializes every call into a Device so a retune issued from one
// goroutine never interleaves with a block read in flight on another.
type LockedDevice struct {
	dev Device
	// mu guards dev and closed; held for the duration of each device call.
	mu     sync.Mutex
	closed bool

	// smu guards settings so Settings never waits behind a blocked read.
	smu      sync.RWMutex
	settings Settings
}

func NewLockedDevice(d Device) *LockedDevice { return &LockedDevice{dev: d} }

func (l *LockedDevice) ReadBlock(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrClosed
	}
	return l.dev.ReadBlock(p)
}

func (l *LockedDevice) SetCenterFreq(hz uint32) error {
	return l.set(func() error { return l.dev.SetCenterFreq(hz) }, func(s *Settings) { s.CenterHz = hz })
}

func (l *LockedDevice) SetSampleRate(hz uint32) error {
	return l.set(func() error { return l.dev.SetSampleRate(hz) }, func(s *Settings) { s.SampleRate = hz })
}

func (l *LockedDevice) SetGain(tenthsDB int32) error {
	return l.set(func() error { return l.dev.SetGain(tenthsDB) }, func(s *Settings) { s.GainTenthsDB = tenthsDB })
}

func (l *LockedDevice) set(f func() error, update func(*Settings)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if err := f(); err != nil {
		return err
	}
	l.smu.Lock()
	update(&l.settings)
	l.smu.Unlock()
	return nil
}

// Settings returns the last successfully applied tuning.
func (l *LockedDevice) Settings() Settings {
	l.smu.RLock()
	defer l.smu.RUnlock()
	return l.settings
}

func (l *LockedDevice) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.dev.Close()
}
