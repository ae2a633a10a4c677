package radio

import (
	"sync"
	"time"
)

// MockCall records one setter invocation on a Mock.
type MockCall struct {
	Op    string
	Value int64
}

// MockRead scripts the result of one ReadBlock. N < 0 fills the whole buffer.
type MockRead struct {
	N   int
	Err error
}

// Mock is an in-memory Device. Reads follow the script given to Script and then
// return full buffers; setters are recorded in call order.
type Mock struct {
	mu       sync.Mutex
	settings Settings
	calls    []MockCall
	script   []MockRead
	reads    int
	closed   bool
	afterUse bool

	// SetErr, when non-nil, is returned by every setter after recording the call.
	SetErr error
	// ReadDelay paces ReadBlock like a device producing samples.
	ReadDelay time.Duration
}

func NewMock() *Mock { return &Mock{ReadDelay: time.Millisecond} }

func (m *Mock) Script(reads ...MockRead) {
	m.mu.Lock()
	m.script = append(m.script, reads...)
	m.mu.Unlock()
}

func (m *Mock) ReadBlock(p []byte) (int, error) {
	m.mu.Lock()
	delay := m.ReadDelay
	if m.closed {
		m.afterUse = true
	}
	m.reads++
	fill := byte(m.reads)
	rd := MockRead{N: -1}
	if len(m.script) > 0 {
		rd, m.script = m.script[0], m.script[1:]
	}
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if rd.Err != nil {
		return 0, rd.Err
	}
	n := rd.N
	if n < 0 || n > len(p) {
		n = len(p)
	}
	for i := range p[:n] {
		p[i] = fill
	}
	return n, nil
}

func (m *Mock) SetCenterFreq(hz uint32) error {
	return m.record("freq", int64(hz), func(s *Settings) { s.CenterHz = hz })
}

func (m *Mock) SetSampleRate(hz uint32) error {
	return m.record("rate", int64(hz), func(s *Settings) { s.SampleRate = hz })
}

func (m *Mock) SetGain(tenthsDB int32) error {
	return m.record("gain", int64(tenthsDB), func(s *Settings) { s.GainTenthsDB = tenthsDB })
}

func (m *Mock) record(op string, v int64, update func(*Settings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		m.afterUse = true
	}
	m.calls = append(m.calls, MockCall{Op: op, Value: v})
	if m.SetErr != nil {
		return m.SetErr
	}
	update(&m.settings)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

func (m *Mock) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// UsedAfterClose reports whether any call reached the device after Close.
func (m *Mock) UsedAfterClose() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.afterUse
}
