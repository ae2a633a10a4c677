package radio

import (
	"context"
	"errors"
	"testing"
)

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.TODO(), "no-such-driver", Params{}); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
}

func TestRegisterAndList(t *testing.T) {
	m := NewMock()
	Register("test-listed", Driver{
		Open: func(context.Context, Params) (Device, error) { return m, nil },
		List: func(context.Context) ([]Info, error) {
			return []Info{{Driver: "test-listed", Name: "mock"}}, nil
		},
	})
	d, err := Open(context.TODO(), "test-listed", Params{})
	if err != nil {
		t.Fatal(err)
	}
	if d != Device(m) {
		t.Fatal("Open returned a different device")
	}
	infos, err := List(context.TODO())
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, info := range infos {
		found = found || info.Driver == "test-listed"
	}
	if !found {
		t.Fatalf("registered driver missing from %+v", infos)
	}
}

func TestValidRate(t *testing.T) {
	tests := []struct {
		rate  uint32
		valid bool
	}{
		{225000, false},
		{225001, true},
		{300000, true},
		{300001, false},
		{900000, false},
		{900001, true},
		{2048000, true},
		{3200000, true},
		{3200001, false},
	}
	for _, tt := range tests {
		if got := isValidRate(tt.rate); got != tt.valid {
			t.Errorf("isValidRate(%d) = %v, want %v", tt.rate, got, tt.valid)
		}
	}
}

func TestSettingsString(t *testing.T) {
	s := Settings{CenterHz: 100000000, SampleRate: 2048000}
	if got, want := s.String(), "100000000Hz@2048000sps gain=auto"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	s.GainTenthsDB = 197
	if got, want := s.String(), "100000000Hz@2048000sps gain=19.7dB"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
