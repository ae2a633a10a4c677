// Package rtlsdr registers the "rtlsdr" radio driver for RTL2832U USB dongles
// through librtlsdr. Import it for its side effect:
//
//	import _ "github.com/chzchzchz/rtludp/radio/rtlsdr"
package rtlsdr

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	rtl "github.com/jpoirier/gortlsdr"

	"github.com/chzchzchz/rtludp/radio"
)

const DriverName = "rtlsdr"

type device struct {
	dev   *rtl.Context
	index int
}

func init() {
	radio.Register(DriverName, radio.Driver{Open: open, List: list})
}

func open(_ context.Context, p radio.Params) (radio.Device, error) {
	if n := rtl.GetDeviceCount(); p.Index < 0 || p.Index >= n {
		return nil, fmt.Errorf("rtlsdr device #%d not found (%d present)", p.Index, n)
	}
	glog.Infof("opening rtlsdr #%d: %s", p.Index, rtl.GetDeviceName(p.Index))
	dev, err := rtl.Open(p.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to open rtlsdr device #%d: %w", p.Index, err)
	}
	glog.V(1).Infof("rtlsdr #%d tuner: %s", p.Index, dev.GetTunerType())
	if err := dev.ResetBuffer(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("reset buffer: %w", err)
	}
	return &device{dev: dev, index: p.Index}, nil
}

func list(context.Context) (ret []radio.Info, err error) {
	for i := 0; i < rtl.GetDeviceCount(); i++ {
		info := radio.Info{Driver: DriverName, Index: i, Name: rtl.GetDeviceName(i)}
		if _, _, serial, err := rtl.GetDeviceUsbStrings(i); err == nil {
			info.Serial = serial
		} else {
			glog.Warningf("rtlsdr #%d usb strings: %v", i, err)
		}
		ret = append(ret, info)
	}
	return ret, nil
}

func (d *device) ReadBlock(p []byte) (int, error) { return d.dev.ReadSync(p, len(p)) }

func (d *device) SetCenterFreq(hz uint32) error { return d.dev.SetCenterFreq(int(hz)) }

func (d *device) SetSampleRate(hz uint32) error { return d.dev.SetSampleRate(int(hz)) }

func (d *device) SetGain(tenthsDB int32) error {
	if tenthsDB == 0 {
		return d.dev.SetTunerGainMode(false)
	}
	if err := d.dev.SetTunerGainMode(true); err != nil {
		return err
	}
	return d.dev.SetTunerGain(int(tenthsDB))
}

func (d *device) Close() error { return d.dev.Close() }
