package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// ListInputDevices enumerates the host input endpoints, in host order.
// The host is queried on every call. Callers should treat an error the
// same as an empty list: no device to record from.
func ListInputDevices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize host audio: %w", err)
	}
	defer portaudio.Terminate()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	return inputDevices(infos), nil
}

// inputDevices filters the host enumeration down to input-capable
// endpoints, keeping the host index as the device id.
func inputDevices(infos []*portaudio.DeviceInfo) []Device {
	devices := make([]Device, 0, len(infos))
	for i, info := range infos {
		if info == nil || info.MaxInputChannels <= 0 {
			continue
		}
		devices = append(devices, Device{
			ID:                i,
			Name:              info.Name,
			MaxInputChannels:  info.MaxInputChannels,
			DefaultSampleRate: info.DefaultSampleRate,
		})
	}
	return devices
}

// DefaultInputDevice returns the host default input device id. ok is
// false when the host reports none.
func DefaultInputDevice() (int, bool) {
	if err := portaudio.Initialize(); err != nil {
		return 0, false
	}
	defer portaudio.Terminate()

	def, err := portaudio.DefaultInputDevice()
	if err != nil || def == nil {
		return 0, false
	}
	infos, err := portaudio.Devices()
	if err != nil {
		return 0, false
	}
	for i, info := range infos {
		if info == def {
			return i, true
		}
	}
	return 0, false
}
