package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// portAudioSource reads interleaved int16 chunks from a PortAudio input
// stream. The blocking Read fills one chunk per polling interval.
type portAudioSource struct {
	stream *portaudio.Stream
	buf    []int16
}

// NewPortAudioSource returns a Source backed by the host PortAudio
// subsystem.
func NewPortAudioSource() Source {
	return &portAudioSource{}
}

func (p *portAudioSource) Open(cfg Config) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize host audio: %w", err)
	}

	device, err := resolveDevice(cfg.DeviceID)
	if err != nil {
		portaudio.Terminate()
		return err
	}

	p.buf = make([]int16, cfg.FramesPerChunk()*cfg.Channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: cfg.Channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(cfg.SampleRate),
		FramesPerBuffer: cfg.FramesPerChunk(),
	}, p.buf)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start audio stream: %w", err)
	}

	p.stream = stream
	return nil
}

func (p *portAudioSource) ReadChunk() ([]int16, error) {
	if err := p.stream.Read(); err != nil {
		return nil, err
	}
	chunk := make([]int16, len(p.buf))
	copy(chunk, p.buf)
	return chunk, nil
}

func (p *portAudioSource) Close() error {
	if p.stream != nil {
		p.stream.Stop()
		p.stream.Close()
		p.stream = nil
	}
	return portaudio.Terminate()
}

func resolveDevice(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDevice {
		device, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("default input device: %w", err)
		}
		return device, nil
	}

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	if id < 0 || id >= len(infos) {
		return nil, fmt.Errorf("device not found: %d", id)
	}
	if infos[id].MaxInputChannels <= 0 {
		return nil, fmt.Errorf("device %d (%s) has no input channels", id, infos[id].Name)
	}
	return infos[id], nil
}
