package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig points the recorder at a serial sink, typically the
// UART a trace host listens on.
type SerialConfig struct {
	Device      string        `json:"device" yaml:"device"`
	Baud        int           `json:"baud" yaml:"baud"`
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`
}

// DefaultSerialConfig returns settings matching the usual trace host.
func DefaultSerialConfig(device string) SerialConfig {
	return SerialConfig{
		Device: device,
		Baud:   115200,
	}
}

// OpenSerial opens the configured port for use as a Recorder sink.
func OpenSerial(cfg SerialConfig) (io.ReadWriteCloser, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("trace: serial device not set")
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", cfg.Device, err)
	}
	return port, nil
}
