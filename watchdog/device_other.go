//go:build !linux

package watchdog

import "time"

// DefaultDevice is the kernel watchdog node.
const DefaultDevice = "/dev/watchdog"

// Device is unavailable on this platform.
type Device struct{}

// OpenDevice always fails on this platform.
func OpenDevice(string, time.Duration) (*Device, error) {
	return nil, ErrUnsupported
}

// Kick implements Watchdog.
func (*Device) Kick() error { return ErrUnsupported }

// Stop implements Watchdog.
func (*Device) Stop() error { return ErrUnsupported }

// Close implements io.Closer.
func (*Device) Close() error { return nil }
