// Package max30102 drives a MAX30102 pulse oximeter over I²C.
package max30102

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var (
	// ErrNotDevice throws an error when the device part ID does not match a
	// MAX30102 signature (0x15).
	ErrNotDevice error = errors.New("max30102: part ID does not match (0x15)")
	// ErrTimeout is returned when a status flag does not settle.
	ErrTimeout = errors.New("max30102: timed out waiting for device")
	// ErrUnsupported is returned by Setup for settings the device cannot
	// run with.
	ErrUnsupported = errors.New("max30102: unsupported setting")
)

// waitTries bounds the status polls of waitUntil.
const waitTries = 100

// sample is one FIFO entry in SpO2 mode.
type sample struct {
	red, ir uint32
}

// Device defines a MAX30102 device.
type Device struct {
	dev *i2c.Dev
	bus io.Closer

	w   [2]byte
	r   [1]byte
	raw [FIFODepth * sampleBytes]byte

	fifo [FIFODepth]sample
	head int
	n    int
}

// Open initializes the host, opens the I²C bus and returns the device found
// there.
//
// Argument "busName" can be used to specify the exact bus to use ("/dev/i2c-2", "I2C2", "2").
// Argument "addr" can be used to specify alternative address if default (0x57) is unavailable and changed.
// If "busName" argument is specified as an empty string "" the first available bus will be used.
func Open(busName string, addr uint16, options ...Option) (*Device, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("max30102: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("max30102: could not open I2C bus: %w", err)
	}

	d, err := New(bus, addr, options...)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.bus = bus

	return d, nil
}

// New probes the part ID on bus, resets the device and applies options.
// An addr of 0 selects the default address.
func New(bus i2c.Bus, addr uint16, options ...Option) (*Device, error) {
	if addr == 0 {
		addr = Addr
	}

	d := &Device{
		dev: &i2c.Dev{Addr: addr, Bus: bus},
	}

	part, err := d.Read(RegPartID)
	if err != nil {
		return nil, fmt.Errorf("max30102: could not get part ID: %w", err)
	}
	if part != PartID {
		return nil, ErrNotDevice
	}

	if err := d.Reset(); err != nil {
		return nil, fmt.Errorf("max30102: could not reset device: %w", err)
	}
	if _, err := d.Options(options...); err != nil {
		return nil, fmt.Errorf("max30102: could not initialize device: %w", err)
	}

	return d, nil
}

// Close powers the device down and releases the bus if Open opened it.
func (d *Device) Close() error {
	err := d.Shutdown()
	if d.bus != nil {
		if cerr := d.bus.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// RevID returns the revision ID of the device.
func (d *Device) RevID() (byte, error) {
	rev, err := d.Read(RegRevID)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not get revision ID: %w", err)
	}
	return rev, nil
}

// waitUntil polls reg until flag reads as set (on) or cleared (!on).
func (d *Device) waitUntil(reg, flag byte, on bool) error {
	for i := 0; i < waitTries; i++ {
		state, err := d.Read(reg)
		if err != nil {
			return fmt.Errorf("could not wait for %#x in %#x: %w", flag, reg, err)
		}
		if (state&flag != 0) == on {
			return nil
		}
	}
	return fmt.Errorf("flag %#x in %#x: %w", flag, reg, ErrTimeout)
}

// Temperature returns the current die temperature of the device.
func (d *Device) Temperature() (float64, error) {
	if err := d.Write(TempCfg, TempEna); err != nil {
		return 0, fmt.Errorf("max30102: could not enable temperature: %w", err)
	}
	if err := d.waitUntil(TempCfg, TempEna, false); err != nil {
		return 0, fmt.Errorf("max30102: could not read temperature: %w", err)
	}

	i, err := d.Read(TempInt)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read integer part of temperature: %w", err)
	}

	f, err := d.Read(TempFrac)
	if err != nil {
		return 0, fmt.Errorf("max30102: could not read fractional part of temperature: %w", err)
	}

	return float64(int8(i)) + (float64(f) * 0.0625), nil
}

// Read reads a single byte from a register.
func (d *Device) Read(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.dev.Tx(d.w[:1], d.r[:]); err != nil {
		return 0, fmt.Errorf("max30102: could not read byte: %w", err)
	}

	return d.r[0], nil
}

// Write writes a byte to a register.
func (d *Device) Write(reg, data byte) error {
	d.w[0], d.w[1] = reg, data
	n, err := d.dev.Write(d.w[:])
	if err != nil {
		return err
	}
	n-- // remove register write
	if n != 1 {
		return fmt.Errorf("write: wrong number of bytes written: want %d, got %d", 1, n)
	}

	return nil
}

// Reset resets the device. All configurations, thresholds, and data registers
// are reset to their power-on state.
func (d *Device) Reset() error {
	if err := d.Write(ModeCfg, ResetControl); err != nil {
		return fmt.Errorf("max30102: could not reset: %w", err)
	}
	if err := d.waitUntil(ModeCfg, ResetControl, false); err != nil {
		return fmt.Errorf("max30102: could not reset: %w", err)
	}
	d.head, d.n = 0, 0

	return nil
}

// Check pulls every new sample out of the device FIFO into the local
// buffer. It returns the number of samples buffered.
func (d *Device) Check() (int, error) {
	wr, err := d.Read(FIFOWrPtr)
	if err != nil {
		return d.n, fmt.Errorf("max30102: could not read FIFO write pointer: %w", err)
	}
	rd, err := d.Read(FIFORdPtr)
	if err != nil {
		return d.n, fmt.Errorf("max30102: could not read FIFO read pointer: %w", err)
	}

	n := (int(wr) - int(rd)) & fifoPtrMask
	if n == 0 {
		return d.n, nil
	}
	if free := FIFODepth - d.n; n > free {
		n = free
	}
	if n == 0 {
		return d.n, nil
	}

	raw := d.raw[:n*sampleBytes]
	d.w[0] = FIFOData
	if err := d.dev.Tx(d.w[:1], raw); err != nil {
		return d.n, fmt.Errorf("max30102: could not read FIFO: %w", err)
	}

	for i := 0; i < n; i++ {
		b := raw[i*sampleBytes:]
		tail := (d.head + d.n) % FIFODepth
		d.fifo[tail] = sample{red: word(b[0:3]), ir: word(b[3:6])}
		d.n++
	}

	return d.n, nil
}

// word decodes one 18-bit FIFO channel.
func word(b []byte) uint32 {
	const msbMask byte = 0b0000_0011
	return uint32(b[0]&msbMask)<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// Available reports whether a sample is buffered, checking the device FIFO
// when the local buffer is empty.
func (d *Device) Available() (bool, error) {
	if d.n > 0 {
		return true, nil
	}
	n, err := d.Check()
	return n > 0, err
}

// Next pops the oldest buffered sample. Red and IR are raw 18-bit values.
// It returns zeroes when nothing is buffered.
func (d *Device) Next() (red, ir uint32) {
	if d.n == 0 {
		return 0, 0
	}
	s := d.fifo[d.head]
	d.head = (d.head + 1) % FIFODepth
	d.n--
	return s.red, s.ir
}

// Shutdown sets the device into power-save mode.
func (d *Device) Shutdown() error {
	if _, err := d.config(ModeCfg, ^modeSHDN, modeSHDN); err != nil {
		return fmt.Errorf("max30102: could not shut down: %w", err)
	}
	return nil
}

// Startup wakes the device from power-save mode.
func (d *Device) Startup() error {
	if _, err := d.config(ModeCfg, ^modeSHDN, 0); err != nil {
		return fmt.Errorf("max30102: could not start up: %w", err)
	}
	return nil
}
