// Package ax5031test provides a simulated AX5031 for tests. The simulator
// implements both ax5031.Exchanger and ax5031.Line and keeps a register file
// addressed by 7-bit register address.
package ax5031test

import (
	"errors"
	"sync"
)

// ErrInjected is returned by the simulator when a fault is injected.
var ErrInjected = errors.New("ax5031test: injected fault")

// Txn is one completed (or aborted) transaction seen by the simulator.
type Txn struct {
	Write bool
	Addr  uint8
	Data  byte
}

// Sim is a simulated chip. The zero value is not usable, call NewSim.
type Sim struct {
	mu sync.Mutex

	Regs   [128]byte
	Status byte // status byte returned on every transaction

	// OnRead, if set, is consulted for every read and its result returned
	// instead of the register file content. n counts reads of that address.
	OnRead func(addr uint8, n int) byte

	// FailExchange makes the n-th Exchange call (1-based) fail; 0 disables.
	FailExchange int
	// FailLow and FailHigh make the chip-select calls fail.
	FailLow  bool
	FailHigh bool

	selected  bool
	buf       []byte
	exchanges int
	reads     map[uint8]int

	Lows, Highs int
	Txns        []Txn
	Closed      bool
}

// NewSim returns a simulator with all registers zero and the status byte set
// to status.
func NewSim(status byte) *Sim {
	return &Sim{Status: status, reads: map[uint8]int{}}
}

// Low implements ax5031.Line.
func (s *Sim) Low() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lows++
	if s.FailLow {
		return ErrInjected
	}
	s.selected = true
	s.buf = s.buf[:0]
	return nil
}

// High implements ax5031.Line.
func (s *Sim) High() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Highs++
	s.selected = false
	if s.FailHigh {
		return ErrInjected
	}
	return nil
}

// SetFailExchange sets FailExchange while holding the simulator lock, for
// tests that drive the simulator from another goroutine.
func (s *Sim) SetFailExchange(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailExchange = n
}

// Selected reports whether chip-select is currently asserted.
func (s *Sim) Selected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Exchange implements ax5031.Exchanger.
func (s *Sim) Exchange(out byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges++
	if s.FailExchange != 0 && s.exchanges == s.FailExchange {
		return 0, ErrInjected
	}
	if !s.selected {
		return 0xFF, nil
	}
	s.buf = append(s.buf, out)
	if len(s.buf) == 1 {
		return s.Status, nil
	}
	hi, lo := s.buf[0], s.buf[1]
	s.buf = s.buf[:0]
	addr := hi & 0x7F
	t := Txn{Write: hi&0x80 != 0, Addr: addr, Data: lo}
	s.Txns = append(s.Txns, t)
	prev := s.Regs[addr]
	if t.Write {
		s.Regs[addr] = lo
		return prev, nil
	}
	s.reads[addr]++
	if s.OnRead != nil {
		return s.OnRead(addr, s.reads[addr]), nil
	}
	return prev, nil
}

// Writes returns the data written to addr, in order.
func (s *Sim) Writes(addr uint8) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []byte
	for _, t := range s.Txns {
		if t.Write && t.Addr == addr {
			out = append(out, t.Data)
		}
	}
	return out
}

// Reads returns how many reads of addr completed.
func (s *Sim) Reads(addr uint8) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[addr]
}

// Close records that the driver released the simulator.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}
