package ax5031

import "fmt"

// Status is the decoded status byte clocked out by the chip at the start of
// every register transaction.
type Status struct {
	PLLLock    bool  `json:"pll_lock"`
	FIFOOver   bool  `json:"fifo_over"`
	FIFOUnder  bool  `json:"fifo_under"`
	FIFOFull   bool  `json:"fifo_full"`
	FIFOEmpty  bool  `json:"fifo_empty"`
	FIFOStatus uint8 `json:"fifo_status"`
}

// Status byte bits
const (
	StatusPLLLock   = 1 << 5
	StatusFIFOOver  = 1 << 4
	StatusFIFOUnder = 1 << 3
	StatusFIFOFull  = 1 << 2
	StatusFIFOEmpty = 1 << 1

	statusFIFOShift = 6
)

// DecodeStatus extracts the status flags from a raw status byte.
func DecodeStatus(b byte) Status {
	return Status{
		PLLLock:    b&StatusPLLLock != 0,
		FIFOOver:   b&StatusFIFOOver != 0,
		FIFOUnder:  b&StatusFIFOUnder != 0,
		FIFOFull:   b&StatusFIFOFull != 0,
		FIFOEmpty:  b&StatusFIFOEmpty != 0,
		FIFOStatus: (b >> statusFIFOShift) & 0x3,
	}
}

func (s Status) String() string {
	return fmt.Sprintf("lock=%t over=%t under=%t full=%t empty=%t fifo=%d",
		s.PLLLock, s.FIFOOver, s.FIFOUnder, s.FIFOFull, s.FIFOEmpty, s.FIFOStatus)
}
