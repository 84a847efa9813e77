package ax5031

import "fmt"

// MaxRangingPolls bounds the number of PLLRANGING reads AutoRange performs.
const MaxRangingPolls = 3000

// PLLRANGING bits
const (
	rangingStart = 1 << 3 // written to kick off auto-ranging
	rangingBusy  = 1 << 4
	rangingErr   = 1 << 5
)

// AutoRange starts the VCO auto-ranging and busy-polls PLLRANGING until the
// chip reports completion. It returns the 0-based poll at which the busy flag
// was seen clear. The loop has no delay and is bounded by MaxRangingPolls,
// not by time.
func (d *Dev) AutoRange() (int, error) {
	if _, err := d.write(PLLRANGING, rangingStart); err != nil {
		return 0, err
	}
	for i := 0; i < MaxRangingPolls; i++ {
		_, v, err := d.ReadRegister(PLLRANGING)
		if err != nil {
			return i, err
		}
		switch {
		case v&rangingBusy != 0:
			continue
		case v&rangingErr != 0:
			d.log.Warn("auto-ranging failed", "poll", i, "pllranging", fmt.Sprintf("0x%02X", v))
			return i, ErrAutoRangingError
		default:
			d.log.Debug("auto-ranging complete", "poll", i, "pllranging", fmt.Sprintf("0x%02X", v))
			return i, nil
		}
	}
	return MaxRangingPolls, ErrAutoRangingTimeout
}
