package ax5031

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

// rangingSim answers PLLRANGING reads with busy for the first busy reads,
// then with final.
func rangingSim(busy int, final byte) func(addr uint8, n int) byte {
	return func(addr uint8, n int) byte {
		if addr != PLLRANGING.Address() {
			return 0
		}
		if n <= busy {
			return rangingBusy | rangingStart
		}
		return final
	}
}

func TestAutoRangeComplete(t *testing.T) {
	for _, busy := range []int{0, 1, 17, MaxRangingPolls - 1} {
		d, sim := newTestDev(t, 0)
		sim.OnRead = rangingSim(busy, 0x07)

		n, err := d.AutoRange()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, n, test.ShouldEqual, busy)
		test.That(t, sim.Writes(PLLRANGING.Address()), test.ShouldResemble, []byte{0x08})
		test.That(t, sim.Reads(PLLRANGING.Address()), test.ShouldEqual, busy+1)
		test.That(t, sim.Lows, test.ShouldEqual, sim.Highs)
	}
}

func TestAutoRangeError(t *testing.T) {
	d, sim := newTestDev(t, 0)
	sim.OnRead = rangingSim(0, rangingErr)
	_, err := d.AutoRange()
	test.That(t, errors.Is(err, ErrAutoRangingError), test.ShouldBeTrue)
	test.That(t, sim.Reads(PLLRANGING.Address()), test.ShouldEqual, 1)

	// the error bit only counts once busy has cleared
	d, sim = newTestDev(t, 0)
	sim.OnRead = func(addr uint8, n int) byte {
		if n < 5 {
			return rangingBusy | rangingErr
		}
		return 0
	}
	n, err := d.AutoRange()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 4)
}

func TestAutoRangeTimeout(t *testing.T) {
	d, sim := newTestDev(t, 0)
	sim.OnRead = rangingSim(MaxRangingPolls+10, 0)
	_, err := d.AutoRange()
	test.That(t, errors.Is(err, ErrAutoRangingTimeout), test.ShouldBeTrue)
	test.That(t, sim.Reads(PLLRANGING.Address()), test.ShouldEqual, MaxRangingPolls)
	test.That(t, sim.Selected(), test.ShouldBeFalse)
}

func TestAutoRangeBusFault(t *testing.T) {
	d, sim := newTestDev(t, 0)
	sim.FailExchange = 2
	_, err := d.AutoRange()
	test.That(t, errors.Is(err, ErrBusFault), test.ShouldBeTrue)
	test.That(t, sim.Reads(PLLRANGING.Address()), test.ShouldEqual, 0)

	d, sim = newTestDev(t, 0)
	sim.OnRead = rangingSim(MaxRangingPolls, 0)
	sim.FailExchange = 2 + 2*10
	_, err = d.AutoRange()
	test.That(t, errors.Is(err, ErrBusFault), test.ShouldBeTrue)
	test.That(t, sim.Reads(PLLRANGING.Address()), test.ShouldEqual, 9)
}
