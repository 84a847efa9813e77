package plugins

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.viam.com/test"

	"github.com/linht/ax5031/ax5031"
)

const testProfile = `# bench profile
frequency: 868300000 # Hz
bitrate: 9600
power_mode: full-tx
modulation: ask
framing: raw
encoding: nrz
pll_loop:
  filter: 1
  charge_pump: 1
  band_select: 0
  freq_select: 0
sysclk_led: false
`

func newTestProfile(t *testing.T, hw *HardwarePlugin) (string, *fiber.App) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	test.That(t, os.WriteFile(path, []byte(testProfile), 0644), test.ShouldBeNil)

	p, err := NewProfilePlugin(path, hw)
	test.That(t, err, test.ShouldBeNil)
	app := fiber.New()
	p.RegisterRoutes(app)
	return path, app
}

func TestProfileRequiresPath(t *testing.T) {
	_, err := NewProfilePlugin("", nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOrderedMapKeepsOrder(t *testing.T) {
	om := &OrderedMap{
		Keys:   []string{"z", "a", "m"},
		Values: map[string]interface{}{"a": 1, "m": "x", "z": true},
	}
	b, err := json.Marshal(om)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldEqual, `{"z":true,"a":1,"m":"x"}`)
}

func TestProfileLoad(t *testing.T) {
	_, app := newTestProfile(t, nil)

	code, resp := doJSON(t, app, "GET", "/api/profile/load", "")
	test.That(t, code, test.ShouldEqual, 200)
	data := dataMap(t, resp)
	test.That(t, data["frequency"], test.ShouldEqual, float64(868300000))
	test.That(t, data["modulation"], test.ShouldEqual, "ask")
	test.That(t, data["sysclk_led"], test.ShouldEqual, false)
	loop, ok := data["pll_loop"].(map[string]interface{})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, loop["charge_pump"], test.ShouldEqual, float64(1))
}

func TestProfileSave(t *testing.T) {
	path, app := newTestProfile(t, nil)

	code, _ := doJSON(t, app, "POST", "/api/profile/save",
		`{"frequency":433920000,"sysclk_led":true,"pll_loop":{"filter":2},"unknown":1}`)
	test.That(t, code, test.ShouldEqual, 200)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "# bench profile")
	test.That(t, string(data), test.ShouldContainSubstring, "frequency: 433920000")
	test.That(t, string(data), test.ShouldContainSubstring, "sysclk_led: true")
	test.That(t, string(data), test.ShouldContainSubstring, "filter: 2")
	test.That(t, string(data), test.ShouldNotContainSubstring, "unknown")

	code, resp := doJSON(t, app, "POST", "/api/profile/save", `{"modulation":"qam"}`)
	test.That(t, code, test.ShouldEqual, 400)
	test.That(t, resp.Error, test.ShouldContainSubstring, "invalid profile")

	after, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(after), test.ShouldEqual, string(data))
}

func TestProfileApply(t *testing.T) {
	_, app := newTestProfile(t, nil)
	code, _ := doJSON(t, app, "POST", "/api/profile/apply", "")
	test.That(t, code, test.ShouldEqual, 503)

	hw, sim, _ := newTestHardware(t)
	_, app = newTestProfile(t, hw)

	code, resp := doJSON(t, app, "POST", "/api/profile/apply", "")
	test.That(t, code, test.ShouldEqual, 200)
	test.That(t, dataMap(t, resp)["ranging_polls"], test.ShouldEqual, float64(0))

	// FREQ3 of 868.3 MHz at 16 MHz is 0x36
	test.That(t, sim.Regs[ax5031.FREQ3.Address()], test.ShouldEqual, byte(0x36))
	modes := sim.Writes(ax5031.PWRMODE.Address())
	test.That(t, modes[len(modes)-1], test.ShouldEqual, byte(0xD))
	test.That(t, sim.Regs[ax5031.PINCFG1.Address()], test.ShouldEqual, byte(0))
	test.That(t, sim.Closed, test.ShouldBeTrue)
}
