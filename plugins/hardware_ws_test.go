package plugins

import (
	"net"
	"testing"
	"time"

	wsclient "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"go.viam.com/test"

	"github.com/linht/ax5031/ax5031"
)

func serveTestApp(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	test.That(t, err, test.ShouldBeNil)
	go app.Listener(ln)
	t.Cleanup(func() {
		app.Shutdown()
	})
	return "ws://" + ln.Addr().String()
}

func sessionCount(p *HardwarePlugin) int {
	p.sessionsMu.Lock()
	defer p.sessionsMu.Unlock()
	return len(p.sessions)
}

func waitSessions(t *testing.T, p *HardwarePlugin, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for sessionCount(p) != want && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	test.That(t, sessionCount(p), test.ShouldEqual, want)
}

func TestHardwareTransmitSocket(t *testing.T) {
	p, sim, app := newTestHardware(t)
	url := serveTestApp(t, app)

	conn, _, err := wsclient.DefaultDialer.Dial(url+"/api/hardware/ws/transmit", nil)
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()

	test.That(t, conn.WriteMessage(wsclient.BinaryMessage, []byte{0xA5, 0x5A}), test.ShouldBeNil)
	var reply txReply
	test.That(t, conn.ReadJSON(&reply), test.ShouldBeNil)
	test.That(t, reply.Error, test.ShouldBeEmpty)
	test.That(t, reply.Sent, test.ShouldEqual, 2)
	test.That(t, reply.Total, test.ShouldEqual, 2)
	test.That(t, reply.Status, test.ShouldNotBeNil)
	test.That(t, reply.Status.PLLLock, test.ShouldBeTrue)
	test.That(t, sim.Writes(ax5031.FIFODATA.Address()), test.ShouldResemble, []byte{0xA5, 0x5A})
	test.That(t, sim.Selected(), test.ShouldBeFalse)

	p.sessionsMu.Lock()
	_, registered := p.sessions[reply.Session]
	p.sessionsMu.Unlock()
	test.That(t, registered, test.ShouldBeTrue)

	// four exchanges so far; the first byte of the next message fails on
	// its data byte
	sim.SetFailExchange(6)
	test.That(t, conn.WriteMessage(wsclient.TextMessage, []byte("hi")), test.ShouldBeNil)
	var failed txReply
	test.That(t, conn.ReadJSON(&failed), test.ShouldBeNil)
	test.That(t, failed.Session, test.ShouldEqual, reply.Session)
	test.That(t, failed.Error, test.ShouldContainSubstring, "bus fault")
	test.That(t, failed.Sent, test.ShouldEqual, 0)
	test.That(t, failed.Total, test.ShouldEqual, 2)
	test.That(t, sim.Selected(), test.ShouldBeFalse)
	test.That(t, sim.Writes(ax5031.FIFODATA.Address()), test.ShouldResemble, []byte{0xA5, 0x5A})

	// the session stays usable after a fault
	test.That(t, conn.WriteMessage(wsclient.BinaryMessage, []byte{0x01}), test.ShouldBeNil)
	var again txReply
	test.That(t, conn.ReadJSON(&again), test.ShouldBeNil)
	test.That(t, again.Error, test.ShouldBeEmpty)
	test.That(t, again.Total, test.ShouldEqual, 3)

	test.That(t, conn.Close(), test.ShouldBeNil)
	waitSessions(t, p, 0)
}

func TestHardwareTransmitSocketShutdown(t *testing.T) {
	p, _, app := newTestHardware(t)
	url := serveTestApp(t, app)

	conn, _, err := wsclient.DefaultDialer.Dial(url+"/api/hardware/ws/transmit", nil)
	test.That(t, err, test.ShouldBeNil)
	defer conn.Close()
	waitSessions(t, p, 1)

	test.That(t, p.Shutdown(), test.ShouldBeNil)
	test.That(t, sessionCount(p), test.ShouldEqual, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	test.That(t, err, test.ShouldNotBeNil)
}
