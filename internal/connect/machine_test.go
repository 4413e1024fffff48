package connect

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/registry"
)

var (
	glass1 = registry.Record{ID: "AA:BB", Name: "Glass1"}
	glass2 = registry.Record{ID: "CC:DD", Name: "Glass2"}
)

// fakeGate records scan suspension.
type fakeGate struct {
	stops    int
	releases int
	blocked  bool
}

func (g *fakeGate) StopForConnection() { g.stops++; g.blocked = true }
func (g *fakeGate) Release()           { g.releases++; g.blocked = false }

type harness struct {
	m         *Machine
	connector *ble.MockConnector
	gate      *fakeGate
	phases    []Phase
	sinks     []ble.StatusSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{connector: ble.NewMockConnector(ctrl), gate: &fakeGate{}}
	h.m = NewMachine(Config{
		Connector: h.connector,
		Scan:      h.gate,
		OnChange:  func() { h.phases = append(h.phases, h.m.Phase()) },
	})
	return h
}

// selectDevice expects InitConnection and returns the sink given to the provider.
func (h *harness) selectDevice(t *testing.T, rec registry.Record) ble.StatusSink {
	t.Helper()
	var sink ble.StatusSink
	h.connector.EXPECT().
		InitConnection(ble.Device{Name: rec.Name, MAC: rec.ID}, gomock.Any()).
		Do(func(_ ble.Device, s ble.StatusSink) { sink = s })
	require.NoError(t, h.m.Select(rec))
	require.NotNil(t, sink)
	return sink
}

func (h *harness) connect(t *testing.T, rec registry.Record) ble.StatusSink {
	t.Helper()
	sink := h.selectDevice(t, rec)
	h.connector.EXPECT().Connect("sock1", rec.ID, gomock.Any())
	sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock1", MAC: rec.ID})
	sink.OnConnected()
	require.Equal(t, PhaseConnected, h.m.Phase())
	return sink
}

func TestSelectStartsInitializing(t *testing.T) {
	h := newHarness(t)
	h.selectDevice(t, glass1)

	assert.Equal(t, PhaseInitializing, h.m.Phase())
	assert.Equal(t, 1, h.gate.stops)
	assert.True(t, h.gate.blocked)
	assert.Equal(t, "Initializing connection with Glass1...", h.m.Pending())

	a, ok := h.m.Attempt()
	require.True(t, ok)
	assert.Equal(t, glass1, a.Target)
	assert.Empty(t, a.SocketID)
}

func TestFullHandshake(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)

	h.connector.EXPECT().Connect("sock1", "AA:BB", gomock.Any()).Times(1)
	sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock1", MAC: "AA:BB"})
	assert.Equal(t, PhaseConnecting, h.m.Phase())
	assert.Empty(t, h.m.Pending())

	sink.OnConnected()
	assert.Equal(t, PhaseConnected, h.m.Phase())

	assert.Equal(t, []Phase{PhaseInitializing, PhaseAwaitingSocket, PhaseConnecting, PhaseConnected}, h.phases)

	a, _ := h.m.Attempt()
	assert.Equal(t, "sock1", a.SocketID)
}

func TestIncompleteConnectionInfoIsDropped(t *testing.T) {
	tests := []struct {
		name string
		info ble.ConnectionInfo
	}{
		{"no socket", ble.ConnectionInfo{MAC: "AA:BB"}},
		{"no mac", ble.ConnectionInfo{SocketID: "sock1"}},
		{"neither", ble.ConnectionInfo{Account: "someone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			sink := h.selectDevice(t, glass1)

			// No Connect expectation: the mock fails the test if it is called.
			sink.OnConnectionInfo(tt.info)
			assert.Equal(t, PhaseInitializing, h.m.Phase())

			// A later complete info still proceeds.
			h.connector.EXPECT().Connect("sock1", "AA:BB", gomock.Any())
			sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock1", MAC: "AA:BB"})
			assert.Equal(t, PhaseConnecting, h.m.Phase())
		})
	}
}

func TestOutOfOrderCallbacksAreRejected(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)

	sink.OnConnected()
	assert.Equal(t, PhaseInitializing, h.m.Phase(), "Connected before connection info must be ignored")

	h.connector.EXPECT().Connect(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
	sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock1", MAC: "AA:BB"})
	sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock2", MAC: "AA:BB"})
	assert.Equal(t, PhaseConnecting, h.m.Phase())

	a, _ := h.m.Attempt()
	assert.Equal(t, "sock1", a.SocketID)
}

func TestStaleCallbacksDoNotTouchNewAttempt(t *testing.T) {
	h := newHarness(t)
	sinkA := h.selectDevice(t, glass1)
	h.connector.EXPECT().Abort()
	sinkB := h.selectDevice(t, glass2)

	// No Connect expectation for A's info.
	sinkA.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sockA", MAC: "AA:BB"})
	sinkA.OnFailed(ble.ErrorBLEConnectFailed)
	sinkA.OnDisconnected()

	a, ok := h.m.Attempt()
	require.True(t, ok)
	assert.Equal(t, glass2, a.Target)
	assert.Equal(t, PhaseInitializing, a.Phase)
	assert.Nil(t, a.Err)

	h.connector.EXPECT().Connect("sockB", "CC:DD", gomock.Any())
	sinkB.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sockB", MAC: "CC:DD"})
	assert.Equal(t, PhaseConnecting, h.m.Phase())
}

func TestSelectAbortsInFlightAttemptFirst(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)
	h.connector.EXPECT().Connect("sock1", "AA:BB", gomock.Any())
	sink.OnConnectionInfo(ble.ConnectionInfo{SocketID: "sock1", MAC: "AA:BB"})
	require.Equal(t, PhaseConnecting, h.m.Phase())

	gomock.InOrder(
		h.connector.EXPECT().Abort(),
		h.connector.EXPECT().InitConnection(ble.Device{Name: "Glass2", MAC: "CC:DD"}, gomock.Any()),
	)
	require.NoError(t, h.m.Select(glass2))

	a, _ := h.m.Attempt()
	assert.Equal(t, glass2, a.Target)
}

func TestReselectAfterFailureDoesNotAbort(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)
	sink.OnFailed(ble.ErrorBLEConnectFailed)

	// No Abort expectation: the provider already tore the failed link down.
	h.selectDevice(t, glass2)
	assert.Equal(t, PhaseInitializing, h.m.Phase())
}

func TestSelectWhileConnectedIsRejected(t *testing.T) {
	h := newHarness(t)
	h.connect(t, glass1)

	assert.ErrorIs(t, h.m.Select(glass2), ErrAlreadyConnected)
	a, _ := h.m.Attempt()
	assert.Equal(t, glass1, a.Target)
}

func TestDisconnectFromConnectedClearsAttempt(t *testing.T) {
	h := newHarness(t)
	sink := h.connect(t, glass1)

	sink.OnDisconnected()

	assert.Equal(t, PhaseDisconnected, h.m.Phase())
	_, ok := h.m.Attempt()
	assert.False(t, ok)
	assert.False(t, h.gate.blocked, "scanning should be re-enabled")
}

func TestDisconnectDuringHandshake(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)

	sink.OnDisconnected()

	assert.Equal(t, PhaseDisconnected, h.m.Phase())
	assert.Empty(t, h.m.Pending())
}

func TestFailureThenReselect(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)

	sink.OnFailed(ble.ErrorSocketConnectFailed)
	assert.Equal(t, PhaseFailed, h.m.Phase())
	a, _ := h.m.Attempt()
	require.NotNil(t, a.Err)
	assert.Equal(t, ble.ErrorSocketConnectFailed, a.Err.Code)
	assert.Equal(t, "SOCKET_CONNECT_FAILED", a.Err.Message)
	assert.True(t, h.gate.blocked, "scanning stays suspended until reset")

	// Late disconnect for the failed attempt keeps the error visible.
	sink.OnDisconnected()
	assert.Equal(t, PhaseFailed, h.m.Phase())

	h.selectDevice(t, glass2)
	a, _ = h.m.Attempt()
	assert.Equal(t, PhaseInitializing, a.Phase)
	assert.Equal(t, glass2, a.Target)
	assert.Nil(t, a.Err)
}

func TestFailureFromConnected(t *testing.T) {
	h := newHarness(t)
	sink := h.connect(t, glass1)

	sink.OnFailed(ble.ErrorUnknown)
	assert.Equal(t, PhaseFailed, h.m.Phase())
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.m.Reset(), "reset from Disconnected is allowed")

	sink := h.selectDevice(t, glass1)
	assert.ErrorIs(t, h.m.Reset(), ErrInvalidReset)

	sink.OnFailed(ble.ErrorBLEConnectFailed)
	require.NoError(t, h.m.Reset())
	assert.Equal(t, PhaseDisconnected, h.m.Phase())
	assert.False(t, h.gate.blocked)
}

func TestResetWhileConnectedIsRejected(t *testing.T) {
	h := newHarness(t)
	h.connect(t, glass1)
	assert.ErrorIs(t, h.m.Reset(), ErrInvalidReset)
}

func TestHandshakeTimeout(t *testing.T) {
	h := newHarness(t)
	h.selectDevice(t, glass1)
	a, _ := h.m.Attempt()

	h.m.HandleTimeout(uuid.New())
	assert.Equal(t, PhaseInitializing, h.m.Phase(), "timeout for another attempt is ignored")

	h.connector.EXPECT().Abort().Times(1)
	h.m.HandleTimeout(a.ID)
	assert.Equal(t, PhaseFailed, h.m.Phase())
	a, _ = h.m.Attempt()
	assert.Equal(t, ble.ErrorHandshakeTimeout, a.Err.Code)
}

func TestHandshakeTimeoutAfterConnectedIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.connect(t, glass1)
	a, _ := h.m.Attempt()

	h.m.HandleTimeout(a.ID)
	assert.Equal(t, PhaseConnected, h.m.Phase())
}

func TestAttemptReturnsCopy(t *testing.T) {
	h := newHarness(t)
	sink := h.selectDevice(t, glass1)
	sink.OnFailed(ble.ErrorParamInvalid)

	a, _ := h.m.Attempt()
	a.Err.Code = ble.ErrorUnknown
	a.Phase = PhaseConnected

	b, _ := h.m.Attempt()
	assert.Equal(t, ble.ErrorParamInvalid, b.Err.Code)
	assert.Equal(t, PhaseFailed, b.Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "AwaitingSocket", PhaseAwaitingSocket.String())
	assert.Equal(t, "Unknown", Phase(42).String())
	assert.True(t, PhaseConnecting.InFlight())
	assert.False(t, PhaseConnected.InFlight())
	assert.False(t, PhaseFailed.InFlight())
}
