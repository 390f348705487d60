package desfire

import "time"

// Transport is an open conversation with one card. A single read
// operation owns it exclusively from poll to close.
type Transport interface {
	// Transceive sends a wrapped APDU as an uppercase hex string and
	// returns the raw hex response including the status trailer. The
	// timeout is the caller's exchange deadline; implementations whose
	// platform layer enforces its own I/O deadline (PC/SC does) may
	// delegate to it, but an expired exchange must surface as a
	// transport-kind error either way.
	Transceive(commandHex string, timeout time.Duration) (string, error)

	// Close releases the card session. Best effort: implementations log
	// failures instead of returning them, the operation's outcome is
	// already decided by the time teardown runs.
	Close()
}

// Poller discovers a card and opens a Transport to it. Implementations
// must reject tags that do not speak ISO 7816 wrapped APDUs.
type Poller interface {
	Poll(timeout time.Duration) (Transport, error)

	// Available reports whether the underlying reader infrastructure is
	// usable. It never fails; platform errors read as unavailable.
	Available() bool
}
