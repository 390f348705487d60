package desfire

import (
	"time"

	"github.com/pkg/errors"

	"github.com/gregLibert/desfire-read/pkg/apdu"
	"github.com/gregLibert/desfire-read/pkg/crypto"
	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Default transport deadlines.
const (
	DefaultPollTimeout     = 10 * time.Second
	DefaultExchangeTimeout = 5 * time.Second
)

// Engine drives secure file reads over a card Poller. It is stateless
// between operations; each ReadSecureFile owns its own session.
type Engine struct {
	poller          Poller
	random          func(n int) ([]byte, error)
	logf            func(format string, args ...any)
	pollTimeout     time.Duration
	exchangeTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogf installs a debug sink. The engine never prints on its own;
// without a sink it stays silent.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(e *Engine) {
		if logf != nil {
			e.logf = logf
		}
	}
}

// WithTimeouts overrides the card discovery and per-exchange deadlines.
func WithTimeouts(poll, exchange time.Duration) Option {
	return func(e *Engine) {
		if poll > 0 {
			e.pollTimeout = poll
		}
		if exchange > 0 {
			e.exchangeTimeout = exchange
		}
	}
}

// WithRandom replaces the challenge source. Test seam; production code
// keeps the crypto/rand default.
func WithRandom(random func(n int) ([]byte, error)) Option {
	return func(e *Engine) {
		if random != nil {
			e.random = random
		}
	}
}

// New creates an Engine on top of a card Poller.
func New(poller Poller, opts ...Option) *Engine {
	e := &Engine{
		poller:          poller,
		random:          crypto.RandomBytes,
		logf:            func(string, ...any) {},
		pollTimeout:     DefaultPollTimeout,
		exchangeTimeout: DefaultExchangeTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsAvailable reports whether a reader is usable. It never fails.
func (e *Engine) IsAvailable() bool {
	if e.poller == nil {
		return false
	}
	return e.poller.Available()
}

// ReadRequest describes one secure file read. All card identifiers are
// big-endian hex strings as a person would write them.
type ReadRequest struct {
	FirstBytePosition uint
	LastBytePosition  uint
	ApplicationID     string // 3-byte AID, exactly 6 hex chars
	FileID            string // one hex byte
	KeyNumber         string // one hex byte, the key slot to authenticate
	AuthKey           string // 16-byte AES key, exactly 32 hex chars
}

// validate rejects malformed input before any card I/O happens.
func (r *ReadRequest) validate() (fileID, keyNo byte, authKey []byte, err error) {
	if len(r.ApplicationID) != 6 || !hexstr.IsHex(r.ApplicationID) {
		return 0, 0, nil, argErrorf("application ID must be exactly 6 hex chars, got %q", r.ApplicationID)
	}
	if len(r.FileID) != 2 || !hexstr.IsHex(r.FileID) {
		return 0, 0, nil, argErrorf("file ID must be one hex byte, got %q", r.FileID)
	}
	if len(r.KeyNumber) != 2 || !hexstr.IsHex(r.KeyNumber) {
		return 0, 0, nil, argErrorf("key number must be one hex byte, got %q", r.KeyNumber)
	}
	if len(r.AuthKey) != 32 || !hexstr.IsHex(r.AuthKey) {
		return 0, 0, nil, argErrorf("authentication key must be exactly 32 hex chars")
	}
	if r.FirstBytePosition >= apdu.BlockReadLength || r.LastBytePosition >= apdu.BlockReadLength {
		return 0, 0, nil, argErrorf("byte window %d..%d out of range for the %d-byte read block",
			r.FirstBytePosition, r.LastBytePosition, apdu.BlockReadLength)
	}

	fileBytes, _ := hexstr.Bytes(r.FileID)
	keyBytes, _ := hexstr.Bytes(r.KeyNumber)
	authKey, _ = hexstr.Bytes(r.AuthKey)
	return fileBytes[0], keyBytes[0], authKey, nil
}

// ReadSecureFile runs the full pipeline: select the application, inspect
// the file settings, authenticate, read one block, decrypt if enciphered
// and cut the requested byte window. It either returns the complete
// window as an uppercase hex string or a single classified error; there
// is no partial result.
//
// The card session is closed on every exit path. Failures are never
// retried here; callers restart the whole operation with a fresh poll.
func (e *Engine) ReadSecureFile(req ReadRequest) (string, error) {
	fileID, keyNo, authKey, err := req.validate()
	if err != nil {
		return "", err
	}

	tag, err := e.poller.Poll(e.pollTimeout)
	if err != nil {
		if tagged, ok := err.(*Error); ok {
			return "", tagged
		}
		return "", &Error{Kind: KindTransport, Op: "poll for card", Cause: errors.Wrap(err, "card discovery")}
	}
	defer func() {
		tag.Close()
		e.logf("card session closed")
	}()

	op := &operation{
		eng:  e,
		tr:   tag,
		sess: newSession(req.ApplicationID),
	}
	e.logf("session %s: reading file %02X of application %s", op.sess.id, fileID, req.ApplicationID)

	if err := op.selectApplication(); err != nil {
		return "", err
	}

	settings, err := op.getFileSettings(fileID)
	if err != nil {
		return "", err
	}

	if err := op.authenticate(keyNo, authKey); err != nil {
		return "", err
	}

	blockHex, err := op.readBlock(fileID, settings)
	if err != nil {
		return "", err
	}

	window, err := extractWindow(blockHex, req.FirstBytePosition, req.LastBytePosition)
	if err != nil {
		return "", err
	}

	e.logf("session %s: read complete, %d hex chars", op.sess.id, len(window))
	return window, nil
}
