// Package pcsc connects the read engine to physical NFC readers through
// the platform PC/SC stack (pcscd on Linux, WinSCard on Windows).
//
// A Poller owns reader discovery: it establishes a PC/SC context, picks a
// reader and blocks on status changes until a card lands on it or the
// deadline passes. The returned Tag wraps the connected card and speaks
// the engine's hex transceive contract.
//
// Cheap contactless storage tags (MIFARE Classic, Ultralight) answer on
// the same readers but cannot run the wrapped command set; they are
// filtered out by ATR before the engine ever talks to them.
package pcsc

import (
	"fmt"
	"time"

	"github.com/ebfe/scard"
	"github.com/pkg/errors"

	"github.com/gregLibert/desfire-read/pkg/desfire"
	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// statusPollInterval bounds each GetStatusChange wait so the overall Poll
// deadline is honored even on platforms that block past their timeout.
const statusPollInterval = 500 * time.Millisecond

// Poller discovers cards on a PC/SC reader. The zero value is not usable;
// construct it with NewPoller.
type Poller struct {
	readerIndex int
	logf        func(format string, args ...any)
}

// Option configures a Poller.
type Option func(*Poller)

// WithReaderIndex selects which attached reader to poll (0-based).
func WithReaderIndex(index int) Option {
	return func(p *Poller) {
		if index >= 0 {
			p.readerIndex = index
		}
	}
}

// WithLogf installs a debug sink for reader discovery events.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(p *Poller) {
		if logf != nil {
			p.logf = logf
		}
	}
}

// NewPoller creates a Poller for the first attached reader unless
// WithReaderIndex says otherwise.
func NewPoller(opts ...Option) *Poller {
	p := &Poller{
		logf: func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Available reports whether the PC/SC stack is reachable and at least one
// reader is attached. It never returns an error; an unreachable daemon
// simply reads as unavailable.
func (p *Poller) Available() bool {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return false
	}
	defer ctx.Release()

	readers, err := ctx.ListReaders()
	return err == nil && p.readerIndex < len(readers)
}

// Poll blocks until a card is present on the configured reader or the
// timeout elapses, then connects to it. Tags that do not speak ISO
// 14443-4 are rejected without connecting the engine to them.
func (p *Poller) Poll(timeout time.Duration) (desfire.Transport, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, transportError("establish PC/SC context", err)
	}

	reader, err := p.pickReader(ctx)
	if err != nil {
		ctx.Release()
		return nil, err
	}
	p.logf("polling reader %q", reader)

	atr, err := p.waitForCard(ctx, reader, timeout)
	if err != nil {
		ctx.Release()
		return nil, err
	}

	if !supportsWrappedCommands(atr) {
		ctx.Release()
		return nil, &desfire.Error{
			Kind:    desfire.KindProtocol,
			Op:      "identify tag",
			Message: "tag does not support ISO 14443-4 commands (storage card ATR " + hexstr.Encode(atr) + ")",
		}
	}

	card, err := ctx.Connect(reader, scard.ShareShared, scard.ProtocolAny)
	if err != nil {
		ctx.Release()
		return nil, transportError("connect to card", err)
	}

	p.logf("card connected, ATR %s", hexstr.Encode(atr))
	return &Tag{ctx: ctx, card: card}, nil
}

func (p *Poller) pickReader(ctx *scard.Context) (string, error) {
	readers, err := ctx.ListReaders()
	if err != nil {
		return "", transportError("list readers", err)
	}
	if p.readerIndex >= len(readers) {
		return "", &desfire.Error{
			Kind:    desfire.KindTransport,
			Op:      "list readers",
			Message: fmt.Sprintf("reader index %d out of range, %d attached", p.readerIndex, len(readers)),
		}
	}
	return readers[p.readerIndex], nil
}

// waitForCard loops over GetStatusChange in short slices until the reader
// reports a present card, returning its ATR.
func (p *Poller) waitForCard(ctx *scard.Context, reader string, timeout time.Duration) ([]byte, error) {
	states := []scard.ReaderState{{
		Reader:       reader,
		CurrentState: scard.StateUnaware,
	}}

	deadline := time.Now().Add(timeout)
	for {
		if err := ctx.GetStatusChange(states, statusPollInterval); err != nil && err != scard.ErrTimeout {
			return nil, transportError("wait for card", err)
		}

		if states[0].EventState&scard.StatePresent != 0 {
			return states[0].Atr, nil
		}
		states[0].CurrentState = states[0].EventState

		if time.Now().After(deadline) {
			return nil, &desfire.Error{
				Kind:    desfire.KindTransport,
				Op:      "wait for card",
				Message: "no card presented within " + timeout.String(),
			}
		}
	}
}

// Tag is a connected card speaking the engine's hex transceive contract.
type Tag struct {
	ctx  *scard.Context
	card *scard.Card
}

// Transceive sends one wrapped command and returns the raw response,
// status word included, as uppercase hex. The exchange deadline is
// delegated to the PC/SC layer, which enforces its own per-transmit
// timeout and reports expiry as an error; a timed-out exchange therefore
// still surfaces as a transport failure.
func (t *Tag) Transceive(commandHex string, _ time.Duration) (string, error) {
	command, err := hexstr.Bytes(commandHex)
	if err != nil {
		return "", &desfire.Error{
			Kind:    desfire.KindArgument,
			Op:      "transceive",
			Message: err.Error(),
		}
	}

	response, err := t.card.Transmit(command)
	if err != nil {
		return "", transportError("transceive", err)
	}
	return hexstr.Encode(response), nil
}

// Close disconnects the card and releases the PC/SC context. Best effort;
// a card yanked off the reader makes Disconnect fail and that is fine.
func (t *Tag) Close() {
	if t.card != nil {
		_ = t.card.Disconnect(scard.LeaveCard)
	}
	if t.ctx != nil {
		_ = t.ctx.Release()
	}
}

func transportError(op string, err error) *desfire.Error {
	return &desfire.Error{
		Kind:  desfire.KindTransport,
		Op:    op,
		Cause: errors.Wrap(err, "PC/SC"),
	}
}
