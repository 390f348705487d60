package desfire

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// Handshake fixtures for the all-zero-to-0F key with pinned randoms
// RndA = A0A1..AEAF and RndB = B0B1..BEBF.
const (
	fixtureAuthKey    = "000102030405060708090A0B0C0D0E0F"
	fixtureRndA       = "A0A1A2A3A4A5A6A7A8A9AAABACADAEAF"
	fixtureEncRndB    = "E315209ED0E7C94F74A65C99F6EADC1E"
	fixtureAuthCmd    = "90AF000020F767FECC72B88F94F0F705061E904C76A0DD27AC027B9BB7721B55B811BB05DB00"
	fixtureEncRotA    = "6B5872C34A1906D3D1D27E0E9724622D"
	fixtureSessionKey = "A0A1A2A3B0B1B2B3ACADAEAFBCBDBEBF"
	fixtureEncFile    = "5F62A6D7FBBAE8CE5FE95E19CDA51A24"
	fixturePlainFile  = "00112233445566778899AABBCCDDEEFF"
)

type scriptStep struct {
	command  string
	response string
}

// scriptedTag replays a canned card conversation and fails the test on
// any command it did not expect.
type scriptedTag struct {
	t      *testing.T
	steps  []scriptStep
	pos    int
	closed bool
}

func (s *scriptedTag) Transceive(commandHex string, _ time.Duration) (string, error) {
	s.t.Helper()
	if s.pos >= len(s.steps) {
		s.t.Fatalf("unexpected command after script end: %s", commandHex)
	}
	step := s.steps[s.pos]
	s.pos++
	if commandHex != step.command {
		s.t.Fatalf("command %d = %s; want %s", s.pos, commandHex, step.command)
	}
	return step.response, nil
}

func (s *scriptedTag) Close() { s.closed = true }

func (s *scriptedTag) done() bool { return s.pos == len(s.steps) }

type scriptedPoller struct {
	tag       Transport
	pollErr   error
	available bool
}

func (p *scriptedPoller) Poll(time.Duration) (Transport, error) {
	if p.pollErr != nil {
		return nil, p.pollErr
	}
	return p.tag, nil
}

func (p *scriptedPoller) Available() bool { return p.available }

func fixedRandom(hex string) func(n int) ([]byte, error) {
	return func(n int) ([]byte, error) {
		raw := hexstr.MustBytes(hex)
		if n != len(raw) {
			return nil, errors.Errorf("fixed random has %d bytes, %d requested", len(raw), n)
		}
		return raw, nil
	}
}

func TestAuthenticate_Handshake(t *testing.T) {
	tag := &scriptedTag{t: t, steps: []scriptStep{
		{"90AA0000010000", fixtureEncRndB + "91AF"},
		{fixtureAuthCmd, fixtureEncRotA + "9100"},
	}}

	op := &operation{
		eng:  New(nil, WithRandom(fixedRandom(fixtureRndA))),
		tr:   tag,
		sess: newSession("A1A2A3"),
	}

	if err := op.authenticate(0x00, hexstr.MustBytes(fixtureAuthKey)); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if !tag.done() {
		t.Errorf("handshake stopped after %d of %d exchanges", tag.pos, len(tag.steps))
	}
	if got := hexstr.Encode(op.sess.sessionKey); got != fixtureSessionKey {
		t.Errorf("session key = %s; want %s", got, fixtureSessionKey)
	}
	if op.sess.state != stateAuthenticated {
		t.Errorf("state = %s; want %s", op.sess.state, stateAuthenticated)
	}
}

func TestAuthenticate_CardProofMismatch(t *testing.T) {
	// Flip one byte of the card's confirmation so RndA' does not verify.
	badProof := "00" + fixtureEncRotA[2:]

	tag := &scriptedTag{t: t, steps: []scriptStep{
		{"90AA0000010000", fixtureEncRndB + "91AF"},
		{fixtureAuthCmd, badProof + "9100"},
	}}

	op := &operation{
		eng:  New(nil, WithRandom(fixedRandom(fixtureRndA))),
		tr:   tag,
		sess: newSession("A1A2A3"),
	}

	err := op.authenticate(0x00, hexstr.MustBytes(fixtureAuthKey))
	if err == nil {
		t.Fatal("expected the handshake to reject a bad card proof")
	}
	if KindOf(err) != KindProtocol {
		t.Errorf("kind = %v; want protocol error", KindOf(err))
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("error = %q; want it to mention authentication failed", err)
	}
	if op.sess.state != stateFailed {
		t.Errorf("state = %s; want %s", op.sess.state, stateFailed)
	}
	if op.sess.sessionKey != nil {
		t.Error("no session key may survive a failed handshake")
	}
}

func secureReadScript(t *testing.T, settingsPayload, filePayload string) *scriptedTag {
	return &scriptedTag{t: t, steps: []scriptStep{
		{"905A000003A3A2A100", "9100"},
		{"90F50000010100", settingsPayload + "9100"},
		{"90AA0000010000", fixtureEncRndB + "91AF"},
		{fixtureAuthCmd, fixtureEncRotA + "9100"},
		{"90BD0000070100000010000000", filePayload + "9100"},
	}}
}

func TestReadSecureFile_Enciphered(t *testing.T) {
	tag := secureReadScript(t, "000312E0", fixtureEncFile)
	eng := New(&scriptedPoller{tag: tag}, WithRandom(fixedRandom(fixtureRndA)))

	got, err := eng.ReadSecureFile(ReadRequest{
		FirstBytePosition: 0,
		LastBytePosition:  7,
		ApplicationID:     "A1A2A3",
		FileID:            "01",
		KeyNumber:         "00",
		AuthKey:           fixtureAuthKey,
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if want := fixturePlainFile[:16]; got != want {
		t.Errorf("window = %s; want %s", got, want)
	}
	if !tag.done() {
		t.Errorf("flow stopped after %d of %d exchanges", tag.pos, len(tag.steps))
	}
	if !tag.closed {
		t.Error("card session left open after a successful read")
	}
}

func TestReadSecureFile_FullBlock(t *testing.T) {
	tag := secureReadScript(t, "000312E0", fixtureEncFile)
	eng := New(&scriptedPoller{tag: tag}, WithRandom(fixedRandom(fixtureRndA)))

	got, err := eng.ReadSecureFile(ReadRequest{
		FirstBytePosition: 0,
		LastBytePosition:  15,
		ApplicationID:     "A1A2A3",
		FileID:            "01",
		KeyNumber:         "00",
		AuthKey:           fixtureAuthKey,
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got != fixturePlainFile {
		t.Errorf("window = %s; want %s", got, fixturePlainFile)
	}
}

func TestReadSecureFile_PlainFile(t *testing.T) {
	// Plain communication mode: the payload comes back as-is, the session
	// key is derived but never used for the read.
	tag := secureReadScript(t, "0000EE00", fixturePlainFile)
	eng := New(&scriptedPoller{tag: tag}, WithRandom(fixedRandom(fixtureRndA)))

	got, err := eng.ReadSecureFile(ReadRequest{
		FirstBytePosition: 15,
		LastBytePosition:  12,
		ApplicationID:     "A1A2A3",
		FileID:            "01",
		KeyNumber:         "00",
		AuthKey:           fixtureAuthKey,
	})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if want := "FFEEDDCC"; got != want {
		t.Errorf("window = %s; want %s", got, want)
	}
}

func TestReadSecureFile_CardRefusesSelect(t *testing.T) {
	tag := &scriptedTag{t: t, steps: []scriptStep{
		{"905A000003A3A2A100", "91A0"}, // application not found
	}}
	eng := New(&scriptedPoller{tag: tag})

	_, err := eng.ReadSecureFile(ReadRequest{
		LastBytePosition: 7,
		ApplicationID:    "A1A2A3",
		FileID:           "01",
		KeyNumber:        "00",
		AuthKey:          fixtureAuthKey,
	})
	if err == nil {
		t.Fatal("expected a failure when the application does not exist")
	}
	if KindOf(err) != KindProtocol {
		t.Errorf("kind = %v; want protocol error", KindOf(err))
	}
	if !strings.Contains(err.Error(), "Application not found") {
		t.Errorf("error = %q; want the card's status description", err)
	}
	if !tag.closed {
		t.Error("card session left open after a failed read")
	}
}

func TestReadSecureFile_TransportFailure(t *testing.T) {
	eng := New(&scriptedPoller{tag: &failingTag{}})

	_, err := eng.ReadSecureFile(ReadRequest{
		LastBytePosition: 7,
		ApplicationID:    "A1A2A3",
		FileID:           "01",
		KeyNumber:        "00",
		AuthKey:          fixtureAuthKey,
	})
	if KindOf(err) != KindTransport {
		t.Errorf("kind = %v; want transport error", KindOf(err))
	}
}

type failingTag struct{}

func (failingTag) Transceive(string, time.Duration) (string, error) {
	return "", errors.New("card was removed")
}

func (failingTag) Close() {}

func TestReadSecureFile_PollFailure(t *testing.T) {
	eng := New(&scriptedPoller{pollErr: errors.New("no reader attached")})

	_, err := eng.ReadSecureFile(ReadRequest{
		LastBytePosition: 7,
		ApplicationID:    "A1A2A3",
		FileID:           "01",
		KeyNumber:        "00",
		AuthKey:          fixtureAuthKey,
	})
	if KindOf(err) != KindTransport {
		t.Errorf("kind = %v; want transport error", KindOf(err))
	}
}

func TestReadRequest_Validation(t *testing.T) {
	valid := ReadRequest{
		LastBytePosition: 7,
		ApplicationID:    "A1A2A3",
		FileID:           "01",
		KeyNumber:        "00",
		AuthKey:          fixtureAuthKey,
	}

	tests := []struct {
		name   string
		mutate func(*ReadRequest)
	}{
		{"Short application ID", func(r *ReadRequest) { r.ApplicationID = "A1A2" }},
		{"Non-hex application ID", func(r *ReadRequest) { r.ApplicationID = "A1A2G3" }},
		{"Long file ID", func(r *ReadRequest) { r.FileID = "0102" }},
		{"Empty key number", func(r *ReadRequest) { r.KeyNumber = "" }},
		{"Short authentication key", func(r *ReadRequest) { r.AuthKey = "0001" }},
		{"First position past the block", func(r *ReadRequest) { r.FirstBytePosition = 16 }},
		{"Last position past the block", func(r *ReadRequest) { r.LastBytePosition = 16 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			eng := New(&scriptedPoller{})
			_, err := eng.ReadSecureFile(req)
			if err == nil {
				t.Fatal("expected the request to be rejected")
			}
			if KindOf(err) != KindArgument {
				t.Errorf("kind = %v; want argument error", KindOf(err))
			}
		})
	}

	// The valid request must get past validation and reach the poller.
	eng := New(&scriptedPoller{pollErr: errors.New("stop here")})
	if _, err := eng.ReadSecureFile(valid); KindOf(err) != KindTransport {
		t.Errorf("valid request stopped before polling: %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	if New(nil).IsAvailable() {
		t.Error("an engine without a poller must report unavailable")
	}
	if New(&scriptedPoller{}).IsAvailable() {
		t.Error("poller reports no reader, engine must agree")
	}
	if !New(&scriptedPoller{available: true}).IsAvailable() {
		t.Error("engine must relay reader availability")
	}
}

func TestWithLogf(t *testing.T) {
	var lines []string
	tag := secureReadScript(t, "000312E0", fixtureEncFile)
	eng := New(&scriptedPoller{tag: tag},
		WithRandom(fixedRandom(fixtureRndA)),
		WithLogf(func(format string, args ...any) {
			lines = append(lines, strings.TrimSpace(format))
		}))

	if _, err := eng.ReadSecureFile(ReadRequest{
		LastBytePosition: 7,
		ApplicationID:    "A1A2A3",
		FileID:           "01",
		KeyNumber:        "00",
		AuthKey:          fixtureAuthKey,
	}); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(lines) == 0 {
		t.Error("debug sink never received a line")
	}
}
