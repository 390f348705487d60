package desfire

import "github.com/google/uuid"

// authState tracks the handshake progress of one session.
type authState int

const (
	stateIdle authState = iota
	stateApplicationSelected
	stateChallengeReceived
	stateResponseSent
	stateAuthenticated
	stateFailed
)

func (s authState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case stateApplicationSelected:
		return "ApplicationSelected"
	case stateChallengeReceived:
		return "ChallengeReceived"
	case stateResponseSent:
		return "ResponseSent"
	case stateAuthenticated:
		return "Authenticated"
	case stateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// session is the transient context of one read operation. It is created
// when the operation starts, never shared, and discarded when the
// operation returns. The session key lives only here.
type session struct {
	id         uuid.UUID
	aid        string // selected application, big-endian hex
	state      authState
	sessionKey []byte // 16 bytes once state == stateAuthenticated
}

func newSession(aid string) *session {
	return &session{
		id:    uuid.New(),
		aid:   aid,
		state: stateIdle,
	}
}
