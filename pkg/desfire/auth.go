package desfire

import (
	"github.com/gregLibert/desfire-read/pkg/apdu"
	"github.com/gregLibert/desfire-read/pkg/crypto"
	"github.com/gregLibert/desfire-read/pkg/hexstr"
)

// challengeSize is the length of RndA and RndB for the AES profile.
const challengeSize = 16

// operation bundles the moving parts of one read flow: the engine
// configuration, the exclusively-owned transport and the session context.
type operation struct {
	eng  *Engine
	tr   Transport
	sess *session
}

// exchange sends one command and validates the response status and
// minimum payload size, mapping failures onto the error taxonomy.
func (o *operation) exchange(op, commandHex string, expected apdu.StatusWord, minPayloadHex int) (string, error) {
	o.eng.logf("session %s: >> %s", o.sess.id, commandHex)

	responseHex, err := o.tr.Transceive(commandHex, o.eng.exchangeTimeout)
	if err != nil {
		return "", transportError(op, err)
	}
	o.eng.logf("session %s: << %s", o.sess.id, responseHex)

	payload, err := apdu.ValidateResponse(responseHex, expected, minPayloadHex)
	if err != nil {
		return "", responseError(op, err)
	}
	return payload, nil
}

func (o *operation) fail(err error) error {
	o.sess.state = stateFailed
	return err
}

// selectApplication targets the AID and moves the session out of Idle.
func (o *operation) selectApplication() error {
	cmd, err := apdu.SelectApplication(o.sess.aid)
	if err != nil {
		return o.fail(argErrorf("select application: %v", err))
	}

	if _, err := o.exchange("select application", cmd, apdu.StatusSuccess, 0); err != nil {
		return o.fail(err)
	}

	o.sess.state = stateApplicationSelected
	o.eng.logf("session %s: application %s selected", o.sess.id, o.sess.aid)
	return nil
}

// getFileSettings fetches and decodes the file's communication settings.
func (o *operation) getFileSettings(fileID byte) (*FileSettings, error) {
	payload, err := o.exchange("get file settings", apdu.GetFileSettings(fileID), apdu.StatusSuccess, 8)
	if err != nil {
		return nil, o.fail(err)
	}

	settings, err := parseFileSettings(payload)
	if err != nil {
		return nil, o.fail(protocolErrorf("get file settings", "%v", err))
	}

	o.eng.logf("session %s: file %02X type %02X mode %s rights r=%X w=%X rw=%X c=%X",
		o.sess.id, fileID, settings.FileType, settings.CommMode,
		settings.AccessRights.Read, settings.AccessRights.Write,
		settings.AccessRights.ReadWrite, settings.AccessRights.Change)
	return settings, nil
}

// authenticate runs the three-pass AES handshake against the selected
// application and stores the derived session key. Any failure is final
// for this operation; the challenge pair is discarded with the session.
func (o *operation) authenticate(keyNo byte, authKey []byte) error {
	// Pass 1: the card answers with RndB encrypted under a zero IV.
	payload, err := o.exchange("authenticate", apdu.AuthenticateAES(keyNo), apdu.StatusAdditionalFrame, 2*challengeSize)
	if err != nil {
		return o.fail(err)
	}

	encRndB, err := hexstr.Bytes(payload[:2*challengeSize])
	if err != nil {
		return o.fail(protocolErrorf("authenticate", "challenge is not valid hex: %v", err))
	}

	rndB, err := crypto.DecryptCBC(authKey, make([]byte, challengeSize), encRndB)
	if err != nil {
		return o.fail(cryptoError("authenticate", err))
	}
	o.sess.state = stateChallengeReceived

	// Pass 2: fresh RndA, rotated RndB, both encrypted with the IV
	// chained from the card's ciphertext.
	rndA, err := o.eng.random(challengeSize)
	if err != nil {
		return o.fail(cryptoError("generate challenge", err))
	}

	rotatedRndB, err := crypto.RotateLeft(rndB)
	if err != nil {
		return o.fail(cryptoError("authenticate", err))
	}

	response := make([]byte, 0, 2*challengeSize)
	response = append(response, rndA...)
	response = append(response, rotatedRndB...)

	encResponse, err := crypto.EncryptCBC(authKey, encRndB, response)
	if err != nil {
		return o.fail(cryptoError("authenticate", err))
	}

	cmd, err := apdu.AdditionalFrame(hexstr.Encode(encResponse))
	if err != nil {
		return o.fail(cryptoError("authenticate", err))
	}
	o.sess.state = stateResponseSent

	// Pass 3: the card proves itself by returning RndA rotated, encrypted
	// with the IV chained from the second half of our ciphertext.
	payload, err = o.exchange("authenticate confirm", cmd, apdu.StatusSuccess, 2*challengeSize)
	if err != nil {
		return o.fail(err)
	}

	encRotatedRndA, err := hexstr.Bytes(payload[:2*challengeSize])
	if err != nil {
		return o.fail(protocolErrorf("authenticate confirm", "confirmation is not valid hex: %v", err))
	}

	rotatedRndA, err := crypto.DecryptCBC(authKey, encResponse[challengeSize:], encRotatedRndA)
	if err != nil {
		return o.fail(cryptoError("authenticate confirm", err))
	}

	expected, err := crypto.RotateLeft(rndA)
	if err != nil {
		return o.fail(cryptoError("authenticate confirm", err))
	}

	if !crypto.ConstantTimeEquals(expected, rotatedRndA) {
		return o.fail(protocolErrorf("authenticate confirm", "authentication failed"))
	}

	o.sess.sessionKey = deriveSessionKey(rndA, rndB)
	o.sess.state = stateAuthenticated
	o.eng.logf("session %s: authenticated with key slot %d", o.sess.id, keyNo)
	return nil
}

// deriveSessionKey assembles the 16-byte session key from both randoms:
// A[0:4] | B[0:4] | A[12:16] | B[12:16].
func deriveSessionKey(rndA, rndB []byte) []byte {
	key := make([]byte, 16)
	copy(key[0:4], rndA[0:4])
	copy(key[4:8], rndB[0:4])
	copy(key[8:12], rndA[12:16])
	copy(key[12:16], rndB[12:16])
	return key
}
