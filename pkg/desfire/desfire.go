/*
Package desfire implements the DESFire AES mutual-authentication and
secure-messaging engine used to read one protected file from a contactless
card.

# Flow

A read operation is a single exclusive conversation with the card:

 1. SelectApplication targets the 3-byte AID.
 2. GetFileSettings reveals whether the file transfers plain or enciphered.
 3. The three-pass AES handshake proves knowledge of the application key
    on both sides and yields a fresh 16-byte session key.
 4. ReadData fetches one 16-byte block, decrypted (when the file is
    enciphered) under the session key with a CMAC-derived IV.
 5. The caller's byte window is cut from the decrypted block and returned
    as an uppercase hex string.

# Handshake

The card opens by sending RndB encrypted under the application key. The
host decrypts it, rotates it one byte left, prefixes its own fresh RndA
and returns both re-encrypted, chaining the CBC IV across the exchange.
The card answers with RndA rotated one byte left, proving it also holds
the key. Verification uses a constant-time comparison. The session key is
assembled from both randoms: A[0:4] | B[0:4] | A[12:16] | B[12:16].

A failed attempt discards RndA; the handshake is never resumed or retried
inside the engine. The caller restarts the whole operation with a fresh
card poll.

# Concurrency

One operation owns the transport exclusively from poll to close. The
engine performs no locking; callers sharing a reader must serialize
operations themselves.
*/
package desfire
