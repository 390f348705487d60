/*
Package crypto implements the cryptographic primitives of the DESFire AES
legacy authentication profile.

DESFire secure messaging is built on a small, fixed toolbox:

  - AES-128 in CBC mode WITHOUT padding. The protocol manages block
    alignment itself (challenges are exactly one or two blocks), so any
    input that is not a positive multiple of 16 bytes is a caller bug and
    is rejected.
  - AES-CMAC (NIST SP 800-38B), used here to derive per-command
    initialization vectors for enciphered file transfers. The card profile
    truncates the MAC to either 64 or 128 bits.
  - A one-byte left rotation applied to the random challenges during the
    three-pass handshake.
  - Constant-time byte comparison for challenge verification, so the
    comparison never leaks the position of the first mismatch.
*/
package crypto
