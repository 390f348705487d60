/*
Package apdu builds and validates the wrapped APDU frames of the DESFire
native command set, exchanged as uppercase hexadecimal strings.

# Wrapped framing

DESFire native commands ride inside an ISO 7816-4 envelope with a fixed
shape (ISO wrapping mode):

	90 <INS> 00 00 <Lc> <native parameters> 00

CLA is always 0x90, P1/P2 are always zero, and the trailing 0x00 is Le.
The native instruction (SelectApplication, Authenticate, ReadData, ...)
takes the INS slot and its parameters form the data field.

# Multi-byte values

All multi-byte native parameters (application IDs, file offsets, lengths)
are transmitted least-significant byte first. The builders in this package
accept the human-facing big-endian hex notation and perform the reversal.

# Status words

Every response ends with a two-byte status trailer. Wrapped DESFire
responses use SW1 = 0x91 and carry the native status code in SW2:

	91 00  operation complete (success)
	91 AF  additional frame expected (the handshake continues)
	91 xx  a native error code (see the Describe table)
*/
package apdu
