package pcsc

import "bytes"

// PC/SC part 3 tags contactless storage cards with this registered
// application provider identifier inside the ATR historical bytes.
// ISO 14443-4 cards expose their ATS instead and never carry it.
var storageCardRID = []byte{0xA0, 0x00, 0x00, 0x03, 0x06}

// supportsWrappedCommands reports whether the ATR belongs to a card that
// can run the wrapped native command set. Storage tags (MIFARE Classic,
// Ultralight, plain NTAG) are identified by the PC/SC storage-card RID
// and rejected; everything else ISO 14443-4 shaped is let through.
func supportsWrappedCommands(atr []byte) bool {
	if len(atr) < 2 || atr[0] != 0x3B {
		return false
	}
	return !bytes.Contains(atr, storageCardRID)
}
