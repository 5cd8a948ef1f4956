package protocol

// makeHashPrefix combines three ASCII characters into a 4-byte prefix with the last byte set to zero.
func makeHashPrefix(a, b, c byte) [4]byte {
	return [4]byte{a, b, c, 0}
}

// HashPrefix constants separate the signing and hashing domains so a
// signature made for one purpose never verifies for another.
var (
	HashPrefixTransactionID = makeHashPrefix('T', 'X', 'N') // Transaction ID
	HashPrefixTxSign        = makeHashPrefix('S', 'T', 'X') // TX for signing
	HashPrefixResultUpload  = makeHashPrefix('R', 'E', 'S') // Oracle result payload
	HashPrefixModule        = makeHashPrefix('M', 'O', 'D') // Module account derivation
	HashPrefixBlockHeader   = makeHashPrefix('B', 'L', 'K') // Block header hash
)
