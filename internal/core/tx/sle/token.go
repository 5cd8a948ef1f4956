package sle

// Asset is the token ledger's metadata for one currency id.
type Asset struct {
	ID       uint32 `codec:"id"`
	Name     string `codec:"name"`
	Symbol   string `codec:"symbol"`
	Decimals uint8  `codec:"decimals"`
	Supply   uint64 `codec:"supply"`
}

// Balance is an account's holding of one asset. Reserved funds are held in
// escrow and cannot be spent until unreserved.
type Balance struct {
	Free     uint64 `codec:"free"`
	Reserved uint64 `codec:"reserved"`
}

// TokenRegistry allocates currency ids. Zero is never handed out.
type TokenRegistry struct {
	NextCurrency uint32 `codec:"next"`
}
