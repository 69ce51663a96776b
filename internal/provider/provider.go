package provider

// TokenBalance is one non-zero holding in a wallet snapshot.
type TokenBalance struct {
	TokenAddress string
	Balance      float64
}

// WalletSnapshotProvider returns the current set of non-zero token holdings
// for an address. Implementations are thin wrappers over third-party HTTP
// APIs and may legitimately fail; callers treat errors as "skip this cycle",
// never as "wallet is empty".
type WalletSnapshotProvider interface {
	GetHoldings(address string) ([]TokenBalance, error)
	GetChain() string
}

// TokenMetadata is the market snapshot the quality filter evaluates.
type TokenMetadata struct {
	Symbol          string
	Name            string
	Price           float64
	MarketCap       float64
	Liquidity       float64
	Volume24h       float64
	PriceChange5m   float64
	PriceChange1h   float64
	Buys24h         int
	Sells24h        int
	DexName         string
	PairURL         string
	PairCreatedAtMs int64
}

// TokenMetadataProvider looks up live market data for a token. A nil result
// with nil error means the token has no tradable pair (the filter rejects it
// with "no data").
type TokenMetadataProvider interface {
	GetMetadata(tokenAddress, chain string) (*TokenMetadata, error)
}
