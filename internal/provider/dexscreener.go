package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

// DexScreenerClient looks up token market data. One client serves both
// chains; the chain is passed per request and used to pick the right pair.
type DexScreenerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewDexScreenerClient(timeout time.Duration) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL: "https://api.dexscreener.com/latest/dex/tokens",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type dexScreenerPair struct {
	ChainID   string `json:"chainId"`
	DexID     string `json:"dexId"`
	URL       string `json:"url"`
	BaseToken struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
	} `json:"baseToken"`
	PriceUsd  string `json:"priceUsd"`
	FDV       float64 `json:"fdv"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		M5 float64 `json:"m5"`
		H1 float64 `json:"h1"`
	} `json:"priceChange"`
	Txns struct {
		H24 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
	PairCreatedAt int64 `json:"pairCreatedAt"`
}

func (c *DexScreenerClient) GetMetadata(tokenAddress, chain string) (*TokenMetadata, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, tokenAddress)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dexscreener returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Pairs []dexScreenerPair `json:"pairs"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	pair := pickPair(result.Pairs, chain)
	if pair == nil {
		return nil, nil // no tradable pair; not an error
	}

	price, _ := strconv.ParseFloat(pair.PriceUsd, 64)

	return &TokenMetadata{
		Symbol:          pair.BaseToken.Symbol,
		Name:            pair.BaseToken.Name,
		Price:           price,
		MarketCap:       pair.FDV,
		Liquidity:       pair.Liquidity.USD,
		Volume24h:       pair.Volume.H24,
		PriceChange5m:   pair.PriceChange.M5,
		PriceChange1h:   pair.PriceChange.H1,
		Buys24h:         pair.Txns.H24.Buys,
		Sells24h:        pair.Txns.H24.Sells,
		DexName:         pair.DexID,
		PairURL:         pair.URL,
		PairCreatedAtMs: pair.PairCreatedAt,
	}, nil
}

// pickPair prefers the first pair on the requested chain; DexScreener lists
// the most liquid pair first.
func pickPair(pairs []dexScreenerPair, chain string) *dexScreenerPair {
	wantChainID := "solana"
	if chain == models.ChainBase {
		wantChainID = "base"
	}

	for i := range pairs {
		if pairs[i].ChainID == wantChainID {
			return &pairs[i]
		}
	}

	return nil
}
