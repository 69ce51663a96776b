package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

// HeliusClient fetches Solana wallet balances from the Helius API.
type HeliusClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	chain      string
}

func NewHeliusClient(apiKey string, timeout time.Duration) *HeliusClient {
	return &HeliusClient{
		apiKey:  apiKey,
		baseURL: "https://api.helius.xyz/v0/addresses",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		chain: models.ChainSolana,
	}
}

func (c *HeliusClient) GetChain() string {
	return c.chain
}

func (c *HeliusClient) GetHoldings(address string) ([]TokenBalance, error) {
	url := fmt.Sprintf("%s/%s/balances?api-key=%s", c.baseURL, address, c.apiKey)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helius returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tokens []struct {
			Mint     string  `json:"mint"`
			Amount   float64 `json:"amount"`
			Decimals int     `json:"decimals"`
		} `json:"tokens"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	holdings := []TokenBalance{}
	for _, token := range result.Tokens {
		if token.Amount <= 0 {
			continue
		}

		decimals := token.Decimals
		if decimals == 0 {
			decimals = 9
		}

		holdings = append(holdings, TokenBalance{
			TokenAddress: token.Mint,
			Balance:      token.Amount / math.Pow10(decimals),
		})
	}

	return holdings, nil
}
