package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
)

// Base chain ERC-20 balances are returned as raw hex; most tokens use 18
// decimals and per-token decimal lookups would double the request volume.
const defaultEVMDecimals = 18

// AlchemyClient fetches Base chain token balances via the Alchemy JSON-RPC
// API.
type AlchemyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	chain      string
}

func NewAlchemyClient(apiKey string, timeout time.Duration) *AlchemyClient {
	return &AlchemyClient{
		apiKey:  apiKey,
		baseURL: fmt.Sprintf("https://base-mainnet.g.alchemy.com/v2/%s", apiKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		chain: models.ChainBase,
	}
}

func (c *AlchemyClient) GetChain() string {
	return c.chain
}

func (c *AlchemyClient) GetHoldings(address string) ([]TokenBalance, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "alchemy_getTokenBalances",
		"params":  []string{address},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Post(c.baseURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alchemy returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		Result struct {
			TokenBalances []struct {
				ContractAddress string `json:"contractAddress"`
				TokenBalance    string `json:"tokenBalance"`
			} `json:"tokenBalances"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	holdings := []TokenBalance{}
	for _, token := range result.Result.TokenBalances {
		balance := parseHexBalance(token.TokenBalance)
		if balance <= 0 {
			continue
		}

		holdings = append(holdings, TokenBalance{
			TokenAddress: token.ContractAddress,
			Balance:      balance / math.Pow10(defaultEVMDecimals),
		})
	}

	return holdings, nil
}

func parseHexBalance(hex string) float64 {
	if len(hex) > 2 && hex[:2] == "0x" {
		hex = hex[2:]
	}
	if hex == "" {
		return 0
	}

	value, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return 0
	}

	f, _ := new(big.Float).SetInt(value).Float64()
	return f
}
