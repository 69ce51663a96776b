package tracker

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
)

// Shared test doubles for the tracker package.

type mockNotifier struct {
	sent     []string
	onceKeys []string
}

func (m *mockNotifier) Send(text string) bool {
	m.sent = append(m.sent, text)
	return true
}

func (m *mockNotifier) SendOnce(key, text string) bool {
	m.onceKeys = append(m.onceKeys, key)
	m.sent = append(m.sent, text)
	return true
}

func (m *mockNotifier) countKey(key string) int {
	n := 0
	for _, k := range m.onceKeys {
		if k == key {
			n++
		}
	}
	return n
}

type mockSnapshot struct {
	chain    string
	holdings map[string][]provider.TokenBalance
	err      error
	calls    int
}

func (m *mockSnapshot) GetHoldings(address string) ([]provider.TokenBalance, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.holdings[address], nil
}

func (m *mockSnapshot) GetChain() string { return m.chain }

type mockMetadata struct {
	data map[string]*provider.TokenMetadata
	err  error
}

func (m *mockMetadata) GetMetadata(tokenAddress, chain string) (*provider.TokenMetadata, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.data[tokenAddress], nil
}

func newTestState(t *testing.T) *store.State {
	t.Helper()
	s, err := store.LoadState(filepath.Join(t.TempDir(), "state.json"), 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

var errProviderDown = errors.New("provider down")
