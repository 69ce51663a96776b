package models

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		whale     Whale
		wantTier  int
		wantChain string
	}{
		{"valid", Whale{Address: "a", Chain: ChainBase, Tier: 2}, 2, ChainBase},
		{"missing tier", Whale{Address: "a", Chain: ChainSolana}, 3, ChainSolana},
		{"tier too high", Whale{Address: "a", Chain: ChainSolana, Tier: 9}, 3, ChainSolana},
		{"sol alias", Whale{Address: "a", Chain: "sol", Tier: 1}, 1, ChainSolana},
		{"unknown chain", Whale{Address: "a", Chain: "", Tier: 1}, 1, ChainSolana},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.whale.Normalize()
			if tt.whale.Tier != tt.wantTier {
				t.Errorf("tier = %d, want %d", tt.whale.Tier, tt.wantTier)
			}
			if tt.whale.Chain != tt.wantChain {
				t.Errorf("chain = %q, want %q", tt.whale.Chain, tt.wantChain)
			}
		})
	}
}

func TestCheckInterval(t *testing.T) {
	intervals := map[int]int{
		1: TierEliteInterval,
		2: TierActiveInterval,
		3: TierSemiActiveInterval,
		4: TierDormantInterval,
	}
	for tier, want := range intervals {
		w := Whale{Tier: tier}
		if got := w.CheckInterval(); got != want {
			t.Errorf("tier %d interval = %d, want %d", tier, got, want)
		}
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0x1234567890abcdef"); got != "0x1234...cdef" {
		t.Errorf("ShortAddress = %q", got)
	}
	if got := ShortAddress("short"); got != "short" {
		t.Errorf("short addresses must pass through, got %q", got)
	}
}

func TestAddBuyerDedup(t *testing.T) {
	token := &TrackedToken{}

	if !token.AddBuyer("whale1") {
		t.Error("first buyer should be added")
	}
	if token.AddBuyer("whale1") {
		t.Error("duplicate buyer should be rejected")
	}
	if token.IsMultiBuy() {
		t.Error("one distinct buyer is not a multi-buy")
	}
	if !token.AddBuyer("whale2") {
		t.Error("second buyer should be added")
	}
	if !token.IsMultiBuy() {
		t.Error("two distinct buyers is a multi-buy")
	}
}

func TestWhalePerformanceRates(t *testing.T) {
	empty := &WhalePerformance{}
	if empty.SuccessRate() != 0 || empty.AvgGain() != 0 {
		t.Error("empty performance must report zero rates")
	}

	p := &WhalePerformance{TokensTracked: 4, SuccessfulCalls: 2, TotalGain: 200}
	if got := p.SuccessRate(); got != 50 {
		t.Errorf("SuccessRate = %v, want 50", got)
	}
	if got := p.AvgGain(); got != 50 {
		t.Errorf("AvgGain = %v, want 50", got)
	}
}
