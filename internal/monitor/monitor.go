package monitor

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"
)

// BalanceFetcher reads a wallet's native-token balance in wei.
type BalanceFetcher interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
}

// Notifier delivers a low-balance alert.
type Notifier interface {
	Alert(msg string) error
}

// Monitor polls wallet balances and alerts once per threshold crossing.
// A wallet that recovers above the threshold becomes eligible to alert
// again.
type Monitor struct {
	fetcher   BalanceFetcher
	notifier  Notifier
	wallets   []string
	threshold *big.Int
	alerted   map[string]bool
}

func New(fetcher BalanceFetcher, notifier Notifier, wallets []string, threshold *big.Int) *Monitor {
	return &Monitor{
		fetcher:   fetcher,
		notifier:  notifier,
		wallets:   wallets,
		threshold: threshold,
		alerted:   make(map[string]bool),
	}
}

// Check polls every wallet once. Per-wallet failures are logged and do not
// stop the rest of the sweep.
func (m *Monitor) Check(ctx context.Context) {
	for _, wallet := range m.wallets {
		balance, err := m.fetcher.GetBalance(ctx, wallet)
		if err != nil {
			log.Printf("[monitor] balance check failed for %s: %v", wallet, err)
			continue
		}
		if balance.Cmp(m.threshold) < 0 {
			if m.alerted[wallet] {
				continue
			}
			m.alerted[wallet] = true
			msg := fmt.Sprintf("⚠️ wallet %s balance is low: %s wei (threshold %s)", wallet, balance, m.threshold)
			if err := m.notifier.Alert(msg); err != nil {
				log.Printf("[monitor] alert failed for %s: %v", wallet, err)
				m.alerted[wallet] = false // retry on the next sweep
			}
		} else {
			m.alerted[wallet] = false
		}
	}
}

// Run blocks, checking on every tick until ctx is done. An initial check
// runs immediately.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
