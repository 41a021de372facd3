package main

import (
	"context"
	"log"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mentorly/config"
	"mentorly/internal/monitor"
)

func main() {
	cfg := config.Load()

	wallets := splitWallets(cfg.Monitor.Wallets)
	if len(wallets) == 0 {
		log.Fatal("MONITOR_WALLETS is empty, nothing to watch")
	}
	threshold, ok := new(big.Int).SetString(cfg.Monitor.ThresholdWei, 10)
	if !ok {
		log.Fatalf("bad MONITOR_THRESHOLD_WEI: %q", cfg.Monitor.ThresholdWei)
	}
	if cfg.Monitor.DiscordToken == "" || cfg.Monitor.DiscordChannelID == "" {
		log.Fatal("DISCORD_BOT_TOKEN and DISCORD_CHANNEL_ID are required")
	}
	notifier, err := monitor.NewDiscordNotifier(cfg.Monitor.DiscordToken, cfg.Monitor.DiscordChannelID)
	if err != nil {
		log.Fatalf("discord: %v", err)
	}

	m := monitor.New(monitor.NewRPCClient(cfg.Monitor.RPCURL), notifier, wallets, threshold)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	log.Printf("watching %d wallet(s) every %s", len(wallets), cfg.Monitor.Interval)
	m.Run(ctx, cfg.Monitor.Interval)
	log.Println("monitor stopped")
}

func splitWallets(s string) []string {
	var out []string
	for _, w := range strings.Split(s, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}
