package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"lightning-agent/internal/di"
	"lightning-agent/internal/domain/entity"
	"lightning-agent/internal/infrastructure/env"
)

const defaultModel = "anthropic/claude-sonnet-4"

func main() {
	envService := env.NewEnvService()

	cfg := di.Config{
		NeutronAPIKey:        envService.MustGet("NEUTRON_API_KEY"),
		NeutronAPISecret:     envService.MustGet("NEUTRON_API_SECRET"),
		NeutronBaseURL:       envService.Get("NEUTRON_API_URL"),
		OpenRouterAPIKey:     envService.MustGet("OPENROUTER_API_KEY"),
		OpenRouterModel:      envService.Get("MODEL"),
		OpenRouterBaseURL:    envService.Get("OPENROUTER_BASE_URL"),
		WebhookPort:          envService.GetInt("WEBHOOK_PORT", 3000),
		WebhookSecret:        envService.Get("WEBHOOK_SECRET"),
		DefaultTaskPriceSats: int64(envService.GetInt("DEFAULT_TASK_PRICE_SATS", 0)),
		Debug:                envService.GetBool("DEBUG", false),
	}
	if cfg.OpenRouterModel == "" {
		cfg.OpenRouterModel = defaultModel
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = "change-me"
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Initialization failed: %v", err)
	}
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Verify the wallet connection before accepting input.
	authCtx, authCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := container.Wallet.Authenticate(authCtx); err != nil {
		authCancel()
		log.Fatalf("Failed to connect to wallet backend: %v", err)
	}
	wallets, err := container.Wallet.Wallets(authCtx)
	authCancel()
	if err != nil {
		log.Fatalf("Failed to fetch wallets: %v", err)
	}
	for _, w := range wallets {
		if w.Ccy == "BTC" {
			fmt.Printf("Connected. BTC balance: %v BTC (%s)\n",
				w.Amount, entity.FormatSats(entity.BTCToSats(w.Amount)))
		}
	}

	go func() {
		if err := container.Webhook.Start(ctx); err != nil && ctx.Err() == nil {
			container.Logger.Error("Webhook server failed", "error", err)
		}
	}()

	fmt.Println("\nLightning agent ready. Try:")
	fmt.Println("  - Check my balance")
	fmt.Println("  - Create an invoice for 10,000 sats")
	fmt.Println("  - Send 500 sats to user@getalby.com")
	fmt.Println("  - What's the BTC price?")
	fmt.Println("  - Type 'exit' to quit")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			fmt.Println("Goodbye!")
			return
		}

		result, err := container.Chat.Chat(ctx, line)
		if err != nil {
			container.Logger.Error("Turn failed", "error", err)
			fmt.Printf("\nError: %v\n\n", err)
			continue
		}
		fmt.Printf("\nAgent: %s\n\n", result.Answer)
	}
}
