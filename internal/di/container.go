package di

import (
	"fmt"

	"lightning-agent/internal/adapter/tool"
	"lightning-agent/internal/application/port/input"
	"lightning-agent/internal/application/port/output"
	"lightning-agent/internal/application/service"
	"lightning-agent/internal/infrastructure/llm/openrouter"
	"lightning-agent/internal/infrastructure/logger"
	"lightning-agent/internal/infrastructure/prompts"
	"lightning-agent/internal/infrastructure/wallet/neutron"
	"lightning-agent/internal/infrastructure/webhook"
	"lightning-agent/internal/usecase/chat"
	"lightning-agent/internal/usecase/payments"
)

type Container struct {
	Wallet     output.WalletPort
	LLM        output.LLMPort
	Logger     output.LoggerPort
	Tools      output.ToolRegistry
	Chat       input.ChatExecutor
	Correlator *payments.Correlator
	Webhook    *webhook.Server
}

type Config struct {
	NeutronAPIKey    string
	NeutronAPISecret string
	NeutronBaseURL   string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string

	WebhookPort   int
	WebhookSecret string

	DefaultTaskPriceSats int64
	Debug                bool
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewZapAdapter(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	wallet, err := neutron.NewClient(neutron.Config{
		APIKey:    cfg.NeutronAPIKey,
		APISecret: cfg.NeutronAPISecret,
		BaseURL:   cfg.NeutronBaseURL,
		Logger:    log.WithField("component", "neutron"),
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create wallet client: %w", err)
	}

	llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	llmCfg.Logger = log.WithField("component", "llm")
	if cfg.OpenRouterBaseURL != "" {
		llmCfg.BaseURL = cfg.OpenRouterBaseURL
	}
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.SystemPromptTemplate, prompts.SystemPromptData{
		DefaultTaskPriceSats: cfg.DefaultTaskPriceSats,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to render system prompt: %w", err)
	}

	tools := service.NewToolRegistry()
	chatUC := chat.New(llm, tools, log.WithField("component", "chat"), systemPrompt)
	correlator := payments.NewCorrelator(chatUC, log.WithField("component", "payments"))

	if err := registerWalletTools(tools, wallet, correlator, log, cfg.DefaultTaskPriceSats); err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	hook := webhook.NewServer(cfg.WebhookPort, cfg.WebhookSecret, correlator, log.WithField("component", "webhook"))

	return &Container{
		Wallet:     wallet,
		LLM:        llm,
		Logger:     log,
		Tools:      tools,
		Chat:       chatUC,
		Correlator: correlator,
		Webhook:    hook,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func registerWalletTools(
	registry *service.ToolRegistryImpl,
	wallet output.WalletPort,
	waiter output.PaymentWaiter,
	log output.LoggerPort,
	defaultTaskPriceSats int64,
) error {
	toolLog := log.WithField("component", "tool")
	all := []output.ToolPort{
		tool.NewCheckBalanceTool(wallet, toolLog),
		tool.NewCreateInvoiceTool(wallet, toolLog, defaultTaskPriceSats),
		tool.NewPayInvoiceTool(wallet, toolLog),
		tool.NewSendToAddressTool(wallet, toolLog),
		tool.NewGetExchangeRateTool(wallet, toolLog),
		tool.NewListTransactionsTool(wallet, toolLog),
		tool.NewCheckTransactionTool(wallet, toolLog),
		tool.NewDecodeInvoiceTool(wallet, toolLog),
		tool.NewGetDepositAddressTool(wallet, toolLog),
		tool.NewConvertCurrencyTool(wallet, toolLog),
		tool.NewWaitForPaymentTool(waiter, toolLog),
	}
	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}
