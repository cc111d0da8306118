package config

import "time"

// TelegramConfig controls how we talk to the Bot API.
type TelegramConfig struct {
	Token       string
	BaseURL     string
	WebhookURL  string
	PollTimeout time.Duration
}

func loadTelegram() TelegramConfig {
	return TelegramConfig{
		Token:       envOrDefault(envBotToken, ""),
		BaseURL:     envOrDefault(envTelegramBaseURL, ""),
		WebhookURL:  envOrDefault(envWebhookURL, ""),
		PollTimeout: durationEnvOrDefault(envPollTimeout, defaultPollTimeout),
	}
}
