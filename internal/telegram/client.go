// Package telegram is a hand-built client for the pieces of the Bot API this
// service uses: messaging, inline keyboards, long polling and webhook setup.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"catan-results-bot/internal/metrics"
)

// Config controls how the client reaches the Bot API.
type Config struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Recorder
}

// Client calls the Telegram Bot API.
type Client struct {
	token      string
	baseURL    string
	httpClient httpDoer
	metrics    *metrics.Recorder
}

// NewClient constructs a Bot API client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		token:      cfg.Token,
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		metrics:    cfg.Metrics,
	}
}

// SendMessage delivers a plain text message and returns the sent message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (*Message, error) {
	return c.send(ctx, sendMessageRequest{ChatID: chatID, Text: text})
}

// SendCode delivers text rendered as inline code.
func (c *Client) SendCode(ctx context.Context, chatID int64, text string) (*Message, error) {
	return c.send(ctx, sendMessageRequest{
		ChatID:    chatID,
		Text:      "`" + text + "`",
		ParseMode: "Markdown",
	})
}

// SendKeyboard delivers a message carrying an inline keyboard.
func (c *Client) SendKeyboard(ctx context.Context, chatID int64, text string, markup *InlineKeyboardMarkup) (*Message, error) {
	return c.send(ctx, sendMessageRequest{ChatID: chatID, Text: text, ReplyMarkup: markup})
}

func (c *Client) send(ctx context.Context, req sendMessageRequest) (*Message, error) {
	var msg Message
	if err := c.call(ctx, "sendMessage", req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditReplyMarkup replaces the inline keyboard on a sent message. Telegram
// rejects edits that change nothing; that case is reported as success here.
func (c *Client) EditReplyMarkup(ctx context.Context, chatID, messageID int64, markup *InlineKeyboardMarkup) error {
	err := c.call(ctx, "editMessageReplyMarkup", editReplyMarkupRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		ReplyMarkup: markup,
	}, nil)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

// AnswerCallback acknowledges a callback query with a short notice.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", answerCallbackRequest{
		CallbackQueryID: callbackID,
		Text:            text,
	}, nil)
}

// GetUpdates long-polls for updates past the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", getUpdatesRequest{
		Offset:  offset,
		Timeout: int(timeout.Seconds()),
	}, &updates)
	if err != nil {
		return nil, err
	}
	return updates, nil
}

// GetWebhookInfo reports the currently registered webhook.
func (c *Client) GetWebhookInfo(ctx context.Context) (WebhookInfo, error) {
	var info WebhookInfo
	if err := c.call(ctx, "getWebhookInfo", struct{}{}, &info); err != nil {
		return WebhookInfo{}, err
	}
	return info, nil
}

// SetWebhook registers url as the webhook endpoint. An empty url removes any
// registered webhook, which is required before long polling.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "setWebhook", setWebhookRequest{URL: url}, nil)
}

// EnsureWebhook registers url only when it differs from what Telegram already
// has, avoiding the set-webhook rate limit on restarts.
func (c *Client) EnsureWebhook(ctx context.Context, url string) error {
	info, err := c.GetWebhookInfo(ctx)
	if err != nil {
		return err
	}
	if info.URL == url {
		return nil
	}
	return c.SetWebhook(ctx, url)
}

// SetMyCommands publishes the command menu shown by clients.
func (c *Client) SetMyCommands(ctx context.Context, commands []BotCommand) error {
	return c.call(ctx, "setMyCommands", setMyCommandsRequest{Commands: commands}, nil)
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	start := time.Now()
	err := c.doCall(ctx, method, payload, out)
	c.metrics.RecordTelegramCall(method, time.Since(start), err)
	return err
}

func (c *Client) doCall(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope); decodeErr != nil {
		return fmt.Errorf("telegram: %s: decoding response: %w", method, decodeErr)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram: %s: api error %d: %s", method, envelope.ErrorCode, envelope.Description)
	}

	if out != nil && len(envelope.Result) > 0 {
		if decodeErr := json.Unmarshal(envelope.Result, out); decodeErr != nil {
			return fmt.Errorf("telegram: %s: decoding result: %w", method, decodeErr)
		}
	}
	return nil
}
