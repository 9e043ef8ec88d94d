// Package notify delivers attendance updates and critical alerts over a
// Telegram bot.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"amon/internal/attendance"
	"amon/internal/store"

	"go.uber.org/zap"
)

// Client is a minimal Telegram bot client. A nil Client is valid and every
// method on it is a no-op, so callers never branch on configuration.
type Client struct {
	BotToken string
	ChatID   string
	// DebugMode logs the payload instead of calling the API.
	DebugMode bool

	http *http.Client
	log  *zap.Logger
}

// NewClient returns a client, or nil when token or chat ID are empty.
func NewClient(botToken, chatID string, debug bool, log *zap.Logger) *Client {
	if botToken == "" || chatID == "" {
		return nil
	}
	return &Client{
		BotToken:  botToken,
		ChatID:    chatID,
		DebugMode: debug,
		http:      &http.Client{Timeout: 30 * time.Second},
		log:       log.Named("telegram"),
	}
}

type message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (c *Client) doRequest(method string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	if c.DebugMode {
		c.log.Info("debug mode, skipping API call",
			zap.String("method", method),
			zap.ByteString("payload", jsonData))
		return nil
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/%s", c.BotToken, method)
	resp, err := c.http.Post(apiURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp.Body)
}

func checkResponse(body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}

// SendMessage sends an HTML-formatted text message.
func (c *Client) SendMessage(text string) error {
	if c == nil {
		return nil
	}
	return c.doRequest("sendMessage", message{
		ChatID:                c.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
}

// SendPhoto uploads a PNG with a caption via multipart form data.
func (c *Client) SendPhoto(png []byte, caption string) error {
	if c == nil {
		return nil
	}
	if c.DebugMode {
		c.log.Info("debug mode, skipping photo upload",
			zap.Int("bytes", len(png)),
			zap.String("caption", caption))
		return nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", c.ChatID); err != nil {
		return fmt.Errorf("writing chat_id field: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("writing caption field: %w", err)
		}
	}
	part, err := w.CreateFormFile("photo", "attendance.png")
	if err != nil {
		return fmt.Errorf("creating photo part: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("writing photo bytes: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendPhoto", c.BotToken)
	resp, err := c.http.Post(apiURL, w.FormDataContentType(), &buf)
	if err != nil {
		return fmt.Errorf("uploading photo: %w", err)
	}
	defer resp.Body.Close()

	return checkResponse(resp.Body)
}

// SendCriticalAlert reports a failure the watch loop could not recover from.
func (c *Client) SendCriticalAlert(errorType, errorMsg string, retryCount int) error {
	if c == nil {
		return nil
	}
	text := fmt.Sprintf(
		"🚨 <b>CRITICAL ALERT - AMON</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Retry Attempts:</b> %d\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"⚠️ <b>Action Required:</b> Please check the service.",
		errorType, errorMsg, retryCount,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	return c.SendMessage(text)
}

// SendChanges formats a snapshot diff as one message. An empty diff sends
// nothing.
func (c *Client) SendChanges(changes []store.Change) error {
	if c == nil || len(changes) == 0 {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>Attendance changes</b> (%d)\n\n", len(changes))
	for _, ch := range changes {
		fmt.Fprintf(&b, "<b>%s</b>: %s → %s\n", ch.Date, describeEntry(ch.Before), describeEntry(ch.After))
	}
	return c.SendMessage(b.String())
}

func describeEntry(e *attendance.HistoryEntry) string {
	if e == nil {
		return "untracked"
	}
	if e.FirstHalf == e.SecondHalf {
		return string(e.FirstHalf)
	}
	return fmt.Sprintf("%s / %s", e.FirstHalf, e.SecondHalf)
}
