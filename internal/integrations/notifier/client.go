package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент шлюза уведомлений. Сам рендеринг сообщений (клавиатуры,
// локализация) живет на стороне чат-бота - сюда уходит только текст и вид.
type Client struct {
	baseURL    string
	masterID   int64
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента шлюза уведомлений
func NewClient(baseURL string, masterID int64, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		masterID: masterID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendToClient отправляет уведомление клиенту
func (c *Client) SendToClient(ctx context.Context, clientID int64, kind, text string) error {
	return c.send(ctx, Message{RecipientID: clientID, Text: text, Kind: kind})
}

// SendToMaster отправляет уведомление мастеру
func (c *Client) SendToMaster(ctx context.Context, kind, text string) error {
	return c.send(ctx, Message{RecipientID: c.masterID, Text: text, Kind: kind})
}

func (c *Client) send(ctx context.Context, msg Message) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность шлюза не должна ронять бизнес-операцию
		c.log.Error("Notification gateway unavailable for recipient=%d: %v", msg.RecipientID, err)
		return fmt.Errorf("%w: recipient=%d, error=%v", ErrServiceDegraded, msg.RecipientID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
