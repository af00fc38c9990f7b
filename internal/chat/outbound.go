package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/sales-bot/internal/dialog"
)

// AdminNotifier шлёт сводку лида администратору через HTTP шлюз мессенджера.
type AdminNotifier struct {
	url    string
	token  string
	admin  string
	client *http.Client
	log    *zap.Logger
}

func NewAdminNotifier(url, token, adminNumber string, log *zap.Logger) *AdminNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminNotifier{
		url:    strings.TrimSpace(url),
		token:  strings.TrimSpace(token),
		admin:  strings.TrimSpace(adminNumber),
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.Named("notify"),
	}
}

func (n *AdminNotifier) Notify(ctx context.Context, text string) error {
	if n.url == "" || n.admin == "" {
		return dialog.ErrNotifierNotConfigured
	}

	b, err := json.Marshal(map[string]string{
		"to":   n.admin,
		"text": text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify admin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notify admin: %s body=%s", resp.Status, respBody)
	}

	n.log.Info("admin notified", zap.Int("chars", len(text)))
	return nil
}
