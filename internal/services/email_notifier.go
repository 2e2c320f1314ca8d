package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/biddersportal/tender-backend/internal/models"
)

// EmailNotifier - внешний сервис доставки писем.
type EmailNotifier interface {
	SendPurchaseConfirmation(ctx context.Context, recipient string, tender *models.Tender) error
}

// HTTPEmailNotifier отправляет письма через HTTP API почтового сервиса.
type HTTPEmailNotifier struct {
	httpClient *http.Client
	apiURL     string
	apiToken   string
}

// NewHTTPEmailNotifier создаёт новый экземпляр HTTPEmailNotifier.
func NewHTTPEmailNotifier(apiURL, apiToken string) *HTTPEmailNotifier {
	return &HTTPEmailNotifier{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiURL:     apiURL,
		apiToken:   apiToken,
	}
}

type emailPayload struct {
	Recipient string `json:"recipient"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// SendPurchaseConfirmation отправляет письмо с подтверждением покупки тендера.
func (n *HTTPEmailNotifier) SendPurchaseConfirmation(ctx context.Context, recipient string, tender *models.Tender) error {
	name := recipient
	if at := strings.Index(recipient, "@"); at > 0 {
		name = recipient[:at]
	}

	payload := emailPayload{
		Recipient: recipient,
		Name:      name,
		Subject:   "Tender Purchase Confirmation",
		Message: fmt.Sprintf(
			"<h2>Congratulations!</h2><p>You have successfully purchased the tender:</p><strong>%s</strong><p>Country: %s</p><p>Expiry Date: %s</p><p><a href=%q>Download Tender Document</a></p>",
			tender.Title, tender.Country, tender.ClosesAt.Format("Mon Jan 2 2006"), tender.DocumentURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiToken)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email API returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopNotifier используется, когда почтовый сервис не сконфигурирован.
type NoopNotifier struct{}

// SendPurchaseConfirmation ничего не отправляет.
func (NoopNotifier) SendPurchaseConfirmation(ctx context.Context, recipient string, tender *models.Tender) error {
	return nil
}
