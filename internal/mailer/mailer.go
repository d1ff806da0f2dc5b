package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the transactional-mail provider over its HTTP form API.
type Client struct {
	APIURL string
	APIKey string
	From   string

	httpClient *http.Client
}

func New(apiURL, apiKey, from string) *Client {
	return &Client{
		APIURL: apiURL,
		APIKey: apiKey,
		From:   from,
		// Request contexts usually carry no deadline, so a hung provider must
		// not pin the reset handler.
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendTemporaryPassword mails the freshly generated temporary password. The
// caller decides what a delivery failure means for the reset flow; nothing is
// swallowed here.
func (m *Client) SendTemporaryPassword(ctx context.Context, to, nombre, tempPassword string) error {
	body := fmt.Sprintf(
		"Hola %s,\n\nTu contraseña temporal es: %s\n\nDeberás cambiarla la próxima vez que inicies sesión.",
		nombre, tempPassword,
	)

	form := url.Values{}
	form.Set("from", m.From)
	form.Set("to", to)
	form.Set("subject", "GastoSmart - contraseña temporal")
	form.Set("text", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.APIURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", m.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		raw, _ := io.ReadAll(res.Body)
		return &mailHTTPError{Status: res.StatusCode, Body: string(raw)}
	}
	return nil
}

type mailHTTPError struct {
	Status int
	Body   string
}

func (e *mailHTTPError) Error() string {
	return fmt.Sprintf("mail send failed: status %d", e.Status)
}
