package corebank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/bankview/internal/platform/account"
	"github.com/kislikjeka/bankview/pkg/logger"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
)

// Client is an HTTP client for the core banking REST API
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new core banking API client
func NewClient(baseURL, apiKey string, log *logger.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
		logger:  log.WithField("component", "corebank"),
	}
}

// doRequest performs an authenticated HTTP request with rate-limit retry.
// It retries up to maxRetries times with exponential backoff (1s, 2s, 4s) on
// 429 responses.
func (c *Client) doRequest(ctx context.Context, method, reqURL string, reqBody any) ([]byte, error) {
	var payload []byte
	if reqBody != nil {
		var err error
		payload, err = json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	backoff := time.Second
	for attempt := 0; attempt <= maxRetries; attempt++ {
		c.logger.Debug("API request", "method", method, "url", reqURL, "attempt", attempt)
		attemptStart := time.Now()

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", account.ErrRemoteUnavailable, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusOK {
			c.logger.Debug("API response", "status_code", resp.StatusCode, "duration_ms", time.Since(attemptStart).Milliseconds())
			return body, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt == maxRetries {
				c.logger.Error("rate limit exhausted", "attempts", maxRetries+1)
				return nil, fmt.Errorf("%w: rate limit exceeded after retries", account.ErrRemoteUnavailable)
			}
			c.logger.Warn("rate limited, retrying", "attempt", attempt, "backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				continue
			}
		}

		c.logger.Error("API error", "status_code", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d, body: %s", account.ErrRemoteUnavailable, resp.StatusCode, string(body))
	}

	// Should not be reached, but guard against it
	return nil, fmt.Errorf("%w: exhausted retries", account.ErrRemoteUnavailable)
}

// ListAccounts fetches the full account list
func (c *Client) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/accounts", nil)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts failed: %w", err)
	}

	var dtos []accountDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to decode accounts response: %w", err)
	}

	accounts := make([]*account.Account, 0, len(dtos))
	for _, dto := range dtos {
		accounts = append(accounts, dto.toAccount())
	}

	c.logger.Info("accounts fetched", "count", len(accounts))
	return accounts, nil
}

// GetAccountDetails fetches one account's extended details
func (c *Client) GetAccountDetails(ctx context.Context, id string) (*account.Details, error) {
	body, err := c.doRequest(ctx, http.MethodGet, c.baseURL+"/account/details/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("GetAccountDetails failed: %w", err)
	}

	var dto accountDetailsDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to decode details response: %w", err)
	}

	return dto.toDetails(), nil
}

// GetTransactionsPage fetches one page of transactions for an account. page
// is the zero-based index to request; from/to are optional ISO-8601 bounds.
func (c *Client) GetTransactionsPage(ctx context.Context, id string, page int, from, to *string) (*account.Page, error) {
	req := transactionsRequest{
		NextPage: page,
		FromDate: from,
		ToDate:   to,
	}

	body, err := c.doRequest(ctx, http.MethodPost, c.baseURL+"/account/transactions/"+id, req)
	if err != nil {
		return nil, fmt.Errorf("GetTransactionsPage failed: %w", err)
	}

	var resp transactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode transactions response: %w", err)
	}

	result, err := resp.toPage()
	if err != nil {
		return nil, err
	}

	c.logger.Debug("transactions page fetched",
		"account_id", id,
		"requested_page", page,
		"current_page", result.CurrentPage,
		"total_pages", result.TotalPages,
		"count", len(result.Transactions))
	return result, nil
}
