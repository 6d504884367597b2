// Package adesk is a thin client for the Adesk finance API.
package adesk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"` // 2006-01-02
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Contractor  string          `json:"contractor"`
	Account     string          `json:"account"`
	Type        string          `json:"type"` // income / outcome
}

type Client interface {
	Transactions(ctx context.Context, from, to time.Time) ([]Transaction, error)
}

type restClient struct {
	baseURL  string
	apiToken string
	http     *http.Client
}

func New(baseURL, apiToken string) Client {
	return &restClient{
		baseURL:  baseURL,
		apiToken: apiToken,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *restClient) Transactions(ctx context.Context, from, to time.Time) ([]Transaction, error) {
	query := url.Values{}
	query.Set("api_token", c.apiToken)
	query.Set("range_start", from.Format("2006-01-02"))
	query.Set("range_end", to.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/transactions?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adesk transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adesk transactions: status %d", resp.StatusCode)
	}

	var decoded struct {
		Success      bool          `json:"success"`
		Transactions []Transaction `json:"transactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("adesk transactions: decode: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("adesk transactions: api reported failure")
	}
	return decoded.Transactions, nil
}
