// Package bitrix is a thin client for the Bitrix24 webhook REST API. Only the
// calls the sales sync needs are implemented.
package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// LeadStats is what the sales sync pulls per manager and period.
type LeadStats struct {
	Leads    int
	Meetings int
}

// Client is the interface the sync and sales services consume; tests swap in
// a fake.
type Client interface {
	LeadStats(ctx context.Context, managerBitrixID string, from, to time.Time) (LeadStats, error)
	LeadsInWork(ctx context.Context, managerBitrixID string) (int, error)
}

type restClient struct {
	baseURL string
	http    *http.Client
}

// New builds a client for a Bitrix24 inbound webhook URL
// (https://portal.bitrix24.ru/rest/1/token).
func New(baseURL string) Client {
	return &restClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type listResponse struct {
	Total int `json:"total"`
	Error struct {
		Description string `json:"error_description"`
	} `json:"error"`
}

func (c *restClient) call(ctx context.Context, method string, params map[string]interface{}) (*listResponse, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method+".json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bitrix %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bitrix %s: status %d", method, resp.StatusCode)
	}
	var decoded listResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("bitrix %s: decode: %w", method, err)
	}
	return &decoded, nil
}

const dateLayout = "2006-01-02"

func (c *restClient) LeadStats(ctx context.Context, managerBitrixID string, from, to time.Time) (LeadStats, error) {
	leads, err := c.call(ctx, "crm.lead.list", map[string]interface{}{
		"filter": map[string]interface{}{
			"ASSIGNED_BY_ID": managerBitrixID,
			">=DATE_CREATE":  from.Format(dateLayout),
			"<DATE_CREATE":   to.Format(dateLayout),
		},
		"select": []string{"ID"},
	})
	if err != nil {
		return LeadStats{}, err
	}

	meetings, err := c.call(ctx, "crm.activity.list", map[string]interface{}{
		"filter": map[string]interface{}{
			"RESPONSIBLE_ID": managerBitrixID,
			"TYPE_ID":        1, // meeting
			">=CREATED":      from.Format(dateLayout),
			"<CREATED":       to.Format(dateLayout),
		},
		"select": []string{"ID"},
	})
	if err != nil {
		return LeadStats{}, err
	}

	return LeadStats{Leads: leads.Total, Meetings: meetings.Total}, nil
}

func (c *restClient) LeadsInWork(ctx context.Context, managerBitrixID string) (int, error) {
	resp, err := c.call(ctx, "crm.lead.list", map[string]interface{}{
		"filter": map[string]interface{}{
			"ASSIGNED_BY_ID": managerBitrixID,
			"STATUS_ID":      "IN_PROCESS",
		},
		"select": []string{"ID"},
	})
	if err != nil {
		return 0, err
	}
	return resp.Total, nil
}
