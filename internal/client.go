package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"order-sentry/internal/model"
)

// IOrderAPI is the boundary to the remote commerce backend holding the
// authoritative order records.
type IOrderAPI interface {
	Orders(context.Context, time.Time) ([]model.Order, error)
	Order(context.Context, string) (model.Order, error)
	UpdateStatus(context.Context, string, string) (model.Order, error)
	Delete(context.Context, string) error
}

type OrderAPIClient struct {
	client *http.Client
	logger *zap.SugaredLogger
	url    string
	token  string
}

func NewOrderAPIClient(apiURL, token string, logger *zap.SugaredLogger) *OrderAPIClient {
	return &OrderAPIClient{
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
		url:    apiURL,
		token:  token,
	}
}

// Orders fetches the order set. A zero since requests the full list,
// otherwise only orders created at or after since are returned.
func (c *OrderAPIClient) Orders(ctx context.Context, since time.Time) ([]model.Order, error) {
	u := c.url + "/orders"
	if !since.IsZero() {
		u += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	body, err := c.makeRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var orders []model.Order
	err = json.Unmarshal(body, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *OrderAPIClient) Order(ctx context.Context, id string) (model.Order, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, c.url+"/order/"+id, nil)
	if err != nil {
		return model.Order{}, err
	}

	var o model.Order
	err = json.Unmarshal(body, &o)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (c *OrderAPIClient) UpdateStatus(ctx context.Context, id, status string) (model.Order, error) {
	body, err := c.makeRequest(ctx, http.MethodPut, c.url+"/order/"+id, model.StatusUpdateInput{Status: status})
	if err != nil {
		return model.Order{}, err
	}

	var o model.Order
	err = json.Unmarshal(body, &o)
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (c *OrderAPIClient) Delete(ctx context.Context, id string) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, c.url+"/order/"+id, nil)
	return err
}

func (c *OrderAPIClient) makeRequest(ctx context.Context, method, url string, payload interface{}) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrOrderNotFound
	}
	if res.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: res.StatusCode, Message: apiMessage(buf.Bytes())}
	}

	return buf.Bytes(), nil
}

// apiMessage extracts the backend's error message, falling back to the raw body.
func apiMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return string(body)
}
