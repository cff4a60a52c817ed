// internal/infra/practicum/client.go
package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/failure"
	"homework_status_bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultTimeout  = 30 * time.Second

	// MaxResponseBytes caps the response body read from the API.
	MaxResponseBytes = 1 << 20

	opFetch = "fetch homework updates"
)

// Client talks to the homework statuses API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
	now        func() time.Time
}

func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// FetchUpdates requests all homeworks changed since cursor (Unix seconds).
// A zero cursor means "now".
func (c *Client) FetchUpdates(ctx context.Context, cursor int64) (*homework.PollResponse, error) {
	if cursor == 0 {
		cursor = c.now().Unix()
	}

	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, failure.Wrap(failure.KindNetwork, opFetch, err, "invalid endpoint")
	}
	params := reqURL.Query()
	params.Set("from_date", strconv.FormatInt(cursor, 10))
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, failure.Wrap(failure.KindNetwork, opFetch, err, "create request")
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("from_date", cursor).Debug("Requesting homework statuses")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, failure.Wrap(failure.KindNetwork, opFetch, err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, failure.Wrap(failure.KindNetwork, opFetch, err, "read response")
	}
	if len(body) > MaxResponseBytes {
		return nil, failure.New(failure.KindMalformedResponse, opFetch,
			fmt.Sprintf("response body exceeds %d bytes", MaxResponseBytes))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"endpoint":    c.endpoint,
		}).Error("Homework API answered with unexpected status")
		return nil, failure.UnexpectedStatus(opFetch, resp.StatusCode)
	}

	return decodePollResponse(body)
}

func decodePollResponse(body []byte) (*homework.PollResponse, error) {
	if !json.Valid(body) {
		return nil, failure.New(failure.KindMalformedResponse, opFetch, "response body is not valid JSON")
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, failure.New(failure.KindShape, opFetch, "response is not a JSON object")
	}

	out := &homework.PollResponse{Fields: fields}
	if raw, ok := fields[homework.FieldCurrentDate]; ok {
		if err := json.Unmarshal(raw, &out.CurrentDate); err != nil {
			return nil, failure.Wrap(failure.KindShape, opFetch, err, fmt.Sprintf("%q is not an integer", homework.FieldCurrentDate))
		}
		out.HasCurrentDate = true
	}
	return out, nil
}
