package practicum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// Client fetches homework statuses from the Practicum API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	logger     *logrus.Entry
	now        func() time.Time
}

func NewClient(endpoint, token string, timeout time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// GetAPIAnswer requests statuses updated since fromDate. A non-positive
// fromDate means "now". The decoded JSON object is returned as is.
func (c *Client) GetAPIAnswer(ctx context.Context, fromDate int64) (map[string]any, error) {
	if fromDate <= 0 {
		fromDate = c.now().Unix()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, homework.NewEndpointFailure(c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, homework.NewEndpointFailure(c.endpoint, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	logCtx := c.logger.WithFields(logrus.Fields{"endpoint": c.endpoint, "from_date": fromDate})
	logCtx.Debug("Requesting homework statuses")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObservePracticumRequest(0, start)
		logCtx.WithError(err).Error("Request to homework endpoint failed")
		return nil, homework.NewEndpointFailure(c.endpoint, err)
	}
	defer resp.Body.Close()
	metrics.ObservePracticumRequest(resp.StatusCode, start)

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		logCtx.WithField("status_code", resp.StatusCode).Error("Homework endpoint unavailable")
		return nil, homework.NewEndpointStatus(c.endpoint, resp.StatusCode)
	}

	var answer map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		logCtx.WithError(err).Error("Homework endpoint returned invalid JSON")
		return nil, homework.NewMalformedResponse("ответ API не является JSON-объектом", err)
	}
	if answer == nil {
		logCtx.Error("Homework endpoint returned null body")
		return nil, homework.NewMalformedResponse("ответ API не является JSON-объектом", nil)
	}
	return answer, nil
}
