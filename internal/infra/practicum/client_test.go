package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/go-playground/assert/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func newTestClient(url string, timeout time.Duration) (*Client, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewClient(url, "secret", timeout, logger.WithField("component", "practicum")), hook
}

func TestGetAPIAnswer(t *testing.T) {
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"homeworks": []map[string]interface{}{
				{"homework_name": "hw1", "status": "approved"},
			},
			"current_date": 1700000100,
		})
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL+"/api/user_api/homework_statuses/", time.Second)

	answer, err := client.GetAPIAnswer(context.Background(), 1700000000)

	assert.Equal(t, nil, err)
	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "1700000000", gotFrom)

	homeworks, err := homework.CheckResponse(answer)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(homeworks))
	assert.Equal(t, "hw1", homeworks[0].(map[string]any)["homework_name"])

	ts, ok := homework.CurrentDate(answer)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(1700000100), ts)
}

func TestGetAPIAnswerEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"homeworks": [], "current_date": 1}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL, time.Second)

	answer, err := client.GetAPIAnswer(context.Background(), 5)
	assert.Equal(t, nil, err)

	homeworks, err := homework.CheckResponse(answer)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(homeworks))
}

func TestGetAPIAnswerDefaultsCursorToNow(t *testing.T) {
	var gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from_date")
		w.Write([]byte(`{"homeworks": []}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL, time.Second)
	client.now = func() time.Time { return time.Unix(1650000000, 0) }

	_, err := client.GetAPIAnswer(context.Background(), 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, "1650000000", gotFrom)
}

func TestGetAPIAnswerNon200(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		client, hook := newTestClient(srv.URL, time.Second)

		answer, err := client.GetAPIAnswer(context.Background(), 1)

		assert.Equal(t, true, answer == nil)
		assert.Equal(t, true, errors.Is(err, homework.ErrEndpointUnreachable))
		var herr *homework.Error
		assert.Equal(t, true, errors.As(err, &herr))
		assert.Equal(t, code, herr.StatusCode)
		assert.Equal(t, srv.URL, herr.Endpoint)
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
		assert.Equal(t, code, hook.LastEntry().Data["status_code"])

		srv.Close()
	}
}

func TestGetAPIAnswerInvalidJSON(t *testing.T) {
	for _, body := range []string{`not json`, `null`, `[1, 2]`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client, _ := newTestClient(srv.URL, time.Second)

		_, err := client.GetAPIAnswer(context.Background(), 1)

		assert.Equal(t, homework.KindMalformedResponse, homework.KindOf(err))
		srv.Close()
	}
}

func TestGetAPIAnswerTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL, 50*time.Millisecond)

	started := time.Now()
	_, err := client.GetAPIAnswer(context.Background(), 1)

	assert.Equal(t, homework.KindEndpointUnreachable, homework.KindOf(err))
	var herr *homework.Error
	errors.As(err, &herr)
	assert.Equal(t, 0, herr.StatusCode)
	assert.Equal(t, true, time.Since(started) < 5*time.Second)
}

func TestGetAPIAnswerContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, _ := newTestClient(srv.URL, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetAPIAnswer(ctx, 1)

	assert.Equal(t, true, errors.Is(err, context.DeadlineExceeded))
}
