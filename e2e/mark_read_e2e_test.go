package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"markread_demo/internal/auth"
	"markread_demo/internal/config"
	httpserver "markread_demo/internal/http"
	"markread_demo/internal/http/controller"
	"markread_demo/internal/http/dto"
	"markread_demo/internal/metrics"
	"markread_demo/internal/model"
	"markread_demo/internal/queue/rabbitmq"
	"markread_demo/internal/repository"
	"markread_demo/internal/service/readstate"
	"markread_demo/internal/sse"
	"markread_demo/internal/store/memory"
)

var (
	metricsOnce sync.Once
	sharedM     *metrics.Metrics
	metricsErr  error
)

type testServer struct {
	*httptest.Server
	repo *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metricsOnce.Do(func() {
		sharedM, metricsErr = metrics.NewDefault()
	})
	require.NoError(t, metricsErr)

	cfg := &config.Config{
		HTTPAddr:           ":0",
		AuthUserID:         1,
		CORSAllowedOrigins: []string{"*"},
		SSEHeartbeat:       5 * time.Second,
		OTELServiceName:    "markread-e2e",
	}
	logger := zap.NewNop()
	repo := memory.New(logger)
	hub := sse.NewHub()
	outbox := readstate.NewOutbox(cfg, rabbitmq.NewPublisher(cfg, logger), logger)
	svc := readstate.NewService(repo, hub, outbox, sharedM, logger)
	handler := controller.NewHandler(cfg, svc, hub, logger)
	router := httpserver.NewRouter(cfg, handler, auth.NewResolver(cfg), logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go outbox.Run(ctx)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &testServer{Server: server, repo: repo}
}

func (s *testServer) markRead(t *testing.T, body string) (int, dto.StatusResponse) {
	t.Helper()
	resp, err := http.Post(s.URL+"/api/mark-read", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out dto.StatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (s *testServer) record(t *testing.T, id string) model.Notification {
	t.Helper()
	n, err := s.repo.GetNotification(context.Background(), id)
	require.NoError(t, err)
	return n
}

func TestMarkReadFixtureScenario(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.markRead(t, `{"id":"1"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, dto.StatusResponse{Success: true, Message: "Notification status updated.", NotificationID: "1"}, body)
	require.True(t, srv.record(t, "1").IsRead)

	status, body = srv.markRead(t, `{"id":"3"}`)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Notification not found or access is denied.", body.Message)
	require.True(t, srv.record(t, "3").IsRead)
	require.Equal(t, int64(2), srv.record(t, "3").OwnerID)

	status, body = srv.markRead(t, `{"id":"99"}`)
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, body.Success)
	_, err := srv.repo.GetNotification(context.Background(), "99")
	require.ErrorIs(t, err, repository.ErrNotificationNotFound)

	status, body = srv.markRead(t, `{"id":""}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Notification ID is missing.", body.Message)

	status, body = srv.markRead(t, `{"id":"1"}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, body.Success)
	require.True(t, srv.record(t, "1").IsRead)

	status, body = srv.markRead(t, `{"Id":"2"}`)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Notification ID is missing.", body.Message)

	require.False(t, srv.record(t, "2").IsRead)
}

func TestMarkReadCORS(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/mark-read", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://127.0.0.1:5500")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/api/mark-read", bytes.NewReader([]byte(`{"id":"2"}`)))
	require.NoError(t, err)
	req.Header.Set("Origin", "http://127.0.0.1:5500")
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestMarkReadMethodNotRouted(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/mark-read")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReadEventStream(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sse/read-state", nil)
	require.NoError(t, err)
	sseResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = sseResp.Body.Close() }()
	require.Equal(t, http.StatusOK, sseResp.StatusCode)
	require.Equal(t, "text/event-stream", sseResp.Header.Get("Content-Type"))

	events := make(chan string, 1)
	go func() {
		data, err := readSSEData(sseResp.Body, 3*time.Second)
		if err == nil {
			events <- data
		}
	}()

	srv.markRead(t, `{"id":"2"}`)

	select {
	case data := <-events:
		var got model.ReadEvent
		require.NoError(t, json.Unmarshal([]byte(data), &got))
		require.Equal(t, "2", got.NotificationID)
		require.Equal(t, int64(1), got.OwnerID)
	case <-time.After(3 * time.Second):
		t.Fatalf("no read event received")
	}
}

func TestOpsEndpoints(t *testing.T) {
	srv := newTestServer(t)
	srv.markRead(t, `{"id":"99"}`)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `notification_mark_read_total{outcome="not_found_or_denied"}`)
}

func readSSEData(body io.Reader, timeout time.Duration) (string, error) {
	reader := bufio.NewReader(body)
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)

	go func() {
		var dataLines []string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				ch <- result{"", err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			if line == "" {
				if len(dataLines) > 0 {
					ch <- result{strings.Join(dataLines, "\n"), nil}
					return
				}
				continue
			}
			if strings.HasPrefix(line, ":") {
				continue
			}
			if data, ok := strings.CutPrefix(line, "data:"); ok {
				dataLines = append(dataLines, strings.TrimSpace(data))
			}
		}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-time.After(timeout):
		return "", errors.New("timeout waiting for sse data")
	}
}
