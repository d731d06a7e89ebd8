package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pageza/alchemorsel-mealplanner/backend/internal/logger"
)

func limitedRouter(limiter *RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.POST("/write", func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Next()
	}, limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	limiter := NewMutationRateLimiter(client, 1, logger.Nop())

	w := httptest.NewRecorder()
	limitedRouter(limiter, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterWithRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test"}, logger.Nop())
	userID := uuid.New()
	router := limitedRouter(limiter, userID)

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	remaining, _, err := limiter.Remaining(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	remaining, _, err = limiter.Remaining(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}
