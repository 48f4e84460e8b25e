package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first hop", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.2:1234", "198.51.100.7"},
		{"garbage header falls through", map[string]string{"X-Forwarded-For": "nope"}, "192.0.2.1:80", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.9", "192.0.2.9"},
		{"nothing usable", nil, "???", "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, ExtractClientIP(c))
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	assert.True(t, IsPrivateIP("10.1.2.3"))
	assert.True(t, IsPrivateIP("127.0.0.1"))
	assert.True(t, IsPrivateIP("::1"))
	assert.False(t, IsPrivateIP("203.0.113.5"))
	assert.False(t, IsPrivateIP("bogus"))
}

func TestTaskRoundTrip(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}

	task, err := MarshalTask("order:test", payload{OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "order:test", task.Type())

	var got payload
	require.NoError(t, UnmarshalTask(task, &got))
	assert.Equal(t, "o-1", got.OrderID)

	bad := asynq.NewTask("order:test", []byte("{"))
	err = UnmarshalTask(bad, &got)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
