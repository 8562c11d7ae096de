package validator

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurulquran/academy-backend/internal/model"
)

func bindBody(t *testing.T, body string, dst any) map[string]string {
	t.Helper()
	Setup()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return Bind(c, dst)
}

func TestBind_SessionRequest(t *testing.T) {
	var ok model.CreateSessionRequest
	fields := bindBody(t, `{
		"class_id": "7f1c1c64-2b6f-4c0e-9d0e-3f1f1a2b3c4d",
		"teacher_id": "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
		"time_slot": {"day_of_week": 0, "start_minute": 540, "end_minute": 600, "timezone": "Asia/Jakarta"},
		"delivery": {"mode": "ONLINE", "meeting_info": "https://meet.example/x"}
	}`, &ok)
	assert.Nil(t, fields)

	var bad model.CreateSessionRequest
	fields = bindBody(t, `{
		"class_id": "7f1c1c64-2b6f-4c0e-9d0e-3f1f1a2b3c4d",
		"teacher_id": "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
		"time_slot": {"day_of_week": 7, "start_minute": 540, "end_minute": 1440, "timezone": "Mars/Olympus"},
		"delivery": {"mode": "CARRIER_PIGEON"}
	}`, &bad)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "time_slot.day_of_week")
	assert.Contains(t, fields, "time_slot.end_minute")
	assert.Contains(t, fields, "time_slot.timezone")
	assert.Contains(t, fields, "delivery.mode")
	assert.Contains(t, fields["time_slot.day_of_week"], "day of week")
}

func TestBind_MalformedJSON(t *testing.T) {
	var dst model.EnrollmentRequest
	fields := bindBody(t, `{"student_id":`, &dst)
	assert.Contains(t, fields, "detail")
}
