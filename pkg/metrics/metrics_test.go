package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBeforeInitIsNoop(t *testing.T) {
	if HTTPRequestsTotal != nil {
		t.Skip("metrics already initialized in this process")
	}
	assert.NotPanics(t, func() {
		ObserveHTTP("GET", "/x", "200", time.Millisecond)
		RecordMail("welcome", nil)
		TrackDB("noop")()
	})
}

func TestRecordAfterInit(t *testing.T) {
	Init("test")
	Init("test") // 重复调用不会重复注册

	RecordFriendRequest("send", "ok")
	RecordFriendRequest("send", "ok")
	RecordMail("activation", errors.New("smtp down"))

	assert.Equal(t, float64(2), testutil.ToFloat64(FriendRequestOps.WithLabelValues("send", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(MailSent.WithLabelValues("activation", "error")))
}
