package v1

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/about/"},
		{next: "/friends/", want: "/friends/"},
		{next: "//evil.example.com", want: "/about/"},
		{next: "/\\evil.example.com", want: "/about/"},
		{next: "https://evil.example.com", want: "/about/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirect(tt.next, "/about/"), tt.next)
	}
}

func TestRequestURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/search/?q=al", nil)
	assert.Equal(t, "http://example.com/search/?q=al", requestURL(c).String())

	c.Request.TLS = &tls.ConnectionState{}
	assert.Equal(t, "https://example.com/search/?q=al", requestURL(c).String())

	c.Request.TLS = nil
	c.Request.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com/search/?q=al", requestURL(c).String())
}
