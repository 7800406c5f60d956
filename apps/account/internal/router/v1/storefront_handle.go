package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StorefrontHandler 商城静态页面
type StorefrontHandler struct{}

// NewStorefrontHandler 创建商城页面处理器
func NewStorefrontHandler() *StorefrontHandler {
	return &StorefrontHandler{}
}

// Page 返回渲染 affiliate/<name>.html 的处理函数
func (h *StorefrontHandler) Page(name string) gin.HandlerFunc {
	tpl := "affiliate/" + name + ".html"
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, tpl, gin.H{"page": name})
	}
}
