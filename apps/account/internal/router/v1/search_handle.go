package v1

import (
	"net/http"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/middleware"
	"SocialServer/apps/account/internal/service"
	"SocialServer/consts"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// SearchHandler 用户检索处理器
type SearchHandler struct {
	userService service.UserService
}

// NewSearchHandler 创建检索处理器
func NewSearchHandler(userService service.UserService) *SearchHandler {
	return &SearchHandler{userService: userService}
}

// Search 按 email / 姓名检索用户
// @Router /search/ [get]
func (h *SearchHandler) Search(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	var req dto.SearchUserRequest
	_ = c.ShouldBindQuery(&req)
	q, ok := dto.ParsePageQuery(req.Page, req.PageSize)
	if !ok {
		result.Fail(c, http.StatusNotFound, consts.CodeInvalidPage, "")
		return
	}

	users, total, err := h.userService.Search(ctx, req.Query, q)
	if err != nil {
		failWithError(ctx, c, err, "检索用户服务内部错误")
		return
	}

	next, previous := dto.PageLinks(requestURL(c), q, total)
	result.JSON(c, http.StatusOK, result.Page[dto.UserItem]{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  dto.ConvertUserItems(users),
	})
}
