package v1

import (
	"net/http"
	"strconv"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/middleware"
	"SocialServer/apps/account/internal/service"
	"SocialServer/consts"
	"SocialServer/model"
	"SocialServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// FriendHandler 好友申请处理器
type FriendHandler struct {
	friendService service.FriendService
}

// NewFriendHandler 创建好友处理器
func NewFriendHandler(friendService service.FriendService) *FriendHandler {
	return &FriendHandler{
		friendService: friendService,
	}
}

// Send 发送好友申请
// @Router /friend-request/send/{user_id}/ [post]
func (h *FriendHandler) Send(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	fromUserID, _ := middleware.CurrentUserID(c)

	// 1. 解析路径参数
	toUserID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		result.Fail(c, http.StatusBadRequest, consts.CodeParamError, "")
		return
	}

	// 2. 调用服务层
	if _, err := h.friendService.Send(ctx, fromUserID, toUserID); err != nil {
		failWithError(ctx, c, err, "发送好友申请服务内部错误")
		return
	}

	result.Message(c, http.StatusCreated, "Friend request sent.")
}

// Respond 处理好友申请
// request_id 是申请发起人的用户 id
// @Router /friend-request/respond/{request_id}/{action}/ [post]
func (h *FriendHandler) Respond(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	responderID, _ := middleware.CurrentUserID(c)

	fromUserID, err := strconv.ParseInt(c.Param("request_id"), 10, 64)
	if err != nil {
		result.Fail(c, http.StatusBadRequest, consts.CodeParamError, "")
		return
	}

	req, err := h.friendService.Respond(ctx, responderID, fromUserID, c.Param("action"))
	if err != nil {
		failWithError(ctx, c, err, "处理好友申请服务内部错误")
		return
	}

	if req.Status == model.FriendRequestAccepted {
		result.Message(c, http.StatusOK, "Friend request accepted.")
		return
	}
	result.Message(c, http.StatusOK, "Friend request rejected.")
}

// ListFriends 好友列表
// @Router /friends/ [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	userID, _ := middleware.CurrentUserID(c)

	friends, err := h.friendService.ListFriends(ctx, userID)
	if err != nil {
		failWithError(ctx, c, err, "获取好友列表服务内部错误")
		return
	}

	result.JSON(c, http.StatusOK, dto.ConvertUserItems(friends))
}

// ListPending 收到的待处理申请（分页）
// @Router /friend-requests/pending/ [get]
func (h *FriendHandler) ListPending(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)
	userID, _ := middleware.CurrentUserID(c)

	var req dto.ListPendingRequest
	_ = c.ShouldBindQuery(&req)
	q, ok := dto.ParsePageQuery(req.Page, req.PageSize)
	if !ok {
		result.Fail(c, http.StatusNotFound, consts.CodeInvalidPage, "")
		return
	}

	reqs, total, err := h.friendService.ListPending(ctx, userID, q)
	if err != nil {
		failWithError(ctx, c, err, "获取待处理申请服务内部错误")
		return
	}

	next, previous := dto.PageLinks(requestURL(c), q, total)
	result.JSON(c, http.StatusOK, result.Page[dto.FriendRequestItem]{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  dto.ConvertFriendRequestItems(reqs),
	})
}
