package service

import (
	"context"
	"errors"
	"time"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/model"
	"SocialServer/pkg/idgen"
	"SocialServer/pkg/logger"
	"SocialServer/pkg/metrics"
)

// friendServiceImpl 好友申请服务实现
type friendServiceImpl struct {
	userRepo    repository.IUserRepository
	requestRepo repository.IFriendRequestRepository
	limiter     repository.ISendLimiter
	now         func() time.Time
}

// NewFriendService 创建好友申请服务实例
func NewFriendService(
	userRepo repository.IUserRepository,
	requestRepo repository.IFriendRequestRepository,
	limiter repository.ISendLimiter,
) FriendService {
	return &friendServiceImpl{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		limiter:     limiter,
		now:         time.Now,
	}
}

// Send 发送好友申请
// 业务流程（顺序固定，限流最先判断）：
//  1. 滑动窗口限流
//  2. 不能向自己发送
//  3. 目标用户必须存在
//  4. 同一有序对只能有一条申请
//  5. 创建 pending 申请
//
// 错误：
//   - ErrRateLimited / ErrSelfRequest / ErrUserNotFound / ErrAlreadyExists
//   - ErrInternal: 系统内部错误
func (s *friendServiceImpl) Send(ctx context.Context, fromUserID, toUserID int64) (*model.FriendRequest, error) {
	// 1. 限流
	allowed, err := s.limiter.Allow(ctx, fromUserID)
	if err != nil {
		logger.Warn(ctx, "好友申请限流检查失败，放行", logger.ErrorField("error", err))
		allowed = true
	}
	if !allowed {
		metrics.RecordFriendRequest("send", "rate_limited")
		return nil, ErrRateLimited
	}

	// 2. 自己
	if fromUserID == toUserID {
		metrics.RecordFriendRequest("send", "self")
		return nil, ErrSelfRequest
	}

	// 3. 目标用户
	target, err := s.userRepo.GetByID(ctx, toUserID)
	if err != nil {
		logger.Error(ctx, "查询目标用户失败", logger.Int64("to_user_id", toUserID), logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if target == nil {
		metrics.RecordFriendRequest("send", "user_not_found")
		return nil, ErrUserNotFound
	}

	// 4. 查重
	exists, err := s.requestRepo.Exists(ctx, fromUserID, toUserID)
	if err != nil {
		logger.Error(ctx, "查询好友申请失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if exists {
		metrics.RecordFriendRequest("send", "exists")
		return nil, ErrAlreadyExists
	}

	// 5. 创建，唯一索引兜底并发重复
	req := &model.FriendRequest{
		Id:         idgen.NextID(),
		FromUserId: fromUserID,
		ToUserId:   toUserID,
		Status:     model.FriendRequestPending,
		Timestamp:  s.now(),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			metrics.RecordFriendRequest("send", "exists")
			return nil, ErrAlreadyExists
		}
		logger.Error(ctx, "创建好友申请失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}

	metrics.RecordFriendRequest("send", "ok")
	logger.Info(ctx, "好友申请已发送",
		logger.Int64("request_id", req.Id),
		logger.Int64("from_user_id", fromUserID),
		logger.Int64("to_user_id", toUserID),
	)
	return req, nil
}

// actionStatus accept / reject -> 目标状态
var actionStatus = map[string]model.FriendRequestStatus{
	"accept": model.FriendRequestAccepted,
	"reject": model.FriendRequestRejected,
}

// Respond 处理好友申请
// 终态不可变：重复同一动作幂等成功；对已处理申请执行另一动作返回 ErrAlreadyResponded。
//
// 错误：
//   - ErrNotFound: 不存在 fromUserID -> responderID 的申请
//   - ErrInvalidAction: action 不是 accept / reject
//   - ErrAlreadyResponded: 申请已被处理为另一种状态
func (s *friendServiceImpl) Respond(ctx context.Context, responderID, fromUserID int64, action string) (*model.FriendRequest, error) {
	// 1. 查询申请
	req, err := s.requestRepo.GetByPair(ctx, fromUserID, responderID)
	if err != nil {
		logger.Error(ctx, "查询好友申请失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if req == nil {
		metrics.RecordFriendRequest("respond", "not_found")
		return nil, ErrNotFound
	}

	// 2. 校验动作
	target, ok := actionStatus[action]
	if !ok {
		metrics.RecordFriendRequest("respond", "invalid_action")
		return nil, ErrInvalidAction
	}

	// 3. 已处理
	if req.Status.IsTerminal() {
		return s.settled(req, target)
	}

	// 4. CAS 更新
	updated, err := s.requestRepo.UpdateStatusIfPending(ctx, req.Id, target)
	if err != nil {
		logger.Error(ctx, "更新好友申请状态失败", logger.Int64("request_id", req.Id), logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	if !updated {
		// 并发下被其他请求抢先处理，按最新状态判断
		latest, err := s.requestRepo.GetByPair(ctx, fromUserID, responderID)
		if err != nil {
			logger.Error(ctx, "查询好友申请失败", logger.ErrorField("error", err))
			return nil, ErrInternal
		}
		if latest == nil {
			return nil, ErrNotFound
		}
		return s.settled(latest, target)
	}

	req.Status = target
	metrics.RecordFriendRequest("respond", string(target))
	logger.Info(ctx, "好友申请已处理",
		logger.Int64("request_id", req.Id),
		logger.String("status", string(target)),
	)
	return req, nil
}

// settled 已处于终态的申请：同一状态幂等成功，否则拒绝
func (s *friendServiceImpl) settled(req *model.FriendRequest, target model.FriendRequestStatus) (*model.FriendRequest, error) {
	if req.Status == target {
		metrics.RecordFriendRequest("respond", "idempotent")
		return req, nil
	}
	metrics.RecordFriendRequest("respond", "already_responded")
	return nil, ErrAlreadyResponded
}

// ListFriends 好友列表
func (s *friendServiceImpl) ListFriends(ctx context.Context, userID int64) ([]*model.User, error) {
	friends, err := s.requestRepo.ListFriends(ctx, userID)
	if err != nil {
		logger.Error(ctx, "查询好友列表失败", logger.ErrorField("error", err))
		return nil, ErrInternal
	}
	return friends, nil
}

// ListPending 待处理申请分页
func (s *friendServiceImpl) ListPending(ctx context.Context, userID int64, q dto.PageQuery) ([]*model.FriendRequest, int64, error) {
	requests, total, err := s.requestRepo.ListPending(ctx, userID, q.Page, q.PageSize)
	if err != nil {
		logger.Error(ctx, "查询待处理申请失败", logger.ErrorField("error", err))
		return nil, 0, ErrInternal
	}
	if q.Page > dto.LastPage(total, q.PageSize) {
		return nil, 0, ErrInvalidPage
	}
	return requests, total, nil
}
