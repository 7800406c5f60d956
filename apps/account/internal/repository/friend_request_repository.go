package repository

import (
	"SocialServer/model"
	"SocialServer/pkg/metrics"
	"context"
	"errors"

	"gorm.io/gorm"
)

// friendRequestRepositoryImpl 好友申请数据访问层实现
type friendRequestRepositoryImpl struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建好友申请仓储实例
func NewFriendRequestRepository(db *gorm.DB) IFriendRequestRepository {
	return &friendRequestRepositoryImpl{db: db}
}

// Create 创建好友申请，唯一索引 uidx_from_to 兜底并发重复发送
func (r *friendRequestRepositoryImpl) Create(ctx context.Context, req *model.FriendRequest) error {
	defer metrics.TrackDB("friend_request_create")()
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// Exists 检查 from -> to 的申请是否存在
func (r *friendRequestRepositoryImpl) Exists(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// GetByPair 查询 from -> to 的申请
func (r *friendRequestRepositoryImpl) GetByPair(ctx context.Context, fromUserID, toUserID int64) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &req, nil
}

// UpdateStatusIfPending CAS 更新申请状态
func (r *friendRequestRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id int64, status model.FriendRequestStatus) (bool, error) {
	defer metrics.TrackDB("friend_request_respond")()
	result := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("id = ? AND status = ?", id, model.FriendRequestPending).
		Update("status", status)
	if result.Error != nil {
		return false, WrapDBError(result.Error)
	}
	// RowsAffected=0 表示已被处理（或不存在）
	return result.RowsAffected > 0, nil
}

// ListFriends 查询好友列表
func (r *friendRequestRepositoryImpl) ListFriends(ctx context.Context, userID int64) ([]*model.User, error) {
	defer metrics.TrackDB("friend_list")()
	var users []*model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("users.*").
		Joins("JOIN friend_requests fr ON (fr.from_user_id = ? AND fr.to_user_id = users.id) OR (fr.to_user_id = ? AND fr.from_user_id = users.id)", userID, userID).
		Where("fr.status = ?", model.FriendRequestAccepted).
		Order("fr.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, WrapDBError(err)
	}

	// 双向都已接受时同一用户会出现两次，保留先出现的
	seen := make(map[int64]struct{}, len(users))
	friends := make([]*model.User, 0, len(users))
	for _, u := range users {
		if _, ok := seen[u.Id]; ok {
			continue
		}
		seen[u.Id] = struct{}{}
		friends = append(friends, u)
	}
	return friends, nil
}

// ListPending 分页查询待处理申请
func (r *friendRequestRepositoryImpl) ListPending(ctx context.Context, userID int64, page, pageSize int) ([]*model.FriendRequest, int64, error) {
	defer metrics.TrackDB("friend_request_list_pending")()
	pageSize, offset := normalizePage(page, pageSize)

	query := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("to_user_id = ? AND status = ?", userID, model.FriendRequestPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, WrapDBError(err)
	}
	if total == 0 || int64(offset) >= total {
		return []*model.FriendRequest{}, total, nil
	}

	var requests []*model.FriendRequest
	err := query.
		Preload("FromUser").
		Preload("ToUser").
		Order("id ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, 0, WrapDBError(err)
	}
	return requests, total, nil
}
