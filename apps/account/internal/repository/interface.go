package repository

import (
	"SocialServer/model"
	"context"
)

// ==================== 用户 Repository ====================

// IUserRepository 用户数据访问接口
type IUserRepository interface {
	// Create 创建新用户，用户名冲突时返回 ErrDuplicateKey
	Create(ctx context.Context, user *model.User) error

	// GetByID 根据 ID 查询用户（带缓存），不存在时返回 (nil, nil)
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// GetByIDNoCache 直接查库，不读也不回填缓存，用于依赖最新状态的校验
	GetByIDNoCache(ctx context.Context, id int64) (*model.User, error)

	// GetByUsername 根据用户名查询用户，不存在时返回 (nil, nil)
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// ExistsByUsername 检查用户名是否已被占用
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Activate 激活账号并标记邮箱已验证，返回是否发生了变更
	Activate(ctx context.Context, id int64) (bool, error)

	// UpdateLastLogin 更新最后登录时间
	UpdateLastLogin(ctx context.Context, id int64) error

	// Search 按 email 精确匹配或姓名包含匹配（均不区分大小写）分页检索，按 id 升序
	Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.User, int64, error)
}

// ==================== 好友申请 Repository ====================

// IFriendRequestRepository 好友申请数据访问接口
type IFriendRequestRepository interface {
	// Create 创建好友申请，同一有序对已存在时返回 ErrDuplicateKey
	Create(ctx context.Context, req *model.FriendRequest) error

	// Exists 检查 from -> to 的申请是否存在（不论状态）
	Exists(ctx context.Context, fromUserID, toUserID int64) (bool, error)

	// GetByPair 查询 from -> to 的申请，不存在时返回 (nil, nil)
	GetByPair(ctx context.Context, fromUserID, toUserID int64) (*model.FriendRequest, error)

	// UpdateStatusIfPending 仅当申请仍处于 pending 时更新状态（CAS）
	// 返回值: true=本次更新生效, false=申请已被处理
	UpdateStatusIfPending(ctx context.Context, id int64, status model.FriendRequestStatus) (bool, error)

	// ListFriends 返回与 userID 之间存在已接受申请（任一方向）的用户，按申请 id 升序、去重
	ListFriends(ctx context.Context, userID int64) ([]*model.User, error)

	// ListPending 分页查询发给 userID 的待处理申请，按申请 id 升序
	ListPending(ctx context.Context, userID int64, page, pageSize int) ([]*model.FriendRequest, int64, error)
}

// ==================== 限流 ====================

// ISendLimiter 好友申请发送频率限制
type ISendLimiter interface {
	// Allow 判断本次发送是否允许；允许时计入窗口
	Allow(ctx context.Context, userID int64) (bool, error)
}
