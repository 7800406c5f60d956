package repository

import (
	"SocialServer/consts/redisKey"
	"SocialServer/model"
	"SocialServer/pkg/async"
	"SocialServer/pkg/metrics"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// userRepositoryImpl 用户数据访问层实现
type userRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client // 可为 nil，此时不走缓存
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB, redisClient *redis.Client) IUserRepository {
	return &userRepositoryImpl{db: db, redisClient: redisClient}
}

// Create 创建新用户
func (r *userRepositoryImpl) Create(ctx context.Context, user *model.User) error {
	defer metrics.TrackDB("user_create")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByID 根据 ID 查询用户，Cache-Aside
func (r *userRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	cacheKey := rediskey.UserInfoKey(id)

	// ==================== 1. 先查 Redis ====================
	if r.redisClient != nil {
		cached, err := r.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == rediskey.EmptyPlaceholder {
				return nil, nil
			}
			var user model.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			LogRedisError(ctx, err) // 降级查库
		}
	}

	// ==================== 2. 回源 MySQL ====================
	user, err := r.loadByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// 空值缓存，防穿透
		r.setCache(ctx, cacheKey, rediskey.EmptyPlaceholder, getRandomExpireTime(rediskey.UserInfoEmptyTTL))
		return nil, nil
	}

	// ==================== 3. 异步回填缓存 ====================
	if data, err := json.Marshal(user); err == nil {
		r.setCache(ctx, cacheKey, string(data), getRandomExpireTime(rediskey.UserInfoTTL))
	}
	return user, nil
}

// GetByIDNoCache 根据 ID 直接查库
// 异步回填与激活后的失效之间没有先后保证，激活校验不能读缓存
func (r *userRepositoryImpl) GetByIDNoCache(ctx context.Context, id int64) (*model.User, error) {
	return r.loadByID(ctx, id)
}

func (r *userRepositoryImpl) loadByID(ctx context.Context, id int64) (*model.User, error) {
	defer metrics.TrackDB("user_get_by_id")()
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// GetByUsername 根据用户名查询用户
func (r *userRepositoryImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	defer metrics.TrackDB("user_get_by_username")()
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// ExistsByUsername 检查用户名是否已被占用
func (r *userRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// Activate 激活账号
func (r *userRepositoryImpl) Activate(ctx context.Context, id int64) (bool, error) {
	defer metrics.TrackDB("user_activate")()
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":      true,
			"email_verified": true,
		})
	if result.Error != nil {
		return false, WrapDBError(result.Error)
	}
	// 激活状态参与激活 token 校验，缓存必须同步失效
	r.invalidate(ctx, id)
	return result.RowsAffected > 0, nil
}

// UpdateLastLogin 更新最后登录时间
func (r *userRepositoryImpl) UpdateLastLogin(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", time.Now()).Error
	if err != nil {
		return WrapDBError(err)
	}
	r.invalidate(ctx, id)
	return nil
}

// Search 分页检索用户
func (r *userRepositoryImpl) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.User, int64, error) {
	defer metrics.TrackDB("user_search")()
	pageSize, offset := normalizePage(page, pageSize)

	where, args, err := searchPredicate(keyword).ToSql()
	if err != nil {
		return nil, 0, WrapDBError(err)
	}

	query := r.db.WithContext(ctx).Model(&model.User{}).Where(where, args...)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, WrapDBError(err)
	}
	if total == 0 || int64(offset) >= total {
		return []*model.User{}, total, nil
	}

	var users []*model.User
	err = query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, WrapDBError(err)
	}
	return users, total, nil
}

// searchPredicate email 精确匹配，或名/姓包含匹配，均忽略大小写
func searchPredicate(keyword string) sq.Sqlizer {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	like := "%" + escapeLike(kw) + "%"
	return sq.Or{
		sq.Expr("LOWER(email) = ?", kw),
		sq.Expr("LOWER(first_name) LIKE ?", like),
		sq.Expr("LOWER(last_name) LIKE ?", like),
	}
}

func (r *userRepositoryImpl) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if r.redisClient == nil {
		return
	}
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := r.redisClient.Set(runCtx, key, value, ttl).Err(); err != nil {
			LogRedisError(runCtx, err)
		}
	}, 0)
}

// invalidate 同步删除缓存，失败只记录日志
func (r *userRepositoryImpl) invalidate(ctx context.Context, id int64) {
	if r.redisClient == nil {
		return
	}
	if err := r.redisClient.Del(ctx, rediskey.UserInfoKey(id)).Err(); err != nil {
		LogRedisError(ctx, err)
	}
}
