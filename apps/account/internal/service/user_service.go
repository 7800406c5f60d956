package service

import (
	"context"
	"strings"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/apps/account/internal/repository"
	"SocialServer/model"
	"SocialServer/pkg/logger"
)

// userServiceImpl 用户检索服务实现
type userServiceImpl struct {
	userRepo repository.IUserRepository
}

// NewUserService 创建用户检索服务实例
func NewUserService(userRepo repository.IUserRepository) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

// Search 检索用户。关键字为空时返回空页；页码超过最后一页返回 ErrInvalidPage。
func (s *userServiceImpl) Search(ctx context.Context, query string, q dto.PageQuery) ([]*model.User, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		if q.Page > 1 {
			return nil, 0, ErrInvalidPage
		}
		return []*model.User{}, 0, nil
	}

	users, total, err := s.userRepo.Search(ctx, query, q.Page, q.PageSize)
	if err != nil {
		logger.Error(ctx, "检索用户失败",
			logger.String("query", query),
			logger.ErrorField("error", err),
		)
		return nil, 0, ErrInternal
	}
	if q.Page > dto.LastPage(total, q.PageSize) {
		return nil, 0, ErrInvalidPage
	}
	return users, total, nil
}
