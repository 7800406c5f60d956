package service

import (
	"context"
	"testing"

	"SocialServer/apps/account/internal/dto"
	"SocialServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	initServiceTestLogger()
	calls := 0
	users := &fakeUserRepo{
		searchFn: func(_ context.Context, keyword string, page, pageSize int) ([]*model.User, int64, error) {
			calls++
			assert.Equal(t, "alice", keyword)
			if page > 1 {
				return []*model.User{}, 3, nil
			}
			return []*model.User{{Id: 1}, {Id: 2}, {Id: 3}}, 3, nil
		},
	}
	svc := NewUserService(users)

	tests := []struct {
		name      string
		query     string
		page      int
		wantLen   int
		wantErr   error
		wantCalls int
	}{
		{name: "empty query returns empty page", query: "   ", page: 1, wantLen: 0},
		{name: "empty query past first page", query: "", page: 2, wantErr: ErrInvalidPage},
		{name: "match", query: " alice ", page: 1, wantLen: 3, wantCalls: 1},
		{name: "page past the end", query: "alice", page: 2, wantErr: ErrInvalidPage, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			got, _, err := svc.Search(context.Background(), tt.query, dto.PageQuery{Page: tt.page, PageSize: 10})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}
