package dto

import (
	"net/url"
	"strconv"
)

const (
	// DefaultPageSize 默认每页条数
	DefaultPageSize = 10
	// MaxPageSize 客户端可指定的最大每页条数
	MaxPageSize = 100
)

// PageQuery 规范化后的分页参数
type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery 解析 page / page_size。
// page 非正整数时返回 ok=false（调用方按无效页处理）；page_size 非法时使用默认值，超过上限截断。
func ParsePageQuery(rawPage, rawPageSize string) (PageQuery, bool) {
	q := PageQuery{Page: 1, PageSize: DefaultPageSize}

	if rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return q, false
		}
		q.Page = page
	}

	if rawPageSize != "" {
		if size, err := strconv.Atoi(rawPageSize); err == nil && size > 0 {
			q.PageSize = min(size, MaxPageSize)
		}
	}
	return q, true
}

// LastPage 按总数计算最后一页（空结果也有第 1 页）
func LastPage(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// PageLinks 生成上一页/下一页的绝对链接，第 1 页的链接去掉 page 参数
func PageLinks(base *url.URL, q PageQuery, total int64) (next, previous *string) {
	last := LastPage(total, q.PageSize)
	if q.Page < last {
		s := pageURL(base, q.Page+1)
		next = &s
	}
	if q.Page > 1 {
		s := pageURL(base, q.Page-1)
		previous = &s
	}
	return next, previous
}

func pageURL(base *url.URL, page int) string {
	u := *base
	values := u.Query()
	if page <= 1 {
		values.Del("page")
	} else {
		values.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = values.Encode()
	return u.String()
}
