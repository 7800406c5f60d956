package web

import (
	"embed"
	"html/template"
	"strings"
	"time"
)

//go:embed templates
var files embed.FS

// Pages 18 个商城页面名，路由为 /shop/<name>/，模板为 affiliate/<name>.html
var Pages = []string{
	"shop-about",
	"shop-account",
	"shop-checkout",
	"shop-contacts",
	"shop-faq",
	"shop-goods-compare",
	"shop-index",
	"shop-index-header-fix",
	"shop-index-light-footer",
	"shop-item",
	"shop-privacy-policy",
	"shop-product-list",
	"shop-search-result",
	"shop-shopping-cart",
	"shop-shopping-cart-null",
	"shop-standard-forms",
	"shop-terms-conditions-page",
	"shop-wishlist",
}

// Templates 解析全部内嵌模板。模板通过 {{define "目录/文件名"}} 命名。
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"title": pageTitle,
		"year":  func() int { return time.Now().Year() },
	}).ParseFS(files,
		"templates/accounts/*.html",
		"templates/affiliate/*.html",
	)
}

// pageTitle shop-goods-compare -> Goods Compare
func pageTitle(name string) string {
	words := strings.Split(strings.TrimPrefix(name, "shop-"), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
