package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesRenderEveryPage(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)
	require.Len(t, Pages, 18)

	for _, name := range Pages {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "affiliate/"+name+".html", nil))
			assert.Contains(t, buf.String(), "<title>"+pageTitle(name)+" | Metronic Shop</title>")
		})
	}
}

func TestAccountTemplatesDefined(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"accounts/signup.html",
		"accounts/login.html",
		"accounts/about.html",
		"accounts/activation_invalid.html",
		"accounts/account_activation_email.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Goods Compare", pageTitle("shop-goods-compare"))
	assert.Equal(t, "Index Light Footer", pageTitle("shop-index-light-footer"))
}
