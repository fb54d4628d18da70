package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Equality", func(t *testing.T) {
		f, err := Parse(`userName eq "kkl"`)
		require.NoError(t, err)
		assert.Equal(t, Equality{Path: AttributePath{Name: "userName"}, Value: "kkl"}, f)
	})
	t.Run("SubAttribute", func(t *testing.T) {
		f, err := Parse(`name.familyName EQ "Lei"`)
		require.NoError(t, err)
		assert.Equal(t, Eq("name.familyName", "Lei"), f)
	})
	t.Run("OrChain", func(t *testing.T) {
		f, err := Parse(`email eq "klei@example.com" or email eq "bjensen@example.com"`)
		require.NoError(t, err)
		assert.Equal(t, AnyOf(Eq("email", "klei@example.com"), Eq("email", "bjensen@example.com")), f)
	})
	t.Run("CustomNamespace", func(t *testing.T) {
		f, err := Parse(`urn:okta:onprem_app:1.0:user:custom:isAdmin eq true`)
		require.NoError(t, err)
		assert.Equal(t, Equality{
			Path:  AttributePath{Schema: "urn:okta:onprem_app:1.0:user:custom", Name: "isAdmin"},
			Value: "true",
		}, f)
	})
	t.Run("EscapedQuote", func(t *testing.T) {
		f, err := Parse(`userName eq "a\"b"`)
		require.NoError(t, err)
		assert.Equal(t, `a"b`, f.(Equality).Value)
	})
	t.Run("Unsupported", func(t *testing.T) {
		for _, expr := range []string{
			``,
			`userName co "kk"`,
			`userName eq "a" and id eq "1"`,
			`(userName eq "a")`,
			`emails[type eq "work"]`,
			`userName eq`,
			`userName eq "open`,
			`userName eq "a" or`,
		} {
			_, err := Parse(expr)
			assert.ErrorIs(t, err, ErrUnsupportedFilter, expr)
		}
	})
}

func TestParsePath(t *testing.T) {
	assert.Equal(t, AttributePath{Name: "emails", SubAttribute: "value"}, ParsePath("emails.value"))
	assert.Equal(t, AttributePath{
		Schema: "urn:okta:app:1.0:user:custom", Name: "address", SubAttribute: "city",
	}, ParsePath("urn:okta:app:1.0:user:custom:address.city"))
	assert.Equal(t, "urn:okta:app:1.0:user:custom:address.city",
		ParsePath("urn:okta:app:1.0:user:custom:address.city").String())
}
