package egret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler(c *Context) Result { return None }

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    []patternToken
		wantErr bool
	}{
		{
			name:    "literal only",
			pattern: "/health",
			want:    []patternToken{{literal: "/health"}},
		},
		{
			name:    "default string converter",
			pattern: "/users/<name>",
			want: []patternToken{
				{literal: "/users/"},
				{name: "name", conv: convString, isParam: true},
			},
		},
		{
			name:    "explicit int converter",
			pattern: "/users/<int:id>",
			want: []patternToken{
				{literal: "/users/"},
				{name: "id", conv: convInt, isParam: true},
			},
		},
		{
			name:    "path converter mid-pattern",
			pattern: "/files/<path:rest>/meta",
			want: []patternToken{
				{literal: "/files/"},
				{name: "rest", conv: convPath, isParam: true},
				{literal: "/meta"},
			},
		},
		{
			name:    "unterminated placeholder",
			pattern: "/users/<id",
			wantErr: true,
		},
		{
			name:    "unknown converter",
			pattern: "/users/<uuid:id>",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePattern(tt.pattern)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileRuleAndMatch(t *testing.T) {
	r := &Rule{Pattern: "/users/<int:id>", Methods: []string{"GET"}, Handler: noopHandler}
	require.NoError(t, compileRule(r))

	m := r.match("/users/42")
	require.True(t, m.matched)
	assert.Equal(t, "42", m.params["id"])

	m = r.match("/users/abc")
	assert.False(t, m.matched)
}

func TestCompileRuleBranchTail(t *testing.T) {
	r := &Rule{Pattern: "/static", Branch: true, Handler: noopHandler}
	require.NoError(t, compileRule(r))

	m := r.match("/static/css/site.css")
	require.True(t, m.matched)
	assert.Equal(t, []string{"css", "site.css"}, m.tail)

	m = r.match("/static")
	require.True(t, m.matched)
	assert.Nil(t, m.tail)
}

func TestCompileRuleRootBranchTail(t *testing.T) {
	r := &Rule{Pattern: "/", Branch: true, Handler: noopHandler}
	require.NoError(t, compileRule(r))

	m := r.match("/foo")
	require.True(t, m.matched)
	assert.Equal(t, []string{"foo"}, m.tail)

	m = r.match("/")
	require.True(t, m.matched)
	assert.Nil(t, m.tail)
}

func TestStrictSlashesLooseMatch(t *testing.T) {
	r := &Rule{Pattern: "/about/", Handler: noopHandler}
	require.NoError(t, compileRule(r))

	assert.True(t, r.match("/about/").matched)
	assert.True(t, r.match("/about").matched)
}

func TestAllowsMethod(t *testing.T) {
	r := &Rule{Methods: []string{"GET", "HEAD"}}
	assert.True(t, r.allowsMethod("get"))
	assert.True(t, r.allowsMethod("HEAD"))
	assert.False(t, r.allowsMethod("POST"))

	any := &Rule{}
	assert.True(t, any.allowsMethod("DELETE"))
}
