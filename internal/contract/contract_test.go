package contract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/eduplay-console/internal/catalog"
	"github.com/felixgeelhaar/eduplay-console/internal/resource"
)

func loadContract(t *testing.T) *Contract {
	t.Helper()
	c, err := Load(context.Background())
	require.NoError(t, err)
	return c
}

func TestLoad(t *testing.T) {
	c := loadContract(t)
	assert.Equal(t, "1.0.0", c.Version())

	ops := c.Operations()
	assert.Equal(t, []string{"GET", "POST"}, ops["/users"])
	assert.Equal(t, []string{"DELETE", "GET", "PUT"}, ops["/users/{id}"])
	assert.Equal(t, []string{"POST"}, ops["/live-effects/send"])
}

func TestHasOperation(t *testing.T) {
	c := loadContract(t)

	assert.True(t, c.HasOperation("get", "/stats/dashboard"))
	assert.True(t, c.HasOperation("DELETE", "/admins/{admin_id}"))
	assert.True(t, c.HasOperation("PUT", "/users/{id}/"))
	assert.False(t, c.HasOperation("POST", "/revenue"))
	assert.False(t, c.HasOperation("GET", "/classrooms"))
}

func TestCheckEndpoints_Catalog(t *testing.T) {
	c := loadContract(t)

	var endpoints []resource.Endpoint
	for _, d := range catalog.All() {
		endpoints = append(endpoints, d.Endpoint())
	}

	assert.Empty(t, c.CheckEndpoints(endpoints))
}

func TestCheckEndpoints_Missing(t *testing.T) {
	c := loadContract(t)

	findings := c.CheckEndpoints([]resource.Endpoint{{
		Name:       "classrooms",
		ListPath:   "/classrooms",
		CreatePath: "/classrooms",
	}})
	require.Len(t, findings, 2)
	assert.Equal(t, "MISSING_OPERATION", findings[0].Code)
	assert.Equal(t, "GET", findings[0].Method)
	assert.Equal(t, "POST", findings[1].Method)
}

func TestValidateRequest(t *testing.T) {
	c := loadContract(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		wantErr bool
		loc     []string
	}{
		{"valid user create", "POST", "/users", `{"email":"a@b.com","username":"abuser","full_name":"A B","age":12}`, false, nil},
		{"age as string", "POST", "/users", `{"email":"a@b.com","username":"abuser","full_name":"A B","age":"12"}`, true, []string{"body", "age"}},
		{"unknown plan", "PUT", "/users/u1", `{"plan":"Gold"}`, true, []string{"body", "plan"}},
		{"missing login password", "POST", "/admin/login", `{"username":"admin"}`, true, []string{"body"}},
		{"bad effect type", "POST", "/live-effects/send", `{"user_id":"u1","effect_type":"sound","content":"hi"}`, true, []string{"body", "effect_type"}},
		{"list needs no body", "GET", "/revenue", "", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}

			err := c.ValidateRequest(ctx, req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			issues := Issues(err)
			require.NotEmpty(t, issues)
			if len(tt.loc) > 0 {
				assert.Equal(t, tt.loc[0], issues[0].Loc[0])
				if len(tt.loc) > 1 {
					assert.Contains(t, issues[0].Loc, tt.loc[1])
				}
			}
			assert.NotEmpty(t, issues[0].Msg)
		})
	}
}

func TestValidateRequest_UnknownRoute(t *testing.T) {
	c := loadContract(t)

	req := httptest.NewRequest("GET", "/classrooms", nil)
	err := c.ValidateRequest(context.Background(), req)
	assert.True(t, errors.Is(err, ErrUnknownRoute))
}

func TestIssues_PlainError(t *testing.T) {
	assert.Nil(t, Issues(nil))

	issues := Issues(errors.New("boom"))
	require.Len(t, issues, 1)
	assert.Equal(t, "boom", issues[0].Msg)
}

func TestDocument(t *testing.T) {
	doc := Document()
	assert.Contains(t, string(doc), "EduPlay Admin API")
	doc[0] = 'x'
	assert.NotEqual(t, byte('x'), Document()[0])
}
