package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conerr "github.com/felixgeelhaar/eduplay-console/internal/errors"
)

var userSchema = Schema{
	{Key: "email", Label: "Email", Kind: KindEmail, Required: true},
	{Key: "username", Label: "Username", Kind: KindText, Required: true},
	{Key: "full_name", Label: "Full Name", Kind: KindText, Required: true},
	{Key: "age", Label: "Age", Kind: KindNumber},
	{Key: "plan", Label: "Plan", Kind: KindChoice, Options: []string{"Standard", "Upgraded"}, Default: "Standard"},
	{Key: "bio", Label: "Bio", Kind: KindLongText},
}

func TestNewDraft_Defaults(t *testing.T) {
	d := NewDraft(userSchema)
	assert.Equal(t, "Standard", d.Get("plan"))
	assert.Equal(t, "", d.Get("email"))
	assert.Len(t, d.Values(), len(userSchema))
}

func TestDraft_PayloadCoercesNumbers(t *testing.T) {
	d := NewDraft(userSchema)
	require.NoError(t, d.Set("email", "a@b.com"))
	require.NoError(t, d.Set("username", "abuser"))
	require.NoError(t, d.Set("full_name", "A B"))
	require.NoError(t, d.Set("age", "12"))

	payload, err := d.Payload()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"email":     "a@b.com",
		"username":  "abuser",
		"full_name": "A B",
		"age":       12,
		"plan":      "Standard",
	}, payload)
}

func TestDraft_PayloadErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		code  conerr.ErrorCode
	}{
		{"bad number", "age", "twelve", conerr.ErrCodeFormInvalidNumber},
		{"bad email", "email", "not-an-email", conerr.ErrCodeFormInvalidEmail},
		{"bad choice", "plan", "Gold", conerr.ErrCodeFormInvalidChoice},
		{"missing required", "username", "", conerr.ErrCodeFormRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft(userSchema)
			require.NoError(t, d.Set("email", "a@b.com"))
			require.NoError(t, d.Set("username", "abuser"))
			require.NoError(t, d.Set("full_name", "A B"))
			require.NoError(t, d.Set(tt.field, tt.value))

			_, err := d.Payload()
			var ce *conerr.ConsoleError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
		})
	}
}

func TestDraft_SetUnknownField(t *testing.T) {
	d := NewDraft(userSchema)
	err := d.Set("password", "x")

	var ce *conerr.ConsoleError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, conerr.ErrCodeFormUnknownField, ce.Code)
}

func TestDraft_PtrEditsInPlace(t *testing.T) {
	d := NewDraft(userSchema)
	p := d.Ptr("username")
	require.NotNil(t, p)
	*p = "typed"
	assert.Equal(t, "typed", d.Get("username"))
	assert.Nil(t, d.Ptr("nope"))
}

func TestEditDraft_ShallowCopy(t *testing.T) {
	age := 11
	record := struct {
		ID       string `json:"id"`
		Email    string `json:"email"`
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Age      *int   `json:"age"`
		Plan     string `json:"plan"`
		Score    int    `json:"total_score"`
	}{ID: "u1", Email: "s@d.com", Username: "sophia_d", FullName: "Sophia Davis", Age: &age, Plan: "Upgraded", Score: 12340}

	d, err := EditDraft(userSchema, record)
	require.NoError(t, err)

	assert.Equal(t, "sophia_d", d.Get("username"))
	assert.Equal(t, "11", d.Get("age"))
	assert.Equal(t, "Upgraded", d.Get("plan"))
	assert.Equal(t, "", d.Get("bio"))

	// Editing the draft never touches the record.
	require.NoError(t, d.Set("username", "changed"))
	assert.Equal(t, "sophia_d", record.Username)
}

func TestEditDraft_PayloadSendsClearedFields(t *testing.T) {
	age := 11
	record := map[string]any{
		"email": "s@d.com", "username": "sophia_d", "full_name": "Sophia Davis",
		"age": age, "plan": "Upgraded", "bio": "Loves puzzles",
	}
	d, err := EditDraft(userSchema, record)
	require.NoError(t, err)

	require.NoError(t, d.Set("bio", ""))
	require.NoError(t, d.Set("age", " "))
	require.NoError(t, d.Set("plan", ""))

	payload, err := d.Payload()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"email":     "s@d.com",
		"username":  "sophia_d",
		"full_name": "Sophia Davis",
		"age":       nil,
		"bio":       "",
	}, payload)

	// A new record still omits what was left blank.
	blank := NewDraft(userSchema)
	require.NoError(t, blank.Set("email", "a@b.com"))
	require.NoError(t, blank.Set("username", "abuser"))
	require.NoError(t, blank.Set("full_name", "A B"))
	payload, err = blank.Payload()
	require.NoError(t, err)
	assert.NotContains(t, payload, "bio")
	assert.NotContains(t, payload, "age")
}

func TestDraft_DecimalField(t *testing.T) {
	d := NewDraft(Schema{{Key: "rating", Label: "Rating", Kind: KindDecimal}})
	require.NoError(t, d.Set("rating", " 4.5 "))

	payload, err := d.Payload()
	require.NoError(t, err)
	assert.Equal(t, 4.5, payload["rating"])
}

func TestFieldKind(t *testing.T) {
	assert.True(t, KindNumber.Numeric())
	assert.True(t, KindDecimal.Numeric())
	assert.False(t, KindText.Numeric())
	assert.Equal(t, "email", KindEmail.String())
	assert.Equal(t, []string{"email", "username", "full_name", "age", "plan", "bio"}, userSchema.Keys())
}

func TestField_CheckMatchesPayload(t *testing.T) {
	age := Field{Key: "age", Label: "Age", Kind: KindNumber}
	assert.NoError(t, age.Check(""))
	assert.NoError(t, age.Check(" 12 "))
	assert.Error(t, age.Check("twelve"))

	email := Field{Key: "email", Label: "Email", Kind: KindEmail, Required: true}
	assert.Error(t, email.Check("   "))
	assert.Error(t, email.Check("Bob <bob@example.com>"))
	assert.NoError(t, email.Check("bob@example.com"))

	plan := Field{Key: "plan", Label: "Plan", Kind: KindChoice, Options: []string{"free", "premium"}}
	assert.NoError(t, plan.Check("premium"))
	assert.Error(t, plan.Check("gold"))
}
