package itemtests

import (
	"net/http"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invalidToken = "not-a-valid-token"

func DoAuthTests(t *T) {
	t.Run("login returns access token", func(t *T) {
		resp := t.requireResponse(t.Anonymous().Login(t.Context(), t.Credentials()))
		t.RequireStatus(resp, http.StatusOK)
		t.RequireSchema(tokenSchema, resp, "login response")

		var token servicedef.TokenResponse
		require.NoError(t, resp.JSON(&token))
		assert.NotEmpty(t, token.AccessToken)
	})

	t.Run("login with wrong password is rejected", func(t *T) {
		creds := t.Credentials()
		creds.Password += "-" + t.Data().Title()
		resp := t.requireResponse(t.Anonymous().Login(t.Context(), creds))
		t.AssertNotServerError(resp)
		assert.GreaterOrEqual(t, resp.StatusCode, 400, "wrong password was accepted: %s", resp)
		assert.False(t, resp.HasField("access_token"), "response to wrong password contains a token")
	})

	t.Run("no token", func(t *T) {
		t.Run("create", func(t *T) {
			resp := t.requireResponse(t.Anonymous().CreateItem(t.Context(), t.Data().ItemPayload()))
			t.cleanupIfCreated(resp)
			t.RequireStatus(resp, http.StatusUnauthorized)
			t.RequireErrorDetail(resp)
		})

		t.Run("list", func(t *T) {
			resp := t.requireResponse(t.Anonymous().ListItems(t.Context(), servicedef.ListParams{}))
			t.RequireStatus(resp, http.StatusUnauthorized)
			t.RequireErrorDetail(resp)
		})
	})

	t.Run("invalid token", func(t *T) {
		resp := t.requireResponse(t.Anonymous().WithBearerToken(invalidToken).ListItems(t.Context(), servicedef.ListParams{}))
		t.RequireStatus(resp, http.StatusUnauthorized, http.StatusForbidden)
	})
}
