package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcook-go/internal/api"
	"linkcook-go/internal/client"
)

func TestParseShareQuantity(t *testing.T) {
	quantity, err := parseQuantity(" 2.5 ")
	require.NoError(t, err)
	require.NotNil(t, quantity)
	assert.Equal(t, 2.5, *quantity)

	quantity, err = parseQuantity("")
	require.NoError(t, err)
	assert.Nil(t, quantity)

	_, err = parseQuantity("-1")
	assert.ErrorIs(t, err, client.ErrValidation)
	_, err = parseQuantity("some")
	assert.ErrorIs(t, err, client.ErrValidation)
}

func TestShareLifecycle(t *testing.T) {
	srv := newTestServer(t)

	owner := userOptions(t, srv, "auth0|owner", "Owner")
	owner.Format = "json"
	out, err := execute(NewShareCommand(owner), "create",
		"--item", "onions", "--quantity", "1.5", "--unit", "kg", "--expiry", "2026-10-20", "--region", "Mapo")
	require.NoError(t, err)
	created := decodeData[api.Share](t, out)
	assert.Equal(t, "onions", created.Title)
	assert.Equal(t, 1.5, created.Quantity)
	assert.False(t, created.Closed)

	out, err = execute(NewShareCommand(userOptions(t, srv, "", "")), "show", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1.5 kg")
	assert.Contains(t, out, "2d 12h 0m left")

	_, err = execute(NewShareCommand(owner), "create", "--item", "leeks", "--quantity", "a few")
	assert.ErrorIs(t, err, client.ErrValidation)

	closer := userOptions(t, srv, "auth0|owner", "Owner")
	closer.Format = "json"
	out, err = execute(NewShareCommand(closer), "edit", created.ID, "--status", "closed", "--expiry", "")
	require.NoError(t, err)
	closed := decodeData[api.Share](t, out)
	assert.True(t, closed.Closed)
	assert.Nil(t, closed.Expiry)

	out, err = execute(NewShareCommand(userOptions(t, srv, "auth0|b", "B")), "bookmark", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "bookmarked (1 total)\n", out)

	stranger := userOptions(t, srv, "auth0|b", "B")
	stranger.Yes = true
	_, err = execute(NewShareCommand(stranger), "delete", created.ID)
	assert.ErrorIs(t, err, client.ErrForbidden)
}
