package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkcook-go/internal/api"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[--------------------]   0%", progressBar(0))
	assert.Equal(t, "[#####---------------]  25%", progressBar(25))
	assert.Equal(t, "[####################] 100%", progressBar(100))
	assert.Equal(t, "[####################] 100%", progressBar(140))
	assert.Equal(t, "[--------------------]   0%", progressBar(-5))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "12,000원", formatPrice(12000))
	assert.Equal(t, "0원", formatPrice(0))
	assert.Equal(t, "1,250,000원", formatPrice(1250000))
}

func TestRenderGroupBuy(t *testing.T) {
	owner := "auth0|owner"
	g := api.GroupBuy{
		ID:               "gb-1",
		Title:            "Jeju tangerines",
		Item:             "5kg box",
		TotalQuantity:    4,
		PricePerUnit:     12000,
		Deadline:         time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
		Region:           "Mapo",
		OwnerID:          &owner,
		OwnerName:        "Owner",
		ParticipantCount: 1,
		ProgressPercent:  25,
		Status:           "open",
		Remaining:        api.Remaining{Days: 7, Hours: 12, Text: "7d 12h 0m left"},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, renderGroupBuy(buf, g))
	out := buf.String()

	assert.Contains(t, out, "Jeju tangerines")
	assert.Contains(t, out, "[#####---------------]  25%  1/4 joined")
	assert.Contains(t, out, "12,000원 per unit")
	assert.Contains(t, out, "2026-10-26 00:00 UTC (7d 12h 0m left)")
	assert.Contains(t, out, "Owner")
	assert.NotContains(t, out, "about")
}

func TestRenderShareQuantityAndExpiry(t *testing.T) {
	s := api.Share{Item: "onions", Quantity: 1.5, Unit: "kg"}
	assert.Equal(t, "1.5 kg", shareQuantity(s))
	assert.Equal(t, "no expiry", shareRemaining(s))

	s.Closed = true
	assert.Equal(t, "closed", shareRemaining(s))

	assert.Equal(t, "-", shareQuantity(api.Share{}))
}

func TestRenderToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, renderToggle(buf, "liked", "like removed", api.Toggle{IsMember: true, Count: 3}))
	assert.Equal(t, "liked (3 total)\n", buf.String())

	buf.Reset()
	require.NoError(t, renderToggle(buf, "liked", "like removed", api.Toggle{Count: 2}))
	assert.Equal(t, "like removed (2 total)\n", buf.String())
}
