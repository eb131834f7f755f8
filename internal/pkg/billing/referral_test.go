package billing

import (
	"net/url"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralLink(t *testing.T) {
	assert.Equal(t, "https://blockholder.com/?ref=user_42", ReferralLink("https://blockholder.com/", "user_42"))
}

func TestShareURLTwitter(t *testing.T) {
	link := ReferralLink("https://blockholder.com", "user_42")
	got, ok := ShareURL(ShareTwitter, link)
	require.True(t, ok)

	assert.True(t, strings.HasPrefix(got, "https://twitter.com/intent/tweet?"))
	assert.Contains(t, got, "url="+percentEncode(link))
	assert.Contains(t, got, "text="+percentEncode(ShareMessage))
	assert.NotContains(t, got, "+")

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, link, parsed.Query().Get("url"))
	assert.Equal(t, ShareMessage, parsed.Query().Get("text"))
}

func TestShareURLOtherPlatforms(t *testing.T) {
	link := ReferralLink("https://blockholder.com", "u1")

	fb, ok := ShareURL(ShareFacebook, link)
	require.True(t, ok)
	assert.Equal(t, "https://www.facebook.com/sharer/sharer.php?u="+percentEncode(link), fb)

	li, ok := ShareURL(ShareLinkedIn, link)
	require.True(t, ok)
	parsed, err := url.Parse(li)
	require.NoError(t, err)
	assert.Equal(t, "true", parsed.Query().Get("mini"))
	assert.Equal(t, ShareMessage, parsed.Query().Get("title"))
}

func TestParseSharePlatform(t *testing.T) {
	buf := []byte("twitter")
	got, ok := ParseSharePlatform(unsafe.String(&buf[0], len(buf)))
	require.True(t, ok)
	copy(buf, "myspace")
	assert.Equal(t, ShareTwitter, got)

	_, ok = ParseSharePlatform("Twitter")
	assert.False(t, ok)
}

func TestShareURLUnknownPlatform(t *testing.T) {
	got, ok := ShareURL("myspace", "https://blockholder.com/?ref=u1")
	assert.False(t, ok)
	assert.Empty(t, got)
}
