package billing

import (
	"net/url"
	"strings"
)

const ShareMessage = "Check out BlockHolder - the ultimate platform for managing your crypto assets!"

type SharePlatform string

const (
	ShareTwitter  SharePlatform = "twitter"
	ShareFacebook SharePlatform = "facebook"
	ShareLinkedIn SharePlatform = "linkedin"
)

var sharePlatforms = []SharePlatform{ShareTwitter, ShareFacebook, ShareLinkedIn}

// ParseSharePlatform returns the matching platform constant.
func ParseSharePlatform(name string) (SharePlatform, bool) {
	for _, p := range sharePlatforms {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

// ReferralLink builds <baseURL>/?ref=<userID>.
func ReferralLink(baseURL, userID string) string {
	return strings.TrimRight(baseURL, "/") + "/?ref=" + url.QueryEscape(userID)
}

// ShareURL builds the share intent URL for a platform. ok is false for
// platforms outside the supported set.
func ShareURL(platform SharePlatform, link string) (shareURL string, ok bool) {
	l := percentEncode(link)
	msg := percentEncode(ShareMessage)

	switch platform {
	case ShareTwitter:
		return "https://twitter.com/intent/tweet?url=" + l + "&text=" + msg, true
	case ShareFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + l, true
	case ShareLinkedIn:
		return "https://www.linkedin.com/shareArticle?mini=true&url=" + l + "&title=" + msg, true
	default:
		return "", false
	}
}

// percentEncode escapes a query component with %20 for spaces.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
