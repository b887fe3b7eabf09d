package share

import "net/url"

// Platform is a share target.
type Platform string

const (
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
)

// ShareText is the message prefilled on share.
func ShareText(handle string) string {
	return "Check out my GitHub profile! " + ProfileURL(handle)
}

// IntentURL returns the prefilled share intent for p.
func IntentURL(p Platform, handle string) string {
	switch p {
	case LinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(ProfileURL(handle))
	default:
		return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(ShareText(handle))
	}
}
