package models

import "net/url"

// AvatarFor returns avatarURL, or a generated initials avatar for name.
func AvatarFor(name, avatarURL string) string {
	if avatarURL != "" {
		return avatarURL
	}
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=2ea043&color=fff"
}
