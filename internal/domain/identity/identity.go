// Package identity carries the caller identity handed over by the identity
// provider. Nothing here authenticates; values are trusted as given.
package identity

import "strings"

type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Anonymous is the zero identity used for unauthenticated callers.
var Anonymous = Identity{}

func (i Identity) IsAuthenticated() bool {
	return strings.TrimSpace(i.ID) != ""
}

// Label is the name shown next to content the identity owns.
func (i Identity) Label() string {
	if name := strings.TrimSpace(i.DisplayName); name != "" {
		return name
	}
	if email := strings.TrimSpace(i.Email); email != "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			return email[:at]
		}
		return email
	}
	return i.ID
}
