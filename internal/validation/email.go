package validation

import "strings"

// NormalizeEmail lower-cases and trims an address and canonicalizes Gmail
// addresses: dots in the local part are ignored, a +suffix is dropped, and
// googlemail.com folds into gmail.com.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	local, domain := email[:at], email[at+1:]

	if domain == "gmail.com" || domain == "googlemail.com" {
		if plus := strings.Index(local, "+"); plus >= 0 {
			local = local[:plus]
		}
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	}

	return local + "@" + domain
}
