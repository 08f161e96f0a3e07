package utils

// keySuffixLen is how many trailing characters of an access key ID are displayed
const keySuffixLen = 6

// MaskKeyID shortens an access key ID to "..." plus its last six characters.
// IDs shorter than six characters are shown whole after the marker.
func MaskKeyID(keyID string) string {
	if len(keyID) <= keySuffixLen {
		return "..." + keyID
	}
	return "..." + keyID[len(keyID)-keySuffixLen:]
}
