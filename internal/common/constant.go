package common

import "strings"

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// service token of the calling front end.
const AccessTokenHeaderName = "access_token"

// NormalizeCode trims and upper-cases a redemption code; codes are stored
// and compared in this form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NormalizeAddress lower-cases an address for storage and lookups.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
