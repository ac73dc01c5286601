package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RedactedValue replaces sensitive values in log output.
const RedactedValue = "[REDACTED]"
