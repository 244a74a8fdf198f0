// Package auth applies request authentication for API deployments that
// require it. The public marketplace API is anonymous; everything here is
// opt-in via configuration.
package auth

import (
	"fmt"
	"net/http"
	"os"
)

// EnvToken names the environment variable carrying the bearer token.
const EnvToken = "PARAS_TOKEN"

// ApplyHeaders sets request headers for authentication types that use them
// directly: "none", "api_key", "bearer", "basic", and the initial basic
// credentials NTLM negotiation expects. OAuth2 is handled entirely by the
// client transport.
func ApplyHeaders(req *http.Request, authType string, credentials map[string]string, token string) error {
	switch authType {
	case "none", "":
		return nil
	case "api_key":
		key, ok := credentials["api_key"]
		if !ok {
			return fmt.Errorf("api_key authentication selected, but 'api_key' not found in credentials")
		}
		req.Header.Set("Authorization", "Bearer "+key)
	case "bearer":
		if token == "" {
			return fmt.Errorf("bearer authentication selected, but %s environment variable is not set", EnvToken)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	case "basic", "ntlm":
		// The ntlmssp transport negotiates from initial basic credentials.
		username, ok1 := credentials["username"]
		password, ok2 := credentials["password"]
		if !ok1 || !ok2 {
			return fmt.Errorf("%s authentication selected, but 'username' or 'password' not found in credentials", authType)
		}
		req.SetBasicAuth(username, password)
	case "oauth2":
		return nil
	default:
		return fmt.Errorf("unsupported authentication type configured: %s", authType)
	}
	return nil
}

// Token retrieves the bearer token from the environment.
func Token() string {
	return os.Getenv(EnvToken)
}
