package usecase

import (
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// tokenExpiry returns the exp claim when token is a JWT. The signature is not verified;
// the value is only displayed.
func tokenExpiry(token string) *time.Time {
	if strings.Count(token, ".") != 2 {
		return nil
	}

	parsed, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		return nil
	}
	exp := parsed.Expiration()
	if exp.IsZero() {
		return nil
	}
	return &exp
}
