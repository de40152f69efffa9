// file: internals/features/meetings/provider/join_token.go
package provider

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	JoinRoleParticipant = 0
	JoinRoleHost        = 1
)

// SignJoinToken: kredensial join pendek-umur, scoped ke satu meeting dan
// satu role, skema token SDK provider (HS256). Hanya dipanggil SETELAH
// payment gate meloloskan user — urutan itu dijaga di orchestrator.
func SignJoinToken(sdkKey, sdkSecret, meetingNumber string, role int, ttl time.Duration) (string, error) {
	if sdkKey == "" || sdkSecret == "" {
		return "", fmt.Errorf("meeting SDK key/secret belum dikonfigurasi")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}

	iat := time.Now().Add(-30 * time.Second) // toleransi clock skew
	exp := iat.Add(ttl)

	claims := jwt.MapClaims{
		"appKey":   sdkKey,
		"sdkKey":   sdkKey,
		"mn":       meetingNumber,
		"role":     role,
		"iat":      iat.Unix(),
		"exp":      exp.Unix(),
		"tokenExp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(sdkSecret))
}
