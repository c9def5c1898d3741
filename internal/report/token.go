package report

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/elitehr/elite-time/internal"
)

// DownloadClaims authorize a single export download for a short
// window. Tokens are HS256-signed and carry the export parameters so
// the download handler needs no server-side state.
type DownloadClaims struct {
	ReportType string `json:"report_type"`
	From       string `json:"from"`
	To         string `json:"to"`
	UserID     int64  `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(reportType, from, to string, userID int64) (string, error) {
	now := t.now()
	claims := &DownloadClaims{
		ReportType: reportType,
		From:       from,
		To:         to,
		UserID:     userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", internal.NewInternalError("failed to sign download token", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Validate(tokenString string) (*DownloadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DownloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrDownloadTokenBad
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, internal.ErrDownloadTokenBad
	}

	claims, ok := token.Claims.(*DownloadClaims)
	if !ok || !token.Valid {
		return nil, internal.ErrDownloadTokenBad
	}
	return claims, nil
}
