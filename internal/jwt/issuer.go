// Package jwt emite y valida los bearer tokens del panel (HS256).
package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dropDatabas3/adminhub/internal/claims"
	"github.com/dropDatabas3/adminhub/internal/domain/repository"
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid_jwt")
	ErrInvalidIssuer = errors.New("invalid_issuer")
)

// AccessClaims son los claims del access token.
type AccessClaims struct {
	Name      string `json:"name,omitempty"`
	TenantID  *int64 `json:"tid,omitempty"`
	Isolation string `json:"iso,omitempty"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida tokens con un secreto compartido.
type Issuer struct {
	Iss       string
	Secret    []byte
	AccessTTL time.Duration
	// Leeway tolera desfasaje de reloj en exp/nbf.
	Leeway time.Duration
	now    func() time.Time
}

func NewIssuer(iss, secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		Iss:       iss,
		Secret:    []byte(secret),
		AccessTTL: ttl,
		Leeway:    30 * time.Second,
		now:       time.Now,
	}
}

// Sign emite un access token para u.
func (i *Issuer) Sign(u claims.User) (string, error) {
	now := i.now()
	c := AccessClaims{
		Name:      u.Name,
		TenantID:  u.TenantID,
		Isolation: string(u.DataIsolationType),
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwtv5.NewNumericDate(now),
			NotBefore: jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(i.AccessTTL)),
		},
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, c)
	tk.Header["typ"] = "JWT"
	return tk.SignedString(i.Secret)
}

// Parse valida firma, iss, exp y nbf y devuelve el usuario.
func (i *Issuer) Parse(token string) (claims.User, error) {
	var c AccessClaims
	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithLeeway(i.Leeway),
		jwtv5.WithTimeFunc(i.now),
		jwtv5.WithExpirationRequired(),
	}
	if i.Iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.Iss))
	}
	tok, err := jwtv5.ParseWithClaims(token, &c, func(*jwtv5.Token) (any, error) {
		return i.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenInvalidIssuer) {
			return claims.User{}, ErrInvalidIssuer
		}
		return claims.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return claims.User{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return claims.User{}, fmt.Errorf("%w: sub", ErrInvalidToken)
	}
	return claims.User{
		ID:                id,
		Name:              c.Name,
		TenantID:          c.TenantID,
		DataIsolationType: repository.DataIsolationType(c.Isolation),
	}, nil
}
