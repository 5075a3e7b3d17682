package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"gopkg.in/square/go-jose.v2"

	"kidsclub/pkg/consts"
	"kidsclub/utilities"
)

// Claims is the session payload handed out after a successful OTP verify
type Claims struct {
	Phone     string    `json:"phone"`
	LoginTime time.Time `json:"loginTime"`
	jwt.StandardClaims
}

// Signer issues and verifies HS256 session tokens
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// TTL is how long issued tokens stay valid
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

func (s *Signer) signPayload(payload []byte) (string, error) {
	signingKey := jose.SigningKey{Key: s.secret, Algorithm: jose.HS256}

	signer, err := jose.NewSigner(signingKey, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		return "", err
	}

	signature, err := signer.Sign(payload)
	if err != nil {
		return "", err
	}

	return signature.CompactSerialize()
}

// GenerateJWT returns a token for phone and the login time embedded into it
func (s *Signer) GenerateJWT(phone string, loginTime time.Time) (string, error) {
	log := utilities.NewLogger("GenerateJWT")

	if len(s.secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}

	expiryTime := loginTime.Add(s.ttl)
	claims := Claims{
		Phone:     phone,
		LoginTime: loginTime,
		StandardClaims: jwt.StandardClaims{
			Subject:   phone,
			ExpiresAt: expiryTime.Unix(),
			Issuer:    consts.AppName,
			IssuedAt:  loginTime.Unix(),
		},
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	token, err := s.signPayload(payload)
	if err != nil {
		return "", err
	}

	log.Debugf("Token generated for %s with expiry %s", utilities.MaskPhone(phone), expiryTime)

	return token, nil
}

// VerifyJWT verifies jwt token and returns claims
func (s *Signer) VerifyJWT(token string) (*Claims, error) {
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}

	if len(jws.Signatures) != 1 || jws.Signatures[0].Header.Algorithm != string(jose.HS256) {
		return nil, errors.New("unexpected signing algorithm")
	}

	payload, err := jws.Verify(s.secret)
	if err != nil {
		return nil, fmt.Errorf("jws verify failed: %w", err)
	}

	claims := new(Claims)
	if err = json.Unmarshal(payload, claims); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}

	if err = claims.StandardClaims.Valid(); err != nil {
		return nil, fmt.Errorf("standard claims invalid: %w", err)
	}

	if claims.Issuer != consts.AppName {
		return nil, fmt.Errorf("invalid issuer %s", claims.Issuer)
	}

	if claims.Phone == "" || claims.Subject != claims.Phone {
		return nil, errors.New("token does not carry a phone")
	}

	return claims, nil
}
