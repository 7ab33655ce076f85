// Package jwt emite y verifica los tokens firmados del servicio (EdDSA).
package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Tipos de token (claim "typ").
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrInvalidIssuer = errors.New("invalid_issuer")
	ErrWrongTokenUse = errors.New("wrong_token_use")
)

// Claims son las claims que el servicio pone en sus tokens.
type Claims struct {
	Subject   string // user id
	TenantID  string // claim "tid"
	Role      string // claim "role"
	SessionID string // claim "sid" (sólo refresh)
	TokenUse  string // claim "typ": access | refresh
	ExpiresAt time.Time
}

// Issuer firma tokens con una clave ed25519 inyectada al construirlo.
type Issuer struct {
	Iss        string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	kid  string
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewIssuer crea un Issuer desde una seed ed25519 en base64 (32 bytes).
// Con seed vacía genera una clave efímera (sólo dev: los tokens mueren con el
// proceso).
func NewIssuer(iss, seedB64 string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	var priv ed25519.PrivateKey
	if strings.TrimSpace(seedB64) == "" {
		_, p, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("jwt: generate ephemeral key: %w", err)
		}
		priv = p
	} else {
		seed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(seedB64))
		if err != nil {
			return nil, fmt.Errorf("jwt: decode signing key: %w", err)
		}
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("jwt: signing key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
		}
		priv = ed25519.NewKeyFromSeed(seed)
	}

	pub := priv.Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pub)

	return &Issuer{
		Iss:        iss,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		kid:        hex.EncodeToString(sum[:4]),
		priv:       priv,
		pub:        pub,
	}, nil
}

// KID devuelve el key id activo.
func (i *Issuer) KID() string { return i.kid }

// IssueAccess firma un access token corto (sub, tid, role).
func (i *Issuer) IssueAccess(userID, tenantID, role string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)
	claims := jwtv5.MapClaims{
		"iss":  i.Iss,
		"sub":  userID,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  exp.Unix(),
		"tid":  tenantID,
		"role": role,
		"typ":  TypeAccess,
	}
	signed, err := i.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefresh firma un refresh token largo (sub, tid, sid, typ=refresh).
// El caller guarda sha256(token) en la fila de sesión; el plaintext se
// entrega una única vez.
func (i *Issuer) IssueRefresh(userID, tenantID, sessionID string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.RefreshTTL)
	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": userID,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
		"tid": tenantID,
		"sid": sessionID,
		"typ": TypeRefresh,
	}
	signed, err := i.sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) sign(claims jwtv5.MapClaims) (string, error) {
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.kid
	tk.Header["typ"] = "JWT"
	return tk.SignedString(i.priv)
}

// VerifyAccess valida firma, issuer, exp/nbf y typ=access.
func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	return i.verify(token, TypeAccess)
}

// VerifyRefresh valida firma, issuer, exp/nbf y typ=refresh. La validez de la
// firma es necesaria pero NO suficiente: el caller debe además chequear la
// fila de sesión y comparar el hash presentado contra el almacenado.
func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	return i.verify(token, TypeRefresh)
}

func (i *Issuer) verify(token, wantUse string) (*Claims, error) {
	keyfunc := func(t *jwtv5.Token) (any, error) {
		// kid check: con una sola clave activa alcanza con rechazar kids ajenos
		if kid, _ := t.Header["kid"].(string); kid != "" && kid != i.kid {
			return nil, ErrInvalidToken
		}
		return i.pub, nil
	}

	tok, err := jwtv5.Parse(token, keyfunc,
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithLeeway(30*time.Second),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	if iss, _ := mc["iss"].(string); iss != i.Iss {
		return nil, ErrInvalidIssuer
	}
	use, _ := mc["typ"].(string)
	if use != wantUse {
		return nil, ErrWrongTokenUse
	}

	c := &Claims{TokenUse: use}
	c.Subject, _ = mc["sub"].(string)
	c.TenantID, _ = mc["tid"].(string)
	c.Role, _ = mc["role"].(string)
	c.SessionID, _ = mc["sid"].(string)
	if expf, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(expf), 0).UTC()
	}
	if c.Subject == "" || c.TenantID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
