package services

import (
	"carelink/config"
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

const keySetCacheTTL = 15 * time.Minute

type oidcDiscovery struct {
	Issuer  string `json:"issuer"`
	JWKSURI string `json:"jwks_uri"`
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jsonWebKeySet struct {
	Keys []jsonWebKey `json:"keys"`
}

// TokenClaims is what the rest of the service needs to know about a
// verified caller. Subject is the identity-provider subject that links
// to users.auth_subject.
type TokenClaims struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
}

// TokenService verifies bearer tokens issued by the configured OIDC
// identity provider. Key material comes from the provider's discovery
// document and JWKS endpoint, cached with a short TTL so key rotation
// is picked up without a restart.
type TokenService struct {
	log        logger.Logger
	httpClient *http.Client
	issuer     string
	audience   string

	discovery     *oidcDiscovery
	keySet        *jsonWebKeySet
	discoveryMux  sync.RWMutex
	keySetMux     sync.RWMutex
	discoveryTime time.Time
	keySetTime    time.Time
}

func NewTokenService(cfg config.Config) (*TokenService, error) {
	log := logger.New("tokenService")

	if cfg.AuthIssuer == "" {
		return nil, log.ErrMsg("AUTH_ISSUER is required for token verification")
	}

	return &TokenService{
		log:        log,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		issuer:     strings.TrimSuffix(cfg.AuthIssuer, "/"),
		audience:   cfg.AuthAudience,
	}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// ValidateToken verifies the signature, issuer, audience and expiry of
// a bearer token and returns its claims. Any failure is a verification
// failure; callers treat all errors as unauthenticated.
func (ts *TokenService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	log := ts.log.TraceFromContext(ctx).Function("ValidateToken")

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			kid, ok := token.Header["kid"].(string)
			if !ok {
				return nil, fmt.Errorf("missing kid in token header")
			}

			return ts.publicKeyFor(ctx, kid)
		},
	)
	if err != nil {
		return nil, log.Err("token verification failed", err)
	}

	if !parsed.Valid {
		return nil, log.ErrMsg("token is invalid")
	}

	if claims.Issuer != ts.issuer {
		return nil, log.ErrMsg(
			"invalid issuer: expected " + ts.issuer + ", got " + claims.Issuer,
		)
	}

	if ts.audience != "" && !slices.Contains(claims.Audience, ts.audience) {
		return nil, log.ErrMsg("token audience does not include " + ts.audience)
	}

	if claims.Subject == "" {
		return nil, log.ErrMsg("token has no subject")
	}

	name := claims.Name
	if name == "" {
		name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return &TokenClaims{
		Subject:    claims.Subject,
		Email:      claims.Email,
		Name:       name,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}

func (ts *TokenService) getDiscovery(ctx context.Context) (*oidcDiscovery, error) {
	log := ts.log.TraceFromContext(ctx).Function("getDiscovery")

	ts.discoveryMux.RLock()
	if ts.discovery != nil && time.Since(ts.discoveryTime) < keySetCacheTTL {
		discovery := ts.discovery
		ts.discoveryMux.RUnlock()
		return discovery, nil
	}
	ts.discoveryMux.RUnlock()

	discoveryURL := ts.issuer + "/.well-known/openid-configuration"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return nil, log.Err("failed to create discovery request", err)
	}

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch discovery document", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close discovery response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("discovery request failed", "statusCode", resp.StatusCode)
	}

	var discovery oidcDiscovery
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return nil, log.Err("failed to decode discovery document", err)
	}

	if discovery.Issuer != ts.issuer {
		return nil, log.ErrMsg(
			"discovery issuer mismatch: expected " + ts.issuer + ", got " + discovery.Issuer,
		)
	}

	if discovery.JWKSURI == "" {
		return nil, log.ErrMsg("discovery document has no jwks_uri")
	}

	ts.discoveryMux.Lock()
	ts.discovery = &discovery
	ts.discoveryTime = time.Now()
	ts.discoveryMux.Unlock()

	return &discovery, nil
}

func (ts *TokenService) getKeySet(ctx context.Context) (*jsonWebKeySet, error) {
	log := ts.log.TraceFromContext(ctx).Function("getKeySet")

	ts.keySetMux.RLock()
	if ts.keySet != nil && time.Since(ts.keySetTime) < keySetCacheTTL {
		keySet := ts.keySet
		ts.keySetMux.RUnlock()
		return keySet, nil
	}
	ts.keySetMux.RUnlock()

	discovery, err := ts.getDiscovery(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discovery.JWKSURI, nil)
	if err != nil {
		return nil, log.Err("failed to create JWKS request", err)
	}

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("failed to fetch JWKS", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Info("failed to close JWKS response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("JWKS request failed", "statusCode", resp.StatusCode)
	}

	var keySet jsonWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return nil, log.Err("failed to decode JWKS", err)
	}

	if len(keySet.Keys) == 0 {
		return nil, log.ErrMsg("JWKS contains no keys")
	}

	ts.keySetMux.Lock()
	ts.keySet = &keySet
	ts.keySetTime = time.Now()
	ts.keySetMux.Unlock()

	log.Info("JWKS refreshed", "keys", len(keySet.Keys))
	return &keySet, nil
}

func (ts *TokenService) publicKeyFor(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	log := ts.log.TraceFromContext(ctx).Function("publicKeyFor")

	keySet, err := ts.getKeySet(ctx)
	if err != nil {
		return nil, err
	}

	var target *jsonWebKey
	for i := range keySet.Keys {
		if keySet.Keys[i].Kid == kid {
			target = &keySet.Keys[i]
			break
		}
	}

	if target == nil {
		return nil, log.ErrMsg("no key with kid " + kid + " in JWKS")
	}

	if target.Kty != "RSA" {
		return nil, log.ErrMsg("unsupported key type " + target.Kty)
	}

	return buildRSAPublicKey(target.N, target.E)
}

// buildRSAPublicKey assembles an RSA public key from the base64url
// modulus and exponent of a JWK.
func buildRSAPublicKey(modulus, exponent string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(exponent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	// Guards against oversized exponents on 32-bit platforms.
	if !e.IsInt64() || e.Int64() > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("RSA exponent too large")
	}

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
