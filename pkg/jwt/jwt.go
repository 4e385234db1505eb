package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Errores propios, además de los de golang-jwt (firma, expiración, emisor).
var (
	ErrEmptySecret   = errors.New("jwt: secret vacío")
	ErrMissingClient = errors.New("jwt: token sin client_id")
	ErrUnknownRole   = errors.New("jwt: rol no reconocido")
)

// Claims incluye los claims estándar JWT más el cliente que consume la API de cálculo.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
	Role     string `json:"role,omitempty"`
}

// Signer firma y verifica tokens HS256 de un único emisor.
// Solo acepta los roles con que fue creado; un token sin rol es válido aquí y
// es RequireRole quien lo rechaza.
type Signer struct {
	secret []byte
	issuer string
	roles  map[string]struct{}
	parser *jwt.Parser
}

// NewSigner crea un Signer. Con issuer vacío no se valida el claim iss;
// sin roles se acepta cualquiera.
func NewSigner(secret, issuer string, roles ...string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	s := &Signer{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
	if len(roles) > 0 {
		s.roles = make(map[string]struct{}, len(roles))
		for _, r := range roles {
			s.roles[r] = struct{}{}
		}
	}
	return s, nil
}

// Sign emite un token para clientID que vence en ttl y devuelve también el vencimiento
// con la precisión de segundos que lleva el token.
func (s *Signer) Sign(clientID, role string, ttl time.Duration) (string, time.Time, error) {
	if clientID == "" {
		return "", time.Time{}, ErrMissingClient
	}
	if err := s.checkRole(role); err != nil {
		return "", time.Time{}, err
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ClientID: clientID,
		Role:     role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time.UTC(), nil
}

// Verify valida firma, algoritmo, emisor y vencimiento, y después cliente y rol.
func (s *Signer) Verify(tokenString string) (Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, err
	}
	if claims.ClientID == "" || claims.Subject != claims.ClientID {
		return Claims{}, ErrMissingClient
	}
	if err := s.checkRole(claims.Role); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

func (s *Signer) checkRole(role string) error {
	if role == "" || s.roles == nil {
		return nil
	}
	if _, ok := s.roles[role]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return nil
}
