package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-engine/internal/application/auth"
	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "invoice-engine-test"
)

func verify(t *testing.T, token string) jwt.Claims {
	t.Helper()
	s, err := jwt.NewSigner(secret, issuer, entity.Roles()...)
	require.NoError(t, err)
	claims, err := s.Verify(token)
	require.NoError(t, err)
	return claims
}

func newUC() *auth.TokenUseCase {
	return auth.NewTokenUseCase(auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: issuer})
}

func TestIssue_RolPorDefecto(t *testing.T) {
	resp, err := newUC().Issue(dto.IssueTokenRequest{ClientID: "  erp-01 "})
	require.NoError(t, err)
	assert.Equal(t, "erp-01", resp.ClientID)
	assert.Equal(t, "billing", resp.Role)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ExpiresAt, 2*time.Second)

	claims := verify(t, resp.Token)
	assert.Equal(t, "erp-01", claims.ClientID)
	assert.Equal(t, "billing", claims.Role)
	assert.True(t, resp.ExpiresAt.Equal(claims.ExpiresAt.Time), "el vencimiento informado es el del token")
}

func TestIssue_Admin(t *testing.T) {
	resp, err := newUC().Issue(dto.IssueTokenRequest{ClientID: "ops", Role: "admin", ExpMinutes: 5})
	require.NoError(t, err)
	assert.Equal(t, "admin", verify(t, resp.Token).Role)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), resp.ExpiresAt, 2*time.Second)
}

func TestIssue_Errores(t *testing.T) {
	_, err := newUC().Issue(dto.IssueTokenRequest{ClientID: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = newUC().Issue(dto.IssueTokenRequest{ClientID: "erp", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = auth.NewTokenUseCase(auth.JWTConfig{}).Issue(dto.IssueTokenRequest{ClientID: "erp"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
