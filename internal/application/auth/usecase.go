package auth

import (
	"fmt"
	"time"

	"github.com/jhoicas/invoice-engine/internal/application/dto"
	"github.com/jhoicas/invoice-engine/internal/domain"
	"github.com/jhoicas/invoice-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-engine/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TokenUseCase emite tokens para los clientes de la API de cálculo.
// No hay almacén de clientes: quien tiene el secret decide a quién emite.
type TokenUseCase struct {
	jwtCfg JWTConfig
	signer *jwt.Signer // nil si no hay secret
}

// NewTokenUseCase construye el caso de uso de tokens.
func NewTokenUseCase(jwtCfg JWTConfig) *TokenUseCase {
	uc := &TokenUseCase{jwtCfg: jwtCfg}
	if jwtCfg.Secret != "" {
		uc.signer, _ = jwt.NewSigner(jwtCfg.Secret, jwtCfg.Issuer, entity.Roles()...)
	}
	return uc
}

// Issue valida cliente y rol y genera un JWT firmado.
// Devuelve ErrUnauthorized si no hay secret configurado.
func (uc *TokenUseCase) Issue(in dto.IssueTokenRequest) (*dto.TokenResponse, error) {
	if uc.signer == nil {
		return nil, fmt.Errorf("%w: JWT_SECRET vacío", domain.ErrUnauthorized)
	}
	client := entity.Client{ID: entity.NormalizeClientID(in.ClientID), Role: in.Role}
	if client.ID == "" {
		return nil, fmt.Errorf("client_id: %w", domain.ErrInvalidInput)
	}
	if client.Role == "" {
		client.Role = entity.RoleBilling
	}
	if !entity.ValidRole(client.Role) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, client.Role)
	}
	exp := uc.jwtCfg.ExpMinutes
	if in.ExpMinutes > 0 {
		exp = in.ExpMinutes
	}

	token, expiresAt, err := uc.signer.Sign(client.ID, client.Role, time.Duration(exp)*time.Minute)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		Token:     token,
		ClientID:  client.ID,
		Role:      client.Role,
		ExpiresAt: expiresAt,
	}, nil
}
