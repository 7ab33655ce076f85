// Package vault custodia los secretos de terceros de cada tenant:
// tokens OAuth de Square y bearer tokens de agentes. Todo secreto pasa
// por el Box (AES-GCM) antes de escribirse y se descifra bajo demanda.
// Un fallo de descifrado aborta SOLO la operación que necesitaba ese
// secreto; jamás se degrada a tratar ciphertext como plaintext.
package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/frontdesk/internal/audit"
	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	"github.com/dropDatabas3/frontdesk/internal/observability/logger"
	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
	token "github.com/dropDatabas3/frontdesk/internal/security/token"
)

// ErrDecrypt señala una credencial presente pero indescifrable (clave
// rotada mal, fila corrupta). Para el caller equivale a "todavía no
// conectó Square", pero se loguea con la causa real.
var ErrDecrypt = errors.New("vault: credential decrypt failed")

// DecryptedCredential es una credencial lista para usar contra Square.
// No se persiste ni se loguea.
type DecryptedCredential struct {
	TenantID             string
	AgentID              *string
	MerchantID           string
	DefaultLocationID    string
	Environment          types.SquareEnvironment
	SupportsSellerWrites bool
	AccessToken          string
	RefreshToken         string
	ExpiresAt            *time.Time
	Scopes               []string
}

// Vault cifra/descifra y persiste credenciales. El Box llega inyectado
// (nada de estado global de proceso) para que los tests puedan sustituirlo.
type Vault struct {
	box    *secretbox.Box
	creds  repository.Credentials
	agents repository.Agents
}

func New(box *secretbox.Box, creds repository.Credentials, agents repository.Agents) *Vault {
	return &Vault{box: box, creds: creds, agents: agents}
}

// StoreSquareInput son los datos post-exchange a custodiar.
type StoreSquareInput struct {
	TenantID             string
	AgentID              *string
	MerchantID           string
	DefaultLocationID    string
	Environment          types.SquareEnvironment
	SupportsSellerWrites bool
	AccessToken          string
	RefreshToken         string
	ExpiresAt            *time.Time
	Scopes               []string
}

// StoreSquareCredentials cifra ambos tokens y upserta por (tenant, merchant),
// refrescando last_refreshed_at.
func (v *Vault) StoreSquareCredentials(ctx context.Context, in StoreSquareInput) error {
	accessEnc, err := v.box.Encrypt(in.AccessToken)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	refreshEnc := ""
	if in.RefreshToken != "" {
		refreshEnc, err = v.box.Encrypt(in.RefreshToken)
		if err != nil {
			return fmt.Errorf("encrypt refresh token: %w", err)
		}
	}

	cred := &types.SquareCredential{
		TenantID:             in.TenantID,
		AgentID:              in.AgentID,
		MerchantID:           in.MerchantID,
		DefaultLocationID:    in.DefaultLocationID,
		Environment:          in.Environment,
		SupportsSellerWrites: in.SupportsSellerWrites,
		AccessTokenEnc:       accessEnc,
		RefreshTokenEnc:      refreshEnc,
		ExpiresAt:            in.ExpiresAt,
		Scopes:               in.Scopes,
		LastRefreshedAt:      time.Now().UTC(),
	}
	return v.creds.UpsertSquareCredential(ctx, cred)
}

// LatestSquareCredential carga y descifra la credencial más reciente del
// tenant. Devuelve (nil, nil) cuando el tenant existe pero nunca conectó
// Square: condición distinta de "tenant no encontrado".
func (v *Vault) LatestSquareCredential(ctx context.Context, tenantID string) (*DecryptedCredential, error) {
	cred, err := v.creds.LatestSquareCredential(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v.decrypt(ctx, cred)
}

func (v *Vault) decrypt(ctx context.Context, cred *types.SquareCredential) (*DecryptedCredential, error) {
	log := logger.From(ctx).With(
		logger.Component("vault"),
		logger.TenantID(cred.TenantID),
		logger.MerchantID(cred.MerchantID),
	)

	access, err := v.box.Decrypt(cred.AccessTokenEnc)
	if err != nil {
		log.Error("square access token decrypt failed", logger.Err(err))
		return nil, ErrDecrypt
	}
	refresh := ""
	if cred.RefreshTokenEnc != "" {
		refresh, err = v.box.Decrypt(cred.RefreshTokenEnc)
		if err != nil {
			log.Error("square refresh token decrypt failed", logger.Err(err))
			return nil, ErrDecrypt
		}
	}

	return &DecryptedCredential{
		TenantID:             cred.TenantID,
		AgentID:              cred.AgentID,
		MerchantID:           cred.MerchantID,
		DefaultLocationID:    cred.DefaultLocationID,
		Environment:          cred.Environment,
		SupportsSellerWrites: cred.SupportsSellerWrites,
		AccessToken:          access,
		RefreshToken:         refresh,
		ExpiresAt:            cred.ExpiresAt,
		Scopes:               cred.Scopes,
	}, nil
}

// IssueAgentBearerToken genera un bearer nuevo para el agente, lo guarda
// cifrado junto a su hash de lookup y devuelve el plaintext UNA única vez.
func (v *Vault) IssueAgentBearerToken(ctx context.Context, agentID string) (string, error) {
	plain, err := token.GenerateOpaqueToken(32)
	if err != nil {
		return "", err
	}
	enc, err := v.box.Encrypt(plain)
	if err != nil {
		return "", fmt.Errorf("encrypt bearer token: %w", err)
	}
	if err := v.agents.StoreAgentBearerToken(ctx, agentID, enc, token.SHA256Base64URL(plain)); err != nil {
		return "", err
	}
	audit.Record(ctx, audit.EventAgentTokenIssued, logger.AgentID(agentID))
	return plain, nil
}

// AuthenticateAgentBearer resuelve el agente dueño de un bearer entrante.
// Lookup por hash y después comparación constant-time contra el token
// descifrado: el hash indexa, el plaintext decide.
func (v *Vault) AuthenticateAgentBearer(ctx context.Context, bearer string) (*types.Agent, error) {
	agent, err := v.agents.GetAgentByBearerHash(ctx, token.SHA256Base64URL(bearer))
	if err != nil {
		return nil, err
	}
	stored, err := v.box.Decrypt(agent.BearerTokenEnc)
	if err != nil {
		logger.From(ctx).Error("agent bearer decrypt failed",
			logger.Component("vault"), logger.AgentID(agent.ID), logger.Err(err))
		return nil, ErrDecrypt
	}
	if !token.ConstantTimeEqual(bearer, stored) {
		return nil, repository.ErrNotFound
	}
	return agent, nil
}

// AgentContextByRetellID resuelve un agente por su id externo de Retell
// junto con la credencial Square descifrada de su tenant. Credencial
// (nil, nil) significa que el tenant todavía no conectó Square.
func (v *Vault) AgentContextByRetellID(ctx context.Context, retellAgentID string) (*types.Agent, *DecryptedCredential, error) {
	agent, err := v.agents.GetAgentByRetellID(ctx, retellAgentID)
	if err != nil {
		return nil, nil, err
	}
	cred, err := v.LatestSquareCredential(ctx, agent.TenantID)
	if err != nil {
		return nil, nil, err
	}
	return agent, cred, nil
}
