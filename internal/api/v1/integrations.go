package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/secrets"
	"github.com/eventlane/eventlane/internal/tenant"
)

type PutSecretInput struct {
	Integration string `path:"integration" maxLength:"63" doc:"Integration name, e.g. maps"`
	Body        struct {
		Name  string `json:"name" minLength:"1" maxLength:"255" doc:"Credential name, e.g. API_KEY"`
		Value string `json:"value" minLength:"1" maxLength:"4096" doc:"Credential value, stored encrypted"`
	}
}

type PutSecretOutput struct {
	Body struct {
		Integration string `json:"integration"`
		Name        string `json:"name"`
	}
}

type ListSecretsInput struct {
	Integration string `path:"integration" maxLength:"63" doc:"Integration name"`
}

type ListSecretsOutput struct {
	Body struct {
		Integration string   `json:"integration"`
		Names       []string `json:"names"`
	}
}

type DeleteSecretInput struct {
	Integration string `path:"integration" maxLength:"63" doc:"Integration name"`
	Name        string `path:"name" maxLength:"255" doc:"Credential name"`
}

type DeleteSecretOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

// RegisterIntegrationRoutes wires per-tenant integration credential storage.
// Values are encrypted before they reach the store and are never returned by
// the API; listing exposes names only.
func RegisterIntegrationRoutes(api huma.API, store DataStore, vault *secrets.Vault) {
	huma.Register(api, huma.Operation{
		OperationID: "put-integration-secret",
		Method:      http.MethodPut,
		Path:        "/integrations/{integration}/secrets",
		Summary:     "Store an encrypted credential for an integration",
		Tags:        []string{"Integrations"},
	}, func(ctx context.Context, input *PutSecretInput) (*PutSecretOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		encrypted, err := vault.Encrypt(input.Body.Value)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to encrypt credential", err)
		}

		now := time.Now()
		s := &secrets.Secret{
			ID:          uuid.New(),
			TenantID:    tenantID,
			Integration: input.Integration,
			Name:        input.Body.Name,
			Value:       encrypted,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := store.Secrets().Create(ctx, s); err != nil {
			return nil, huma.Error500InternalServerError("failed to store credential", err)
		}

		out := &PutSecretOutput{}
		out.Body.Integration = input.Integration
		out.Body.Name = input.Body.Name
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-integration-secrets",
		Method:      http.MethodGet,
		Path:        "/integrations/{integration}/secrets",
		Summary:     "List credential names stored for an integration",
		Tags:        []string{"Integrations"},
	}, func(ctx context.Context, input *ListSecretsInput) (*ListSecretsOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		stored, err := store.Secrets().ListByIntegration(ctx, tenantID, input.Integration)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list credentials", err)
		}

		out := &ListSecretsOutput{}
		out.Body.Integration = input.Integration
		out.Body.Names = make([]string, 0, len(stored))
		for _, s := range stored {
			out.Body.Names = append(out.Body.Names, s.Name)
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-integration-secret",
		Method:      http.MethodDelete,
		Path:        "/integrations/{integration}/secrets/{name}",
		Summary:     "Delete a stored credential",
		Tags:        []string{"Integrations"},
	}, func(ctx context.Context, input *DeleteSecretInput) (*DeleteSecretOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		if err := store.Secrets().Delete(ctx, tenantID, input.Integration, input.Name); err != nil {
			if errors.Is(err, secrets.ErrSecretNotFound) {
				return nil, huma.Error404NotFound("credential not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete credential", err)
		}

		out := &DeleteSecretOutput{}
		out.Body.Deleted = true
		return out, nil
	})
}
