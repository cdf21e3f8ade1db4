package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/eventlane/eventlane/internal/domain"
	"github.com/eventlane/eventlane/internal/tenant"
)

type CreateAPIKeyInput struct {
	Body struct {
		Name   string   `json:"name" minLength:"1" maxLength:"255" doc:"Key name"`
		Scopes []string `json:"scopes,omitempty" doc:"Scopes granted to the key"`
	}
}

type CreateAPIKeyOutput struct {
	Body struct {
		Key    string         `json:"key" doc:"Full API key, shown once"`
		APIKey *domain.APIKey `json:"api_key"`
	}
}

type ListAPIKeysOutput struct {
	Body []*domain.APIKey
}

type DeleteAPIKeyInput struct {
	KeyID uuid.UUID `path:"keyID" doc:"API key ID"`
}

type DeleteAPIKeyOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

func RegisterAPIKeyRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-api-key",
		Method:      http.MethodPost,
		Path:        "/api-keys",
		Summary:     "Create an API key for the current tenant",
		Tags:        []string{"APIKeys"},
	}, func(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		userID, ok := tenant.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		if err := tenant.RequireMembershipRole(ctx, store.Memberships(), domain.RoleOwner, domain.RoleTenantAdmin); err != nil {
			return nil, huma.Error403Forbidden("owner or admin role required")
		}

		if err := requireFeature(ctx, store, tenantID, "api_keys"); err != nil {
			return nil, err
		}

		rawKey, key, err := authSvc.GenerateAPIKey(ctx, tenantID, userID, input.Body.Name, input.Body.Scopes)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to create API key", err)
		}

		out := &CreateAPIKeyOutput{}
		out.Body.Key = rawKey
		out.Body.APIKey = key
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-api-keys",
		Method:      http.MethodGet,
		Path:        "/api-keys",
		Summary:     "List the caller's API keys in the current tenant",
		Tags:        []string{"APIKeys"},
	}, func(ctx context.Context, _ *struct{}) (*ListAPIKeysOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		userID, ok := tenant.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		keys, err := store.Users().ListAPIKeys(ctx, tenantID, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list API keys", err)
		}

		for _, k := range keys {
			k.KeyHash = ""
		}

		return &ListAPIKeysOutput{Body: keys}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-api-key",
		Method:      http.MethodDelete,
		Path:        "/api-keys/{keyID}",
		Summary:     "Delete an API key",
		Tags:        []string{"APIKeys"},
	}, func(ctx context.Context, input *DeleteAPIKeyInput) (*DeleteAPIKeyOutput, error) {
		tenantID, ok := tenant.IDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("valid tenant required")
		}

		userID, ok := tenant.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error401Unauthorized("authentication required")
		}

		// Deletion goes through the caller's own key list so one tenant's
		// admin cannot delete another tenant's key by ID.
		keys, err := store.Users().ListAPIKeys(ctx, tenantID, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list API keys", err)
		}

		for _, k := range keys {
			if k.ID == input.KeyID {
				if err := store.Users().DeleteAPIKey(ctx, k.ID); err != nil {
					return nil, huma.Error500InternalServerError("failed to delete API key", err)
				}

				out := &DeleteAPIKeyOutput{}
				out.Body.Deleted = true
				return out, nil
			}
		}

		return nil, huma.Error404NotFound("API key not found")
	})
}
