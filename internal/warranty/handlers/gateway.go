package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gartstein/warranty/internal/warranty/auth"
	"github.com/gartstein/warranty/internal/warranty/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClaimController defines the claim operations served over HTTP.
type ClaimController interface {
	GetClaims(ctx context.Context, warrantyID, tenantID string) ([]*models.Claim, error)
	GetClaim(ctx context.Context, claimID, tenantID string) (*models.Claim, error)
	UpdateClaimStatus(ctx context.Context, claimID, tenantID string, status models.ClaimStatus) (*models.Claim, error)
}

// CatalogController defines the read-only contract lookups.
type CatalogController interface {
	GetWarranty(ctx context.Context, warrantyID, tenantID string) (models.Warranty, error)
	GetPolicy(ctx context.Context, policyID, tenantID string) (*models.Policy, error)
	GetCustomer(ctx context.Context, customerID, tenantID string) (*models.Customer, error)
	GetInspection(ctx context.Context, inspectionID, tenantID string) (models.Inspection, error)
	GetConfig(ctx context.Context, tenantID string) (*models.PlatformConfig, error)
}

// ClaimList is the response body of the claim listing.
type ClaimList struct {
	Claims []*models.Claim `json:"claims"`
}

// StatusUpdate is the request body of a claim status change.
type StatusUpdate struct {
	Status models.ClaimStatus `json:"status"`
}

// Gateway serves the REST routes of the warranty service on a
// grpc-gateway ServeMux. The tenant is taken from the authenticated
// request context.
type Gateway struct {
	claims  ClaimController
	catalog CatalogController
	logger  *zap.Logger
}

func NewGateway(claims ClaimController, catalog CatalogController, logger *zap.Logger) *Gateway {
	return &Gateway{
		claims:  claims,
		catalog: catalog,
		logger:  logger.Named("gateway"),
	}
}

// NewServeMux builds a ServeMux answering in plain JSON and registers
// the gateway routes on it.
func NewServeMux(g *Gateway, opts ...runtime.ServeMuxOption) (*runtime.ServeMux, error) {
	opts = append([]runtime.ServeMuxOption{
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.JSONBuiltin{}),
	}, opts...)
	mux := runtime.NewServeMux(opts...)
	if err := g.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

// Register adds the gateway routes to mux.
func (g *Gateway) Register(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler func(mux *runtime.ServeMux) runtime.HandlerFunc
	}{
		{http.MethodGet, "/v1/warranties/{warranty_id}/claims", g.getClaims},
		{http.MethodGet, "/v1/warranties/{warranty_id}", g.getWarranty},
		{http.MethodGet, "/v1/claims/{claim_id}", g.getClaim},
		{http.MethodPatch, "/v1/claims/{claim_id}/status", g.updateClaimStatus},
		{http.MethodGet, "/v1/policies/{policy_id}", g.getPolicy},
		{http.MethodGet, "/v1/customers/{customer_id}", g.getCustomer},
		{http.MethodGet, "/v1/inspections/{inspection_id}", g.getInspection},
		{http.MethodGet, "/v1/config", g.getConfig},
	}

	for _, route := range routes {
		if err := mux.HandlePath(route.method, route.pattern, route.handler(mux)); err != nil {
			return fmt.Errorf("failed to register %s %s: %w", route.method, route.pattern, err)
		}
	}
	return nil
}

func (g *Gateway) getClaims(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		claims, err := g.claims.GetClaims(r.Context(), params["warranty_id"], tenantID)
		if err != nil {
			return nil, err
		}
		return &ClaimList{Claims: claims}, nil
	})
}

func (g *Gateway) getClaim(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		return g.claims.GetClaim(r.Context(), params["claim_id"], tenantID)
	})
}

func (g *Gateway) updateClaimStatus(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		inbound, _ := runtime.MarshalerForRequest(mux, r)
		var req StatusUpdate
		if err := inbound.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err)
		}
		return g.claims.UpdateClaimStatus(r.Context(), params["claim_id"], tenantID, req.Status)
	})
}

func (g *Gateway) getWarranty(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		return g.catalog.GetWarranty(r.Context(), params["warranty_id"], tenantID)
	})
}

func (g *Gateway) getPolicy(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		return g.catalog.GetPolicy(r.Context(), params["policy_id"], tenantID)
	})
}

func (g *Gateway) getCustomer(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		return g.catalog.GetCustomer(r.Context(), params["customer_id"], tenantID)
	})
}

func (g *Gateway) getInspection(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, params map[string]string, tenantID string) (any, error) {
		return g.catalog.GetInspection(r.Context(), params["inspection_id"], tenantID)
	})
}

func (g *Gateway) getConfig(mux *runtime.ServeMux) runtime.HandlerFunc {
	return g.tenantHandler(mux, func(r *http.Request, _ map[string]string, tenantID string) (any, error) {
		return g.catalog.GetConfig(r.Context(), tenantID)
	})
}

type tenantFunc func(r *http.Request, params map[string]string, tenantID string) (any, error)

// tenantHandler resolves the caller's tenant, runs fn and writes its
// result or its error as a gRPC status.
func (g *Gateway) tenantHandler(mux *runtime.ServeMux, fn tenantFunc) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)

		tenantID, ok := auth.TenantFromContext(r.Context())
		if !ok {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, status.Error(codes.Unauthenticated, "tenant missing from token"))
			return
		}

		userID, _ := auth.UserFromContext(r.Context())
		logger := g.logger.With(
			zap.String("tenant_id", tenantID),
			zap.String("user_id", userID),
			zap.String("path", r.URL.Path),
		)

		resp, err := fn(r, params, tenantID)
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, mapServiceError(err, logger))
			return
		}

		buf, err := outbound.Marshal(resp)
		if err != nil {
			logger.Error("Failed to marshal response", zap.Error(err))
			runtime.HTTPError(r.Context(), mux, outbound, w, r, status.Error(codes.Internal, "internal server error"))
			return
		}
		w.Header().Set("Content-Type", outbound.ContentType(resp))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(buf); err != nil {
			logger.Warn("Failed to write response", zap.Error(err))
		}
	}
}
