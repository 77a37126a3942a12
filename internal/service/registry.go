// Package service provides the provider registry: registration, category
// filtering, intent-based discovery, and tool execution.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/evisynth/backend/internal/types"
)

// Registry manages service discovery and execution
type Registry struct {
	services sync.Map
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.services.Store(def.ID, provider)
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.services.Delete(serviceID)
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered services
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		provider := value.(Provider)
		def := provider.Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	return services
}

// Discover finds relevant services for a given intent
func (r *Registry) Discover(intent string, limit int) []types.Service {
	type scoredService struct {
		service types.Service
		score   float64
	}

	intentLower := strings.ToLower(intent)
	var results []scoredService

	r.services.Range(func(_, value interface{}) bool {
		provider := value.(Provider)
		def := provider.Definition()
		score := relevance(intentLower, def)
		if score > 0 {
			results = append(results, scoredService{service: def, score: score})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	services := make([]types.Service, len(results))
	for i, res := range results {
		services[i] = res.service
	}
	return services
}

// Execute runs a tool on the service owning it. Tool IDs are namespaced as
// "<service>.<tool>".
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, found := strings.Cut(toolID, ".")
	if !found {
		return nil, fmt.Errorf("invalid tool ID: %s", toolID)
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return nil, fmt.Errorf("service not found: %s", serviceID)
	}

	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	totalServices := 0
	totalTools := 0

	r.services.Range(func(_, value interface{}) bool {
		provider := value.(Provider)
		totalServices++
		totalTools += len(provider.Definition().Tools)
		return true
	})

	return map[string]interface{}{
		"total_services": totalServices,
		"total_tools":    totalTools,
	}
}

// relevance scores a service against an intent: keyword hits in name and
// description, capability matches, and an exact-category bonus.
func relevance(intent string, def types.Service) float64 {
	var score float64

	for _, word := range strings.Fields(intent) {
		if strings.Contains(strings.ToLower(def.Name), word) {
			score += 2
		}
		if strings.Contains(strings.ToLower(def.Description), word) {
			score += 1
		}
		for _, capability := range def.Capabilities {
			if strings.Contains(capability, word) {
				score += 1.5
			}
		}
	}

	if strings.Contains(intent, string(def.Category)) {
		score += 3
	}

	return score
}
