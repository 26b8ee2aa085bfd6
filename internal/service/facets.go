package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sakif/shithunt/internal/apperror"
	"github.com/sakif/shithunt/internal/model"
)

// FilterOptions lists the facet values the catalog currently offers, each
// sorted and de-duplicated. The filter UI renders these directly.
type FilterOptions struct {
	Agents []string `json:"agents"`
	LLMs   []string `json:"llms"`
	Tags   []string `json:"tags"`
}

// Options derives the available facets from the approved catalog. Values
// come from live products only, so rejecting or deleting the last product
// with some tag drops the tag from the options.
func (s *ProductService) Options(ctx context.Context) (*FilterOptions, error) {
	products, err := s.products.ListApprovedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("deriving filter options: %w", err)
	}

	agents := make(map[string]struct{})
	llms := make(map[string]struct{})
	tags := make(map[string]struct{})
	for _, p := range products {
		if p.Agent != "" {
			agents[p.Agent] = struct{}{}
		}
		if p.LLM != "" {
			llms[p.LLM] = struct{}{}
		}
		for _, tag := range p.TagList() {
			tags[tag] = struct{}{}
		}
	}

	return &FilterOptions{
		Agents: sortedKeys(agents),
		LLMs:   sortedKeys(llms),
		Tags:   sortedKeys(tags),
	}, nil
}

// applyFilter keeps the products matching every set facet, preserving
// input order. A zero Filter passes everything through untouched.
func applyFilter(products []model.Product, f Filter) []model.Product {
	if f == (Filter{}) {
		return products
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matchesFilter(p, f) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// matchesFilter applies the facets conjunctively: agent and llm by exact
// match, tag by membership in the product's tag list.
func matchesFilter(p model.Product, f Filter) bool {
	if f.Agent != "" && p.Agent != f.Agent {
		return false
	}
	if f.LLM != "" && p.LLM != f.LLM {
		return false
	}
	if f.Tag != "" && !slices.Contains(p.TagList(), f.Tag) {
		return false
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func isNotFound(err error) bool { return errors.Is(err, apperror.ErrNotFound) }
func isConflict(err error) bool { return errors.Is(err, apperror.ErrConflict) }
