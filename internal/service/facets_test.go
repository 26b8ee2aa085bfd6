package service

import (
	"context"
	"testing"

	"github.com/sakif/shithunt/internal/model"
)

func TestMatchesFilter_Conjunctive(t *testing.T) {
	product := model.Product{
		Agent: "Cursor",
		LLM:   "GPT-5",
		Tags:  `["ai","dev"]`,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter", Filter{}, true},
		{"agent and tag both match", Filter{Agent: "Cursor", Tag: "ai"}, true},
		{"tag misses", Filter{Tag: "web3"}, false},
		{"agent misses despite tag match", Filter{Agent: "Lovable", Tag: "ai"}, false},
		{"llm exact match", Filter{LLM: "GPT-5"}, true},
		{"llm case sensitive", Filter{LLM: "gpt-5"}, false},
		{"all three match", Filter{Agent: "Cursor", LLM: "GPT-5", Tag: "dev"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesFilter(product, tt.filter); got != tt.want {
				t.Errorf("matchesFilter(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
		})
	}
}

func TestApplyFilter_PreservesOrder(t *testing.T) {
	products := []model.Product{
		{Slug: "first", Agent: "Cursor"},
		{Slug: "skip", Agent: "Lovable"},
		{Slug: "second", Agent: "Cursor"},
	}

	filtered := applyFilter(products, Filter{Agent: "Cursor"})
	if len(filtered) != 2 || filtered[0].Slug != "first" || filtered[1].Slug != "second" {
		t.Errorf("applyFilter() = %v, want [first second] in order", filtered)
	}

	// A zero filter is a passthrough, not a copy-and-filter.
	all := applyFilter(products, Filter{})
	if len(all) != 3 {
		t.Errorf("applyFilter(zero) dropped products: %d of 3", len(all))
	}
}

func TestOptions_SortedDistinct(t *testing.T) {
	svc, products, _, _ := newTestProductService(t)

	seed := []model.Product{
		{ID: "1", Slug: "a", Agent: "Cursor", LLM: "GPT-5", Tags: `["saas","ai"]`, Status: model.StatusApproved},
		{ID: "2", Slug: "b", Agent: "Lovable", LLM: "GPT-5", Tags: `["ai"]`, Status: model.StatusApproved},
		{ID: "3", Slug: "c", Agent: "Cursor", LLM: "", Tags: "not json", Status: model.StatusApproved},
		{ID: "4", Slug: "d", Agent: "Windsurf", LLM: "Claude", Tags: `["web3"]`, Status: model.StatusPending},
	}
	for i := range seed {
		products.products = append(products.products, &seed[i])
	}

	options, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}

	wantAgents := []string{"Cursor", "Lovable"}
	if len(options.Agents) != len(wantAgents) {
		t.Fatalf("Agents = %v, want %v", options.Agents, wantAgents)
	}
	for i, agent := range wantAgents {
		if options.Agents[i] != agent {
			t.Errorf("Agents[%d] = %q, want %q", i, options.Agents[i], agent)
		}
	}

	// Empty LLMs are skipped; duplicates collapse.
	if len(options.LLMs) != 1 || options.LLMs[0] != "GPT-5" {
		t.Errorf("LLMs = %v, want [GPT-5]", options.LLMs)
	}

	// Malformed tag JSON contributes nothing; pending products are
	// excluded entirely.
	wantTags := []string{"ai", "saas"}
	if len(options.Tags) != len(wantTags) {
		t.Fatalf("Tags = %v, want %v", options.Tags, wantTags)
	}
	for i, tag := range wantTags {
		if options.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, options.Tags[i], tag)
		}
	}
}
