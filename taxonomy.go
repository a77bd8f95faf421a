package carefacts

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TaxonomyLevel distinguishes first- and second-level taxonomy nodes.
type TaxonomyLevel string

// Taxonomy levels beneath a domain.
const (
	LevelC1 TaxonomyLevel = "C1" // topic
	LevelC2 TaxonomyLevel = "C2" // sub-topic
)

// TaxonomyNode is one node of the Domain → C1 → C2 hierarchy. Nodes are flat
// records with parent references rather than nested objects, keeping lookups
// O(1) and avoiding cyclic-reference concerns.
type TaxonomyNode struct {
	Domain string
	Level  TaxonomyLevel
	Label  string

	// Parent references the owning C1 node when Level is LevelC2, nil for C1.
	Parent *TaxonomyNode
}

// TaxonomyEntry is one row of a flat taxonomy definition. An entry with an
// empty SubCategory declares a C1 topic; an entry with a SubCategory declares
// a C2 sub-topic beneath a previously declared C1 topic.
type TaxonomyEntry struct {
	Domain      string
	Category    string
	SubCategory string
}

// Registry holds the loaded taxonomy hierarchy. It is immutable after
// construction and safe for unbounded concurrent reads.
type Registry struct {
	nodes     []*TaxonomyNode
	labels    []string
	byLabel   map[string]*TaxonomyNode
	qualified map[string]*TaxonomyNode
}

// LoadRegistry validates a taxonomy definition and builds the registry.
// Entries must arrive in definition order: a C1 topic before its C2
// sub-topics. Returns ETAXONOMY if a sub-topic lacks a declared parent topic,
// or if a label collides within its (domain, level, parent) scope.
func LoadRegistry(entries []TaxonomyEntry) (*Registry, error) {
	r := &Registry{
		byLabel:   make(map[string]*TaxonomyNode),
		qualified: make(map[string]*TaxonomyNode),
	}

	// C1 nodes keyed by (domain, label); scope sets guard label collisions.
	parents := make(map[string]*TaxonomyNode)
	seen := make(map[string]struct{})

	for i, e := range entries {
		domain := strings.TrimSpace(e.Domain)
		category := strings.TrimSpace(e.Category)
		sub := strings.TrimSpace(e.SubCategory)

		if domain == "" {
			return nil, Errorf(ETAXONOMY, "entry %d: domain required", i)
		}
		if category == "" {
			return nil, Errorf(ETAXONOMY, "entry %d: category required", i)
		}

		if sub == "" {
			scope := scopeKey(domain, LevelC1, "")
			if _, ok := seen[scope+"\x00"+category]; ok {
				return nil, Errorf(ETAXONOMY, "duplicate topic %q in domain %q", category, domain)
			}
			seen[scope+"\x00"+category] = struct{}{}

			node := &TaxonomyNode{Domain: domain, Level: LevelC1, Label: category}
			parents[domain+"\x00"+category] = node
			r.addNode(node)
			continue
		}

		parent, ok := parents[domain+"\x00"+category]
		if !ok {
			return nil, Errorf(ETAXONOMY, "sub-topic %q references undeclared topic %q in domain %q", sub, category, domain)
		}

		scope := scopeKey(domain, LevelC2, category)
		if _, ok := seen[scope+"\x00"+sub]; ok {
			return nil, Errorf(ETAXONOMY, "duplicate sub-topic %q under topic %q in domain %q", sub, category, domain)
		}
		seen[scope+"\x00"+sub] = struct{}{}

		r.addNode(&TaxonomyNode{Domain: domain, Level: LevelC2, Label: sub, Parent: parent})
	}

	if len(r.nodes) == 0 {
		return nil, Errorf(ETAXONOMY, "taxonomy definition is empty")
	}
	return r, nil
}

func scopeKey(domain string, level TaxonomyLevel, parent string) string {
	return fmt.Sprintf("%s\x00%s\x00%s", domain, level, parent)
}

func (r *Registry) addNode(node *TaxonomyNode) {
	r.nodes = append(r.nodes, node)
	r.labels = append(r.labels, node.Label)

	// First occurrence wins for bare-label lookup. The same label may appear
	// under several domains on purpose; qualified lookup disambiguates.
	if _, ok := r.byLabel[node.Label]; !ok {
		r.byLabel[node.Label] = node
	}
	qkey := node.Domain + "\x00" + node.Label
	if _, ok := r.qualified[qkey]; !ok {
		r.qualified[qkey] = node
	}
}

// Resolve returns the node for a bare label. When the label appears in more
// than one domain, the first node in definition order wins. Returns ENOTFOUND
// for unknown labels.
func (r *Registry) Resolve(label string) (*TaxonomyNode, error) {
	node, ok := r.byLabel[label]
	if !ok {
		return nil, Errorf(ENOTFOUND, "taxonomy label %q not found", label)
	}
	return node, nil
}

// ResolveIn returns the node for a label within a specific domain.
// Returns ENOTFOUND if the domain does not declare the label.
func (r *Registry) ResolveIn(domain, label string) (*TaxonomyNode, error) {
	node, ok := r.qualified[domain+"\x00"+label]
	if !ok {
		return nil, Errorf(ENOTFOUND, "taxonomy label %q not found in domain %q", label, domain)
	}
	return node, nil
}

// Contains reports whether label is in the registry's vocabulary.
func (r *Registry) Contains(label string) bool {
	_, ok := r.byLabel[label]
	return ok
}

// AllLabels returns the canonical tag vocabulary in definition order:
// domain-major, each C1 topic followed by its C2 sub-topics. The same label
// string may appear more than once when shared across domains.
func (r *Registry) AllLabels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}

// Nodes returns all taxonomy nodes in definition order.
func (r *Registry) Nodes() []*TaxonomyNode {
	out := make([]*TaxonomyNode, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Domains returns the distinct domain names in definition order.
func (r *Registry) Domains() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, n := range r.nodes {
		if _, ok := seen[n.Domain]; ok {
			continue
		}
		seen[n.Domain] = struct{}{}
		out = append(out, n.Domain)
	}
	return out
}

// Markdown outline line prefixes for taxonomy definitions.
const (
	markdownDomainPrefix = "**Domain:"
	markdownC1Prefix     = "C1."
	markdownC2Prefix     = "C2."
)

// ParseMarkdownDefinition parses the taxonomy outline format used by the
// curriculum source files:
//
//	**Domain: Physical aspects of care**
//	C1. Symptom management: Pain
//	C2. Dyspnea
//
// Lines outside these prefixes are ignored. The returned entries are in
// document order and suitable for LoadRegistry.
func ParseMarkdownDefinition(r io.Reader) ([]TaxonomyEntry, error) {
	var entries []TaxonomyEntry
	var domain, category string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, markdownDomainPrefix):
			domain = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, markdownDomainPrefix), "**"))
			category = ""

		case strings.HasPrefix(line, markdownC1Prefix):
			category = strings.TrimSpace(strings.TrimPrefix(line, markdownC1Prefix))
			if domain == "" || category == "" {
				return nil, Errorf(ETAXONOMY, "topic %q appears before any domain", category)
			}
			entries = append(entries, TaxonomyEntry{Domain: domain, Category: category})

		case strings.HasPrefix(line, markdownC2Prefix):
			sub := strings.TrimSpace(strings.TrimPrefix(line, markdownC2Prefix))
			if domain == "" || category == "" || sub == "" {
				return nil, Errorf(ETAXONOMY, "sub-topic %q appears before any topic", sub)
			}
			entries = append(entries, TaxonomyEntry{Domain: domain, Category: category, SubCategory: sub})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy definition: %w", err)
	}
	if len(entries) == 0 {
		return nil, Errorf(ETAXONOMY, "no taxonomy entries found")
	}
	return entries, nil
}
