// Package yaml loads taxonomy definitions from YAML files.
package yaml

import (
	"os"

	"github.com/carefacts/carefacts"
	"gopkg.in/yaml.v3"
)

// definition mirrors the YAML taxonomy file layout: an ordered list of
// domains, each holding topics with optional sub-topics.
type definition struct {
	Domains []domain `yaml:"domains"`
}

type domain struct {
	Name   string  `yaml:"name"`
	Topics []topic `yaml:"topics"`
}

type topic struct {
	Name      string   `yaml:"name"`
	SubTopics []string `yaml:"subtopics"`
}

// ParseDefinition converts YAML taxonomy data to flat entries in
// definition order: each topic precedes its sub-topics.
func ParseDefinition(data []byte) ([]carefacts.TaxonomyEntry, error) {
	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, carefacts.Errorf(carefacts.ETAXONOMY, "parse taxonomy YAML: %w", err)
	}

	var entries []carefacts.TaxonomyEntry
	for _, d := range def.Domains {
		for _, t := range d.Topics {
			entries = append(entries, carefacts.TaxonomyEntry{
				Domain:   d.Name,
				Category: t.Name,
			})
			for _, sub := range t.SubTopics {
				entries = append(entries, carefacts.TaxonomyEntry{
					Domain:      d.Name,
					Category:    t.Name,
					SubCategory: sub,
				})
			}
		}
	}
	return entries, nil
}

// LoadDefinition reads and parses a YAML taxonomy file.
func LoadDefinition(path string) ([]carefacts.TaxonomyEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDefinition(data)
}
