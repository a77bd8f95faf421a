package main

import (
	"fmt"

	"github.com/carefacts/carefacts"
)

// Run executes the taxonomy list command.
func (c *TaxonomyListCmd) Run(deps *Dependencies) error {
	var lastDomain string
	for _, node := range deps.Registry.Nodes() {
		if node.Domain != lastDomain {
			fmt.Fprintln(deps.Stdout, node.Domain)
			lastDomain = node.Domain
		}
		switch node.Level {
		case carefacts.LevelC1:
			fmt.Fprintf(deps.Stdout, "  %s\n", node.Label)
		case carefacts.LevelC2:
			fmt.Fprintf(deps.Stdout, "    %s\n", node.Label)
		}
	}
	return nil
}

// Run executes the taxonomy resolve command.
func (c *TaxonomyResolveCmd) Run(deps *Dependencies) error {
	var node *carefacts.TaxonomyNode
	var err error
	if c.Domain != "" {
		node, err = deps.Registry.ResolveIn(c.Domain, c.Label)
	} else {
		node, err = deps.Registry.Resolve(c.Label)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", carefacts.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "label:  %s\n", node.Label)
	fmt.Fprintf(deps.Stdout, "level:  %s\n", node.Level)
	fmt.Fprintf(deps.Stdout, "domain: %s\n", node.Domain)
	if node.Parent != nil {
		fmt.Fprintf(deps.Stdout, "topic:  %s\n", node.Parent.Label)
	}
	return nil
}
