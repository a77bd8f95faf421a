package main

import (
	"fmt"
	"strings"

	"github.com/carefacts/carefacts"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	q := carefacts.SearchQuery{
		Text:   strings.Join(c.Query, " "),
		Tags:   c.Tag,
		Limit:  c.Limit,
		Offset: c.Offset,
	}
	if c.Type != "" {
		ct := carefacts.ContentType(c.Type)
		q.ContentType = &ct
	}

	results, err := deps.Search.Search(deps.Ctx, q)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", carefacts.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%.3f  %s  %s\n", r.Score, r.Document.ID, r.Document.Title)
		if len(r.Document.Tags) > 0 {
			labels := make([]string, len(r.Document.Tags))
			for i, tag := range r.Document.Tags {
				labels[i] = tag.Label
			}
			fmt.Fprintf(deps.Stdout, "       tags: %s\n", strings.Join(labels, ", "))
		}
		if c.Full && r.Document.Summary != "" {
			fmt.Fprintf(deps.Stdout, "       %s\n", r.Document.Summary)
		}
	}

	return nil
}
