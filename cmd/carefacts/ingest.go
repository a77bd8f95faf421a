package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/carefacts/carefacts"
)

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	files, err := expandPaths(c.Paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return carefacts.Errorf(carefacts.EINVALID, "no input files specified")
	}
	if c.URL != "" && len(files) != 1 {
		return carefacts.Errorf(carefacts.EINVALID, "--url applies to exactly one input file")
	}

	items := make([]carefacts.BatchItem, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", path, err)
		}

		meta := carefacts.SourceMeta{
			Title:       c.Title,
			ContentType: c.contentType(path),
		}
		if c.URL != "" {
			meta.URL = c.URL
		} else {
			meta.SourceFile = path
		}

		items = append(items, carefacts.BatchItem{Raw: string(data), Meta: meta})
	}

	res, err := deps.Ingestor.IngestBatch(deps.Ctx, items)
	if err != nil {
		return err
	}

	for _, item := range res.Items {
		switch {
		case item.Err != nil:
			fmt.Fprintf(deps.Stderr, "failed     %s: %s\n", sourceLabel(item.Meta), carefacts.ErrorMessage(item.Err))
		case item.Result.Unchanged:
			fmt.Fprintf(deps.Stdout, "unchanged  %s  %s\n", item.Result.DocumentID, sourceLabel(item.Meta))
		case item.Result.WasUpdate:
			fmt.Fprintf(deps.Stdout, "updated    %s  %s  tags=%d\n", item.Result.DocumentID, sourceLabel(item.Meta), len(item.Result.Tags))
		default:
			fmt.Fprintf(deps.Stdout, "created    %s  %s  tags=%d\n", item.Result.DocumentID, sourceLabel(item.Meta), len(item.Result.Tags))
		}
	}

	fmt.Fprintf(deps.Stdout, "%d succeeded, %d failed\n", res.Succeeded, res.Failed)
	if res.Failed > 0 && res.Succeeded == 0 {
		return carefacts.Errorf(carefacts.EINTERNAL, "all %d items failed", res.Failed)
	}
	return nil
}

// contentType picks the content type for one input file: the --type flag
// wins, --url implies a scraped webpage, plain-text extensions are manual
// notes, everything else is a saved reference file.
func (c *IngestCmd) contentType(path string) carefacts.ContentType {
	if c.Type != "" {
		return carefacts.ContentType(c.Type)
	}
	if c.URL != "" {
		return carefacts.ContentTypeWebpage
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown":
		return carefacts.ContentTypeManual
	default:
		return carefacts.ContentTypeFile
	}
}

// expandPaths resolves directory arguments to the regular files beneath
// them, skipping dotfiles. Plain file arguments pass through.
func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && p != path {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

// sourceLabel picks the human-readable identifier for a source.
func sourceLabel(meta carefacts.SourceMeta) string {
	if meta.URL != "" {
		return meta.URL
	}
	return meta.SourceFile
}
