// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package post scans, renders and writes dated post files for a static site
// generator. The set of files in the posts directory is the only durable
// state between runs: a slug with a file is never chosen again.
package post

import (
	"fmt"
	"os"
	"regexp"
	"time"
)

// dateLayout is the date prefix of every post filename.
const dateLayout = "2006-01-02"

// postFilePattern matches YYYY-MM-DD-<slug>.<ext> and captures the slug.
var postFilePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-(.+)\.[^.]+$`)

// ExistingSlugs returns the slugs of all dated post files in dir. A missing
// directory yields an empty set. Entries that do not follow the naming
// convention are ignored.
func ExistingSlugs(dir string) (map[string]bool, error) {
	slugs := make(map[string]bool)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return slugs, nil
		}
		return nil, fmt.Errorf("reading posts directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := postFilePattern.FindStringSubmatch(e.Name()); m != nil {
			slugs[m[1]] = true
		}
	}
	return slugs, nil
}

// Filename returns the post filename for slug on the UTC date of now.
func Filename(slug, ext string, now time.Time) string {
	return fmt.Sprintf("%s-%s.%s", now.UTC().Format(dateLayout), slug, ext)
}
