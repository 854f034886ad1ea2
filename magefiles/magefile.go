//go:build mage

// Package main contains Mage build targets for autopost developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "autopost"
	cmdPkg  = "./cmd/autopost"

	postsDir   = "_posts"
	topicsFile = "topics.txt"
	secretsDir = ".secrets"
)

const sampleTopics = `# One topic per line. Lines starting with # are ignored.
# Each generate run writes a post for the first topic without one.
How to Start a Vegetable Garden on a Balcony
Top 10 AI Tools for Small Businesses
A Beginner's Guide to Index Funds
`

// Init creates the posts and secrets directories and a sample topics file.
// An existing topics file is left untouched.
func Init() error {
	for _, dir := range []string{postsDir, secretsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	if _, err := os.Stat(topicsFile); os.IsNotExist(err) {
		if err := os.WriteFile(topicsFile, []byte(sampleTopics), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", topicsFile, err)
		}
		fmt.Println("  ", topicsFile)
	}
	fmt.Println("Project initialized. Put your Hugging Face token in HF_TOKEN or .secrets/hf-token.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Generate builds the CLI and writes the next post.
func Generate() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "generate")
}

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, testLines, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree and counts non-blank lines in Go files,
// split by production and test files. Hidden and underscore-prefixed
// directories are skipped, as the go tool does.
func countGoLines(root string) (prod, test int, err error) {
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, test, err
}
