package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindery/internal/errors"
	"github.com/vango-dev/bindery/pkg/binding"
	"github.com/vango-dev/bindery/pkg/dom"
)

func lintCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "lint <file|dir>...",
		Short: "Check markup for directive errors",
		Long: `Parse HTML files and report every binding marker that would fail to
install: unsupported elements, malformed directives and empty names.

Directories are searched for *.html files. data-model on a custom element
is reported as a warning, since it only binds once the element's own model
is bound.

Examples:
  bindery lint index.html
  bindery lint ./templates`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectHTML(args)
			if err != nil {
				return err
			}
			res, err := lintFiles(cmd.OutOrStdout(), files, quiet)
			if err != nil {
				return err
			}
			if res.errors > 0 {
				return fmt.Errorf("%d directive error(s) in %d file(s)", res.errors, len(files))
			}
			success(cmd.OutOrStdout(), "%d directive(s) in %d file(s), no errors", res.directives, len(files))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print one line per error instead of the full report")

	return cmd
}

type lintResult struct {
	directives int
	errors     int
	warnings   int
}

// collectHTML expands directories into the *.html files below them.
func collectHTML(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".html" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func lintFiles(w io.Writer, files []string, quiet bool) (lintResult, error) {
	var total lintResult
	for _, file := range files {
		res, err := lintFile(w, file, quiet)
		if err != nil {
			return total, err
		}
		total.directives += res.directives
		total.errors += res.errors
		total.warnings += res.warnings
	}
	return total, nil
}

func lintFile(w io.Writer, path string, quiet bool) (lintResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return lintResult{}, err
	}
	defer f.Close()

	doc := dom.NewDocument()
	nodes, err := dom.ParseHTML(doc, f)
	if err != nil {
		return lintResult{}, fmt.Errorf("%s: %w", path, err)
	}

	var res lintResult
	for _, n := range nodes {
		for el := range n.Descendants() {
			if !el.IsElement() {
				continue
			}
			for _, err := range lintElement(el) {
				if err == nil {
					res.directives++
					continue
				}
				if el.IsCustomElement() && errors.Is(err, binding.ErrUnsupportedBinding) {
					res.warnings++
					warn(w, "%s: %s binds once its own model is bound", path, el)
					continue
				}
				res.errors++
				report(w, path, err, quiet)
			}
		}
	}
	return res, nil
}

// lintElement returns one entry per directive on el: nil for a valid one,
// the parse error otherwise.
func lintElement(el *dom.Node) []error {
	var out []error
	for _, err := range binding.Parse(el) {
		out = append(out, err)
	}
	return out
}

func report(w io.Writer, path string, err error, quiet bool) {
	var e *errors.Error
	if quiet || !errors.As(err, &e) {
		fmt.Fprintf(w, "%s: %v\n", path, err)
		return
	}
	fmt.Fprintf(w, "%s\n%s\n", path, e.Format())
}
