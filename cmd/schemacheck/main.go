// Command schemacheck loads a survey schema and prints its layout.
// It exits non-zero when the schema would be rejected at startup.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"surveyengine/internal/i18n"
	"surveyengine/internal/schema"
)

func main() {
	locale := flag.String("lang", i18n.DefaultLocale, "locale used to print labels")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: schemacheck [-lang xx] <schema.json|schema.yaml>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	s, err := schema.LoadFile(flag.Arg(0))
	if err != nil {
		var loadErr *schema.SchemaLoadError
		if errors.As(err, &loadErr) {
			fmt.Fprintf(os.Stderr, "invalid schema: %v\n", loadErr)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	resolver := i18n.NewResolver(i18n.DefaultLocale)
	lang := i18n.ParseLocale(*locale, i18n.DefaultLocale)

	for i, b := range s.Blocks() {
		flags := ""
		if b.RandomizeQuestions {
			flags = " (randomized)"
		}
		fmt.Printf("block %d: %s%s\n", i+1, b.Title, flags)
		for _, q := range b.Questions {
			marker := " "
			if q.Required {
				marker = "*"
			}
			fmt.Printf("  %s %-20s %-9s %s\n", marker, q.ID, q.Type, resolver.Resolve(q.Label, lang))
			for _, br := range q.Branches {
				fmt.Printf("      if %q -> %s\n", br.When.Equals, br.Goto)
			}
		}
	}

	targets := make([]string, 0)
	for id := range s.AllBranchTargets() {
		targets = append(targets, id)
	}
	sort.Strings(targets)
	fmt.Printf("\n%d questions, branch targets: %s\n", s.QuestionCount(), strings.Join(targets, ", "))
}
