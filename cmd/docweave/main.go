package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docweave/ast"
	"github.com/dgallion1/docweave/markup"
	"github.com/dgallion1/docweave/transform"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	src := flag.String("src", ".", "source directory to process")
	dump := flag.Bool("dump", false, "print the transformed element trees")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root, err := markup.LoadTree(os.DirFS(*src))
	if err != nil {
		log.Error("loading source tree", "error", err)
		os.Exit(1)
	}

	opts := transform.OptionsFromEnv()
	log.Info("transforming", "source", *src, "format", opts.Output.Format,
		"documents", len(root.AllDocuments()))

	out, err := transform.New(nil, opts, log).Transform(ctx, root)
	if err != nil {
		log.Error("transformation failed", "error", err)
		os.Exit(1)
	}

	for _, doc := range out.AllDocuments() {
		if *dump {
			fmt.Printf("== %s ==\n%s\n", doc.Path, ast.Format(doc.Content))
		} else {
			fmt.Println(doc.Path)
		}
	}
}
