package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/ims/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	args := os.Args[1:]
	var cmd command
	var err error

	switch {
	case len(args) > 0 && args[0] == "shell":
		cmd, err = parseSessionFlags(args[1:])
	case len(args) > 0 && args[0] == "generate":
		cmd, err = parseGenerateFlags(args[1:])
	default:
		cmd, err = parseIMSFlags(args)
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		// flag has already printed the problem and usage
		os.Exit(2)
	}

	ctx := context.Background()
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseIMSFlags(args []string) (command, error) {
	fs := flag.NewFlagSet("ims", flag.ContinueOnError)
	var (
		scenarioDir = fs.String(
			"scenario",
			"",
			"Directory containing parts.csv and optionally products.csv",
		)
		partsFile      = fs.String("parts", "", "Path to parts CSV file")
		productsFile   = fs.String("products", "", "Path to products CSV file")
		outputDir      = fs.String("output", "", "Output directory for results (required for csv)")
		format         = fs.String("format", "text", "Output format: text, json, csv")
		searchParts    = fs.String("search-parts", "", "Only list parts whose name contains this text")
		searchProducts = fs.String("search-products", "", "Only list products whose name contains this text")
		priceChange    = fs.String("price-change", "", "Set a part price, as id=price")
		deletePart     = fs.Int("delete-part", commands.NoID, "Id of a part to delete")
		deleteProduct  = fs.Int("delete-product", commands.NoID, "Id of a product to delete")
		yes            = fs.Bool("yes", false, "Answer Yes to every confirmation")
		verbose        = fs.Bool("verbose", false, "Enable verbose output")
		help           = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return commands.NewIMSCommand(commands.Config{
		ScenarioDir:    *scenarioDir,
		PartsFile:      *partsFile,
		ProductsFile:   *productsFile,
		OutputDir:      *outputDir,
		Format:         *format,
		SearchParts:    *searchParts,
		SearchProducts: *searchProducts,
		PriceChange:    *priceChange,
		DeletePart:     *deletePart,
		DeleteProduct:  *deleteProduct,
		Yes:            *yes,
		Verbose:        *verbose,
		Help:           *help,
	}), nil
}

func parseSessionFlags(args []string) (command, error) {
	fs := flag.NewFlagSet("ims shell", flag.ContinueOnError)
	var (
		scenarioDir  = fs.String("scenario", "", "Directory containing parts.csv and optionally products.csv")
		partsFile    = fs.String("parts", "", "Path to parts CSV file")
		productsFile = fs.String("products", "", "Path to products CSV file")
		verbose      = fs.Bool("verbose", false, "Enable debug logging")
		help         = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return commands.NewSessionCommand(commands.SessionConfig{
		ScenarioDir:  *scenarioDir,
		PartsFile:    *partsFile,
		ProductsFile: *productsFile,
		Verbose:      *verbose,
		Help:         *help,
	}), nil
}

func parseGenerateFlags(args []string) (command, error) {
	fs := flag.NewFlagSet("ims generate", flag.ContinueOnError)
	var (
		parts      = fs.Int("parts", 50, "Number of parts to generate")
		products   = fs.Int("products", 10, "Number of products to generate")
		maxParts   = fs.Int("max-parts", 8, "Maximum parts per product")
		overBudget = fs.Float64("over-budget", 0.2, "Share of products priced below their parts")
		outsourced = fs.Float64("outsourced", 0.5, "Share of parts bought from outside companies")
		outputDir  = fs.String("output", "", "Output directory for generated files")
		seed       = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose    = fs.Bool("verbose", false, "Enable verbose output")
		help       = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return commands.NewGenerateCommand(commands.GenerateConfig{
		Parts:      *parts,
		Products:   *products,
		MaxParts:   *maxParts,
		OverBudget: *overBudget,
		Outsourced: *outsourced,
		OutputDir:  *outputDir,
		Seed:       *seed,
		Verbose:    *verbose,
		Help:       *help,
	}), nil
}
