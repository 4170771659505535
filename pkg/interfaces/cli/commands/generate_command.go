package commands

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/ims/pkg/domain/entities"
	domainservices "github.com/vsinha/ims/pkg/domain/services"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/memory"
)

// GenerateConfig holds configuration for seed catalog generation
type GenerateConfig struct {
	Parts      int     // Number of parts to generate
	Products   int     // Number of products to generate
	MaxParts   int     // Maximum number of parts per product
	OverBudget float64 // Share of products priced below their parts (0.0 - 1.0)
	Outsourced float64 // Share of parts bought from outside companies (0.0 - 1.0)
	OutputDir  string  // Output directory for generated files
	Seed       int64   // Random seed for reproducible generation
	Help       bool    // Show help
	Verbose    bool    // Verbose output
	Output     io.Writer
}

// GenerateCommand writes a random seed catalog
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

var (
	partAdjectives = []string{"OEM", "Bionic", "Small", "Medium", "Large", "Prosthetic", "Reinforced", "Titanium", "Carbon", "Hydraulic"}
	partNouns      = []string{"Leg", "Head", "Thorax", "Stinger", "Mandible", "Antennae", "Trunk Segment", "Wing", "Claw", "Eye"}
	companies      = []string{"God", "Austin Labs", "Spies R Us", "Arthropod Supply", "Chitin Works"}
	productNouns   = []string{"Centipede", "Scorpion", "Beetle", "Mantis", "Spider", "Ant", "Wasp", "Cricket"}
)

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating catalog with %d parts, %d products, up to %d parts each\n",
			cmd.config.Parts,
			cmd.config.Products,
			cmd.config.MaxParts,
		)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	// Create output directory
	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	inv := memory.NewInventory()

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "🔩 Generating parts...")
	}
	if err := cmd.generateParts(ctx, inv); err != nil {
		return fmt.Errorf("failed to generate parts: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📦 Generating products...")
	}
	if err := cmd.generateProducts(ctx, inv); err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}

	if err := cmd.writeFile("parts.csv", func(w io.Writer) error { return csv.WriteParts(w, inv.AllParts()) }); err != nil {
		return fmt.Errorf("failed to write parts: %w", err)
	}
	if err := cmd.writeFile("products.csv", func(w io.Writer) error { return csv.WriteProducts(w, inv.AllProducts()) }); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Catalog generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case cmd.config.Parts < 1:
		return fmt.Errorf("at least one part is required, got %d", cmd.config.Parts)
	case cmd.config.Products < 0:
		return fmt.Errorf("product count cannot be negative, got %d", cmd.config.Products)
	case cmd.config.MaxParts < 1:
		return fmt.Errorf("max parts per product must be at least 1, got %d", cmd.config.MaxParts)
	case cmd.config.OverBudget < 0 || cmd.config.OverBudget > 1:
		return fmt.Errorf("over-budget share must be between 0 and 1, got %g", cmd.config.OverBudget)
	case cmd.config.Outsourced < 0 || cmd.config.Outsourced > 1:
		return fmt.Errorf("outsourced share must be between 0 and 1, got %g", cmd.config.Outsourced)
	}
	return nil
}

// generateParts adds cmd.config.Parts parts with realistic stock levels
func (cmd *GenerateCommand) generateParts(ctx context.Context, inv *memory.Inventory) error {
	for i := 0; i < cmd.config.Parts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := fmt.Sprintf("%s %s %04d",
			partAdjectives[cmd.rand.Intn(len(partAdjectives))],
			partNouns[cmd.rand.Intn(len(partNouns))],
			i)
		price := cmd.generatePrice(1, 250000)
		lo, hi := cmd.generateBounds()
		stock := lo + cmd.rand.Intn(hi-lo+1)

		var part *entities.Part
		var err error
		if cmd.rand.Float64() < cmd.config.Outsourced {
			company := companies[cmd.rand.Intn(len(companies))]
			part, err = entities.NewOutsourced(entities.UnassignedID, name, price, stock, lo, hi, company)
		} else {
			part, err = entities.NewInHouse(entities.UnassignedID, name, price, stock, lo, hi, 1+cmd.rand.Intn(20))
		}
		if err != nil {
			return err
		}
		if err := inv.AddPart(part); err != nil {
			return err
		}
	}
	return nil
}

// generateProducts builds products from random, possibly shared, parts and
// prices most of them above the sum of their parts
func (cmd *GenerateCommand) generateProducts(ctx context.Context, inv *memory.Inventory) error {
	parts := inv.AllParts()
	for i := 0; i < cmd.config.Products; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lo, hi := cmd.generateBounds()
		name := fmt.Sprintf("%s Mk %d", productNouns[cmd.rand.Intn(len(productNouns))], i+1)
		product, err := entities.NewProduct(entities.UnassignedID, name, decimal.Zero,
			lo+cmd.rand.Intn(hi-lo+1), lo, hi)
		if err != nil {
			return err
		}

		count := 1 + cmd.rand.Intn(cmd.config.MaxParts)
		for _, idx := range cmd.rand.Perm(len(parts))[:min(count, len(parts))] {
			if err := inv.AssociatePart(product, parts[idx]); err != nil {
				return err
			}
		}

		// Mark up by 10% to 100%, or mark down by 10% to 50% when over budget
		sum := domainservices.PriceSum(product.AssociatedParts())
		price := sum.Mul(decimal.NewFromFloat(1.1 + cmd.rand.Float64()*0.9)).RoundCeil(2)
		if cmd.rand.Float64() < cmd.config.OverBudget {
			price = sum.Mul(decimal.NewFromFloat(0.5 + cmd.rand.Float64()*0.4)).Truncate(2)
		}
		if err := product.SetPrice(price); err != nil {
			return err
		}

		if err := inv.AddProduct(product); err != nil {
			return err
		}
	}
	return nil
}

// generatePrice returns a price between low and high cents, skewed towards cheap parts
func (cmd *GenerateCommand) generatePrice(low, high int64) decimal.Decimal {
	f := cmd.rand.Float64()
	cents := low + int64(f*f*f*float64(high-low))
	return decimal.New(cents, -2)
}

// generateBounds returns inventory limits with 0 <= min < max
func (cmd *GenerateCommand) generateBounds() (int, int) {
	lo := cmd.rand.Intn(500)
	return lo, lo + 1 + cmd.rand.Intn(5000)
}

func (cmd *GenerateCommand) writeFile(name string, write func(io.Writer) error) error {
	filePath := filepath.Join(cmd.config.OutputDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "💾 Wrote %s\n", filePath)
	}
	return file.Close()
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `IMS Catalog Generator

USAGE:
    ims generate [OPTIONS]

OPTIONS:
    -parts <N>          Number of parts to generate (default: 50)
    -products <N>       Number of products to generate (default: 10)
    -max-parts <N>      Maximum parts per product (default: 8)
    -over-budget <F>    Share of products priced below their parts (default: 0.2)
    -outsourced <F>     Share of parts bought from outside companies (default: 0.5)
    -output <DIR>       Output directory for parts.csv and products.csv (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small catalog
    ims generate -parts 20 -products 4 -output ./small

    # Generate a large catalog, then load it
    ims generate -parts 5000 -products 800 -output ./large -verbose
    ims -scenario ./large -search-products mantis

    # Generate a reproducible catalog
    ims generate -output ./repro -seed 12345`)
}
