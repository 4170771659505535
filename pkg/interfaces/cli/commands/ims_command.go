package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/application/services"
	"github.com/vsinha/ims/pkg/domain/entities"
	"github.com/vsinha/ims/pkg/infrastructure/events"
	"github.com/vsinha/ims/pkg/infrastructure/fixtures"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/ims/pkg/interfaces/cli/output"
)

// NoID leaves an id flag unset
const NoID = -1

// Config holds configuration for the IMS command
type Config struct {
	ScenarioDir    string
	PartsFile      string
	ProductsFile   string
	OutputDir      string
	Format         string
	SearchParts    string
	SearchProducts string
	PriceChange    string // "id=price"
	DeletePart     int
	DeleteProduct  int
	Yes            bool
	Verbose        bool
	Help           bool

	// Output receives the report and Log the log lines. Nil means stdout and
	// stderr.
	Output io.Writer
	Log    io.Writer
}

// IMSCommand seeds an inventory, applies the requested edits and prints the result
type IMSCommand struct {
	config Config
	out    io.Writer
}

// NewIMSCommand creates a new IMS command with the given configuration
func NewIMSCommand(config Config) *IMSCommand {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	return &IMSCommand{
		config: config,
		out:    out,
	}
}

// Execute runs the IMS command
func (c *IMSCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	// Validate inputs
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Determine input files
	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	logger := newLogger(c.config.Verbose, c.config.Log)
	defer func() { _ = logger.Sync() }()

	if c.config.Verbose {
		c.printHeader(files)
	}

	inv, err := loadInventory(files)
	if err != nil {
		return err
	}
	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Inventory loaded: %d parts, %d products\n\n", inv.PartCount(), inv.ProductCount())
	}
	if err := watchJournal(inv, logger); err != nil {
		return err
	}
	loaded := inv.Journal().Position()

	prompter := &loggingPrompter{answer: services.No, logger: logger}
	if c.config.Yes {
		prompter.answer = services.Yes
	}

	messages, err := c.applyActions(ctx, inv, prompter, logger)
	if err != nil {
		return err
	}

	screen := services.NewInventoryScreen(inv, prompter, logger)
	snapshot := dto.Snapshot{Parts: inv.AllParts(), Products: inv.AllProducts(), Messages: messages}
	if c.config.SearchParts != "" {
		if snapshot.Parts, err = screen.SearchParts(c.config.SearchParts); err != nil {
			return err
		}
	}
	if c.config.SearchProducts != "" {
		if snapshot.Products, err = screen.SearchProducts(c.config.SearchProducts); err != nil {
			return err
		}
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}
	if err := output.Generate(c.out, snapshot, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "🏁 Done (%d inventory changes)\n", inv.Journal().Position()-loaded)
	}
	return nil
}

// applyActions runs the edits in a fixed order: price change, part delete,
// product delete. A declined confirmation is reported, not returned.
func (c *IMSCommand) applyActions(ctx context.Context, inv *memory.Inventory, prompter services.Prompter, logger *zap.Logger) ([]string, error) {
	var messages []string

	if c.config.PriceChange != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, price, err := parsePriceChange(c.config.PriceChange)
		if err != nil {
			return nil, err
		}
		msg, err := changePartPrice(services.NewPartEditor(inv, prompter, logger), inv, id, price)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	screen := services.NewInventoryScreen(inv, prompter, logger)

	if c.config.DeletePart != NoID {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := screen.DeletePart(c.config.DeletePart)
		switch {
		case errors.Is(err, services.ErrCancelled):
			messages = append(messages, fmt.Sprintf("delete of part %d cancelled", c.config.DeletePart))
		case err != nil:
			return nil, fmt.Errorf("failed to delete part: %w", err)
		default:
			messages = append(messages, fmt.Sprintf("deleted part %d", c.config.DeletePart))
		}
	}

	if c.config.DeleteProduct != NoID {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		deleted, err := screen.DeleteProduct(c.config.DeleteProduct)
		switch {
		case errors.Is(err, services.ErrCancelled):
			messages = append(messages, fmt.Sprintf("delete of product %d cancelled", c.config.DeleteProduct))
		case err != nil:
			return nil, fmt.Errorf("failed to delete product: %w", err)
		default:
			messages = append(messages, fmt.Sprintf("deleted product %d and %d orphaned parts", c.config.DeleteProduct, len(deleted)))
		}
	}

	return messages, nil
}

// changePartPrice saves a new price for part id through the part editor and
// describes the outcome
func changePartPrice(editor *services.PartEditor, inv *memory.Inventory, id int, price string) (string, error) {
	part, ok := inv.LookupPart(id)
	if !ok {
		return "", fmt.Errorf("part %d: %w", id, entities.ErrNotFound)
	}
	form := dto.PartFormFrom(part)
	form.Price = price

	saved, err := editor.Save(form)
	switch {
	case errors.Is(err, services.ErrCancelled):
		return fmt.Sprintf("price change of part %d cancelled", id), nil
	case err != nil:
		return "", fmt.Errorf("price change of part %d rejected: %w", id, err)
	}
	return fmt.Sprintf("part %d price set to %s", id, saved.Price().StringFixed(2)), nil
}

// parsePriceChange splits "id=price"
func parsePriceChange(s string) (int, string, error) {
	idText, price, ok := strings.Cut(s, "=")
	if !ok {
		return 0, "", fmt.Errorf("price change must look like id=price, got %q", s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(idText))
	if err != nil {
		return 0, "", fmt.Errorf("invalid part id in price change %q", s)
	}
	return id, strings.TrimSpace(price), nil
}

// loadInventory builds the session inventory from the seed files, or from the
// demo catalog when there are none
func loadInventory(files map[string]string) (*memory.Inventory, error) {
	inv := memory.NewInventory()
	if files == nil {
		if err := fixtures.LoadDemoCatalog(inv); err != nil {
			return nil, fmt.Errorf("failed to load demo catalog: %w", err)
		}
		return inv, nil
	}
	if err := csv.NewLoader().LoadCatalogFiles(inv, files["Parts"], files["Products"]); err != nil {
		return nil, fmt.Errorf("error loading catalog: %w", err)
	}
	return inv, nil
}

// watchJournal logs every inventory event at debug level
func watchJournal(inv *memory.Inventory, logger *zap.Logger) error {
	journalLogger := logger.Named("journal")
	inv.Journal().OnHandlerError(func(event events.Event, err error) {
		journalLogger.Warn("event handler failed", zap.String("type", event.Type()), zap.Error(err))
	})
	handler := events.NewHandlerFunc(func(event events.Event) error {
		journalLogger.Debug("inventory event",
			zap.String("type", event.Type()),
			zap.String("stream", event.StreamID()),
			zap.Int("version", event.Version()))
		return nil
	}, events.AllInventoryEvents...)
	if err := inv.Subscribe(events.AllInventoryEvents, handler); err != nil {
		return fmt.Errorf("failed to watch inventory events: %w", err)
	}
	return nil
}

// loggingPrompter answers every prompt the same way and logs what it was asked
type loggingPrompter struct {
	answer services.Answer
	logger *zap.Logger
}

func (p *loggingPrompter) Confirm(prompt services.Prompt) services.Answer {
	answer := p.answer
	if answer == services.Cancel && !prompt.AllowCancel {
		answer = services.No
	}
	p.logger.Info("confirmation",
		zap.String("title", prompt.Title),
		zap.String("header", prompt.Header),
		zap.String("message", prompt.Message),
		zap.Stringer("answer", answer))
	return answer
}

// validateInputs validates the command configuration
func (c *IMSCommand) validateInputs() error {
	switch c.config.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	if c.config.ScenarioDir != "" && (c.config.PartsFile != "" || c.config.ProductsFile != "") {
		return fmt.Errorf("use either -scenario or -parts/-products, not both")
	}
	if c.config.ProductsFile != "" && c.config.PartsFile == "" {
		return fmt.Errorf("-products needs -parts")
	}
	if c.config.DeletePart < NoID || c.config.DeleteProduct < NoID {
		return fmt.Errorf("ids cannot be negative")
	}
	return nil
}

// resolveInputFiles determines the seed files to load. A nil map selects the
// demo catalog; a scenario directory may omit products.csv.
func (c *IMSCommand) resolveInputFiles() (map[string]string, error) {
	var partsPath, productsPath string

	switch {
	case c.config.ScenarioDir != "":
		partsPath = filepath.Join(c.config.ScenarioDir, "parts.csv")
		productsPath = filepath.Join(c.config.ScenarioDir, "products.csv")
		if _, err := os.Stat(productsPath); os.IsNotExist(err) {
			productsPath = ""
		}
	case c.config.PartsFile != "":
		partsPath = c.config.PartsFile
		productsPath = c.config.ProductsFile
	default:
		return nil, nil
	}

	files := map[string]string{
		"Parts":    partsPath,
		"Products": productsPath,
	}

	// Validate files exist
	for name, path := range files {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *IMSCommand) printHeader(files map[string]string) {
	fmt.Fprintf(c.out, "🚀 Inventory Management System\n")
	if files == nil {
		fmt.Fprintf(c.out, "Input: built-in demo catalog\n")
	} else {
		fmt.Fprintf(c.out, "Input files:\n")
		fmt.Fprintf(c.out, "  Parts: %s\n", files["Parts"])
		if files["Products"] != "" {
			fmt.Fprintf(c.out, "  Products: %s\n", files["Products"])
		}
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *IMSCommand) showHelp() {
	fmt.Fprintf(c.out, `IMS - Inventory Management System

USAGE:
    ims [OPTIONS]                          # Print the inventory
    ims shell [OPTIONS]                    # Interactive session
    ims generate [OPTIONS]                 # Write a random seed catalog

OPTIONS:
    -scenario <dir>         Directory containing parts.csv and optionally products.csv
    -parts <file>           Path to parts CSV file
    -products <file>        Path to products CSV file
    -output <dir>           Output directory for results (required for csv)
    -format <fmt>           Output format: text, json, csv (default: text)
    -search-parts <text>    Only list parts whose name contains text
    -search-products <text> Only list products whose name contains text
    -price-change <id=p>    Set the price of a part
    -delete-part <id>       Delete a part
    -delete-product <id>    Delete a product
    -yes                    Answer Yes to every confirmation (default: No)
    -verbose                Enable verbose output and debug logging
    -help                   Show this help message

Without -scenario or -parts a built-in demo catalog is used.

CSV FILE FORMATS:

parts.csv:
    id,name,price,stock,min,max,kind,machine_id,company_name
    0,Wheel,12.50,10,2,40,inhouse,7,
    1,Bell,2.99,25,5,100,outsourced,,Ding Ltd

products.csv:
    id,name,price,stock,min,max,part_ids
    0,Bike,150.00,3,1,10,0;1

EXAMPLES:
    # List the demo catalog
    ims -verbose

    # Raise a price, confirming any warning
    ims -price-change 0=3.50 -yes

    # Delete a product and its orphaned parts, then save the result
    ims -scenario data/shop -delete-product 2 -yes -format csv -output out/
`)
}
