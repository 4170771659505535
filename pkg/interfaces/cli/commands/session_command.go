package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"


	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/application/services"
	"github.com/vsinha/ims/pkg/domain/entities"
	domainservices "github.com/vsinha/ims/pkg/domain/services"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/memory"
)

var errQuit = errors.New("quit")

// SessionConfig holds configuration for the interactive session
type SessionConfig struct {
	ScenarioDir  string
	PartsFile    string
	ProductsFile string
	Verbose      bool
	Help         bool

	// Nil means stdin, stdout and stderr
	Input  io.Reader
	Output io.Writer
	Log    io.Writer
}

// SessionCommand runs an interactive shell over one inventory
type SessionCommand struct {
	config   SessionConfig
	scanner  *bufio.Scanner
	out      io.Writer
	inv      *memory.Inventory
	parts    *services.PartEditor
	products *services.ProductEditor
	screen   *services.InventoryScreen
}

// NewSessionCommand creates a new session command with the given configuration
func NewSessionCommand(config SessionConfig) *SessionCommand {
	in := config.Input
	if in == nil {
		in = os.Stdin
	}
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	return &SessionCommand{
		config:  config,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Execute runs the session until quit or end of input
func (c *SessionCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.printHelp()
		return nil
	}

	files, err := (&IMSCommand{config: Config{
		ScenarioDir:  c.config.ScenarioDir,
		PartsFile:    c.config.PartsFile,
		ProductsFile: c.config.ProductsFile,
	}}).resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	logger := newLogger(c.config.Verbose, c.config.Log)
	defer func() { _ = logger.Sync() }()

	c.inv, err = loadInventory(files)
	if err != nil {
		return err
	}
	if err := watchJournal(c.inv, logger); err != nil {
		return err
	}

	prompter := &terminalPrompter{scanner: c.scanner, out: c.out}
	c.parts = services.NewPartEditor(c.inv, prompter, logger)
	c.products = services.NewProductEditor(c.inv, prompter, logger)
	c.screen = services.NewInventoryScreen(c.inv, prompter, logger)

	return c.runInteractiveSession(ctx)
}

func (c *SessionCommand) runInteractiveSession(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Inventory Session ===")
	fmt.Fprintf(c.out, "%d parts, %d products loaded. Type 'help' for available commands\n", c.inv.PartCount(), c.inv.ProductCount())
	fmt.Fprintln(c.out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "ims> ")
		if !c.scanner.Scan() {
			break
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		err := c.processCommand(line)
		if errors.Is(err, errQuit) {
			fmt.Fprintln(c.out, "Goodbye!")
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		fmt.Fprintln(c.out)
	}

	return c.scanner.Err()
}

func (c *SessionCommand) processCommand(line string) error {
	fields := strings.Fields(line)
	command := fields[0]
	args := fields[1:]

	switch command {
	case "help", "h":
		c.printInteractiveHelp()
	case "parts":
		return c.handleListParts(strings.TrimSpace(strings.TrimPrefix(line, command)))
	case "products":
		return c.handleListProducts(strings.TrimSpace(strings.TrimPrefix(line, command)))
	case "add-part":
		return c.handleAddPart(args)
	case "edit-part":
		return c.handleEditPart(args)
	case "add-product":
		return c.handleEditProduct(dto.ProductForm{ID: dto.NewID})
	case "edit-product":
		id, err := parseIDArg(args, "edit-product <id>")
		if err != nil {
			return err
		}
		product, ok := c.inv.LookupProduct(id)
		if !ok {
			return fmt.Errorf("product %d: %w", id, entities.ErrNotFound)
		}
		return c.handleEditProduct(dto.ProductFormFrom(product))
	case "price":
		return c.handlePrice(args)
	case "delete-part":
		return c.handleDeletePart(args)
	case "delete-product":
		return c.handleDeleteProduct(args)
	case "status":
		return c.handleStatus()
	case "events":
		return c.handleShowEvents(args)
	case "quit", "q", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}

	return nil
}

func (c *SessionCommand) handleListParts(text string) error {
	parts := c.inv.AllParts()
	if text != "" {
		var err error
		if parts, err = c.screen.SearchParts(text); err != nil {
			return err
		}
	}
	if len(parts) == 0 {
		fmt.Fprintln(c.out, "No parts found")
		return nil
	}
	fmt.Fprintf(c.out, "%-4s %-36s %12s %8s %6s %6s %-11s %-16s\n",
		"ID", "Name", "Price", "Inv", "Min", "Max", "Kind", "Machine/Company")
	for _, p := range parts {
		view := dto.NewPartView(p)
		source := view.CompanyName
		if view.MachineID != nil {
			source = strconv.Itoa(*view.MachineID)
		}
		fmt.Fprintf(c.out, "%-4d %-36s %12s %8d %6d %6d %-11s %-16s\n",
			view.ID, view.Name, view.Price, view.Stock, view.Min, view.Max, view.Kind, source)
	}
	return nil
}

func (c *SessionCommand) handleListProducts(text string) error {
	products := c.inv.AllProducts()
	if text != "" {
		var err error
		if products, err = c.screen.SearchProducts(text); err != nil {
			return err
		}
	}
	if len(products) == 0 {
		fmt.Fprintln(c.out, "No products found")
		return nil
	}
	fmt.Fprintf(c.out, "%-4s %-36s %12s %8s %6s %6s %12s %s\n",
		"ID", "Name", "Price", "Inv", "Min", "Max", "Parts Price", "Parts")
	for _, p := range products {
		view := dto.NewProductView(p)
		flag := ""
		if view.ExceedsPrice {
			flag = " ⚠️"
		}
		fmt.Fprintf(c.out, "%-4d %-36s %12s %8d %6d %6d %12s %v%s\n",
			view.ID, view.Name, view.Price, view.Stock, view.Min, view.Max, view.PartsPrice, view.PartIDs, flag)
	}
	return nil
}

func (c *SessionCommand) handleAddPart(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add-part <inhouse|outsourced>")
	}
	kind, err := entities.ParsePartKind(args[0])
	if err != nil {
		return err
	}
	return c.editPart(dto.PartForm{ID: dto.NewID, Kind: kind})
}

func (c *SessionCommand) handleEditPart(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: edit-part <id> [inhouse|outsourced]")
	}
	id, err := parseIDArg(args[:1], "edit-part <id> [inhouse|outsourced]")
	if err != nil {
		return err
	}
	part, ok := c.inv.LookupPart(id)
	if !ok {
		return fmt.Errorf("part %d: %w", id, entities.ErrNotFound)
	}
	form := dto.PartFormFrom(part)
	if len(args) == 2 {
		if form.Kind, err = entities.ParsePartKind(args[1]); err != nil {
			return err
		}
	}
	return c.editPart(form)
}

// editPart asks for every field of form, keeping the current value on an
// empty answer, then saves it
func (c *SessionCommand) editPart(form dto.PartForm) error {
	fields := []struct {
		label string
		value *string
	}{
		{dto.LabelName, &form.Name},
		{dto.LabelPrice, &form.Price},
		{dto.LabelStock, &form.Stock},
		{dto.LabelMin, &form.Min},
		{dto.LabelMax, &form.Max},
	}
	for _, f := range fields {
		if err := c.readField(f.label, f.value); err != nil {
			return err
		}
	}
	switch form.Kind {
	case entities.InHouse:
		if err := c.readField(dto.LabelMachineID, &form.MachineID); err != nil {
			return err
		}
	case entities.Outsourced:
		if err := c.readField(dto.LabelCompanyName, &form.CompanyName); err != nil {
			return err
		}
	}

	part, err := c.parts.Save(form)
	if err != nil {
		return c.reportSaveError(err)
	}
	fmt.Fprintf(c.out, "Saved part %d: %s\n", part.ID(), part)
	return nil
}

// handleEditProduct asks for every field of form, then saves it
func (c *SessionCommand) handleEditProduct(form dto.ProductForm) error {
	fields := []struct {
		label string
		value *string
	}{
		{dto.LabelName, &form.Name},
		{dto.LabelPrice, &form.Price},
		{dto.LabelStock, &form.Stock},
		{dto.LabelMin, &form.Min},
		{dto.LabelMax, &form.Max},
	}
	for _, f := range fields {
		if err := c.readField(f.label, f.value); err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(form.PartIDs))
	for _, id := range form.PartIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	partIDs := strings.Join(ids, ";")
	if err := c.readField(dto.LabelParts+" (ids separated by ;)", &partIDs); err != nil {
		return err
	}
	var err error
	if form.PartIDs, err = dto.ParsePartIDs(partIDs); err != nil {
		return fmt.Errorf("invalid part ids %q", partIDs)
	}

	product, err := c.products.Save(form)
	if err != nil {
		return c.reportSaveError(err)
	}
	fmt.Fprintf(c.out, "Saved product %d: %s\n", product.ID(), product)
	return nil
}

func (c *SessionCommand) handlePrice(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: price <part-id> <price>")
	}
	id, err := parseIDArg(args[:1], "price <part-id> <price>")
	if err != nil {
		return err
	}
	msg, err := changePartPrice(c.parts, c.inv, id, args[1])
	if err != nil {
		return c.reportSaveError(err)
	}
	fmt.Fprintln(c.out, msg)
	return nil
}

func (c *SessionCommand) handleDeletePart(args []string) error {
	id, err := parseIDArg(args, "delete-part <id>")
	if err != nil {
		return err
	}
	err = c.screen.DeletePart(id)
	if errors.Is(err, services.ErrCancelled) {
		fmt.Fprintln(c.out, "Delete cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted part %d\n", id)
	return nil
}

func (c *SessionCommand) handleDeleteProduct(args []string) error {
	id, err := parseIDArg(args, "delete-product <id>")
	if err != nil {
		return err
	}
	deleted, err := c.screen.DeleteProduct(id)
	if errors.Is(err, services.ErrCancelled) {
		fmt.Fprintln(c.out, "Delete cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted product %d\n", id)
	for _, part := range deleted {
		fmt.Fprintf(c.out, "  also deleted part %d %q\n", part.ID(), part.Name())
	}
	return nil
}

func (c *SessionCommand) handleStatus() error {
	journal := c.inv.Journal()

	fmt.Fprintf(c.out, "=== Inventory Status ===\n")
	fmt.Fprintf(c.out, "Parts: %d\n", c.inv.PartCount())
	fmt.Fprintf(c.out, "Products: %d\n", c.inv.ProductCount())

	var flagged []string
	for _, product := range c.inv.AllProducts() {
		if domainservices.ExceedsPrice(product) {
			flagged = append(flagged, product.Name())
		}
	}
	if len(flagged) > 0 {
		fmt.Fprintf(c.out, "Products whose parts cost more than they do: %s\n", strings.Join(flagged, ", "))
	}

	fmt.Fprintf(c.out, "Total events recorded: %d\n", journal.Position())
	eventCounts := journal.CountByType()
	eventTypes := make([]string, 0, len(eventCounts))
	for eventType := range eventCounts {
		eventTypes = append(eventTypes, eventType)
	}
	sort.Strings(eventTypes)
	for _, eventType := range eventTypes {
		fmt.Fprintf(c.out, "  %s: %d\n", eventType, eventCounts[eventType])
	}

	return nil
}

func (c *SessionCommand) handleShowEvents(args []string) error {
	limit := 10
	if len(args) > 0 {
		if l, err := strconv.Atoi(args[0]); err == nil && l > 0 {
			limit = l
		}
	}

	fmt.Fprintf(c.out, "=== Recent Events (last %d) ===\n", limit)
	for _, event := range c.inv.Journal().Recent(limit) {
		fmt.Fprintf(c.out, "[%s] %s -> %s\n",
			event.Timestamp().Format("15:04:05"),
			event.Type(),
			event.StreamID())
	}

	return nil
}

// readField shows label with the current value and replaces it with the
// entered line unless that is empty
func (c *SessionCommand) readField(label string, value *string) error {
	if *value != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", label, *value)
	} else {
		fmt.Fprintf(c.out, "%s: ", label)
	}
	if !c.scanner.Scan() {
		return fmt.Errorf("input ended while editing %s", label)
	}
	if line := strings.TrimSpace(c.scanner.Text()); line != "" {
		*value = line
	}
	return nil
}

// reportSaveError lists field errors one per line; other errors are returned
func (c *SessionCommand) reportSaveError(err error) error {
	if errors.Is(err, services.ErrCancelled) {
		fmt.Fprintln(c.out, "Save cancelled")
		return nil
	}
	fieldErrors := services.FieldErrors(err)
	if len(fieldErrors) == 0 {
		return err
	}
	fmt.Fprintln(c.out, "Please fix the following:")
	for _, fe := range fieldErrors {
		fmt.Fprintf(c.out, "  %s\n", fe.Error())
	}
	return nil
}

func parseIDArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid id: %s", args[0])
	}
	return id, nil
}

// terminalPrompter asks confirmations on the session's input
type terminalPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *terminalPrompter) Confirm(prompt services.Prompt) services.Answer {
	fmt.Fprintf(p.out, "--- %s ---\n", prompt.Title)
	if prompt.Header != "" {
		fmt.Fprintln(p.out, prompt.Header)
	}
	fmt.Fprintln(p.out, prompt.Message)

	choices := "[y/n]"
	if prompt.AllowCancel {
		choices = "[y/n/c]"
	}
	for {
		fmt.Fprintf(p.out, "%s ", choices)
		if !p.scanner.Scan() {
			if prompt.AllowCancel {
				return services.Cancel
			}
			return services.No
		}
		switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
		case "y", "yes":
			return services.Yes
		case "n", "no":
			return services.No
		case "c", "cancel":
			if prompt.AllowCancel {
				return services.Cancel
			}
		}
	}
}

var _ services.Prompter = (*terminalPrompter)(nil)

func (c *SessionCommand) printHelp() {
	fmt.Fprintln(c.out, `Inventory Session Command

USAGE:
    ims shell [OPTIONS]

OPTIONS:
    -scenario <DIR>     Directory containing parts.csv and optionally products.csv
    -parts <FILE>       Path to parts CSV file
    -products <FILE>    Path to products CSV file
    -verbose            Enable debug logging
    -help               Show this help message

DESCRIPTION:
    Starts an interactive session over the inventory where you can add, edit,
    delete and search parts and products. Without input files the demo
    catalog is loaded.`)
}

func (c *SessionCommand) printInteractiveHelp() {
	fmt.Fprintln(c.out, `Available commands:

  parts [text]
      List parts, or the parts whose name contains text

  products [text]
      List products, or the products whose name contains text

  add-part <inhouse|outsourced>
      Add a part, asking for each field

  edit-part <id> [inhouse|outsourced]
      Edit a part; press enter to keep a value. Naming the other kind
      converts the part.

  add-product
  edit-product <id>
      Add or edit a product, asking for each field and its part ids

  price <part-id> <price>
      Change the price of a part
      Example: price 4 13.75

  delete-part <id>
  delete-product <id>
      Delete after confirmation

  status
      Show counts, over-budget products and event counts

  events [limit]
      Show recent inventory events (default: 10)

  help, h
      Show this help message

  quit, q, exit
      Exit the session`)
}
