package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/vsinha/ims/pkg/application/dto"
	"github.com/vsinha/ims/pkg/infrastructure/repositories/csv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate writes snapshot in the configured format. Text and JSON go to w
// unless OutputDir is set; CSV always needs OutputDir and writes one file per
// collection in the seed format, so the output can be loaded again.
func Generate(w io.Writer, snapshot dto.Snapshot, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(w, snapshot.Report())
	case "json":
		return generateJSONOutput(w, snapshot.Report(), config)
	case "csv":
		return generateCSVOutput(w, snapshot, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, report *dto.InventoryReport) error {
	fmt.Fprintf(w, "📊 Inventory Summary\n")
	fmt.Fprintf(w, "====================\n\n")

	fmt.Fprintf(w, "Parts: %d\n", len(report.Parts))
	fmt.Fprintf(w, "Products: %d\n\n", len(report.Products))

	if len(report.Messages) > 0 {
		fmt.Fprintf(w, "📝 Actions:\n")
		for _, m := range report.Messages {
			fmt.Fprintf(w, "  %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(report.Parts) > 0 {
		fmt.Fprintf(w, "🔩 Parts:\n")
		fmt.Fprintf(w, "%-4s %-36s %12s %8s %6s %6s %-11s %-16s\n",
			"ID", "Name", "Price", "Inv", "Min", "Max", "Kind", "Machine/Company")
		fmt.Fprintf(w, "%-4s %-36s %12s %8s %6s %6s %-11s %-16s\n",
			"----", "------------------------------------", "------------", "--------", "------", "------",
			"-----------", "----------------")

		for _, p := range report.Parts {
			source := p.CompanyName
			if p.MachineID != nil {
				source = fmt.Sprintf("%d", *p.MachineID)
			}
			fmt.Fprintf(w, "%-4d %-36s %12s %8d %6d %6d %-11s %-16s\n",
				p.ID, p.Name, p.Price, p.Stock, p.Min, p.Max, p.Kind, source)
		}
		fmt.Fprintln(w)
	}

	if len(report.Products) > 0 {
		fmt.Fprintf(w, "📦 Products:\n")
		fmt.Fprintf(w, "%-4s %-36s %12s %8s %6s %6s %12s %-20s\n",
			"ID", "Name", "Price", "Inv", "Min", "Max", "Parts Price", "Parts")
		fmt.Fprintf(w, "%-4s %-36s %12s %8s %6s %6s %12s %-20s\n",
			"----", "------------------------------------", "------------", "--------", "------", "------",
			"------------", "--------------------")

		for _, p := range report.Products {
			flag := ""
			if p.ExceedsPrice {
				flag = " ⚠️"
			}
			fmt.Fprintf(w, "%-4d %-36s %12s %8d %6d %6d %12s %-20s%s\n",
				p.ID, p.Name, p.Price, p.Stock, p.Min, p.Max, p.PartsPrice, fmt.Sprint(p.PartIDs), flag)
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, report *dto.InventoryReport, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "inventory.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes parts.csv and products.csv
func generateCSVOutput(w io.Writer, snapshot dto.Snapshot, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	partsFile := filepath.Join(config.OutputDir, "parts.csv")
	if err := writeCSVFile(partsFile, func(f io.Writer) error { return csv.WriteParts(f, snapshot.Parts) }); err != nil {
		return fmt.Errorf("failed to write parts CSV: %w", err)
	}

	productsFile := filepath.Join(config.OutputDir, "products.csv")
	if err := writeCSVFile(productsFile, func(f io.Writer) error { return csv.WriteProducts(f, snapshot.Products) }); err != nil {
		return fmt.Errorf("failed to write products CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Parts: %s\n", partsFile)
		fmt.Fprintf(w, "  Products: %s\n", productsFile)
	}
	return nil
}

func writeCSVFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
