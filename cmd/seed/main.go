package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hanbyul/storefront-backend/config"
	"github.com/hanbyul/storefront-backend/internal/app/model"
	"github.com/hanbyul/storefront-backend/internal/app/repository"
	"github.com/hanbyul/storefront-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Imports an item catalog from an XLSX file with the columns:
// Name | Description | Price | Image URL | Status

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	itemRepo := repository.NewItemRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, err := readItemsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total items to import: %d\n", len(items))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := itemRepo.BulkCreate(items, batchSize); err != nil {
		log.Fatal("Failed to bulk create items:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total items imported: %d\n", len(items))
}

func readItemsFromXLSX(filePath string) ([]model.Item, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var items []model.Item
	seenNames := make(map[string]bool)
	skippedCount := 0
	invalidPriceCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 3 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := ""
		if len(row) > 1 {
			description = strings.TrimSpace(row[1])
		}
		priceStr := strings.TrimSpace(row[2])
		imageURL := ""
		if len(row) > 3 {
			imageURL = strings.TrimSpace(row[3])
		}
		statusStr := ""
		if len(row) > 4 {
			statusStr = strings.TrimSpace(strings.ToLower(row[4]))
		}

		if name == "" {
			skippedCount++
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			invalidPriceCount++
			skippedCount++
			continue
		}

		status := model.ItemStatusActive
		if statusStr == string(model.ItemStatusInactive) {
			status = model.ItemStatusInactive
		}

		// Dedup by name within the file
		key := strings.ToLower(name)
		if seenNames[key] {
			skippedCount++
			continue
		}
		seenNames[key] = true

		items = append(items, model.Item{
			Name:        name,
			Description: description,
			Price:       price,
			ImageURL:    imageURL,
			Status:      status,
		})

		if len(items)%500 == 0 {
			fmt.Printf("Processed %d items...\n", len(items))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid items: %d\n", len(items))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with invalid prices: %d\n", invalidPriceCount)

	return items, nil
}
