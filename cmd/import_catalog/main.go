package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"library-tracker/library"
)

// import_catalog seeds the catalog from a CSV file with the columns
// title,author,price,copies,category,publisher. A header row is skipped when
// its first column reads "title". The database path comes from LIBRARY_DB or
// defaults to library.db in the working directory.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <catalog.csv>\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}
	csvPath := os.Args[1]

	dbPath := strings.TrimSpace(os.Getenv("LIBRARY_DB"))
	if dbPath == "" {
		dbPath = "library.db"
	}

	mgr, err := library.NewManager(dbPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Close()

	f, err := os.Open(filepath.Clean(csvPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening catalog file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 6

	fmt.Printf("Importing books from %s...\n", csvPath)

	successCount := 0
	errorCount := 0
	line := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			fmt.Printf("Line %d: ERROR - %v\n", line, err)
			errorCount++
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "title") {
			continue
		}

		title, author, price, copies, category, publisher := record[0], record[1], record[2], record[3], record[4], record[5]

		fmt.Printf("Importing: %s by %s... ", title, author)
		id, err := mgr.AddBook(title, author, price, copies, category, publisher)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %d)\n", id)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		books, err := mgr.GetAllBooks()
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Println("\nCatalog:")
		fmt.Printf("%-3s %-50s %-30s %-8s\n", "ID", "Title", "Author", "Copies")
		fmt.Println(strings.Repeat("-", 95))
		for _, book := range books {
			fmt.Printf("%-3d %-50s %-30s %-8d\n", book.ID, truncateString(book.Title, 50), truncateString(book.Author, 30), book.AvailableCopies)
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
