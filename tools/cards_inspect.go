package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Mirrors of the persisted records; the store owns the canonical
// definitions but the inspector stays a standalone binary.
type categoryRecord struct {
	ID     uuid.UUID `cbor:"1,keyasint"`
	Parent uuid.UUID `cbor:"2,keyasint"`
	Name   string    `cbor:"3,keyasint"`
}

type cardRecord struct {
	ID      uuid.UUID `cbor:"1,keyasint"`
	Parent  uuid.UUID `cbor:"2,keyasint"`
	Creator uuid.UUID `cbor:"3,keyasint"`
	Name    string    `cbor:"4,keyasint"`
}

func main() {
	dbPath := flag.String("db", "/tmp/gridchat/badger", "Path to badger DB")
	// Scan both record families by default; narrow with -prefix cat: or -prefix item:
	prefix := flag.String("prefix", "", "Prefix to scan (empty scans everything)")
	noColour := flag.Bool("no-colour", false, "Disable colorized output")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	header := fmt.Sprintf("  ====== Friend cards @ %s ======", *dbPath)
	if !*noColour {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Parent", "Creator", "Name"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				switch {
				case strings.HasPrefix(rawKey, "cat:"):
					var c categoryRecord
					if err := cbor.Unmarshal(v, &c); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					table.Append([]string{rawKey, "FOLDER", shortID(c.Parent), "", c.Name})
				case strings.HasPrefix(rawKey, "item:"):
					var c cardRecord
					if err := cbor.Unmarshal(v, &c); err != nil {
						fmt.Printf("Error unmarshaling key %s: %v\n", rawKey, err)
						return nil
					}
					table.Append([]string{rawKey, "CARD", shortID(c.Parent), shortID(c.Creator), c.Name})
				default:
					table.Append([]string{rawKey, "RAW", "", "", fmt.Sprintf("%d bytes", len(v))})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// shortID keeps the first 8 characters of an identifier for readability.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	db, err := badger.Open(opts)
	if err != nil {
		// Corruption needs a write-mode open so badger can truncate,
		// then we drop back to read-only.
		if strings.Contains(err.Error(), "Log truncate required") {
			repairOpts := badger.DefaultOptions(path).
				WithLogger(nil).WithBypassLockGuard(true)

			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
