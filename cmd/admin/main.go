// Command admin is an operator tool: list a user's cards by display name,
// or bulk-import cards for a user from an xlsx/csv file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/example/vocabbot/internal/cards"
	"github.com/example/vocabbot/internal/database"
	"github.com/example/vocabbot/internal/directory"
	"github.com/example/vocabbot/internal/excel"
	"github.com/example/vocabbot/pkg/models"
	"github.com/joho/godotenv"
)

func main() {
	view := flag.String("view", "", "list the cards of the user with this username")
	importFile := flag.String("import", "", "xlsx or csv file to import cards from")
	owner := flag.Int64("owner", 0, "numeric user id owning the imported cards")
	sheet := flag.String("sheet", "Sheet1", "sheet name for xlsx import")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	db, err := database.Connect(os.Getenv("DATABASE_URL"), os.Getenv("DATA_DIR"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)
	cardRepo := database.NewCardRepository(db)
	dir := directory.New(users, cardRepo, nil)
	registry := cards.New(cardRepo, dir, 0)

	ctx := context.Background()

	switch {
	case *view != "":
		if err := viewUser(ctx, dir, registry, *view); err != nil {
			log.Fatal(err)
		}
	case *importFile != "":
		if *owner == 0 {
			log.Fatal("-import requires -owner")
		}
		if err := importCards(ctx, registry, *importFile, *sheet, *owner); err != nil {
			log.Fatal(err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// viewUser prints one user's cards with their progress.
func viewUser(ctx context.Context, dir *directory.Directory, registry *cards.Registry, username string) error {
	user, err := dir.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			fmt.Println("❌ User not found.")
			return nil
		}
		return err
	}
	if !user.TelegramID.Valid {
		fmt.Printf("@%s is a placeholder; assigned cards are still pending.\n", username)
		return nil
	}

	fmt.Printf("\n📚 Words for @%s\n", username)
	fmt.Println("========================================")

	list, err := registry.List(ctx, user.TelegramID.Int64)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("📭 No words found.")
		return nil
	}

	for i, card := range list {
		fmt.Printf("%d. %s → %s (%d/%d)\n",
			i+1, card.Word, card.Translation, card.MasteryCount, registry.Threshold())
	}
	fmt.Println("\nTotal:", len(list))
	return nil
}

// importCards bulk-loads a spreadsheet of word/translation pairs.
func importCards(ctx context.Context, registry *cards.Registry, file, sheet string, owner int64) error {
	config := excel.DefaultImportConfig()
	config.FilePath = file
	config.SheetName = sheet

	result, err := excel.ImportCards(ctx, registry, models.ResolvedOwner(owner), config)
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d rows: %d created, %d skipped\n",
		result.TotalProcessed, result.Created, result.Skipped)
	for _, msg := range result.Errors {
		fmt.Println("  -", msg)
	}
	return nil
}
