package cli

import (
	"flag"
	"fmt"
	"os"

	"poiadmin/internal/config"
	"poiadmin/internal/database"
	"poiadmin/internal/database/pois"
	"poiadmin/internal/entities"
	"poiadmin/internal/importers"
)

// ImportCommand handles batch-importing PoI files from the command line.
type ImportCommand struct {
	DatabasePath string
	Verbose      bool
	DryRun       bool
	Clear        bool
	Files        []string
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every failed record's reason")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Parse and validate without touching the database")
	fs.BoolVar(&cmd.Clear, "clear", false, "Delete all existing points of interest before importing")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options] <file>...\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import points of interest from CSV, JSON, or XML files.\n\n")
		fmt.Fprintf(os.Stderr, "Files are processed in the given order. Records sharing an external\n")
		fmt.Fprintf(os.Stderr, "ID update the stored entity instead of creating a duplicate; a bad\n")
		fmt.Fprintf(os.Stderr, "record is skipped and reported without aborting its file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import sample_pois.csv sample_pois.json sample_pois.xml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s import -dry-run -verbose pois.xml\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Files = fs.Args()
	if len(cmd.Files) == 0 {
		return fmt.Errorf("at least one file argument is required")
	}

	return nil
}

func (cmd *ImportCommand) Run() error {
	var store importers.Store

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		store = newMemoryStore()
	} else {
		db, err := database.NewDatabase(cmd.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		repository := pois.NewRepository(db.DB)

		if cmd.Clear {
			deleted, err := repository.DeleteAll()
			if err != nil {
				return fmt.Errorf("failed to clear existing data: %w", err)
			}
			fmt.Printf("Cleared %d existing points of interest\n", deleted)
		}

		store = repository
	}

	pipeline := importers.NewPipeline(store)
	batch := pipeline.ImportFiles(cmd.Files)

	for _, report := range batch.Files {
		fmt.Println(report.Summary())
		if cmd.Verbose || report.Err() == nil {
			for _, reason := range report.Errors {
				fmt.Printf("  [FAILED] %s\n", reason)
			}
		}
	}

	fmt.Printf("\nTotal: %d imported, %d failed\n", batch.TotalSucceeded(), batch.TotalFailed())

	// Partial success is not an error; only a batch where every file was
	// skipped exits non-zero.
	if batch.AllFilesFailed() {
		return fmt.Errorf("all %d files failed to import", len(batch.Files))
	}
	return nil
}

// memoryStore backs dry runs so duplicate external IDs still collapse the
// way a real import would.
type memoryStore struct {
	byExternalID map[string]*entities.PointOfInterest
	nextID       uint
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byExternalID: make(map[string]*entities.PointOfInterest),
		nextID:       1,
	}
}

func (s *memoryStore) GetByExternalID(externalID string) (*entities.PointOfInterest, error) {
	return s.byExternalID[externalID], nil
}

func (s *memoryStore) Create(poi *entities.PointOfInterest) error {
	poi.ID = s.nextID
	s.nextID++
	s.byExternalID[poi.ExternalID] = poi
	return nil
}

func (s *memoryStore) Update(poi *entities.PointOfInterest) error {
	s.byExternalID[poi.ExternalID] = poi
	return nil
}
