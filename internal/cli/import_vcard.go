package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/contacts/internal/config"
	"github.com/mrlokans/contacts/internal/contacts"
	"github.com/mrlokans/contacts/internal/importers"
)

// ImportVcardCommand imports a vCard address book for a user.
type ImportVcardCommand struct {
	FilePath     string
	DatabasePath string
	UserID       uint
	DryRun       bool

	out io.Writer
}

func NewImportVcardCommand() *ImportVcardCommand {
	return &ImportVcardCommand{out: os.Stdout}
}

func (cmd *ImportVcardCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-vcard", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the .vcf file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.UintVar(&cmd.UserID, "user", 0, "ID of the user owning the imported contacts")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List the contacts without saving them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-vcard -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import contacts with an email address from a vCard file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportVcardCommand) Run() error {
	fmt.Fprintln(cmd.out, "vCard Import")
	fmt.Fprintln(cmd.out, "============")

	data, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read vCard file: %w", err)
	}
	fmt.Fprintf(cmd.out, "File: %s\n", cmd.FilePath)

	creds := contacts.Credentials{UserID: cmd.UserID, VCard: data}

	if cmd.DryRun {
		found, err := importers.Collect(importers.NewVcardImporter().Contacts(context.Background(), creds))
		if err != nil {
			return fmt.Errorf("failed to parse vCard file: %w", err)
		}
		for i, c := range found {
			fmt.Fprintf(cmd.out, "%d. %s <%s>\n", i+1, c.Name, c.Email)
		}
		fmt.Fprintf(cmd.out, "\nFound %d contacts. Dry run complete.\n", len(found))
		return nil
	}

	_, err = runImport(context.Background(), cmd.out, cmd.DatabasePath, contacts.SourceVcard, creds)
	return err
}
