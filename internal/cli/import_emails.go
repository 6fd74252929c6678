package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mrlokans/contacts/internal/config"
	"github.com/mrlokans/contacts/internal/contacts"
)

// ImportEmailsCommand imports a comma separated list of addresses.
type ImportEmailsCommand struct {
	Emails       []string
	DatabasePath string
	UserID       uint

	out io.Writer
}

func NewImportEmailsCommand() *ImportEmailsCommand {
	return &ImportEmailsCommand{out: os.Stdout}
}

func (cmd *ImportEmailsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-emails", flag.ContinueOnError)

	var raw string
	fs.StringVar(&raw, "emails", "", "Comma separated email addresses (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.UintVar(&cmd.UserID, "user", 0, "ID of the user owning the imported contacts")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-emails -emails a@example.com,b@example.com [options]\n\n", os.Args[0])
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	raw = strings.Join(strings.Fields(raw), "")
	if raw == "" {
		return fmt.Errorf("required flag -emails not provided")
	}

	validate := validator.New()
	cmd.Emails = strings.Split(raw, ",")
	for _, email := range cmd.Emails {
		if err := validate.Var(email, "required,email"); err != nil {
			return fmt.Errorf("invalid email address %q", email)
		}
	}
	return nil
}

func (cmd *ImportEmailsCommand) Run() error {
	fmt.Fprintln(cmd.out, "Email List Import")
	fmt.Fprintln(cmd.out, "=================")
	fmt.Fprintf(cmd.out, "Addresses: %d\n", len(cmd.Emails))

	creds := contacts.Credentials{UserID: cmd.UserID, Emails: cmd.Emails}
	_, err := runImport(context.Background(), cmd.out, cmd.DatabasePath, contacts.SourceEmailList, creds)
	return err
}
