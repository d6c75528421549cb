package main

import (
	"database/sql"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ourson-app/backend/core"
	"github.com/ourson-app/backend/core/user"
	"github.com/ourson-app/backend/storage/database"
	sqlxrepos "github.com/ourson-app/backend/storage/database/sqlx"
)

var readPasswordFunc = term.ReadPassword // mockable

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
}

// setup opens the database. Commands that only read the template catalog do
// not call it.
func (cli *commandLine) setup() error {
	db, err := database.Open(core.Conf)
	if err != nil {
		return err
	}
	if err = db.Ping(); err != nil {
		return err
	}
	cli.db = db
	cli.usrRepo = sqlxrepos.NewUserRepository(sqlx.NewDb(db, "postgres"))
	return nil
}

func (cli *commandLine) teardown() {
	if cli.db != nil {
		_ = cli.db.Close()
	}
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	return string(pwd), nil
}

func rootCmd() *cobra.Command {
	cli := new(commandLine)

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Ourson administration commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		addUserCmd(cli),
		resetPasswordCmd(cli),
		migrateCmd(cli),
		templatesCmd(),
	)
	return root
}
