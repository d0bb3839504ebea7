// Command create-admin creates an admin account or resets its password.
//
//	create-admin -id ADMIN_ID [-password PASSWORD]
//
// The password is prompted for when neither -password nor ADMIN_PASSWORD is set.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/admins"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/config"
	"github.com/teacherdesk/teacherdesk/backend/go-services/internal/database"
	"github.com/teacherdesk/teacherdesk/backend/go-services/pkg/logger"
)

var (
	readPasswordFunc = func() ([]byte, error) { return term.ReadPassword(int(syscall.Stdin)) } // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	adminSvc *admins.Service
	out      io.Writer
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	fs.SetOutput(cli.out)
	id := fs.String("id", os.Getenv("ADMIN_ID"), "admin id")
	password := fs.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	pwd := *password
	if pwd == "" {
		fmt.Fprint(cli.out, "Enter password:")
		b, err := readPasswordFunc()
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		pwd = string(b)
	}
	if pwd == "" {
		fs.Usage()
		return errHelp
	}

	a, err := cli.adminSvc.EnsureAdmin(ctx, *id, pwd)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", *id, err)
	}
	fmt.Fprintf(cli.out, "admin %s ready\n", a.AdminID)
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Log.Level, "console")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to create indexes: %v", err)
	}

	cli := &commandLine{
		adminSvc: admins.NewService(admins.NewMongoRepository(db.Collection(database.AdminsCollection)), cfg.Register.BcryptCost),
		out:      os.Stdout,
	}
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errHelp) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		logger.Fatalf("%v", err)
	}
}
