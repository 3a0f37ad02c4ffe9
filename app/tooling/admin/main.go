// This program performs administrative tasks against the blocks a node has
// written to disk. The node should be stopped while it runs.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Jeston10/JestoGP9Te/app/tooling/admin/commands"
	"github.com/Jeston10/JestoGP9Te/foundation/blockchain/storage/disk"
	"github.com/Jeston10/JestoGP9Te/foundation/logger"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args   conf.Args
		DBPath string `conf:"default:zblock/blocks"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "ledger administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	strg, err := disk.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer strg.Close()

	log.Infow("admin", "dbpath", cfg.DBPath, "command", cfg.Args.Num(0))

	return processCommands(cfg.Args, strg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, strg *disk.Disk) error {
	switch args.Num(0) {
	case "blocks":
		if err := commands.Blocks(os.Stdout, strg); err != nil {
			return fmt.Errorf("listing blocks: %w", err)
		}
	case "trans":
		if err := commands.Transactions(os.Stdout, args.Num(1), strg); err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
	case "validate":
		if err := commands.Validate(os.Stdout, strg); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	default:
		fmt.Println("blocks:   list the blocks on disk")
		fmt.Println("trans:    list the transactions, optionally for one address")
		fmt.Println("validate: validate the blocks on disk")
		fmt.Println("provide a command to run")
	}

	return nil
}
