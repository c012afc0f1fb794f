package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/client"
	"github.com/trezcool/academia/core/school"
	"github.com/trezcool/academia/core/session"
	logsvc "github.com/trezcool/academia/services/logger"
	filekv "github.com/trezcool/academia/storage/kv/file"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	if conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		rollbarLogger := logsvc.NewRollbarLogger(std, conf)
		rollbarLogger.Enable(true)
		logger = rollbarLogger
	}

	// set up session persistence
	store, err := filekv.NewStore(conf.StateDir)
	errAndDie(err)

	sessions := session.NewStore(store, logger, session.Options{
		GraceWindow:           conf.Session.GraceWindow,
		RotationExtendsExpiry: conf.Session.RotationExtendsExpiry,
	})
	api := client.New(conf, sessions, logger)

	// reactivate a persisted session, if any
	if err := sessions.Restore(); err == session.ErrSessionExpired {
		fmt.Println("Session expired, please log in again.")
	}

	// start CLI
	cli := commandLine{
		conf:     conf,
		sessions: sessions,
		api:      api,
		school:   school.NewService(api),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
