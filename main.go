package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/gravitl/scimdir/config"
	controller "github.com/gravitl/scimdir/controllers"
	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/logger"
	"github.com/gravitl/scimdir/logic"
	"github.com/gravitl/scimdir/mq"
	"github.com/gravitl/scimdir/servercfg"
)

var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "scimdir"
	app.Usage = "SCIM provisioning connector backed by a cached user directory."
	app.Version = version
	servercfg.SetVersion(version)
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "absolute path to configuration file",
		},
	}
	app.Before = func(c *cli.Context) error {
		setupConfig(c.String("config"))
		logger.SetVerbosity(servercfg.GetVerbosity())
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Load the directory and serve the SCIM api.",
			Action: func(c *cli.Context) error { return serve() },
		},
		{
			Name:  "seed",
			Usage: "Write the sample directory to the configured store.",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "force", Usage: "overwrite a store that already holds users or groups"},
				&cli.StringFlag{Name: "hash", Usage: "store sample passwords hashed with bcrypt or ssha512"},
			},
			Action: func(c *cli.Context) error { return seed(c.Bool("force"), c.String("hash")) },
		},
		{
			Name:  "token",
			Usage: "Mint a provisioning bearer token signed with the master key.",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "client", Value: "okta", Usage: "client name recorded in the token"},
			},
			Action: func(c *cli.Context) error { return mintToken(c.String("client")) },
		},
	}
	app.DefaultCommand = "serve"

	if err := app.Run(os.Args); err != nil {
		logger.FatalLog(err.Error())
	}
}

func setupConfig(absoluteConfigPath string) {
	cfg, err := config.ReadConfig(absoluteConfigPath)
	if err != nil {
		if absoluteConfigPath != "" {
			logger.Log(0, fmt.Sprintf("failed parsing config at: %s", absoluteConfigPath), err.Error())
		}
		return
	}
	config.Config = cfg
}

// openDirectory - connects the store and loads both caches
func openDirectory(events logic.Publisher) (*logic.Directory, database.Gateway, error) {
	gw, err := database.New()
	if err != nil {
		return nil, nil, err
	}
	if err := database.InitializeDatabase(gw); err != nil {
		return nil, nil, fmt.Errorf("error connecting to database: %w", err)
	}
	logger.Log(0, "database successfully connected")
	dir := logic.NewDirectory(gw, logic.Options{
		UserNamespace: servercfg.GetUserNamespace(),
		IDs:           logic.IDsForMode(servercfg.GetPersistenceMode(), gw),
		UserRefresh:   logic.RefreshPolicy(servercfg.GetUserRefreshPolicy()),
		GroupRefresh:  logic.RefreshPolicy(servercfg.GetGroupRefreshPolicy()),
		Events:        events,
	})
	if err := dir.Init(); err != nil {
		gw.Close()
		return nil, nil, err
	}
	return dir, gw, nil
}

func serve() error {
	if servercfg.GetMasterKey() == "" {
		logger.Log(0, "warning: MASTER_KEY not set, only tokens signed with a generated secret are accepted until restart")
	}
	logic.SetJWTSecret(servercfg.GetMasterKey())

	var events logic.Publisher
	publisher, err := mq.SetupMQTT()
	switch {
	case errors.Is(err, mq.ErrNoBroker):
		logger.Log(1, "no broker configured, directory events are disabled")
	case err != nil:
		logger.Log(0, "failed to connect to broker, directory events are disabled:", err.Error())
	default:
		defer publisher.Close()
		events = publisher
	}

	dir, gw, err := openDirectory(events)
	if err != nil {
		return err
	}
	defer gw.Close()

	if servercfg.SeedSampleDirectory() {
		users, groups := logic.SampleDirectory(servercfg.GetUserNamespace())
		seeded, err := dir.Seed(users, groups, true)
		if err != nil {
			return err
		}
		if seeded {
			logger.Log(0, "sample directory loaded")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var waitgroup sync.WaitGroup
	waitgroup.Add(1)
	go controller.HandleRESTRequests(ctx, &waitgroup, dir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, os.Interrupt)
	<-quit
	cancel()
	waitgroup.Wait()
	return nil
}

func seed(force bool, hashScheme string) error {
	users, groups := logic.SampleDirectory(servercfg.GetUserNamespace())
	if hashScheme != "" {
		hashed, err := logic.HashPasswords(users, hashScheme)
		if err != nil {
			return err
		}
		users = hashed
	}
	dir, gw, err := openDirectory(nil)
	if err != nil {
		return err
	}
	defer gw.Close()
	seeded, err := dir.Seed(users, groups, !force)
	if err != nil {
		return err
	}
	if !seeded {
		logger.Log(0, "store already holds a directory, use --force to overwrite")
		return nil
	}
	logger.Log(0, "sample directory written:", fmt.Sprint(len(users)), "users,", fmt.Sprint(len(groups)), "groups")
	return nil
}

func mintToken(client string) error {
	key := servercfg.GetMasterKey()
	if key == "" {
		return errors.New("MASTER_KEY must be set to mint provisioning tokens")
	}
	logic.SetJWTSecret(key)
	token, err := logic.CreateProvisioningJWT(client)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
