package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	yappr "github.com/PastaPastaPasta/yappr-sub004"
	"github.com/PastaPastaPasta/yappr-sub004/core"
	"github.com/PastaPastaPasta/yappr-sub004/repo"
	"github.com/PastaPastaPasta/yappr-sub004/store"
)

func start(ctx *cli.Context) error {
	p, err := getRootPath(ctx)
	if err != nil {
		return err
	}
	r, err := repo.Load(p)
	if err != nil {
		return err
	}

	logger, err := newLogger(r.Config)
	if err != nil {
		return fmt.Errorf("logger initialize: %w", err)
	}

	printVersion()

	client, err := core.NewRPCClient(r.Config.Node.RPCHost, r.Config.Node.RPCUser, r.Config.Node.RPCPass)
	if err != nil {
		return err
	}
	defer client.Shutdown()

	db, err := store.Open(r.Config.Store.DSN)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}

	daemon := core.NewDaemon(client, store.NewPublisher(db), logger,
		r.Config.Sync.ProposalInterval, r.Config.Sync.MasternodeInterval, r.Config.Sync.PassTimeout)

	var wg sync.WaitGroup
	wg.Add(1)
	handleShutdown(daemon, &wg)

	if err := daemon.Start(ctx.Context); err != nil {
		return fmt.Errorf("start daemon failed: %w", err)
	}

	fmt.Println("=============yapprd is ready=============")

	wg.Wait()

	return nil
}

func newLogger(config *repo.Config) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Log.Level)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if config.Log.Filename != "" {
		logsDir := filepath.Join(config.RepoRoot, repo.LogsDirName)
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(logsDir, config.Log.Filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		logger.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	return logger, nil
}

func printVersion() {
	fmt.Printf("yapprd version: %s-%s-%s\n", yappr.CurrentVersion, yappr.CurrentBranch, yappr.CurrentCommit)
	fmt.Printf("App build date: %s\n", yappr.BuildDate)
	fmt.Printf("System version: %s\n", yappr.Platform)
	fmt.Printf("Golang version: %s\n", yappr.GoVersion)
	fmt.Println()
}

func handleShutdown(daemon *core.Daemon, wg *sync.WaitGroup) {
	var stop = make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGTERM)
	signal.Notify(stop, syscall.SIGINT)

	go func() {
		<-stop
		fmt.Println("received interrupt signal, shutting down...")
		if err := daemon.Stop(); err != nil {
			panic(err)
		}
		wg.Done()
		os.Exit(0)
	}()
}
