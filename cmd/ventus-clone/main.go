package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ralt/ventus-clone/internal/cli"
	"github.com/sirupsen/logrus"
)

func main() {
	// Setup logging format
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	// Failures are part of the transcript the user reads
	logrus.SetOutput(os.Stdout)

	// Interrupting cancels the running clone or download
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := cli.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
