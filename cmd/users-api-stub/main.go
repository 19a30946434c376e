/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nscaledev/users-api-tests/pkg/constants"
	"github.com/nscaledev/users-api-tests/pkg/server/users"
)

type options struct {
	listenAddress   string
	shutdownTimeout time.Duration
	verbose         bool
	users           users.Options
}

func (o *options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.listenAddress, "listen-address", ":8080", "Address to serve the API on")
	f.DurationVar(&o.shutdownTimeout, "shutdown-timeout", 10*time.Second, "Time to drain connections on shutdown")
	f.BoolVar(&o.verbose, "verbose", false, "Log every request")

	o.users.AddFlags(f)
}

func setupLogging(verbose bool) (logr.Logger, error) {
	config := zap.NewProductionConfig()

	if verbose {
		// logr V(1) maps to zap debug.
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	zl, err := config.Build()
	if err != nil {
		return logr.Discard(), err
	}

	return zapr.NewLogger(zl), nil
}

func run(ctx context.Context, o *options, logger logr.Logger) error {
	handler, err := users.New(&o.users, logger.WithName("users"))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              o.listenAddress,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)

	go func() {
		errs <- server.ListenAndServe()
	}()

	logger.Info("listening", "address", o.listenAddress)

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), o.shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func main() {
	var o options

	o.AddFlags(pflag.CommandLine)

	pflag.Parse()

	logger, err := setupLogging(o.verbose)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger.WithName("init").Info("service starting", "version", constants.VersionString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &o, logger); err != nil {
		logger.Error(err, "server failed")
		os.Exit(1)
	}
}
