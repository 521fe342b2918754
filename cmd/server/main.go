package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/Deliverx/pkg"
	"github.com/lintang-b-s/Deliverx/pkg/http"
	"github.com/lintang-b-s/Deliverx/pkg/http/usecases"
	"github.com/lintang-b-s/Deliverx/pkg/logger"
	"github.com/lintang-b-s/Deliverx/pkg/solver"
	"github.com/lintang-b-s/Deliverx/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useRateLimit = flag.Bool("rate_limit", false, "limit requests per second (RATE_LIMIT_RPS, RATE_LIMIT_BURST)")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	viper.SetDefault("SOLVE_CACHE_SIZE", pkg.DEFAULT_SOLVE_CACHE_LEN)
	defaults := solver.ParamsFromConfig(util.LoadSearchConfig())
	solveService, err := usecases.NewSolveService(logger, solver.New(logger.Named("solver")),
		viper.GetInt("SOLVE_CACHE_SIZE"), defaults)
	if err != nil {
		panic(err)
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, solveService); err != nil {
		panic(err)
	}

	signal := http.GracefulShutdown()

	logger.Info("Deliverx Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	if err := api.Wait(); err != nil && err != context.Canceled {
		logger.Error("server stopped with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
