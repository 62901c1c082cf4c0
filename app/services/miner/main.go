package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powchain/app/services/miner/simulation"
	"github.com/ardanlabs/powchain/foundation/blockchain/digest"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/ardanlabs/powchain/foundation/prompt"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("MINER")
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

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// The genesis file, when provided, replaces the Chain settings other than
	// MaxAttempts and Workers.
	cfg := struct {
		conf.Version
		Chain struct {
			Difficulty     uint   `conf:"default:2"`
			RewardPerBlock uint64 `conf:"default:100"`
			Algorithm      string `conf:"default:sha256"`
			MaxAttempts    uint64 `conf:"default:0"`
			Workers        int    `conf:"default:1"`
			GenesisFile    string
		}
		Sim struct {
			MinerName      string
			Counterparties []string      `conf:"default:Alice;Bob;Charlie;Dave"`
			AmountStep     uint64        `conf:"default:5"`
			Timeout        time.Duration `conf:"default:10m"`
			ShowProgress   bool          `conf:"default:true"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger simulation",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "MINER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	runID := uuid.NewString()

	log.Infow("starting service", "version", build, "traceid", runID)
	defer log.Infow("shutdown complete", "traceid", runID)

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Service Start/Stop Support

	// Mining can run for a long time, so an interrupt or terminate signal
	// from the OS cancels the run through the context.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sim.Timeout)
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		select {
		case sig := <-shutdown:
			log.Infow("shutdown", "status", "shutdown started", "signal", sig, "traceid", runID)
			cancel()
		case <-ctx.Done():
		}
	}()

	// =========================================================================
	// Miner Identity

	var provider prompt.Provider = prompt.Static(cfg.Sim.MinerName)
	if cfg.Sim.MinerName == "" {
		provider = prompt.Reader{
			In:       os.Stdin,
			Out:      os.Stdout,
			Question: "Enter miner name: ",
		}
	}

	minerName, err := provider.MinerName(ctx)
	if err != nil {
		return fmt.Errorf("miner name: %w", err)
	}
	log.Infow("startup", "status", "miner identified", "miner", minerName, "traceid", runID)

	// =========================================================================
	// Genesis

	gen, err := loadGenesis(cfg.Chain.GenesisFile, cfg.Chain.Difficulty, cfg.Chain.RewardPerBlock, cfg.Chain.Algorithm)
	if err != nil {
		return err
	}
	log.Infow("startup", "status", "genesis", "difficulty", gen.Difficulty, "reward", gen.MiningReward, "algorithm", gen.Algorithm, "traceid", runID)

	// =========================================================================
	// Blockchain Support

	// The blockchain packages accept a function of this signature to allow the
	// application to log. The raw messages are also sent to any subscriber
	// registered through the events package.
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", runID)
		evts.Sendf(v, args...)
	}

	if cfg.Sim.ShowProgress {
		go showProgress(evts.Acquire(runID))
	}

	st, err := state.New(state.Config{
		MinerAccount: minerName,
		Genesis:      gen,
		MaxAttempts:  cfg.Chain.MaxAttempts,
		Workers:      cfg.Chain.Workers,
		EvHandler:    ev,
	})
	if err != nil {
		return err
	}

	// =========================================================================
	// Run Simulation

	sum, err := simulation.Run(ctx, simulation.Config{
		Log:            log,
		State:          st,
		Counterparties: cfg.Sim.Counterparties,
		AmountStep:     cfg.Sim.AmountStep,
		Out:            os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	log.Infow("simulation", "status", "completed", "blocks", sum.TotalBlocks, "amount", sum.TotalAmount, "valid", sum.Valid, "traceid", runID)

	if !sum.Valid {
		return errors.New("chain failed validation")
	}

	return nil
}

// loadGenesis reads the genesis file when one is configured, otherwise the
// default genesis is adjusted with the configured values.
func loadGenesis(path string, difficulty uint, reward uint64, algorithm string) (genesis.Genesis, error) {
	if path != "" {
		gen, err := genesis.Load(path)
		if err != nil {
			return genesis.Genesis{}, fmt.Errorf("loading genesis: %w", err)
		}
		return gen, nil
	}

	alg, err := digest.ParseAlgorithm(algorithm)
	if err != nil {
		return genesis.Genesis{}, err
	}

	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.MiningReward = reward
	gen.Algorithm = alg

	return gen, nil
}

// showProgress prints the mining progress events until the channel closes.
func showProgress(ch <-chan string) {
	for msg := range ch {
		switch {
		case strings.Contains(msg, "attempts["), strings.Contains(msg, "SOLVED"):
			fmt.Println("progress:", msg)
		}
	}
}
