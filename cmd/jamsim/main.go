// Command jamsim runs the jamming-attack simulator: it loads a channel
// topology snapshot, sweeps a grid of unconditional-fee coefficients (or
// runs a single honest/jamming simulation), or, with -serve, serves the live
// monitor/demo HTTP server instead. It neither persists nor publishes
// results.
package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/s-tikhomirov/jamsim/api/middleware"
	"github.com/s-tikhomirov/jamsim/demo"
	"github.com/s-tikhomirov/jamsim/engine/network"
	"github.com/s-tikhomirov/jamsim/engine/result"
	"github.com/s-tikhomirov/jamsim/engine/sim"
	"github.com/s-tikhomirov/jamsim/engine/sweep"
	"github.com/s-tikhomirov/jamsim/monitor"
	"github.com/s-tikhomirov/jamsim/report"
	"github.com/s-tikhomirov/jamsim/snapshot"
)

func main() {
	mode := flag.String("mode", "sweep", "run mode: honest, jamming, or sweep")
	snapshotPath := flag.String("snapshot", "", "path to the topology snapshot JSON (required)")
	attacker := flag.String("attacker", "", "attacker node id (jamming mode)")
	victim := flag.String("victim", "", "victim node id (jamming mode)")
	sender := flag.String("sender", "", "single-payment sender (honest mode)")
	receiver := flag.String("receiver", "", "single-payment receiver (honest mode)")
	seed := flag.Int64("seed", 1, "base PRNG seed")
	reportPath := flag.String("report", "", "write a PDF sweep report to this path (sweep mode only)")
	serve := flag.Bool("serve", false, "serve the live monitor/demo HTTP server instead of exiting")
	addr := flag.String("addr", ":8080", "address for -serve")
	flag.Parse()

	if *snapshotPath == "" {
		log.Fatal("jamsim: -snapshot is required")
	}

	raw, err := os.ReadFile(*snapshotPath)
	if err != nil {
		log.Fatalf("jamsim: failed to read snapshot: %v", err)
	}

	params := sim.DefaultParams()

	if *serve {
		model, err := loadModel(raw, params, params.UpfrontBaseCoeff, params.UpfrontRateCoeff)
		if err != nil {
			log.Fatalf("jamsim: failed to parse snapshot: %v", err)
		}
		runServer(*addr, model)
		return
	}

	switch *mode {
	case "honest":
		model, err := loadModel(raw, params, params.UpfrontBaseCoeff, params.UpfrontRateCoeff)
		if err != nil {
			log.Fatalf("jamsim: failed to parse snapshot: %v", err)
		}
		runHonest(model, params, *seed, *sender, *receiver)
	case "jamming":
		model, err := loadModel(raw, params, params.UpfrontBaseCoeff, params.UpfrontRateCoeff)
		if err != nil {
			log.Fatalf("jamsim: failed to parse snapshot: %v", err)
		}
		runJamming(model, params, *seed, *attacker, *victim)
	case "sweep":
		runSweep(raw, params, *seed, *attacker, *victim, *reportPath)
	default:
		log.Fatalf("jamsim: unknown mode %q", *mode)
	}
}

// loadModel parses raw into a fresh network.Model with the given
// upfront-fee coefficients baked into every channel direction.
func loadModel(raw []byte, params sim.Params, upfrontBase, upfrontRate float64) (*network.Model, error) {
	return snapshot.Load(bytes.NewReader(raw), snapshot.Options{
		NumSlotsPerChannelDirection: params.DefaultNumSlotsPerChannelDirection,
		UpfrontBaseCoeff:            upfrontBase,
		UpfrontRateCoeff:            upfrontRate,
	})
}

func runHonest(model *network.Model, params sim.Params, seed int64, sender, receiver string) {
	if sender == "" || receiver == "" {
		log.Fatal("jamsim: honest mode requires -sender and -receiver")
	}
	e := sim.New(model, rand.New(rand.NewSource(seed)), params)
	res := e.RunHonest(sim.HonestRunParams{
		Senders:   []network.Node{network.Node(sender)},
		Receivers: []network.Node{network.Node(receiver)},
	})
	log.Printf("jamsim: honest run done: sent=%d reached=%d failed=%d",
		res.Stats.NumSent, res.Stats.NumReachedReceiver, res.Stats.NumFailed)
}

func runJamming(model *network.Model, params sim.Params, seed int64, attacker, victim string) {
	if attacker == "" || victim == "" {
		log.Fatal("jamsim: jamming mode requires -attacker and -victim")
	}
	e := sim.New(model, rand.New(rand.NewSource(seed)), params)
	res := e.RunJamming(sim.JammingRunParams{
		Attacker: network.Node(attacker),
		Victim:   network.Node(victim),
	})
	log.Printf("jamsim: jamming run done: batches=%d fully-jammed-batches=%d partial=%d",
		res.Stats.NumSent, res.Stats.NumReachedReceiver, res.Stats.NumFailed)
}

// runSweep re-parses the snapshot once per (cell, repetition), applying
// that cell's upfront-fee coefficients before running the jamming attack —
// the sweep's whole point is measuring how those coefficients affect
// attacker revenue, so each run needs its own independently-coefficiented
// model rather than sharing one mutable model across concurrent workers.
func runSweep(raw []byte, params sim.Params, seed int64, attacker, victim, reportPath string) {
	if attacker == "" || victim == "" {
		log.Fatal("jamsim: sweep mode requires -attacker and -victim")
	}

	cfg := sweep.DefaultConfig()
	cfg.Grid = []sweep.FeeCoeffCell{
		{UpfrontBaseCoeff: 0, UpfrontRateCoeff: 0},
		{UpfrontBaseCoeff: 1, UpfrontRateCoeff: 0},
		{UpfrontBaseCoeff: 2, UpfrontRateCoeff: 1},
	}

	runner := func(rnd *rand.Rand, cell sweep.FeeCoeffCell) result.Result {
		model, err := loadModel(raw, params, cell.UpfrontBaseCoeff, cell.UpfrontRateCoeff)
		if err != nil {
			log.Fatalf("jamsim: failed to parse snapshot for cell %+v: %v", cell, err)
		}
		e := sim.New(model, rnd, params)
		return e.RunJamming(sim.JammingRunParams{
			Attacker: network.Node(attacker),
			Victim:   network.Node(victim),
		})
	}

	results := sweep.Sweep(cfg, seed, runner)
	log.Printf("jamsim: swept %d cells x %d repetitions", len(cfg.Grid), cfg.RepetitionsPerCell)

	if reportPath != "" {
		gen := report.NewGenerator("jamsim sweep report")
		data, err := gen.GeneratePDF(results)
		if err != nil {
			log.Fatalf("jamsim: failed to generate report: %v", err)
		}
		if err := os.WriteFile(reportPath, data, 0o644); err != nil {
			log.Fatalf("jamsim: failed to write report: %v", err)
		}
		log.Printf("jamsim: wrote report to %s", reportPath)
	}
}

func runServer(addr string, model *network.Model) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monSrv := monitor.NewServer(addr)
	hub := monSrv.Hub()
	go hub.Run(ctx)

	chaosDemo := demo.NewChaosDemo(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/demo/attack", chaosDemo.HandleAttackDemo)
	mux.HandleFunc("/demo/reset", chaosDemo.HandleResetDemo)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "OK")
	})

	handler := middleware.SecurityHeaders(middleware.CORS(mux))
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		log.Printf("jamsim: serving on %s (%d nodes loaded)", addr, len(model.Nodes()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("jamsim: server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("jamsim: shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("jamsim: shutdown error: %v", err)
	}
}
