package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"rmdesk.org/internal/agent"
	"rmdesk.org/internal/auth"
	"rmdesk.org/internal/config"
	"rmdesk.org/internal/customer"
	"rmdesk.org/internal/fulfill"
	"rmdesk.org/internal/httpapi"
	"rmdesk.org/internal/intent"
	"rmdesk.org/internal/obs"
	"rmdesk.org/internal/remittance"
	"rmdesk.org/internal/stream"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

const demoCredential = "password123"

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		db          *sql.DB
		dir         customer.Directory
		remittances remittance.Service
	)
	if cfg.Storage.DSN != "" {
		pg, err := customer.OpenPG(cfg.Storage.DSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db = pg.DB()
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		dir = pg
		remittances = remittance.NewPG(db)
	} else {
		mem := customer.NewMemory()
		hash, err := auth.HashCredential(demoCredential)
		if err != nil {
			log.Fatalf("hash demo credential: %v", err)
		}
		now := time.Now().UTC()
		for _, rec := range customer.DemoBook(hash, now) {
			if err := mem.Create(context.Background(), rec); err != nil {
				log.Fatalf("seed demo customer: %v", err)
			}
		}
		dir = mem
		remittances = remittance.NewInMemory(remittance.DemoSet(now)...)
		log.Printf("no RMDESK_DB_DSN set, using in-memory demo data")
	}

	sessions, err := auth.NewSessionRegistry(dir, cfg.Session.Secret,
		auth.WithSessionTTL(cfg.Session.TTL))
	if err != nil {
		log.Fatalf("session registry: %v", err)
	}
	verifier, err := auth.NewVerifier(dir, sessions,
		auth.WithLockoutPolicy(cfg.Lockout.Threshold, cfg.Lockout.Window))
	if err != nil {
		log.Fatalf("verifier: %v", err)
	}

	var resolver intent.Resolver = intent.RuleResolver{}
	if cfg.OpenAI.APIKey != "" {
		resolver = intent.NewOpenAIResolver(cfg.OpenAI.Model, cfg.OpenAI.APIKey)
		log.Printf("intent resolution via OpenAI model %s", cfg.OpenAI.Model)
	} else {
		log.Printf("no OPENAI_API_KEY set, using rule-based intent resolution")
	}

	events := stream.New()
	desk, err := agent.New(verifier, resolver, fulfill.NewToolFulfiller(remittances),
		agent.WithSupported(cfg.SupportedLabels()...),
		agent.WithDeflection(cfg.Desk.DeflectionMessage),
		agent.WithDelegationTimeout(cfg.Desk.DelegationTimeout),
		agent.WithStream(events),
	)
	if err != nil {
		log.Fatalf("assemble desk: %v", err)
	}

	probe := httpapi.ReadyProbe{DB: db}
	api := httpapi.New(desk, events, remittances, probe, version, httpapi.Options{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.Server.MaxBodyBytes,
		RateRPS:            cfg.Rate.RPS,
		RateBurst:          cfg.Rate.Burst,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Server.GRPCHealthAddr != "" {
		grpcHealth := httpapi.NewGRPCHealthServer(probe)
		go func() {
			log.Printf("gRPC health on %s", cfg.Server.GRPCHealthAddr)
			if err := grpcHealth.Serve(ctx, cfg.Server.GRPCHealthAddr); err != nil {
				log.Printf("grpc health: %v", err)
			}
		}()
	}

	log.Printf("Starting rmdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
