// README: Entry point; loads config, wires the overlay registry, starts the HTTP server and device refresher.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetcard/internal/config"
	httptransport "fleetcard/internal/http"
	"fleetcard/internal/i18n"
	"fleetcard/internal/infra"
	"fleetcard/internal/maps"
	"fleetcard/internal/modules/device"
	"fleetcard/internal/modules/format"
	"fleetcard/internal/modules/overlay"
	"fleetcard/internal/modules/report"
	"fleetcard/internal/modules/session"
	"fleetcard/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("FLEETCARD_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	reporters := report.Multi{report.LogReporter{}}
	if cfg.AMQP.URL != "" {
		conn, err := infra.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		amqpReporter, err := report.NewAMQPReporter(conn)
		if err != nil {
			log.Fatal(err)
		}
		reporters = append(reporters, amqpReporter)
	}

	var addresses format.AddressResolver
	if cfg.Maps.APIKey != "" {
		geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey, cfg.Maps.Language)
		if err != nil {
			log.Fatal(err)
		}
		addresses = format.NewCachedAddressResolver(geocoder, redisClient, cfg.Redis.AddrTTL)
	} else {
		log.Printf("FLEETCARD_MAPS_API_KEY not set; address lookup disabled")
	}

	client := remote.NewClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)

	devices := device.NewCache()
	if err := devices.Sync(ctx, client); err != nil {
		log.Printf("initial device sync: %v", err)
	}
	go devices.RunRefresher(ctx, client, cfg.API.RefreshInterval)

	overlays := overlay.NewRegistry(overlay.Deps{
		Devices:        devices,
		Remote:         client,
		Translator:     i18n.English,
		Addresses:      addresses,
		Reporter:       reporters,
		GeofenceRadius: cfg.Geofence.Radius,
	}, overlay.NewRedisStateStore(redisClient, cfg.Redis.StateTTL), session.NewStore(dbPool))

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Verifier: verifier,
		Overlays: overlays,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("fleetcard-api listening on %s (%d devices cached)", cfg.HTTP.Addr, devices.Len())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
