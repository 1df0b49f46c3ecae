package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"realestate/internal/cache"
	"realestate/internal/config"
	"realestate/internal/database"
	"realestate/internal/handlers"
	"realestate/internal/logging"
	"realestate/internal/maintenance"
	"realestate/internal/media"
	"realestate/internal/routes"
	"realestate/internal/seed"
)

func main() {
	seedFile := flag.String("seed", "", "load users, properties and contacts from a YAML file and exit")
	flag.Parse()

	config.Load()
	cfg := config.AppEnv

	if cfg.LogFile != "" {
		rw, err := logging.Setup(cfg.LogFile)
		if err != nil {
			log.Fatalf("log file: %v", err)
		}
		defer rw.Close()
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureIndexes(db); err != nil {
		log.Printf("index warning: %v", err)
	}
	stores := database.NewStores(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seedFile != "" {
		f, err := seed.Load(*seedFile)
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		if _, err := seed.Apply(ctx, stores, f); err != nil {
			log.Fatalf("seed: %v", err)
		}
		return
	}

	var queryCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rc := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("redis unavailable, caching disabled: %v", err)
		} else {
			defer rc.Close()
			queryCache = rc
			log.Println("Redis connected to:", cfg.RedisAddr)
		}
	}

	var images media.Storage
	uploadDir := ""
	if cfg.S3Bucket != "" {
		s3, err := media.NewS3(ctx, media.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		images = s3
	} else {
		images = media.NewLocal(cfg.UploadDir, cfg.APIBaseURL)
		uploadDir = cfg.UploadDir
	}

	sweeper := maintenance.NewSweeper(stores.Users, stores.Properties)
	if _, err := sweeper.Run(ctx); err != nil {
		log.Printf("startup sweep failed: %v", err)
	}
	if err := sweeper.Start(ctx, cfg.OrphanSweepCron); err != nil {
		log.Fatal(err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := routes.New(handlers.Deps{
		Stores:        stores,
		Cache:         queryCache,
		CacheTTL:      cfg.CacheTTL,
		Media:         images,
		Limits:        handlers.ListLimits{Default: cfg.DefaultPageLimit, Max: cfg.MaxPageLimit},
		FeaturedLimit: cfg.FeaturedLimit,
	}, routes.Options{
		Tokens: handlers.TokenConfig{
			Secret:     cfg.JWTSecret,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		},
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDir,
	})

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		sweeper.Stop()
		client.Disconnect(context.Background())
		os.Exit(0)
	}()

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
