package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/SFU-teamproject/Smartbuy/internal/api"
	"github.com/SFU-teamproject/Smartbuy/internal/auth"
	"github.com/SFU-teamproject/Smartbuy/internal/config"
	"github.com/SFU-teamproject/Smartbuy/internal/db"
	"github.com/SFU-teamproject/Smartbuy/internal/mail"
	"github.com/SFU-teamproject/Smartbuy/internal/storage"
	"github.com/SFU-teamproject/Smartbuy/internal/storage/memory"
	"github.com/SFU-teamproject/Smartbuy/internal/storage/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	var store storage.Store
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connecting to postgres: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
		log.Println("using postgres storage")
	} else {
		mem := memory.New()
		if err := mem.Seed(); err != nil {
			log.Fatalf("seeding memory storage: %v", err)
		}
		store = mem
		log.Println("DATABASE_URL not set, using seeded in-memory storage")
	}

	var mailer mail.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
		})
	} else {
		mailer = mail.NewLogMailer()
		log.Println("SMTP_HOST not set, mail goes to the log")
	}

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:   cfg.JWTIssuer,
		Secret:   cfg.JWTSecret,
		TTLHours: cfg.TokenTTLHrs,
	})

	r := api.NewRouter(cfg, store, jwtMgr, mailer)
	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
