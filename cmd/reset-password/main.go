package main

import (
	"flag"
	"log"

	"agritrack-api/internal/config"
	"agritrack-api/internal/repository"
	"agritrack-api/internal/service"
	"agritrack-api/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "email of the account to reset")
	password := flag.String("password", "", "new password (at least 6 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("both -email and -password are required")
	}

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.LoadEnv()

	// 2. Setup Database
	dbCfg := cfg.Database()
	dbCfg.MaxOpenConns = 2
	dbCfg.MaxIdleConns = 1
	dbCfg.Debug = false
	db, err := database.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	// 3. Rehash and store
	if err := service.ResetPassword(repository.NewUserRepo(db), *email, *password); err != nil {
		log.Fatalf("Failed to reset password for %s: %v", *email, err)
	}

	log.Printf("Password for %s has been reset", *email)
}
