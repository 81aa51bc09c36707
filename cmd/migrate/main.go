package main

import (
	"context"
	"log"
	"time"

	"github.com/spf13/pflag"

	"afrikticket_backend/internals/configs"
	database "afrikticket_backend/internals/databases"
	"afrikticket_backend/internals/seeds"
)

func main() {
	migrate := pflag.Bool("migrate", true, "run AutoMigrate for every model")
	seed := pflag.Bool("seed", false, "seed the super admin from ADMIN_EMAIL/ADMIN_PASSWORD")
	demo := pflag.String("demo", "", "also seed demo accounts from this JSON file (e.g. "+seeds.DemoUsersFile+")")
	timeout := pflag.Duration("timeout", 2*time.Minute, "overall deadline")
	pflag.Parse()

	configs.LoadEnv()
	database.ConnectDB()
	defer func() {
		if sqlDB, err := database.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *migrate {
		if err := database.AutoMigrate(database.DB.WithContext(ctx)); err != nil {
			log.Fatalf("❌ migrate: %v", err)
		}
	}
	if *seed || *demo != "" {
		if err := seeds.RunAllSeeds(ctx, database.DB, *demo); err != nil {
			log.Fatalf("❌ seed: %v", err)
		}
	}
}
