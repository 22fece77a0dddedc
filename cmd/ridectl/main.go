package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ridebooking/pkg/api"
	"ridebooking/pkg/config"
	"ridebooking/pkg/rides"

	log "github.com/sirupsen/logrus"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose logging")
	configFile := flag.String("config", "config.toml", "Path to the TOML config file")
	prune := flag.Bool("prune", false, "Remove expired rides and sort the sheet")
	hashPassword := flag.String("hash-password", "", "Print a bcrypt hash of the given admin password")

	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})

	switch {
	case *hashPassword != "":
		hash, err := api.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println(hash)
	case *prune:
		if err := runPrune(*configFile); err != nil {
			log.Fatalf("Failed to prune rides: %v", err)
		}
	default:
		log.Error("You must specify -prune or -hash-password")
		flag.Usage()
		os.Exit(1)
	}
}

func runPrune(configFile string) error {
	cfg, err := config.New(configFile)
	if err != nil {
		return err
	}
	ctx := context.Background()
	r, err := rides.Open(ctx, cfg)
	if err != nil {
		return err
	}
	res, err := r.Reconcile(ctx, time.Now())
	if err != nil {
		return err
	}
	log.Printf("Pruned %d expired rides, %d active", res.Pruned, len(res.Rides))
	if res.Reordered {
		log.Printf("Sheet re-sorted by schedule")
	}
	return nil
}
