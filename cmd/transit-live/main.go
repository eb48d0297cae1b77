package main

import (
	"flag"

	log "github.com/sirupsen/logrus"

	lib "github.com/theoremus-urban-solutions/transit-live"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	mock := flag.Bool("mock", false, "force mock mode (bypass network, deterministic feeds)")
	flag.Parse()

	cfg, err := lib.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	if *mock {
		cfg.MockMode = true
	}
	lib.InitLogging(cfg)

	svc := lib.NewService(cfg)
	srv := lib.NewServer(svc, cfg.Server.Port)
	srv.Start()
	srv.HandleGracefulShutdown()
}
