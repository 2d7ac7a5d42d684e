package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homecore/internal/config"
	"homecore/internal/db"
	"homecore/internal/engine"
	"homecore/internal/logger"
	"homecore/internal/mqtt"
	"homecore/internal/redis"
	"homecore/internal/scheduler"
	"homecore/internal/taskqueue"

	"github.com/pion/mdns/v2"
	"go.uber.org/zap"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zap.S().Sync()

	dbConn, err := db.NewDB(cfg.DBURL)
	if err != nil {
		zap.S().Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbConn.Close()

	redisClient := redis.NewRedisClient(cfg.RedisAddr)
	stateCache := redis.NewStateCache(redisClient)

	manager := mqtt.NewManager(mqtt.Options{
		BrokerURL: cfg.MQTTBroker,
		ClientID:  cfg.MQTTClientID,
		Username:  cfg.MQTTUsername,
		Password:  cfg.MQTTPassword,
		OnStatus: func(status, message string) {
			if err := dbConn.InsertConnectionStatus(context.Background(), status, message); err != nil {
				zap.S().Errorf("Failed to record connection status %q: %v", status, err)
			}
		},
	})

	eng := engine.NewEngine(engine.Config{
		BaseTopic: cfg.BaseTopic,
		Zones:     cfg.Zones,
		Cooldown:  time.Duration(cfg.CooldownSeconds) * time.Second,
	}, dbConn, manager, stateCache, taskqueue.EnqueueEvaluation)

	// Overlay registered devices from the database onto the built-in
	// per-zone topic map.
	devices, err := dbConn.GetAllDevices(context.Background())
	if err != nil {
		zap.S().Warnf("Failed to load devices from DB: %v", err)
	}
	for _, d := range devices {
		if d.MQTTTopic != "" {
			eng.RegisterDeviceTopic(d.DeviceID, d.MQTTTopic, d.DeviceType)
		}
	}

	manager.SetRoutes(eng.Topics(), eng.Route)

	go taskqueue.StartWorkers(cfg.RedisAddr, eng)

	sched := scheduler.NewScheduler()
	if err := sched.RegisterMaintenanceJobs(dbConn, eng.Cooldown(), cfg.RetentionDays); err != nil {
		zap.S().Fatalf("Failed to register maintenance jobs: %v", err)
	}
	sched.Start()

	// Failing the initial connection is fatal; reconnects after that are
	// automatic and unbounded.
	if err := manager.Connect(); err != nil {
		zap.S().Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	go startMDNSServer(cfg.MDNSLocalName)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	manager.Disconnect(250)
	sched.Stop()
	taskqueue.StopWorkers()
	zap.S().Infof("Shutdown complete")
}

func startMDNSServer(localName string) {
	addr4, err := net.ResolveUDPAddr("udp4", mdns.DefaultAddressIPv4)
	if err != nil {
		zap.S().Warnf("Failed to resolve UDP4 address for mDNS: %v", err)
		return
	}

	addr6, err := net.ResolveUDPAddr("udp6", mdns.DefaultAddressIPv6)
	if err != nil {
		zap.S().Warnf("Failed to resolve UDP6 address for mDNS: %v", err)
		return
	}

	l4, err := net.ListenUDP("udp4", addr4)
	if err != nil {
		zap.S().Warnf("Failed to listen on UDP4 for mDNS: %v", err)
		return
	}

	l6, err := net.ListenUDP("udp6", addr6)
	if err != nil {
		zap.S().Warnf("Failed to listen on UDP6 for mDNS: %v", err)
		return
	}

	_, err = mdns.Server(ipv4.NewPacketConn(l4), ipv6.NewPacketConn(l6), &mdns.Config{
		LocalNames: []string{localName},
	})
	if err != nil {
		zap.S().Warnf("Failed to start mDNS server: %v", err)
	}
}
