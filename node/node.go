package node

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/arcana-network/frostsigner/cache"
	"github.com/arcana-network/frostsigner/common"
	"github.com/arcana-network/frostsigner/config"
	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/server"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/telemetry"
)

// registryGuard records consumed commitments in the cache service through
// the service registry.
type registryGuard struct {
	registry *common.ServiceRegistry
}

func (g registryGuard) RecordCommitment(digest string) error {
	_, err := g.registry.Call(common.CACHE_SERVICE_NAME, "record_commitment", digest)
	return err
}

// Setup registers every service of a signer node in a new registry.
func Setup(conf *config.Config) (*common.ServiceRegistry, error) {
	config.GlobalConfig = conf

	if err := common.SetLogLevel(conf.LogLevel); err != nil {
		return nil, err
	}
	ttl, err := conf.NonceGuardDuration()
	if err != nil {
		return nil, err
	}

	serviceRegistry := common.NewServiceRegistry()
	manager := dkg.NewManager(dkg.NewMemorySessionStore())
	signer := signing.NewSigner(registryGuard{serviceRegistry})

	services := []common.IService{
		cache.New(ttl),
		server.New(manager, signer),
	}
	if conf.TelemetryPort != "" {
		services = append(services, telemetry.New(conf.TelemetryPort))
	}

	for _, s := range services {
		if err := serviceRegistry.RegisterService(s); err != nil {
			return nil, fmt.Errorf("registering service %s: %w", s.ID(), err)
		}
	}
	return serviceRegistry, nil
}

func Start(conf *config.Config) error {
	serviceRegistry, err := Setup(conf)
	if err != nil {
		return err
	}

	err = serviceRegistry.StartAll()
	if err != nil {
		log.Fatalf("Error while starting all services: err=%s", err)
	}
	log.WithFields(log.Fields{
		"port":       conf.HttpServerPort,
		"unixSocket": conf.UnixSocket,
		"telemetry":  conf.TelemetryPort,
	}).Info("signer node started")

	stopOnInterrupt(serviceRegistry)
	return nil
}

func stopOnInterrupt(serviceRegistry *common.ServiceRegistry) {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	osSig := <-osSignal
	log.Println("Termination started, signal: " + osSig.String())
	err := serviceRegistry.StopAll()
	if err != nil {
		log.Fatalf("Error while stopping all services: err=%s", err)
	}
}
