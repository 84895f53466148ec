package common

import (
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	log "github.com/sirupsen/logrus"
)

const (
	CACHE_SERVICE_NAME     = "cache"
	SERVER_SERVICE_NAME    = "server"
	TELEMETRY_SERVICE_NAME = "telemetry"
)

type IService interface {
	ID() string
	Start() error
	Stop() error
	IsRunning() bool
	Call(method string, args ...interface{}) (interface{}, error)
}

type ServiceRegistry struct {
	mu       sync.RWMutex
	services map[string]IService
}

func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]IService),
	}
}

func (s *ServiceRegistry) RegisterService(service IService) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.services[service.ID()]; exists {
		return fmt.Errorf("service already exists: %v", service.ID())
	}
	s.services[service.ID()] = service
	return nil
}

// StartAll starts services in registration-independent order; a service
// failing to start is logged and left stopped.
func (s *ServiceRegistry) StartAll() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, service := range s.services {
		go func(n string, s IService) {
			log.Info(fmt.Sprintf(`Starting service: %s`, n))
			err := s.Start()
			if err != nil {
				log.Info(fmt.Sprintf(`Error during starting service: %s %v`, n, err))
			}
		}(name, service)
	}
	return nil
}

func (s *ServiceRegistry) StopAll() (err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, service := range s.services {
		log.Info(fmt.Sprintf(`Stopping service: %s`, name))
		err = service.Stop()
		if err != nil {
			log.WithError(err).Errorf("Stopping service %q", name)
		}
	}
	return err
}

// Call routes a method call to a registered service, waiting briefly for
// it to come up. Panics inside the service are returned as errors.
func (s *ServiceRegistry) Call(service, method string, args ...interface{}) (data interface{}, err error) {
	var baseService IService
	err = retry.Do(func() error {
		s.mu.RLock()
		bs, ok := s.services[service]
		s.mu.RUnlock()
		if !ok {
			return retry.Unrecoverable(fmt.Errorf("could not find service %v", service))
		}
		if !bs.IsRunning() {
			log.WithFields(log.Fields{
				"Service": service,
			}).Debug("ServiceNotRunning")
			return fmt.Errorf("service %v is not running", service)
		}
		baseService = bs
		return nil
	}, retry.Attempts(5), retry.Delay(50*time.Millisecond), retry.LastErrorOnly(true))
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"Service": service,
				"Method":  method,
				"error":   r,
			}).Error("panicked during IService.Call")
			data, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return baseService.Call(method, args...)
}
