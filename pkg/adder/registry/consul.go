// Package registry announces the adder to a Consul agent so other services
// can discover it.
package registry

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	consulsd "github.com/go-kit/kit/sd/consul"
	stdconsul "github.com/hashicorp/consul/api"
)

// Instance describes the address a registered service is reachable on.
type Instance struct {
	Name string
	Host string
	Port int
	Tags []string
}

// ID is the Consul service id of the instance, unique per host and port.
func (i Instance) ID() string {
	return fmt.Sprintf("%s-%s-%d", i.Name, i.Host, i.Port)
}

// Registration builds the agent registration for i, with an HTTP check
// against its /healthz route.
func Registration(i Instance) *stdconsul.AgentServiceRegistration {
	return &stdconsul.AgentServiceRegistration{
		ID:      i.ID(),
		Name:    i.Name,
		Address: i.Host,
		Port:    i.Port,
		Tags:    i.Tags,
		Check: &stdconsul.AgentServiceCheck{
			HTTP:                           "http://" + net.JoinHostPort(i.Host, strconv.Itoa(i.Port)) + "/healthz",
			Interval:                       (10 * time.Second).String(),
			Timeout:                        (time.Second).String(),
			DeregisterCriticalServiceAfter: (time.Minute).String(),
		},
	}
}

// NewConsulRegistrar returns a registrar for i against the agent at addr.
// Call Register once the HTTP listener is up and Deregister on shutdown.
func NewConsulRegistrar(addr string, i Instance, logger log.Logger) (*consulsd.Registrar, error) {
	cfg := stdconsul.DefaultConfig()
	cfg.Address = addr

	c, err := stdconsul.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return NewRegistrar(consulsd.NewClient(c), i, logger), nil
}

// NewRegistrar returns a registrar for i using an existing client.
func NewRegistrar(client consulsd.Client, i Instance, logger log.Logger) *consulsd.Registrar {
	return consulsd.NewRegistrar(client, Registration(i), log.With(logger, "registry", "consul"))
}
