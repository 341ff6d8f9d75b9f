package registry

import (
	"testing"

	"github.com/go-kit/kit/log"
	stdconsul "github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	registered   []*stdconsul.AgentServiceRegistration
	deregistered []*stdconsul.AgentServiceRegistration
}

func (c *fakeClient) Register(r *stdconsul.AgentServiceRegistration) error {
	c.registered = append(c.registered, r)
	return nil
}

func (c *fakeClient) Deregister(r *stdconsul.AgentServiceRegistration) error {
	c.deregistered = append(c.deregistered, r)
	return nil
}

func (c *fakeClient) Service(string, string, bool, *stdconsul.QueryOptions) ([]*stdconsul.ServiceEntry, *stdconsul.QueryMeta, error) {
	return nil, &stdconsul.QueryMeta{}, nil
}

func TestRegistration(t *testing.T) {
	r := Registration(Instance{Name: "adder", Host: "10.0.0.5", Port: 3000, Tags: []string{"demo"}})

	assert.Equal(t, "adder-10.0.0.5-3000", r.ID)
	assert.Equal(t, "adder", r.Name)
	assert.Equal(t, "10.0.0.5", r.Address)
	assert.Equal(t, 3000, r.Port)
	assert.Equal(t, []string{"demo"}, r.Tags)
	require.NotNil(t, r.Check)
	assert.Equal(t, "http://10.0.0.5:3000/healthz", r.Check.HTTP)
	assert.Equal(t, "10s", r.Check.Interval)
}

func TestRegistrationIPv6(t *testing.T) {
	r := Registration(Instance{Name: "adder", Host: "::1", Port: 3000})
	assert.Equal(t, "http://[::1]:3000/healthz", r.Check.HTTP)
}

func TestRegistrar(t *testing.T) {
	client := &fakeClient{}
	reg := NewRegistrar(client, Instance{Name: "adder", Host: "localhost", Port: 3000}, log.NewNopLogger())

	reg.Register()
	reg.Deregister()

	require.Len(t, client.registered, 1)
	require.Len(t, client.deregistered, 1)
	assert.Equal(t, "adder-localhost-3000", client.registered[0].ID)
	assert.Equal(t, client.registered[0], client.deregistered[0])
}

func TestNewConsulRegistrar(t *testing.T) {
	reg, err := NewConsulRegistrar("127.0.0.1:8500", Instance{Name: "adder", Host: "localhost", Port: 3000}, log.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, reg)
}
