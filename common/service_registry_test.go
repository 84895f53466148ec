package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	running bool
}

func (*fakeService) ID() string { return "fake" }
func (f *fakeService) Start() error { f.running = true; return nil }
func (f *fakeService) Stop() error { f.running = false; return nil }
func (f *fakeService) IsRunning() bool { return f.running }
func (f *fakeService) Call(method string, args ...interface{}) (interface{}, error) {
	switch method {
	case "echo":
		var s string
		if err := CastOrUnmarshal(args[0], &s); err != nil {
			return nil, err
		}
		return s, nil
	case "panic":
		panic("boom")
	}
	return nil, errors.New("unknown method")
}

func TestServiceRegistryCall(t *testing.T) {
	registry := NewServiceRegistry()
	service := &fakeService{}
	require.NoError(t, registry.RegisterService(service))
	assert.Error(t, registry.RegisterService(service))

	_, err := registry.Call("fake", "echo", "hello")
	assert.Error(t, err, "service is not running")

	require.NoError(t, service.Start())
	data, err := registry.Call("fake", "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", data)

	data, err = registry.Call("fake", "echo", ServiceBytes(`"from json"`))
	require.NoError(t, err)
	assert.Equal(t, "from json", data)

	_, err = registry.Call("fake", "panic")
	assert.EqualError(t, err, "boom")

	_, err = registry.Call("missing", "echo")
	assert.Error(t, err)

	require.NoError(t, registry.StopAll())
	assert.False(t, service.IsRunning())
}
