// internal/di/container.go
package di

import (
	"sync"
)

// Container is a minimal string-keyed service container. Services are
// registered once at startup in dependency order and looked up by name.
type Container struct {
	services map[string]interface{}
	mutex    sync.RWMutex
}

var (
	globalContainer *Container
	once            sync.Once
)

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{
		services: make(map[string]interface{}),
	}
}

// GetContainer returns the process-wide container instance.
func GetContainer() *Container {
	once.Do(func() {
		globalContainer = NewContainer()
	})
	return globalContainer
}

// Register stores a service instance under name, replacing any previous one.
func (c *Container) Register(name string, service interface{}) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.services[name] = service
}

// Get returns the service registered under name, or nil.
func (c *Container) Get(name string) interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	service, exists := c.services[name]
	if !exists {
		return nil
	}
	return service
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	_, exists := c.services[name]
	return exists
}

// Remove drops the service registered under name.
func (c *Container) Remove(name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.services, name)
}

// Clear drops all registered services.
func (c *Container) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.services = make(map[string]interface{})
}

// GetNames returns the names of all registered services.
func (c *Container) GetNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	return names
}
