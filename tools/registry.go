package tools

// DefaultRegistry builds the full tool catalog.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	registerSystem(r)
	registerFiles(r)
	registerNetwork(r)
	registerServices(r)
	registerCluster(r)
	registerEtcd(r)
	registerConfig(r)
	registerResources(r)
	return r
}
