package llm

import "fmt"

// builds a responder backend; factories fail if their env config is missing
type ProviderFactory func() (Provider, error)

// registry of responder backends, keyed by the name used in config
var providers = make(map[string]ProviderFactory)

// RegisterProvider makes a responder backend selectable by name. Backends
// call this from their package init, so a blank import is enough to wire
// one in.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewProvider builds the responder configured for this deployment.
func NewProvider(name string) (Provider, error) {
	factory, exists := providers[name]
	if !exists {
		return nil, fmt.Errorf("unsupported responder provider: %s", name)
	}
	return factory()
}
