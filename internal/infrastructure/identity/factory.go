package identity

import (
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dailykharcha/kharcha/internal/core/ports"
)

// Backend names a supported identity backend.
const (
	BackendLocal    = "local"
	BackendFirebase = "firebase"
)

// NewGateway selects the identity backend by name. The firebase backend
// requires an API key; the local backend requires the MongoDB handle.
func NewGateway(backend, apiKey, baseURL string, db *mongo.Database) (ports.AuthGateway, error) {
	switch backend {
	case BackendLocal, "":
		return NewLocalGateway(db), nil
	case BackendFirebase:
		if apiKey == "" {
			return nil, fmt.Errorf("identity backend %q requires an API key", backend)
		}
		return NewFirebaseGateway(apiKey, baseURL), nil
	}
	return nil, fmt.Errorf("unknown identity backend %q", backend)
}
