package store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/orthoprice/orthoprice/internal/clinic"
)

// Strategy names accepted by Open.
const (
	StrategyRemote = "remote"
	StrategyLocal  = "local"
)

// Patients is the collaborator contract for the patient collection.
//
// Get returns (nil, nil) when the identifier is absent: an explicit
// not-found result, never an error. Create and Update accept a raw
// field set; normalization and coercion happen before any exchange
// with the backing store.
type Patients interface {
	List(ctx context.Context) ([]clinic.Patient, error)
	Get(ctx context.Context, id string) (*clinic.Patient, error)
	Create(ctx context.Context, fields clinic.Fields) (*clinic.Patient, error)
	Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Patient, error)
	Delete(ctx context.Context, id string) error
}

// Materials is the collaborator contract for the material collection.
type Materials interface {
	List(ctx context.Context) ([]clinic.Material, error)
	Get(ctx context.Context, id string) (*clinic.Material, error)
	Create(ctx context.Context, fields clinic.Fields) (*clinic.Material, error)
	Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Material, error)
	Delete(ctx context.Context, id string) error
}

// Procedures is the collaborator contract for the procedure
// collection. Reads return the enriched projection: every material
// usage is joined against the current materials collection, on every
// read, with no caching of the joined result. ListByPatient filters
// the enriched list client-side; there is no dedicated endpoint.
type Procedures interface {
	List(ctx context.Context) ([]clinic.EnrichedProcedure, error)
	Get(ctx context.Context, id string) (*clinic.EnrichedProcedure, error)
	ListByPatient(ctx context.Context, patientID string) ([]clinic.EnrichedProcedure, error)
	Create(ctx context.Context, fields clinic.Fields) (*clinic.Procedure, error)
	Update(ctx context.Context, id string, fields clinic.Fields) (*clinic.Procedure, error)
	Delete(ctx context.Context, id string) error
}

// Store groups the per-kind contracts of the active strategy.
type Store interface {
	Patients() Patients
	Materials() Materials
	Procedures() Procedures
	Close() error
}

// Options selects and configures the backing strategy. The choice is
// made once per process; there is no per-call branching.
type Options struct {
	// Strategy is "remote" or "local".
	Strategy string

	// BaseURL is the remote API root (remote strategy).
	BaseURL string

	// HTTPClient overrides the exchange client (remote strategy,
	// mainly for tests). Defaults to a plain client with no timeout:
	// a failed exchange surfaces immediately and retrying is the
	// caller's decision.
	HTTPClient *http.Client

	// Path is the SQLite database location (local strategy).
	Path string

	// Latency is an optional artificial delay applied to every local
	// operation, modeling a remote round trip. Zero disables it.
	Latency time.Duration
}

// Open creates the configured strategy.
func Open(opts Options) (Store, error) {
	switch opts.Strategy {
	case StrategyRemote:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("open store: remote strategy requires a base URL")
		}
		return NewRemote(opts.BaseURL, opts.HTTPClient), nil
	case StrategyLocal:
		if opts.Path == "" {
			return nil, fmt.Errorf("open store: local strategy requires a database path")
		}
		return OpenLocal(opts.Path, opts.Latency)
	default:
		return nil, fmt.Errorf("open store: unknown strategy %q (want %q or %q)", opts.Strategy, StrategyRemote, StrategyLocal)
	}
}
