package auth

import (
	"github.com/ValentinKolb/sgc/lib/store"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/crypto/bcrypt"
)

// Registry holds the known identities and their password hashes.
//
// Thread-safety: backed by a lock-free concurrent map, safe for use from
// any number of dispatcher goroutines.
type Registry struct {
	users *xsync.MapOf[string, []byte]
}

// NewRegistry creates an empty identity registry.
func NewRegistry() *Registry {
	return &Registry{
		users: xsync.NewMapOf[string, []byte](),
	}
}

// Register adds a new identity. Fails with InvalidCredential if the name
// is taken or the inputs are empty.
func (r *Registry) Register(name, password string) error {
	if name == "" || password == "" {
		return store.NewError(store.RetCInvalidCredential, "identity name and password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return store.NewError(store.RetCInternalError, "failed to hash password: %v", err)
	}
	if _, loaded := r.users.LoadOrStore(name, hash); loaded {
		return store.NewError(store.RetCInvalidCredential, "identity %q already registered", name)
	}
	return nil
}

// Verify checks a name/password pair against the registry.
func (r *Registry) Verify(name, password string) bool {
	hash, ok := r.users.Load(name)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// Has reports whether an identity with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.users.Load(name)
	return ok
}
