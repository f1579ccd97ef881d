// Package loader registers HTTP features and mounts the enabled ones.
//
// A feature is a vertical slice (inventory, integrity) that owns its routes:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager.LoadAll mounts features in registration order, skips disabled ones,
// and rejects duplicate names.
package loader
