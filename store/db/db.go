// Package db provides the database driver constructors.
package db

import (
	"github.com/pkg/errors"

	"github.com/miachat/miachat/internal/profile"
	"github.com/miachat/miachat/store"
	"github.com/miachat/miachat/store/db/postgres"
	"github.com/miachat/miachat/store/db/sqlite"
)

// NewDBDriver creates a new database driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "postgres":
		return postgres.NewDB(profile)
	case "sqlite":
		return sqlite.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown database driver %q", profile.Driver)
	}
}
