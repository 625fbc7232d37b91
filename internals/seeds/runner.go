package seeds

import (
	users "absenku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

func RunAllSeeds(db *gorm.DB) {
	//* User awal (superadmin + operator demo)
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
}
