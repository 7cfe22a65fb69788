package migrations

import "gorm.io/gorm"

// Backfill for meals written before total_calories was maintained on every
// food mutation. Recomputes the column from the live per-meal sum once; after
// this the services layer is the only writer.
func init() {
	Register("001_recompute_meal_totals",
		func(db *gorm.DB) error {
			return db.Exec(`
				UPDATE meals SET total_calories = COALESCE(
					(SELECT SUM(f.calories) FROM foods f
					 WHERE f.meal_id = meals.id AND f.deleted_at IS NULL), 0)
			`).Error
		},
		func(db *gorm.DB) error {
			return nil
		},
	)
}
