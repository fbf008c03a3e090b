package db

import (
	"context"

	"kfit/internal/models"
)

// IncrementResolutionLookup upserts a resolution count by brand and outcome.
func (d *DB) IncrementResolutionLookup(ctx context.Context, brand, outcome string) error {
	if outcome == "" {
		return ErrInvalidLookup
	}
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO resolution_lookups (brand, outcome, count, last_seen_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (brand, outcome) DO UPDATE
		SET count = resolution_lookups.count + 1, last_seen_at = NOW()
	`, brand, outcome)
	return err
}

// GetAllResolutionLookups returns all resolution lookup rows for metrics export.
func (d *DB) GetAllResolutionLookups(ctx context.Context) ([]models.ResolutionLookup, error) {
	rows, err := d.Pool.Query(ctx, `SELECT brand, outcome, count, last_seen_at FROM resolution_lookups`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []models.ResolutionLookup
	for rows.Next() {
		var l models.ResolutionLookup
		if err := rows.Scan(&l.Brand, &l.Outcome, &l.Count, &l.LastSeenAt); err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// GetTopBrands returns the brands with the most remote resolutions, most frequent first.
// The cache warmer uses it to warm the most requested brands first.
func (d *DB) GetTopBrands(ctx context.Context, limit int) ([]string, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT brand
		FROM resolution_lookups
		WHERE outcome IN ('tier1', 'tier2', 'tier3') AND brand <> ''
		GROUP BY brand
		ORDER BY SUM(count) DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}
