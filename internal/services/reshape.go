package services

import "supermarket-dashboard/internal/models"

// ToLong pivots the cross-tab into one long-format row per
// (product line, gender) cell, preserving order and values.
func ToLong(wide []models.GenderCategoryCount) []models.GenderCategoryLong {
	long := make([]models.GenderCategoryLong, len(wide))
	for i, cell := range wide {
		long[i] = models.GenderCategoryLong{
			ProductLine: cell.ProductLine,
			Gender:      cell.Gender,
			Value:       cell.Count,
		}
	}
	return long
}
