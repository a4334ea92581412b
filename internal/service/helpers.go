package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func normalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// generateProductSlug derives a URL-safe slug from the product name, with a
// short random suffix to keep the unique index happy across renames.
func generateProductSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	if base == "" {
		base = "product"
	}

	slug := make([]rune, 0, len(base))
	for _, r := range base {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			slug = append(slug, r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if len(slug) == 0 || slug[len(slug)-1] == '-' {
				continue
			}
			slug = append(slug, '-')
		}
	}
	trimmed := strings.Trim(string(slug), "-")
	if trimmed == "" {
		trimmed = "product"
	}
	return trimmed + "-" + uuid.NewString()[:8]
}

func entityIDString(id uint) *string {
	value := strconv.FormatUint(uint64(id), 10)
	return &value
}

func parseEntityID(value string) (uint, bool) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}
