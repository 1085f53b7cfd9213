package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/repository"
)

// listEnvelope is the response shape shared by every paginated
// collection endpoint. Page and size echo back normalized, matching
// what the repository actually served.
func listEnvelope(results any, count, page, size int) fiber.Map {
	page, size = repository.NormalizePage(page, size)
	return fiber.Map{
		"results": results,
		"count":   count,
		"page":    page,
		"size":    size,
	}
}
