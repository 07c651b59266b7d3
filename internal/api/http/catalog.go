package http

import (
	"net/http"

	"github.com/mind-engage/mindengage-maturity/internal/maturity"
)

type levelOut struct {
	Name  maturity.Level `json:"name"`
	Color string         `json:"color"`
}

type catalogOut struct {
	Domains    []maturity.DomainInfo    `json:"domains"`
	Dimensions []maturity.DimensionInfo `json:"dimensions"`
	Scale      []maturity.ScalePoint    `json:"scale"`
	Bands      []maturity.Band          `json:"bands"`
	Levels     []levelOut               `json:"levels"`
}

// GET /domains
func DomainsHandler() http.HandlerFunc {
	levels := make([]levelOut, 0, 5)
	for _, l := range maturity.AllLevels() {
		levels = append(levels, levelOut{Name: l, Color: l.Color()})
	}
	out := catalogOut{
		Domains:    maturity.Domains(),
		Dimensions: maturity.Dimensions(),
		Scale:      maturity.Scale(),
		Bands:      maturity.AllBands(),
		Levels:     levels,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, out)
	}
}
