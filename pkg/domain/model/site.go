package model

import "github.com/secmon-lab/crowdlens/pkg/domain/types"

// Site is one monitorable site from the site directory
type Site struct {
	ID   types.SiteID `json:"siteId"`
	Name string       `json:"name"`
}

// FindSite returns the site with id, or nil
func FindSite(sites []Site, id types.SiteID) *Site {
	for _, s := range sites {
		if s.ID == id {
			result := s
			return &result
		}
	}
	return nil
}
