package domain

import (
	"errors"
	"fmt"
)

// Compact, persistence-safe projection of a Stop. Only references are kept;
// names, addresses and times are re-derived from live data on reconstruction.
// Place stops have no backing entity, so they keep their own name and address.
type SavedRouteStop struct {
	Type       StopKind  `json:"type"`
	Label      HomeLabel `json:"label,omitempty"`
	JobID      string    `json:"jobId,omitempty"`
	ContactID  string    `json:"contactId,omitempty"`
	SupplierID string    `json:"supplierId,omitempty"`
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Address    string    `json:"address,omitempty"`
}

// SavedRoute is the ordered persisted form of one day's sequence.
type SavedRoute []SavedRouteStop

// Project converts a live stop into its persisted form.
func Project(s Stop) SavedRouteStop {
	return MatchStop(s,
		func(h HomeStop) SavedRouteStop {
			return SavedRouteStop{Type: StopKindHome, Label: h.Label}
		},
		func(j JobStop) SavedRouteStop {
			return SavedRouteStop{Type: StopKindJob, JobID: j.JobID, ContactID: j.ContactID}
		},
		func(sp SupplierStop) SavedRouteStop {
			return SavedRouteStop{Type: StopKindSupplier, SupplierID: sp.SupplierID, ID: sp.ID}
		},
		func(p PlaceStop) SavedRouteStop {
			return SavedRouteStop{Type: StopKindPlace, ID: p.ID, Name: p.Name, Address: p.Address}
		},
	)
}

// ProjectAll converts a full sequence into its persisted form.
func ProjectAll(stops []Stop) SavedRoute {
	out := make(SavedRoute, 0, len(stops))
	for _, s := range stops {
		out = append(out, Project(s))
	}
	return out
}

// Validate checks that each entry carries the references its type needs,
// that home Start and End appear only as the first and last entry, and that
// supplier and place ids are unique within the route.
func (r SavedRoute) Validate() error {
	seen := map[string]bool{HomeStartID: true, HomeEndID: true}
	for i, s := range r {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("saved route: entry %d: %w", i, err)
		}
		switch s.Type {
		case StopKindHome:
			if s.Label == HomeStart && i != 0 {
				return fmt.Errorf("saved route: entry %d: home Start must be the first entry", i)
			}
			if s.Label == HomeEnd && i != len(r)-1 {
				return fmt.Errorf("saved route: entry %d: home End must be the last entry", i)
			}
		case StopKindSupplier, StopKindPlace:
			if seen[s.ID] {
				return fmt.Errorf("saved route: entry %d: duplicate stop id %q", i, s.ID)
			}
			seen[s.ID] = true
		}
	}
	return nil
}

func (s SavedRouteStop) Validate() error {
	switch s.Type {
	case StopKindHome:
		if s.Label != HomeStart && s.Label != HomeEnd {
			return fmt.Errorf("home stop has invalid label %q", s.Label)
		}
	case StopKindJob:
		if s.JobID == "" || s.ContactID == "" {
			return errors.New("job stop requires jobId and contactId")
		}
	case StopKindSupplier:
		if s.SupplierID == "" || s.ID == "" {
			return errors.New("supplier stop requires supplierId and id")
		}
	case StopKindPlace:
		if s.ID == "" || s.Address == "" {
			return errors.New("place stop requires id and address")
		}
	default:
		return fmt.Errorf("unknown stop type %q", s.Type)
	}
	return nil
}
