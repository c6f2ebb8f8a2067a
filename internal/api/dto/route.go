package dto

import (
	"route-timing-service/internal/domain"
	"route-timing-service/internal/ports"
	"route-timing-service/internal/services"
)

const clockLayout = "15:04"

type StopResponse struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Address         string `json:"address"`
	Label           string `json:"label,omitempty"`
	JobID           string `json:"job_id,omitempty"`
	ContactID       string `json:"contact_id,omitempty"`
	ContactName     string `json:"contact_name,omitempty"`
	AppointmentTime string `json:"appointment_time,omitempty"`
	ServiceMinutes  int    `json:"service_minutes,omitempty"`
	SupplierID      string `json:"supplier_id,omitempty"`
	Name            string `json:"name,omitempty"`
}

type StopsResponse struct {
	Date  string         `json:"date"`
	Stops []StopResponse `json:"stops"`
}

type StopMetricsResponse struct {
	TravelDistanceValue int    `json:"travel_distance_value"`
	TravelDistanceText  string `json:"travel_distance_text"`
	TravelTimeValue     int    `json:"travel_time_value"`
	TravelTimeText      string `json:"travel_time_text"`
	ETA                 string `json:"eta"`
	IdleTimeMinutes     int    `json:"idle_time_minutes"`
}

type TotalsResponse struct {
	DistanceMeters int  `json:"distance_meters"`
	TimeSeconds    int  `json:"time_seconds"`
	Complete       bool `json:"complete"`
}

type MetricsResponse struct {
	Date     string                         `json:"date"`
	State    string                         `json:"state"`
	Stops    []StopResponse                 `json:"stops"`
	Metrics  map[string]StopMetricsResponse `json:"metrics"`
	Totals   TotalsResponse                 `json:"totals"`
	LeaveBy  *string                        `json:"leave_by"`
	DepartAt string                         `json:"depart_at,omitempty"`
	Notices  []ports.Notice                 `json:"notices"`
}

type AddSupplierRequest struct {
	SupplierID string `json:"supplier_id"`
	Position   *int   `json:"position"`
}

type AddPlaceRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Position *int   `json:"position"`
}

func FromStops(stops []domain.Stop) []StopResponse {
	out := make([]StopResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, FromStop(s))
	}
	return out
}

func FromStop(s domain.Stop) StopResponse {
	res := StopResponse{ID: s.StopID(), Type: string(s.Kind()), Address: s.StopAddress()}
	return domain.MatchStop(s,
		func(h domain.HomeStop) StopResponse {
			res.Label = string(h.Label)
			return res
		},
		func(j domain.JobStop) StopResponse {
			res.JobID = j.JobID
			res.ContactID = j.ContactID
			res.ContactName = j.ContactName
			res.ServiceMinutes = j.ServiceMinutes
			if j.AppointmentTime != nil {
				res.AppointmentTime = j.AppointmentTime.String()
			}
			return res
		},
		func(sp domain.SupplierStop) StopResponse {
			res.SupplierID = sp.SupplierID
			res.Name = sp.Name
			return res
		},
		func(p domain.PlaceStop) StopResponse {
			res.Name = p.Name
			return res
		},
	)
}

// MetricsFrom renders a metrics snapshot with local HH:MM times.
func MetricsFrom(snap services.Snapshot) MetricsResponse {
	res := MetricsResponse{
		Date:    snap.Day,
		State:   string(snap.State),
		Stops:   FromStops(snap.Stops),
		Metrics: make(map[string]StopMetricsResponse, len(snap.Metrics)),
		Totals: TotalsResponse{
			DistanceMeters: snap.Totals.DistanceMeters,
			TimeSeconds:    snap.Totals.TimeSeconds,
			Complete:       snap.Totals.Complete,
		},
		Notices: snap.Notices,
	}
	if res.Notices == nil {
		res.Notices = []ports.Notice{}
	}
	for id, m := range snap.Metrics {
		res.Metrics[id] = StopMetricsResponse{
			TravelDistanceValue: m.TravelDistanceValue,
			TravelDistanceText:  m.TravelDistanceText,
			TravelTimeValue:     m.TravelTimeValue,
			TravelTimeText:      m.TravelTimeText,
			ETA:                 m.ETA.Format(clockLayout),
			IdleTimeMinutes:     m.IdleTimeMinutes,
		}
	}
	if snap.LeaveBy != nil {
		s := snap.LeaveBy.Format(clockLayout)
		res.LeaveBy = &s
	}
	if !snap.DepartAt.IsZero() {
		res.DepartAt = snap.DepartAt.Format(clockLayout)
	}
	return res
}
