package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectAll(t *testing.T) {
	stops := []Stop{
		NewHomeStart("1 Main St"),
		JobStop{StopBase: StopBase{ID: "job-j1-1", Address: "2 Oak Ave"}, JobID: "j1", ContactID: "c1", ContactName: "Ada"},
		SupplierStop{StopBase: StopBase{ID: "sup-1", Address: "3 Elm St"}, SupplierID: "s1", Name: "Supply Co"},
		PlaceStop{StopBase: StopBase{ID: "place-1", Address: "4 Pine Rd"}, Name: "Bank"},
		NewHomeEnd("1 Main St"),
	}

	got := ProjectAll(stops)

	want := SavedRoute{
		{Type: StopKindHome, Label: HomeStart},
		{Type: StopKindJob, JobID: "j1", ContactID: "c1"},
		{Type: StopKindSupplier, SupplierID: "s1", ID: "sup-1"},
		{Type: StopKindPlace, ID: "place-1", Name: "Bank", Address: "4 Pine Rd"},
		{Type: StopKindHome, Label: HomeEnd},
	}
	assert.Equal(t, want, got)
	require.NoError(t, got.Validate())
}

func TestSavedRouteValidate(t *testing.T) {
	cases := []struct {
		name string
		stop SavedRouteStop
	}{
		{"home without label", SavedRouteStop{Type: StopKindHome}},
		{"job without contact", SavedRouteStop{Type: StopKindJob, JobID: "j1"}},
		{"supplier without id", SavedRouteStop{Type: StopKindSupplier, SupplierID: "s1"}},
		{"place without address", SavedRouteStop{Type: StopKindPlace, ID: "p1"}},
		{"unknown type", SavedRouteStop{Type: "truck"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := SavedRoute{{Type: StopKindHome, Label: HomeStart}, tc.stop}.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "entry 1")
		})
	}
}

func TestSavedRouteValidateLayout(t *testing.T) {
	start := SavedRouteStop{Type: StopKindHome, Label: HomeStart}
	end := SavedRouteStop{Type: StopKindHome, Label: HomeEnd}
	supplier := func(id string) SavedRouteStop {
		return SavedRouteStop{Type: StopKindSupplier, SupplierID: "s1", ID: id}
	}
	place := func(id string) SavedRouteStop {
		return SavedRouteStop{Type: StopKindPlace, ID: id, Address: "4 Pine Rd"}
	}

	require.NoError(t, SavedRoute{start, supplier("x"), place("y"), end}.Validate())
	require.NoError(t, SavedRoute{start, end}.Validate())
	require.NoError(t, SavedRoute{supplier("x")}.Validate(), "endpoints may be omitted")

	cases := []struct {
		name  string
		route SavedRoute
		want  string
	}{
		{"supplier and place share an id", SavedRoute{start, supplier("x"), place("x"), end}, `duplicate stop id "x"`},
		{"supplier repeated", SavedRoute{start, supplier("x"), supplier("x"), end}, `duplicate stop id "x"`},
		{"id reserved for home", SavedRoute{start, place(HomeEndID), end}, "duplicate stop id"},
		{"end in the middle", SavedRoute{start, end, supplier("x"), end}, "entry 1: home End must be the last entry"},
		{"end repeated", SavedRoute{start, supplier("x"), end, end}, "entry 2: home End must be the last entry"},
		{"start not first", SavedRoute{supplier("x"), start, end}, "entry 1: home Start must be the first entry"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.route.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
