package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryVisitIsExhaustive(t *testing.T) {
	hours := "Mo-Su 09:00-21:00"
	cases := []struct {
		name string
		in   Category
		want string
	}{
		{"toponym", ToponymCategory("Amir Temur Ave 1"), "toponym:Amir Temur Ave 1"},
		{"business", BusinessCategory(Business{Name: "Cafe", WorkingHours: &hours}), "business:Cafe"},
		{"undefined", UndefinedCategory(), "undefined"},
		{"zero value", Category{}, "undefined"},
		{"kind without payload", Category{Kind: CategoryBusiness}, "undefined"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			tc.in.Visit(
				func(tp Toponym) { got = "toponym:" + tp.Address },
				func(b Business) { got = "business:" + b.Name },
				func() { got = "undefined" },
			)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCategoryJSON(t *testing.T) {
	phones := "+998 71 000 00 00"
	in := BusinessCategory(Business{Name: "Pharmacy", Phones: &phones})

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"business","name":"Pharmacy","phones":"+998 71 000 00 00"}`, string(data))

	var out Category
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, CategoryBusiness, out.Kind)
	assert.Equal(t, "Pharmacy", out.Business.Name)
	assert.Equal(t, phones, *out.Business.Phones)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"toponym","address":"Chilonzor"}`), &out))
	assert.Equal(t, ToponymCategory("Chilonzor"), out)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &out))
	assert.Equal(t, UndefinedCategory(), out)

	assert.Error(t, json.Unmarshal([]byte(`{"kind":"volcano"}`), &out))
}

func TestMapUiStateClone(t *testing.T) {
	title := "Tashkent"
	s := InitialMapUiState()
	s.Title = &title
	s.LastLocation = &Point{Latitude: 41.3, Longitude: 69.2}
	s.Places = []PlaceItem{{Name: "a", Location: &Point{Latitude: 1, Longitude: 2}}}

	c := s.Clone()
	*c.Title = "changed"
	c.LastLocation.Latitude = 0
	c.Places[0].Location.Longitude = 0

	assert.Equal(t, "Tashkent", *s.Title)
	assert.Equal(t, 41.3, s.LastLocation.Latitude)
	assert.Equal(t, 2.0, s.Places[0].Location.Longitude)
}
