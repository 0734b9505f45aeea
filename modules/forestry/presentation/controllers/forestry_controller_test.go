package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/silvacore/patrimony/pkg/serrors"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want hierarchyLevel
		ok   bool
	}{
		{"2", levelEstate, true},
		{"3", levelCompartment, true},
		{"4", levelStand, true},
		{"5", levelPlot, true},
		{"1", 0, false},
		{"6", 0, false},
		{"estate", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run("level "+tc.raw, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/forestry/nodes/x", nil)
			r = mux.SetURLVars(r, map[string]string{"level": tc.raw})

			level, err := parseLevel(r)
			if tc.ok {
				require.NoError(t, err)
				require.Equal(t, tc.want, level)
				return
			}
			require.ErrorIs(t, err, errInvalidLevel)
			require.Equal(t, "INVALID_LEVEL", serrors.CodeOf(err))
		})
	}
}

func TestParseID(t *testing.T) {
	id := uuid.New()
	r := httptest.NewRequest("GET", "/api/forestry/nodes/2/x", nil)
	r = mux.SetURLVars(r, map[string]string{"id": id.String()})

	parsed, err := parseID(r)
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	r = mux.SetURLVars(r, map[string]string{"id": "not-a-uuid"})
	_, err = parseID(r)
	require.ErrorIs(t, err, errInvalidID)
}

func TestParseListQuery(t *testing.T) {
	parentID := uuid.New()

	r := httptest.NewRequest("GET", "/api/forestry/nodes/3?page=3&limit=10&search=north&parentId="+parentID.String(), nil)
	q, err := parseListQuery(r)
	require.NoError(t, err)
	require.Equal(t, 3, q.Page)
	require.Equal(t, 10, q.Limit)
	require.Equal(t, 20, q.Offset)
	require.Equal(t, "north", q.Search)
	require.Equal(t, parentID, *q.ParentID)
}

func TestParseListQuery_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/forestry/nodes/2", nil)
	q, err := parseListQuery(r)
	require.NoError(t, err)
	require.Equal(t, 1, q.Page)
	require.Positive(t, q.Limit)
	require.Equal(t, 0, q.Offset)
	require.Nil(t, q.ParentID)
}

func TestParseListQuery_ClampsOversizedLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/forestry/nodes/2?page=2&limit=100000", nil)
	q, err := parseListQuery(r)
	require.NoError(t, err)
	require.LessOrEqual(t, q.Limit, 100)
	// the offset is computed from the clamped limit so deep pages stay stable
	require.Equal(t, q.Limit, q.Offset)
}

func TestParseListQuery_Invalid(t *testing.T) {
	for _, target := range []string{
		"/api/forestry/nodes/2?page=0",
		"/api/forestry/nodes/2?page=x",
		"/api/forestry/nodes/2?limit=-1",
		"/api/forestry/nodes/2?parentId=not-a-uuid",
	} {
		r := httptest.NewRequest("GET", target, nil)
		_, err := parseListQuery(r)
		require.Error(t, err, target)
		require.Equal(t, serrors.ValidationCode, serrors.CodeOf(err), target)
	}
}
