package engine

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/pivotgrid/schema"
)

func TestComputeSubtotals(t *testing.T) {
	plan := PlanColumns(salesResponse(), schema.DefaultConfig())
	st, err := ComputeSubtotals(Materialize(salesRows(), plan), plan)
	require.NoError(t, err)

	require.Len(t, st.Groups, 2)
	assert.Equal(t, []string{"EU"}, st.Groups[0].Path)
	assert.Equal(t, 2, st.Groups[0].Count)
	assert.Equal(t, "30", st.Groups[0].Values["revenue"].Text)
	assert.Equal(t, []string{"US"}, st.Groups[1].Path)
	assert.Equal(t, "30", st.Groups[1].Values["revenue"].Text)
	assert.Equal(t, "60", st.Total["revenue"].Text)
}

func TestComputeSubtotalsNested(t *testing.T) {
	resp := salesResponse()
	resp.Fields.Dimensions = append([]schema.Field{{Name: "channel"}}, resp.Fields.Dimensions...)
	resp.Fields.Measures[0].ValueFormat = "$#,##0.00"

	rows := salesRows()
	rows[0]["channel"] = flat("web")
	rows[1]["channel"] = flat("store")
	rows[2]["channel"] = flat("web")

	plan := PlanColumns(resp, schema.DefaultConfig())
	require.Equal(t, []string{"channel", "region"}, plan.GroupFields())

	st, err := ComputeSubtotals(Materialize(rows, plan), plan)
	require.NoError(t, err)

	var paths [][]string
	for _, g := range st.Groups {
		paths = append(paths, g.Path)
	}
	assert.Equal(t, [][]string{
		{"web"}, {"web", "EU"}, {"web", "US"},
		{"store"}, {"store", "EU"},
	}, paths)
	assert.Equal(t, "$40.00", st.Groups[0].Values["revenue"].Text)
	assert.Equal(t, 1, st.Groups[1].Level)
}

func TestComputeSubtotalsNullGroup(t *testing.T) {
	plan := PlanColumns(salesResponse(), schema.DefaultConfig())
	rows := []schema.Row{
		{"region": flat("EU"), "product": flat("A")},
	}
	st, err := ComputeSubtotals(Materialize(rows, plan), plan)
	require.NoError(t, err)
	require.Len(t, st.Groups, 1)
	assert.Nil(t, st.Groups[0].Values["revenue"])
}

func TestComputeSubtotalsUnsupportedTypes(t *testing.T) {
	resp := salesResponse()
	resp.Fields.Measures = append(resp.Fields.Measures,
		schema.Field{Name: "status", Type: "string"},
		schema.Field{Name: "created", Type: "date_date"},
	)
	plan := PlanColumns(resp, schema.DefaultConfig())

	_, err := ComputeSubtotals(Materialize(salesRows(), plan), plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
}
