package columnar_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
	"github.com/protondb/proton/pkg/metrics"
	"github.com/protondb/proton/pkg/pool"
	"github.com/protondb/proton/pkg/testutil"
)

func sampleBlock(t *testing.T, opts ...columnar.BlockOption) *columnar.Block {
	t.Helper()
	b := columnar.NewBlock(opts...)

	constant, err := columnar.NewConst(stringCol("eu"), 3)
	require.NoError(t, err)
	nullable, err := columnar.NewNullable(columnar.NewVector([]float64{1.5, 0, 3}), []bool{false, true, false})
	require.NoError(t, err)

	require.NoError(t, b.AddColumn("id", columnar.NewVector([]int64{1, 2, 3})))
	require.NoError(t, b.AddColumn("region", constant))
	require.NoError(t, b.AddColumn("price", nullable))
	return b
}

func TestBlockShape(t *testing.T) {
	b := sampleBlock(t)

	assert.Equal(t, 3, b.RowCount())
	assert.Equal(t, 3, b.ColumnCount())
	assert.Equal(t, []string{"id", "region", "price"}, b.ColumnNames())

	col, ok := b.Column("region")
	require.True(t, ok)
	assert.Equal(t, "Const", col.FamilyName())

	_, ok = b.Column("missing")
	assert.False(t, ok)

	col, err := b.ColumnAt(2)
	require.NoError(t, err)
	assert.Equal(t, "Nullable", col.FamilyName())

	_, err = b.ColumnAt(3)
	assert.True(t, errors.IsOutOfBounds(err))
}

func TestBlockAddColumnValidation(t *testing.T) {
	b := sampleBlock(t)

	err := b.AddColumn("id", columnar.NewVector([]int64{1, 2, 3}))
	testutil.RequireErrorType(t, err, errors.ErrorTypeValidation)

	err = b.AddColumn("short", columnar.NewVector([]int64{1}))
	testutil.RequireErrorType(t, err, errors.ErrorTypeMalformedColumn)

	err = b.AddColumn("nil", nil)
	testutil.RequireErrorType(t, err, errors.ErrorTypeValidation)
}

func TestBlockRow(t *testing.T) {
	b := sampleBlock(t)

	row, err := b.Row(1)
	require.NoError(t, err)
	require.Len(t, row, 3)
	assert.True(t, row[0].Equal(field.Int(2)))
	assert.True(t, row[1].Equal(field.String("eu")))
	assert.True(t, row[2].IsNull())

	_, err = b.Row(3)
	assert.True(t, errors.IsOutOfBounds(err))
	assert.Contains(t, err.Error(), "column id")
}

func TestBlockReadRowReusesBuffer(t *testing.T) {
	b := sampleBlock(t)
	row := pool.GetRow(0)
	defer pool.PutRow(row)

	require.NoError(t, b.ReadRow(0, row))
	assert.Equal(t, 3, row.Width())
	assert.True(t, row.Fields[2].Equal(field.Float(1.5)))

	require.NoError(t, b.ReadRow(2, row))
	assert.True(t, row.Fields[0].Equal(field.Int(3)))
}

func TestBlockRowUnsupportedColumn(t *testing.T) {
	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("n", columnar.NewDummy(2)))

	_, err := b.Row(0)
	assert.True(t, errors.IsUnsupported(err))
}

func TestBlockMaterialize(t *testing.T) {
	collector := metrics.NewCollector("proton")
	core, logs := observer.New(zap.DebugLevel)
	b := sampleBlock(t, columnar.WithCollector(collector), columnar.WithLogger(zap.New(core)))

	full, err := b.Materialize()
	require.NoError(t, err)

	region, ok := full.Column("region")
	require.True(t, ok)
	assert.Equal(t, "String", region.FamilyName())
	assert.Equal(t, 3, region.Size())

	original, _ := b.Column("region")
	assert.Equal(t, "Const", original.FamilyName())

	assert.Equal(t, 1.0, counterValue(t, collector.Registry(), "proton_column_materializations_total", "Const"))
	assert.Equal(t, 3.0, counterValue(t, collector.Registry(), "proton_column_materialized_rows_total", "Const"))
	assert.Equal(t, 3, logs.FilterMessage("column materialized").Len())
}

func TestBlockClone(t *testing.T) {
	b := sampleBlock(t)
	clone := b.Clone()

	require.NoError(t, clone.AddColumn("extra", columnar.NewDummy(3)))
	assert.Equal(t, 3, b.ColumnCount())
	assert.Equal(t, 4, clone.ColumnCount())

	for _, name := range b.ColumnNames() {
		want, _ := b.Column(name)
		got, _ := clone.Column(name)
		testutil.RequireColumnsEqual(t, want, got)
	}
}

func TestBlockIterators(t *testing.T) {
	b := sampleBlock(t)

	it := b.Iterator()
	var ids []int64
	for it.Next() {
		row, err := it.Row()
		require.NoError(t, err)
		id, err := row[0].AsInt()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
	it.Reset()
	assert.True(t, it.Next())
	assert.Equal(t, 0, it.Index())

	empty := columnar.NewBlock()
	assert.False(t, empty.Iterator().Next())
}

func TestBatchIterator(t *testing.T) {
	b := columnar.NewBlock()
	require.NoError(t, b.AddColumn("n", columnar.NewDummy(10)))

	var ranges [][2]int
	it := b.BatchIterator(4)
	for it.Next() {
		lo, hi := it.Range()
		ranges = append(ranges, [2]int{lo, hi})
	}
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, ranges)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, family string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "family" && label.GetValue() == family {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{family=%q} not found", name, family)
	return 0
}
