package main

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/columnar"
	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/metrics"
)

func validateRows(rows int) error {
	if rows < 0 {
		return errors.Newf(errors.ErrorTypeValidation, "--rows must not be negative, got %d", rows)
	}
	return nil
}

// sampleBlock builds a block of rows rows with one column of each variant
// that carries per-row values.
func sampleBlock(rows int, log *zap.Logger, collector *metrics.Collector) (*columnar.Block, error) {
	if err := validateRows(rows); err != nil {
		return nil, err
	}
	b := columnar.NewBlock(columnar.WithLogger(log), columnar.WithCollector(collector))

	codes, err := columnar.NewEmptyFixedString(3)
	if err != nil {
		return nil, err
	}

	ids := columnar.NewVectorWithCapacity[int64](rows)
	names := columnar.NewStringWithCapacity(rows)
	scores := columnar.NewVectorWithCapacity[float64](rows)
	nulls := make([]bool, rows)
	prices := make([]decimal128.Num, rows)
	tags := columnar.NewString()
	offsets := make([]int, rows)
	hits := columnar.NewSparse[uint32](0)

	for n := 0; n < rows; n++ {
		ids.Insert(int64(n + 1))
		names.Insert(fmt.Sprintf("user-%04d", n))
		if err := codes.Insert([]byte(fmt.Sprintf("%03d", n%1000))); err != nil {
			return nil, err
		}
		scores.Insert(float64(n) / 4)
		nulls[n] = n%3 == 2
		prices[n] = decimal128.FromI64(int64(n*125 - 500))
		for t := 0; t < n%3; t++ {
			tags.Insert(fmt.Sprintf("t%d", t))
		}
		offsets[n] = tags.Size()
		if n%10 == 0 {
			if err := hits.Insert(uint32(n), n); err != nil {
				return nil, err
			}
		}
	}
	if err := hits.Resize(rows); err != nil {
		return nil, err
	}

	score, err := columnar.NewNullable(scores, nulls)
	if err != nil {
		return nil, err
	}
	price, err := columnar.NewDecimal(18, 2, prices)
	if err != nil {
		return nil, err
	}
	tagList, err := columnar.NewArray(tags, offsets)
	if err != nil {
		return nil, err
	}
	region := columnar.NewString()
	region.Insert("eu-west")
	regions, err := columnar.NewConst(region, rows)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		c    columnar.Column
	}{
		{"id", ids},
		{"name", names},
		{"code", codes},
		{"score", score},
		{"price", price},
		{"tags", tagList},
		{"region", regions},
		{"hits", hits},
	} {
		if err := b.AddColumn(col.name, col.c); err != nil {
			return nil, err
		}
	}
	return b, nil
}
