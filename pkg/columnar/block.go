package columnar

import (
	"go.uber.org/zap"

	"github.com/protondb/proton/pkg/errors"
	"github.com/protondb/proton/pkg/field"
	"github.com/protondb/proton/pkg/logger"
	"github.com/protondb/proton/pkg/metrics"
	"github.com/protondb/proton/pkg/pool"
)

// Block is a batch of named columns of equal length, one per output field.
//
// A block is built by a single goroutine and then shared read-only; it has
// no internal locking.
type Block struct {
	names     []string
	columns   []Column
	index     map[string]int
	rowCount  int
	logger    *zap.Logger
	collector *metrics.Collector
}

// BlockOption configures a Block.
type BlockOption func(*Block)

// WithLogger sets the logger used for materialization events.
func WithLogger(l *zap.Logger) BlockOption {
	return func(b *Block) { b.logger = logger.OrNop(l) }
}

// WithCollector records materialization metrics into c.
func WithCollector(c *metrics.Collector) BlockOption {
	return func(b *Block) { b.collector = c }
}

// NewBlock creates an empty block.
func NewBlock(opts ...BlockOption) *Block {
	b := &Block{
		index:  make(map[string]int),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddColumn appends a named column. Every column must have the same number
// of rows as the ones already added.
func (b *Block) AddColumn(name string, c Column) error {
	if c == nil {
		return errors.New(errors.ErrorTypeValidation, "column "+name+" is nil")
	}
	if _, exists := b.index[name]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "column %q already exists", name)
	}
	if len(b.columns) > 0 && c.Size() != b.rowCount {
		return errors.Malformed(c.FamilyName(), "column %q has %d rows, block has %d", name, c.Size(), b.rowCount)
	}

	b.index[name] = len(b.columns)
	b.names = append(b.names, name)
	b.columns = append(b.columns, c)
	b.rowCount = c.Size()
	return nil
}

// Column retrieves a column by name.
func (b *Block) Column(name string) (Column, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return b.columns[i], true
}

// ColumnAt retrieves the i-th column.
func (b *Block) ColumnAt(i int) (Column, error) {
	if i < 0 || i >= len(b.columns) {
		return nil, errors.Newf(errors.ErrorTypeIndexOutOfBounds, "column %d out of range [0, %d)", i, len(b.columns))
	}
	return b.columns[i], nil
}

// ColumnNames returns the column names in insertion order.
func (b *Block) ColumnNames() []string {
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

// RowCount returns the number of rows
func (b *Block) RowCount() int { return b.rowCount }

// ColumnCount returns the number of columns
func (b *Block) ColumnCount() int { return len(b.columns) }

// Row extracts row n as one field per column.
func (b *Block) Row(n int) ([]field.Field, error) {
	row := make([]field.Field, len(b.columns))
	for i, c := range b.columns {
		if err := c.Get(n, &row[i]); err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "column "+b.names[i])
		}
	}
	return row, nil
}

// ReadRow is Row reusing the caller's buffer. See pool.GetRow.
func (b *Block) ReadRow(n int, row *pool.Row) error {
	row.Reset(len(b.columns))
	for i, c := range b.columns {
		if err := c.Get(n, &row.Fields[i]); err != nil {
			return errors.Wrap(err, errors.TypeOf(err), "column "+b.names[i])
		}
	}
	return nil
}

// Materialize returns a block in which every column has been converted with
// ToFullColumn.
func (b *Block) Materialize() (*Block, error) {
	out := &Block{
		names:     append([]string(nil), b.names...),
		columns:   make([]Column, len(b.columns)),
		index:     make(map[string]int, len(b.index)),
		rowCount:  b.rowCount,
		logger:    b.logger,
		collector: b.collector,
	}
	for name, i := range b.index {
		out.index[name] = i
	}

	for i, c := range b.columns {
		timer := metrics.NewTimer("materialize")
		full, err := c.ToFullColumn()
		if err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "materialize column "+b.names[i])
		}
		out.columns[i] = full
		b.collector.ObserveMaterialization(c.FamilyName(), full.Size())
		b.logger.Debug("column materialized",
			zap.String("column", b.names[i]),
			zap.String("from", c.Name()),
			zap.String("to", full.Name()),
			zap.Int("rows", full.Size()),
			zap.Duration("duration", timer.Stop()))
	}
	return out, nil
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	out := &Block{
		names:     append([]string(nil), b.names...),
		columns:   make([]Column, len(b.columns)),
		index:     make(map[string]int, len(b.index)),
		rowCount:  b.rowCount,
		logger:    b.logger,
		collector: b.collector,
	}
	for name, i := range b.index {
		out.index[name] = i
	}
	for i, c := range b.columns {
		out.columns[i] = c.Clone()
	}
	return out
}

// Iterator returns a row iterator
func (b *Block) Iterator() *Iterator {
	return &Iterator{block: b, current: -1}
}

// Iterator walks the rows of a block in order.
type Iterator struct {
	block   *Block
	current int
}

// Next advances to the next row
func (it *Iterator) Next() bool {
	it.current++
	return it.current < it.block.rowCount
}

// Index returns the current row index
func (it *Iterator) Index() int { return it.current }

// Row returns the current row
func (it *Iterator) Row() ([]field.Field, error) {
	return it.block.Row(it.current)
}

// Reset resets the iterator to the beginning
func (it *Iterator) Reset() { it.current = -1 }

// BatchIterator returns an iterator over row ranges of at most batchSize
// rows.
func (b *Block) BatchIterator(batchSize int) *BatchIterator {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchIterator{rowCount: b.rowCount, batchSize: batchSize}
}

// BatchIterator yields consecutive [lo, hi) row ranges.
type BatchIterator struct {
	rowCount  int
	batchSize int
	lo, hi    int
}

// Next advances to the next range
func (it *BatchIterator) Next() bool {
	if it.hi >= it.rowCount {
		return false
	}
	it.lo = it.hi
	it.hi = min(it.lo+it.batchSize, it.rowCount)
	return true
}

// Range returns the current half-open row range.
func (it *BatchIterator) Range() (lo, hi int) { return it.lo, it.hi }
