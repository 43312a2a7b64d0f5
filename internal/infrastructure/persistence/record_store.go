package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fms/backend/internal/domain/numbering"
	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/infrastructure/telemetry"
)

// DefaultMaxAttempts bounds allocation retries after number collisions
const DefaultMaxAttempts = 5

const (
	flagYes = "Y"
	flagNo  = "N"
)

// RecordStore implements resource.Store over one gorm connection
type RecordStore struct {
	db          *gorm.DB
	logger      *zap.Logger
	maxAttempts int
	now         func() time.Time
	metrics     *telemetry.DocumentMetrics
}

var _ resource.Store = (*RecordStore)(nil)

// StoreOption configures a RecordStore
type StoreOption func(*RecordStore)

// WithClock sets the clock used for audit stamps and number periods
func WithClock(now func() time.Time) StoreOption {
	return func(s *RecordStore) {
		s.now = now
	}
}

// WithMaxAttempts bounds allocation retries
func WithMaxAttempts(n int) StoreOption {
	return func(s *RecordStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithDocumentMetrics records creation and allocation metrics
func WithDocumentMetrics(m *telemetry.DocumentMetrics) StoreOption {
	return func(s *RecordStore) {
		s.metrics = m
	}
}

// NewRecordStore creates a store on db
func NewRecordStore(db *Database, l *zap.Logger, opts ...StoreOption) *RecordStore {
	if l == nil {
		l = zap.NewNop()
	}
	s := &RecordStore{
		db:          db.DB,
		logger:      l.Named("record_store"),
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create provisions the parent when the child carries no reference to one,
// then allocates the document number and inserts the record. Everything runs
// in one transaction.
func (s *RecordStore) Create(ctx context.Context, def *resource.Definition, rec resource.Record, actor shared.Actor) (resource.Created, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "record_store", "create", telemetry.SpanAttrResource, def.Path)
	defer span.End()

	now := s.now().UTC()
	var out resource.Created
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p := def.Parent; p != nil {
			ref, _ := def.FieldByName(p.Field)
			if v, ok := rec[ref.Column]; !ok || v == nil {
				parent, err := s.insert(ctx, tx, p.Parent, p.Seed(rec), actor, now)
				if err != nil {
					return err
				}
				rec = withColumn(rec, ref.Column, parent.ID)
				out.ParentID = parent.ID
				logger.Enrich(ctx, s.logger).Debug("parent provisioned",
					zap.String("resource", def.Path),
					zap.String("parent", p.Parent.Path),
					zap.Int64("parent_id", parent.ID),
				)
			}
		}

		created, err := s.insert(ctx, tx, def, rec, actor, now)
		if err != nil {
			return err
		}
		out.ID = created.ID
		out.DocumentNumber = created.DocumentNumber
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return resource.Created{}, storeError("create "+def.Name, err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrRecordID, out.ID, telemetry.SpanAttrDocumentNumber, out.DocumentNumber)
	s.metrics.RecordCreated(ctx, def.Path)
	return out, nil
}

// insert writes one row, allocating its number when the resource is numbered
func (s *RecordStore) insert(ctx context.Context, tx *gorm.DB, def *resource.Definition, rec resource.Record, actor shared.Actor, now time.Time) (resource.Created, error) {
	row := s.newRow(def, rec, actor, now)

	if !def.Numbered() {
		id, err := insertRow(tx, def.Table, row)
		if isDuplicate(err) {
			return resource.Created{}, shared.NewConflictError(shared.CodeAlreadyExists, def.Name+" already exists")
		}
		return resource.Created{ID: id}, err
	}

	b := def.Numbering.BucketFor(def.DynamicPrefix(rec), now)
	return s.insertNumbered(ctx, tx, def, b, row, now)
}

func (s *RecordStore) insertNumbered(ctx context.Context, tx *gorm.DB, def *resource.Definition, b numbering.Bucket, row resource.Record, now time.Time) (resource.Created, error) {
	started := time.Now()
	log := logger.Enrich(ctx, s.logger).With(zap.String("resource", def.Path), zap.Stringer("bucket", b))

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		seq, err := nextSequence(tx, def, b, now)
		if err != nil {
			s.metrics.RecordAllocation(ctx, b.Prefix, attempt, telemetry.OutcomeFailed, time.Since(started))
			return resource.Created{}, err
		}
		number := def.Numbering.Format(b, seq)
		row[def.NumberColumn] = number

		var id int64
		err = tx.Transaction(func(sp *gorm.DB) error {
			var insertErr error
			id, insertErr = insertRow(sp, def.Table, row)
			return insertErr
		})
		if err == nil {
			s.metrics.RecordAllocation(ctx, b.Prefix, attempt, telemetry.OutcomeAllocated, time.Since(started))
			return resource.Created{ID: id, DocumentNumber: number}, nil
		}
		if !isDuplicate(err) {
			s.metrics.RecordAllocation(ctx, b.Prefix, attempt, telemetry.OutcomeFailed, time.Since(started))
			return resource.Created{}, err
		}

		taken, cerr := numberTaken(tx, def, number)
		if cerr != nil {
			return resource.Created{}, cerr
		}
		if !taken {
			// the violation came from another unique column
			return resource.Created{}, shared.NewConflictError(shared.CodeAlreadyExists, def.Name+" already exists")
		}
		log.Debug("document number taken, retrying", zap.String("number", number), zap.Int("attempt", attempt))
	}

	s.metrics.RecordAllocation(ctx, b.Prefix, s.maxAttempts, telemetry.OutcomeExhausted, time.Since(started))
	log.Warn("document number allocation exhausted", zap.Int("attempts", s.maxAttempts))
	return resource.Created{}, shared.NewConflictError(shared.CodeDocumentNumberConflict,
		fmt.Sprintf("could not allocate a %s number after %d attempts", def.Name, s.maxAttempts))
}

func (s *RecordStore) newRow(def *resource.Definition, rec resource.Record, actor shared.Actor, now time.Time) resource.Record {
	row := make(resource.Record, len(rec)+len(def.Fixed)+4)
	for k, v := range rec {
		row[k] = v
	}
	for k, v := range def.Fixed {
		row[k] = v
	}
	row[resource.ColumnCreatedBy] = actor.String()
	row[resource.ColumnCreatedAt] = now
	if def.SoftDeletes() {
		row[resource.ColumnDeleted] = flagNo
	}
	return row
}

// insertRow inserts row and returns the generated id. Columns are sorted so
// the statement text is stable for prepared statement caching.
func insertRow(tx *gorm.DB, table string, row resource.Record) (int64, error) {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))

	var id int64
	res := tx.Raw(stmt, args...).Scan(&id)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 || id == 0 {
		return 0, fmt.Errorf("insert into %s returned no id", table)
	}
	return id, nil
}

func numberTaken(tx *gorm.DB, def *resource.Definition, number string) (bool, error) {
	var n int64
	if err := tx.Table(def.Table).Where(def.NumberColumn+" = ?", number).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns live rows matching q in the resource's order
func (s *RecordStore) List(ctx context.Context, def *resource.Definition, q resource.Query) ([]map[string]any, error) {
	tx := s.selectRows(ctx, def)
	tx = applyConditions(tx, q.Conditions)
	if q.Search != "" {
		tx = applySearch(tx, def, q.Search)
	}
	for _, o := range def.OrderTerms() {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("t.%s %s", o.Column, dir))
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	rows := make([]map[string]any, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, storeError("list "+def.Name, err)
	}
	return rows, nil
}

// Get returns one live row
func (s *RecordStore) Get(ctx context.Context, def *resource.Definition, id int64) (map[string]any, error) {
	var rows []map[string]any
	if err := s.selectRows(ctx, def).Where("t.id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, storeError("get "+def.Name, err)
	}
	if len(rows) == 0 {
		return nil, shared.NewNotFoundError(def.Name, id)
	}
	return rows[0], nil
}

// Update writes rec and the audit stamp. Soft-deleted rows are not found.
func (s *RecordStore) Update(ctx context.Context, def *resource.Definition, id int64, rec resource.Record, actor shared.Actor) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := s.live(tx, def).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return shared.NewNotFoundError(def.Name, id)
		}
		if len(rec) == 0 {
			return nil
		}

		values := make(map[string]any, len(rec)+2)
		for k, v := range rec {
			values[k] = v
		}
		values[resource.ColumnUpdatedBy] = actor.String()
		values[resource.ColumnUpdatedAt] = s.now().UTC()
		err := s.live(tx, def).Where("id = ?", id).Updates(values).Error
		if isDuplicate(err) {
			return shared.NewConflictError(shared.CodeAlreadyExists, def.Name+" already exists")
		}
		return err
	})
	return storeError("update "+def.Name, err)
}

// Delete flags or removes the given ids and reports how many rows changed.
// Ids that are missing or already deleted are skipped.
func (s *RecordStore) Delete(ctx context.Context, def *resource.Definition, ids []int64, actor shared.Actor) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var res *gorm.DB
	if def.SoftDeletes() {
		res = s.live(s.db.WithContext(ctx), def).
			Where("id IN ?", ids).
			Updates(map[string]any{
				resource.ColumnDeleted:   flagYes,
				resource.ColumnUpdatedBy: actor.String(),
				resource.ColumnUpdatedAt: s.now().UTC(),
			})
	} else {
		stmt := fmt.Sprintf("DELETE FROM %s WHERE id IN ?", def.Table)
		args := []any{ids}
		for _, col := range sortedFixed(def) {
			stmt += " AND " + col + " = ?"
			args = append(args, def.Fixed[col])
		}
		res = s.db.WithContext(ctx).Exec(stmt, args...)
	}
	if res.Error != nil {
		return 0, storeError("delete "+def.Name, res.Error)
	}
	return res.RowsAffected, nil
}

// Count returns the number of live rows matching conds
func (s *RecordStore) Count(ctx context.Context, def *resource.Definition, conds []resource.Condition) (int64, error) {
	tx := s.db.WithContext(ctx).Table(def.Table + " AS t")
	tx = scopeLive(tx, def, "t.")
	tx = applyConditions(tx, conds)

	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, storeError("count "+def.Name, err)
	}
	return n, nil
}

// selectRows builds the enriched select: every resource column plus the
// lookup columns under their aliases, joined with LEFT JOIN so a dangling
// reference yields nulls.
func (s *RecordStore) selectRows(ctx context.Context, def *resource.Definition) *gorm.DB {
	cols := []string{"t.*"}
	tx := s.db.WithContext(ctx).Table(def.Table + " AS t")
	for _, l := range def.Lookups {
		tx = tx.Joins(fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = t.%s",
			l.Table, l.Alias, l.Alias, l.ForeignColumn, l.LocalColumn))
		for _, f := range l.Fields {
			cols = append(cols, fmt.Sprintf("%s.%s AS %s", l.Alias, f.Column, l.SelectAlias(f)))
		}
	}
	tx = tx.Select(strings.Join(cols, ", "))
	return scopeLive(tx, def, "t.")
}

// live scopes an unaliased statement on the resource table
func (s *RecordStore) live(tx *gorm.DB, def *resource.Definition) *gorm.DB {
	return scopeLive(tx.Table(def.Table), def, "")
}

func scopeLive(tx *gorm.DB, def *resource.Definition, qualifier string) *gorm.DB {
	if def.SoftDeletes() {
		tx = tx.Where(fmt.Sprintf("(%s%s IS NULL OR %s%s <> ?)", qualifier, resource.ColumnDeleted, qualifier, resource.ColumnDeleted), flagYes)
	}
	for _, col := range sortedFixed(def) {
		tx = tx.Where(qualifier+col+" = ?", def.Fixed[col])
	}
	return tx
}

func applyConditions(tx *gorm.DB, conds []resource.Condition) *gorm.DB {
	for _, c := range conds {
		col := "t." + c.Column
		switch c.Op {
		case resource.OpEq:
			tx = tx.Where(col+" = ?", c.Value)
		case resource.OpContains:
			tx = tx.Where(col+` LIKE ? ESCAPE '\'`, "%"+numbering.EscapeLike(fmt.Sprint(c.Value))+"%")
		case resource.OpPrefix:
			tx = tx.Where(col+` LIKE ? ESCAPE '\'`, numbering.EscapeLike(fmt.Sprint(c.Value))+"%")
		case resource.OpGte:
			tx = tx.Where(col+" >= ?", c.Value)
		case resource.OpLte:
			tx = tx.Where(col+" <= ?", c.Value)
		case resource.OpLt:
			tx = tx.Where(col+" < ?", c.Value)
		case resource.OpIn:
			tx = tx.Where(col+" IN ?", c.Value)
		}
	}
	return tx
}

// applySearch matches the term case-insensitively against the number column
// and the resource's search columns
func applySearch(tx *gorm.DB, def *resource.Definition, term string) *gorm.DB {
	cols := make([]string, 0, len(def.SearchColumns)+1)
	if def.Numbered() {
		cols = append(cols, def.NumberColumn)
	}
	cols = append(cols, def.SearchColumns...)
	if len(cols) == 0 {
		return tx
	}

	pattern := "%" + strings.ToLower(numbering.EscapeLike(term)) + "%"
	clauses := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		clauses[i] = fmt.Sprintf(`LOWER(t.%s) LIKE ? ESCAPE '\'`, c)
		args[i] = pattern
	}
	return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func sortedFixed(def *resource.Definition) []string {
	cols := make([]string, 0, len(def.Fixed))
	for c := range def.Fixed {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func withColumn(rec resource.Record, column string, v any) resource.Record {
	out := make(resource.Record, len(rec)+1)
	for k, val := range rec {
		out[k] = val
	}
	out[column] = v
	return out
}

// storeError passes domain errors through and wraps everything else
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return shared.NewStoreError(op, err)
}
